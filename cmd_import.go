package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pacecalc/internal/auth"
	"pacecalc/internal/service"
	"pacecalc/internal/store"
	"pacecalc/internal/strava"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import recent races from Strava as time trials",
	Long: `Fetch runs since the last import (90 days on the first run) and save every
run within 5% of a standard race distance to history. The first import opens
the Strava authorization page; tokens are stored and refreshed afterwards.`,
	RunE: runImport,
}

var importReauth bool

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importReauth, "reauth", false, "ignore stored tokens and authorize again")
}

// errNotConnected means no Strava tokens are stored yet
var errNotConnected = errors.New("strava is not connected (run \"pacecalc import\" once to authorize)")

// newStravaClient builds an API client from stored tokens. With interactive
// set, a missing or rejected token starts the browser authorization flow.
func newStravaClient(ctx context.Context, a *app, interactive bool) (*strava.Client, error) {
	if err := a.cfg.ValidateStrava(); err != nil {
		return nil, err
	}
	oauthCfg := auth.NewOAuthConfig(a.cfg.Strava)

	stored, err := a.store.GetAuth(ctx)
	if importReauth && interactive {
		err = store.ErrNoAuth
	}
	switch {
	case errors.Is(err, store.ErrNoAuth) && interactive:
		stored, err = authorize(ctx, a)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, store.ErrNoAuth):
		return nil, errNotConnected
	case err != nil:
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	ts := auth.NewTokenSource(oauthCfg, auth.TokenFromAuth(stored), a.store, a.log)
	if _, err := ts.Token(); err != nil {
		if !interactive {
			return nil, fmt.Errorf("refreshing strava token: %w", err)
		}
		a.log.Warn().Err(err).Msg("stored token rejected, re-authorizing")
		if stored, err = authorize(ctx, a); err != nil {
			return nil, err
		}
		ts = auth.NewTokenSource(oauthCfg, auth.TokenFromAuth(stored), a.store, a.log)
	}

	return strava.NewClient(ctx, ts), nil
}

func authorize(ctx context.Context, a *app) (*store.Auth, error) {
	result, err := auth.Authenticate(ctx, auth.NewOAuthConfig(a.cfg.Strava), auth.DefaultOptions(rootCmd.OutOrStdout()))
	if err != nil {
		return nil, fmt.Errorf("authorizing with strava: %w", err)
	}

	stored := result.StoreAuth()
	if err := a.store.SaveAuth(ctx, stored); err != nil {
		return nil, fmt.Errorf("saving auth: %w", err)
	}

	a.log.Info().Int64("athlete_id", result.AthleteID).Msg("connected to strava")
	fmt.Fprintf(rootCmd.OutOrStdout(), "Connected to Strava as athlete %d\n", result.AthleteID)
	return stored, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	if noHistory {
		return errors.New("import needs the history database (drop --no-history)")
	}

	a, err := setup(setupOptions{history: true})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	client, err := newStravaClient(ctx, a, true)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	progress := make(chan service.ImportProgress)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			fmt.Fprintf(w, "\r%-8s fetched %d, saved %d", p.Phase, p.Fetched, p.Saved)
		}
		fmt.Fprintln(w)
	}()

	res, err := service.NewImportService(client, a.store, a.log).Import(ctx, progress)
	<-done
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Fetched %d activities, %d runs at race distances, %d new trials\n",
		res.ActivitiesFetched, res.RunsMatched, res.TrialsSaved)
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  warning: %v\n", e)
	}

	if res.Best == nil {
		return nil
	}

	fmt.Fprintf(w, "Best: %s, VDOT %.1f\n\n", res.Best.Label, res.BestVDOT)
	report, err := a.calc.Calculate(ctx, service.PaceRequest{
		DistanceMeters: res.Best.DistanceMeters,
		TimeSeconds:    res.Best.TimeSeconds,
	})
	if err != nil {
		return err
	}
	printReport(w, a.units, res.Best.DistanceMeters, res.Best.TimeSeconds, report)

	short, daily := client.RateLimitStatus()
	a.log.Debug().Int("short_remaining", short).Int("daily_remaining", daily).Msg("strava rate limit")
	return nil
}
