package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"pacecalc/internal/analysis"
	"pacecalc/internal/store"
	"pacecalc/internal/strava"
)

// DefaultImportWindow is how far back the first import looks
const DefaultImportWindow = 90 * 24 * time.Hour

// ActivitySource lists Strava activities. *strava.Client implements it.
type ActivitySource interface {
	GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]strava.Activity, error)
}

// ImportProgress reports progress during an import
type ImportProgress struct {
	Phase   string // "fetching", "saving"
	Fetched int
	Saved   int
}

// ImportResult summarizes an import
type ImportResult struct {
	ActivitiesFetched int
	RunsMatched       int // runs within tolerance of a standard distance
	TrialsSaved       int // new trials; previously imported runs are skipped
	Best              *store.TimeTrial
	BestVDOT          float64
	Errors            []error
}

// ImportService turns recent Strava runs at standard race distances into
// time trials.
type ImportService struct {
	source ActivitySource
	store  *store.Store
	log    zerolog.Logger
	now    func() time.Time
	window time.Duration
}

// NewImportService creates an import service
func NewImportService(source ActivitySource, st *store.Store, log zerolog.Logger) *ImportService {
	return &ImportService{
		source: source,
		store:  st,
		log:    log,
		now:    time.Now,
		window: DefaultImportWindow,
	}
}

// Import fetches activities since the last import (or the default window on
// the first run), stores every run that matches a standard distance and
// reports the fastest one by VDOT. progress, if non-nil, is closed on return.
func (s *ImportService) Import(ctx context.Context, progress chan<- ImportProgress) (*ImportResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &ImportResult{}
	now := s.now()

	after := now.Add(-s.window)
	if last, err := s.store.GetSyncState(ctx, store.KeyLastImport); err != nil {
		return result, fmt.Errorf("reading last import: %w", err)
	} else if last != "" {
		if t, err := time.Parse(time.RFC3339, last); err == nil {
			after = t
		} else {
			s.log.Warn().Str("value", last).Msg("ignoring unparseable last import time")
		}
	}

	send := func(p ImportProgress) {
		if progress == nil {
			return
		}
		select {
		case progress <- p:
		case <-ctx.Done():
		}
	}

	send(ImportProgress{Phase: "fetching"})
	activities, err := s.source.GetAllActivities(ctx, after, func(fetched int) {
		send(ImportProgress{Phase: "fetching", Fetched: fetched})
	})
	if err != nil {
		return result, fmt.Errorf("fetching activities: %w", err)
	}
	result.ActivitiesFetched = len(activities)

	for _, a := range activities {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		trial, ok := trialFromActivity(a)
		if !ok {
			continue
		}
		result.RunsMatched++

		inserted, err := s.store.SaveTrial(ctx, trial)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("saving activity %d: %w", a.ID, err))
			continue
		}
		if inserted {
			result.TrialsSaved++
		}

		if vdot := analysis.CalculateVDOT(trial.DistanceMeters, trial.TimeSeconds); vdot > result.BestVDOT {
			result.BestVDOT = vdot
			result.Best = trial
		}

		send(ImportProgress{Phase: "saving", Fetched: result.ActivitiesFetched, Saved: result.TrialsSaved})
	}

	if err := s.store.SetSyncState(ctx, store.KeyLastImport, now.UTC().Format(time.RFC3339)); err != nil {
		return result, fmt.Errorf("recording import time: %w", err)
	}

	s.log.Info().
		Int("fetched", result.ActivitiesFetched).
		Int("matched", result.RunsMatched).
		Int("saved", result.TrialsSaved).
		Float64("best_vdot", result.BestVDOT).
		Msg("strava import finished")

	return result, nil
}

// trialFromActivity converts a run at a standard distance into a trial
func trialFromActivity(a strava.Activity) (*store.TimeTrial, bool) {
	if !a.IsRun() || a.MovingTime <= 0 {
		return nil, false
	}

	target, ok := analysis.MatchStandardDistance(a.Distance)
	if !ok {
		return nil, false
	}

	id := a.ID
	return &store.TimeTrial{
		Label:          fmt.Sprintf("%s (%s)", a.Name, target.Name),
		DistanceMeters: a.Distance,
		TimeSeconds:    float64(a.MovingTime),
		Source:         store.SourceStrava,
		ExternalID:     &id,
		RecordedAt:     a.StartDate,
	}, true
}
