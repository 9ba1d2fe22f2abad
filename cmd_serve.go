package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pacecalc/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator as a JSON HTTP API",
	Long: `Serve the calculator over HTTP. Routes live under /v1; /healthz reports
liveness and /metrics exposes Prometheus metrics.`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup(setupOptions{history: true, console: true})
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info().Str("addr", addr).Bool("history", a.store != nil).Msg("starting api server")
	return api.New(a.calc, a.log).ListenAndServe(ctx, addr)
}
