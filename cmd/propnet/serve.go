package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/propnet/internal/cli"
	"github.com/aretw0/propnet/internal/presentation/tui"
	httpAdapter "github.com/aretw0/propnet/pkg/adapters/http"
	"github.com/aretw0/propnet/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the solver as a JSON API:

  POST /solve        solve a problem {"constraints": [...], "values": [...], "constants": [...]}
  GET  /constraints  list constraint kinds

  POST   /networks              keep a network alive (same body as /solve, optional "id")
  GET    /networks              list live networks
  GET    /networks/{id}         last solution of a live network
  POST   /networks/{id}/values  add information {"values": ["f=212"]} and run again
  DELETE /networks/{id}         drop a live network

  GET  /events       server-sent cell changes (?network_id= to follow one network)
  GET  /metrics      Prometheus metrics
  GET  /health, /info`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applySchedulerFlags(cmd, &cfg); err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		solver := cli.NewSolver(cfg, logger)
		solver.Hooks = observability.NewMetrics(reg).Hooks()

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           httpAdapter.NewHandler(solver, reg),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(cmd.ErrOrStderr())
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting propnet server", "addr", srv.Addr, "policy", cfg.Policy, "workers", cfg.Workers)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutdown started", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("killing server: %w", err)
				}
			}
			logger.Info("propnet server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides the config file)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
	addSchedulerFlags(serveCmd)
}
