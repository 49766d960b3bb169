package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wayfarer-labs/itinerary-planner/internal/api"
	logx "github.com/wayfarer-labs/itinerary-planner/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Starts the itinerary planner HTTP API with health and Prometheus metrics endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			appCfg.HTTP.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, appCfg)
		if err != nil {
			return err
		}
		defer a.Close()

		router := api.SetupRouter(&api.Config{
			ItineraryHandler: api.NewItineraryHandler(a.runner, a.sessions),
			Gatherer:         a.registry,
			AllowedOrigins:   appCfg.HTTP.AllowedOrigins,
			RequestTimeout:   appCfg.HTTP.RequestTimeout,
		})

		srv := &http.Server{
			Addr:              appCfg.HTTP.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logx.Info().Str("addr", srv.Addr).Msg("Starting itinerary planner server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logx.Info().Msg("Shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logx.Warn().Err(err).Dur("timeout", shutdownTimeout).Msg("Graceful shutdown did not complete")
				return srv.Close()
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return err
		}
		logx.Info().Msg("Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides HTTP_ADDR)")
}
