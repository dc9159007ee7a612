package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"ops-portal.com/ops-portal/internal/auth"
	httpapi "ops-portal.com/ops-portal/internal/http"
	"ops-portal.com/ops-portal/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the operations portal HTTP API and the overdue task sweep",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.cfg.RequireJWTSecret(); err != nil {
			return err
		}

		svc, err := a.services()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sweep := services.NewSweepService(svc.tasks, a.cfg.SweepInterval(), a.log.With("component", "sweep"))
		sweep.Start()

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		handler := httpapi.NewHandler(httpapi.Services{
			Sessions:  svc.sessions,
			Tasks:     svc.tasks,
			Incidents: svc.incidents,
			Alerts:    svc.alerts,
			Overtime:  svc.overtime,
		}, a.log)
		httpapi.Register(e, handler, httpapi.RouteOptions{
			Tokens:             auth.NewTokenManager(a.cfg.JWTSecret, a.cfg.TokenTTL),
			RateLimitPerMinute: a.cfg.RateLimit,
			Log:                a.log.With("component", "http"),
		})

		go func() {
			a.log.Info(ctx, "HTTP server listening", "addr", a.cfg.AppURL())
			if err := e.Start(a.cfg.AppURL()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error(ctx, "server stopped", "error", err)
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			a.log.Warn(shutdownCtx, "HTTP server shutdown", "error", err)
		}
		sweep.Shutdown(shutdownCtx)

		a.log.Info(shutdownCtx, "HTTP server and sweep worker shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
