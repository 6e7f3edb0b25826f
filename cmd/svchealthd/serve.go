package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/svchealth/auth"
	"github.com/jonwraymond/svchealth/health"
	"github.com/jonwraymond/svchealth/observe"
	"github.com/jonwraymond/svchealth/schedule"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the health HTTP server",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, configPath, true)
	if err != nil {
		return exitErrorf(exitRuntime, "%v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.close(shutdownCtx); err != nil {
			a.logger.Error(shutdownCtx, "shutdown cleanup failed", observe.Field{Key: "error", Value: err.Error()})
		}
	}()

	source := configPath
	if source == "" {
		source = "defaults"
	}
	a.logger.Info(ctx, "configuration loaded",
		observe.Field{Key: "source", Value: source},
		observe.Field{Key: "services", Value: a.monitor.RegisteredServices()},
	)

	handler, err := a.routes()
	if err != nil {
		return exitErrorf(exitConfig, "%v", err)
	}

	if cfg.Health.Refresh.Enabled {
		refresher, err := schedule.NewRefresher(schedule.Config{
			Monitor:   a.monitor,
			Cron:      cfg.Health.Refresh.Cron,
			Interval:  cfg.Health.Refresh.Interval,
			Publisher: a.publisher,
			Logger:    a.logger,
		})
		if err != nil {
			return exitErrorf(exitConfig, "creating refresher: %v", err)
		}
		if err := refresher.Start(ctx); err != nil {
			return exitErrorf(exitRuntime, "starting refresher: %v", err)
		}
		defer func() {
			_ = refresher.Stop(context.Background())
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "listening", observe.Field{Key: "addr", Value: srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		a.logger.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return exitErrorf(exitRuntime, "shutdown error: %v", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return exitErrorf(exitRuntime, "server error: %v", err)
		}
		return nil
	}
}

// routes builds the health router, guarding admin routes when credentials
// are configured.
func (a *app) routes() (http.Handler, error) {
	authn, err := a.cfg.Auth.Authenticator()
	if err != nil {
		return nil, fmt.Errorf("building authenticator: %w", err)
	}

	var admin func(http.Handler) http.Handler
	if authn != nil {
		admin = auth.Middleware(authn, auth.MiddlewareConfig{
			RequiredRole: a.cfg.Auth.AdminRole,
			Logger:       a.logger,
		})
	} else {
		a.logger.Warn(context.Background(), "admin routes are unauthenticated")
	}

	return health.Routes(a.monitor, health.RoutesConfig{
		CriticalServices: a.cfg.Health.Critical,
		Admin:            admin,
		AdminRateLimit:   a.cfg.Server.AdminRateLimit,
		RequestTimeout:   a.cfg.Server.RequestTimeout,
	}), nil
}
