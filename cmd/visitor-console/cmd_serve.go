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

	"visitor-console/internal/api"
	"visitor-console/internal/api/handler"
	"visitor-console/internal/auth"
	"visitor-console/internal/catalog"
	"visitor-console/internal/client"
	"visitor-console/internal/form"
	"visitor-console/internal/logcache"
	"visitor-console/internal/model"
	"visitor-console/internal/session"
	"visitor-console/pkg/router"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the visitor console",
	Long: `Serves the console API under /api/v1 and, when enabled, the Swagger UI
under /swagger/. Form and admin sessions live in memory and expire after
their idle TTL.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	if cfg.Admin.Password == "" {
		logger.Warn("admin password not set, admin sign-in is disabled")
	}

	gate := auth.New(auth.Credentials{Username: cfg.Admin.Username, Password: cfg.Admin.Password}, cfg.GetCookieTTL())
	forms := session.NewStore[*form.Controller](cfg.GetSessionTTL())
	deps := &handler.Deps{
		Logger:    logger,
		Catalog:   cat,
		Form:      form.EquipmentForm(cat),
		Remote:    client.New(cfg.API.Endpoint, cfg.API.Key, cfg.GetAPITimeout()),
		Auth:      gate,
		Forms:     forms,
		Equipment: &logcache.Cache[model.EquipmentLog]{},
		Visits:    &logcache.Cache[model.Visit]{},
		Limit:     cfg.API.Limit,
	}

	r := router.New(logger)
	api.RegisterRoutes(r, deps, gate, cfg.Server.Swagger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("visitor console starting",
		zap.String("addr", cfg.Addr()),
		zap.String("api_endpoint", cfg.API.Endpoint),
	)
	return serveUntilDone(ctx, r.Server(cfg.Addr()), cfg.GetShutdownTimeout(),
		func(ctx context.Context) { forms.Run(ctx, cfg.GetSweepInterval()) },
		func(ctx context.Context) { gate.Run(ctx, cfg.GetSweepInterval()) },
	)
}

// serveUntilDone runs srv and the background loops until ctx is done or the
// listener fails, then shuts srv down within timeout.
func serveUntilDone(ctx context.Context, srv *http.Server, timeout time.Duration, background ...func(context.Context)) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve on %s: %w", srv.Addr, err)
		}
		return nil
	})
	for _, run := range background {
		g.Go(func() error {
			run(ctx)
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logger.Info("shutting down", zap.String("addr", srv.Addr))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	})

	return g.Wait()
}
