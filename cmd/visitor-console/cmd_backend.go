package main

import (
	"os"
	"os/signal"
	"syscall"

	"visitor-console/internal/backend"
	"visitor-console/internal/catalog"
	"visitor-console/internal/store"
	"visitor-console/pkg/router"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var bareVisits bool

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Serve a local stand-in of the visitor API",
	Long: `Serves the visitor API routes (/equipment, /visits, /qualifications,
/users, /tiger_training) backed by a sqlite file, enforcing the same request
body rules as the hosted API.`,
	Args: cobra.NoArgs,
	RunE: runBackend,
}

func init() {
	backendCmd.Flags().BoolVar(&bareVisits, "bare-visits", false, "Answer visit lists with a bare JSON array")
}

func runBackend(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Backend.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := []backend.Option{backend.WithAPIKey(cfg.Backend.Key)}
	if bareVisits {
		opts = append(opts, backend.WithBareVisits())
	}
	r := router.New(logger)
	backend.NewServer(st, cat, logger, opts...).RegisterRoutes(r)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("visitor API stand-in starting",
		zap.String("addr", cfg.BackendAddr()),
		zap.String("database", cfg.Backend.DatabasePath),
	)
	return serveUntilDone(ctx, r.Server(cfg.BackendAddr()), cfg.GetShutdownTimeout())
}
