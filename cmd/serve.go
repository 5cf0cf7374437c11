package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/billbatista/acasinha-splits/api"
	"github.com/billbatista/acasinha-splits/config"
	"github.com/billbatista/acasinha-splits/eventlogger"
	"github.com/billbatista/acasinha-splits/ledger"
	"github.com/billbatista/acasinha-splits/metrics"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if listenAddr != "" {
			cfg.Listen = listenAddr
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "address to listen on, overrides the config file")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg config.Config) error {
	roster, err := cfg.Roster()
	if err != nil {
		return err
	}

	store, closeStore, err := openEventStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeStore()

	worker := eventlogger.NewWorker(store, cfg.EventBuffer)
	worker.Start()
	defer worker.Shutdown()

	m := metrics.New()
	svc := api.NewService(roster, ledger.New(), worker, m)

	seeds, err := cfg.SeedExpenses()
	if err != nil {
		return err
	}
	if err := svc.Seed(seeds); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.NewRouter(svc, api.Options{Currency: cfg.Currency, APITokenHash: cfg.APITokenHash, Metrics: m}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Listen, "users", roster.Len(), "seeded_expenses", len(seeds))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openEventStore uses Postgres when a database url is configured and an
// in-memory store otherwise.
func openEventStore(ctx context.Context, databaseURL string) (eventlogger.EventLogger, func(), error) {
	if databaseURL == "" {
		slog.Info("no database configured, keeping events in memory")
		return eventlogger.NewMemoryEventLogger(), func() {}, nil
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("pinging database: %w", err)
	}

	store := eventlogger.NewSqlEventLogger(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}
