package main

import (
	"context"
	"database/sql"
	"elevator-dispatch-service/internal/adapters/events"
	"elevator-dispatch-service/internal/adapters/metrics"
	"elevator-dispatch-service/internal/adapters/repositories"
	"elevator-dispatch-service/internal/api"
	"elevator-dispatch-service/internal/api/handlers"
	"elevator-dispatch-service/internal/config"
	"elevator-dispatch-service/internal/platform/db"
	"elevator-dispatch-service/internal/ports"
	"elevator-dispatch-service/internal/services"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// main is the application composition root.
// It wires concrete adapters (journal, Prometheus, NATS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found (using environment variables)")
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel(config.Get("LOG_LEVEL", "info")),
	}))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load(config.Get("SCHEDULER_CONFIG", ""))
	if err != nil {
		return err
	}

	journal, closeJournal, err := openJournal(config.Get("JOURNAL_DRIVER", "sqlite"))
	if err != nil {
		return err
	}
	defer closeJournal.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher, closePublisher, err := openPublisher(ctx, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "elevator")

	fleets := make([]*handlers.FleetHandler, 0, len(cfg.Fleets))
	for _, fc := range cfg.Fleets {
		f, err := services.NewFleet(fc.FleetOptions(), collector, log)
		if err != nil {
			return err
		}
		fleets = append(fleets, &handlers.FleetHandler{Fleet: f, Journal: journal, Publisher: publisher, Log: log})
		log.Info("fleet ready", "fleet", fc.Name, "ledger", fc.Ledger, "assignment", fc.Assignment,
			"floors", fmt.Sprintf("%d..%d", fc.LowerFloor, fc.HigherFloor), "cabins", fc.Cabins)
	}

	router := api.NewRouter(api.Deps{Fleets: fleets, Metrics: promhttp.Handler(), Log: log})

	port := config.Get("PORT", "8080")
	// The driver polls every tick, so requests are short; writes stay bounded.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openJournal returns the ride journal selected by driver, with its schema
// initialised. "none" disables journaling.
func openJournal(driver string) (ports.RideJournal, io.Closer, error) {
	if driver == "none" {
		return nil, nopCloser{}, nil
	}
	dialect, err := repositories.ParseDialect(driver)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}

	var conn *sql.DB
	switch dialect {
	case repositories.Postgres:
		url := config.Get("DATABASE_URL", "")
		if url == "" {
			return nil, nil, errors.New("open journal: DATABASE_URL is required for postgres")
		}
		conn, err = db.Open(url)
	default:
		path := config.Get("DB_PATH", "data/journal.db")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		conn, err = db.OpenSQLite(path)
	}
	if err != nil {
		return nil, nil, err
	}

	if err := repositories.InitSchema(conn, dialect); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return &repositories.SQLRideJournal{DB: conn, Dialect: dialect}, conn, nil
}

// openPublisher connects to NATS when NATS_URL is set. With NATS_STREAM the
// ticks are also kept in a JetStream stream.
func openPublisher(ctx context.Context, log *slog.Logger) (ports.TickPublisher, func(), error) {
	url := config.Get("NATS_URL", "")
	if url == "" {
		return events.NopPublisher{}, func() {}, nil
	}

	nc, err := events.Connect(url, "elevator-dispatch-service")
	if err != nil {
		return nil, nil, err
	}
	prefix := config.Get("NATS_SUBJECT_PREFIX", events.DefaultSubjectPrefix)

	stream := config.Get("NATS_STREAM", "")
	if stream == "" {
		return events.NewNATSPublisher(nc, prefix, log), nc.Close, nil
	}
	p, err := events.NewJetStreamPublisher(ctx, nc, stream, prefix, log)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	return p, nc.Close, nil
}
