package main

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

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"givebridge/internal/confirmation"
	"givebridge/internal/donation"
	"givebridge/internal/donation/handler"
	donationpg "givebridge/internal/donation/store/postgres"
	donationredis "givebridge/internal/donation/store/redis"
	"givebridge/internal/events"
	eventskafka "givebridge/internal/events/kafka"
	eventspg "givebridge/internal/events/postgres"
	"givebridge/internal/jwtauth"
	"givebridge/internal/platform/config"
	"givebridge/internal/platform/httpserver"
	"givebridge/internal/platform/logger"
	"givebridge/internal/platform/metrics"
	platformredis "givebridge/internal/platform/redis"
	"givebridge/internal/reservation"
)

// main wires the dependency graph and owns process lifecycle. Business rules
// live in the internal service packages; nothing here makes a domain decision.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, health, cleanupStore, err := buildStore(ctx, cfg, log)
	if err != nil {
		log.Error("store initialization failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer cleanupStore()

	sink, cleanupSink, err := buildEventSink(ctx, cfg, log)
	if err != nil {
		log.Error("event sink initialization failed", "error", err)
		os.Exit(1)
	}
	defer cleanupSink()

	publisher := events.NewPublisher(sink, log, events.WithAsyncBuffer(256))
	defer publisher.Close()

	m := metrics.New()
	jwtService := jwtauth.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	donationSvc := donation.NewService(store, donation.NewGeoNormalizer(donation.GeoDefaults{
		Latitude:     cfg.Geo.DefaultLatitude,
		Longitude:    cfg.Geo.DefaultLongitude,
		JitterRadius: cfg.Geo.JitterRadius,
	}), publisher)
	reservationSvc := reservation.NewService(store, reservation.NewCodeGenerator(cfg.Code.Length), publisher, m)
	confirmationSvc := confirmation.NewService(store, publisher, m)

	router := chi.NewRouter()
	router.Get("/healthz", healthHandler(health))
	router.Handle("/metrics", promhttp.Handler())
	handler.New(donationSvc, reservationSvc, confirmationSvc, log, m, jwtauth.NewAdapter(jwtService)).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting givebridge", "addr", cfg.Addr, "store", cfg.StoreBackend)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// buildStore selects the donation store backend and returns it with a health
// probe and a cleanup func.
func buildStore(ctx context.Context, cfg config.Server, log *slog.Logger) (donation.Store, func(context.Context) error, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		log.Warn("using in-memory donation store; data is lost on restart")
		return donation.NewInMemoryStore(), func(context.Context) error { return nil }, func() {}, nil

	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, nil, nil, fmt.Errorf("POSTGRES_URL is required for the postgres store")
		}
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if _, err := pool.Exec(ctx, donationpg.Schema); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("apply donation schema: %w", err)
		}
		return donationpg.New(pool), pool.Ping, pool.Close, nil

	case "redis":
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		if client == nil {
			return nil, nil, nil, fmt.Errorf("REDIS_URL is required for the redis store")
		}
		return donationredis.New(client.Client), client.Health, func() { _ = client.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// buildEventSink prefers Kafka when brokers are configured, falls back to the
// postgres outbox when the store database is available, and otherwise keeps
// events in memory.
func buildEventSink(ctx context.Context, cfg config.Server, log *slog.Logger) (events.Sink, func(), error) {
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := eventskafka.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, nil, fmt.Errorf("connect kafka: %w", err)
		}
		log.Info("publishing lifecycle events to kafka", "topic", cfg.Kafka.Topic)
		return sink, sink.Close, nil
	}

	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres for events: %w", err)
		}
		if _, err := db.ExecContext(ctx, eventspg.Schema); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("apply events schema: %w", err)
		}
		return eventspg.New(db), func() { _ = db.Close() }, nil
	}

	log.Warn("no event sink configured; keeping lifecycle events in memory")
	return events.NewInMemoryStore(), func() {}, nil
}

func healthHandler(probe func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := probe(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
