package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/krisefikser/krisefikser/internal/auth"
	"github.com/krisefikser/krisefikser/internal/cache"
	"github.com/krisefikser/krisefikser/internal/config"
	"github.com/krisefikser/krisefikser/internal/metrics"
	"github.com/krisefikser/krisefikser/internal/middleware"
	"github.com/krisefikser/krisefikser/internal/service"
	"github.com/krisefikser/krisefikser/internal/storage/postgres"
	"github.com/krisefikser/krisefikser/internal/storage/sqlite"
	"github.com/krisefikser/krisefikser/internal/storage/sqlstore"
	"github.com/krisefikser/krisefikser/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "type", cfg.DatabaseType)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	var opts []service.Option
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unreachable, item cache will fall through", "addr", cfg.RedisAddr, "error", err)
		}
		opts = append(opts, service.WithCatalog(cache.NewCatalog(store, cache.NewRedisKVStore(client), cfg.CatalogCacheTTL)))
		slog.Info("Item cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CatalogCacheTTL)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, tokenDuration)
	svc := service.NewInventoryService(store, m, opts...)

	mux := http.NewServeMux()
	path, handler := service.NewInventoryServiceHandler(svc, connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	))
	mux.Handle(path, handler)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", healthHandler(store))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect gRPC clients)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Connect server starting", "address", server.Addr, "service", path)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}

func openStore(ctx context.Context, cfg config.Config) (*sqlstore.Store, error) {
	switch cfg.DatabaseType {
	case config.DatabasePostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	case config.DatabaseSQLite:
		return sqlite.New(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}
}
