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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/billmate/internal/auth"
	"github.com/mmynk/billmate/internal/config"
	"github.com/mmynk/billmate/internal/directory"
	"github.com/mmynk/billmate/internal/groups"
	"github.com/mmynk/billmate/internal/ledger"
	"github.com/mmynk/billmate/internal/middleware"
	"github.com/mmynk/billmate/internal/observability"
	"github.com/mmynk/billmate/internal/service"
	"github.com/mmynk/billmate/internal/storage/sqldb"
	"github.com/mmynk/billmate/pkg/api/apiconnect"
	"github.com/mmynk/billmate/pkg/logging"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("billmate %s\n", version)
		return
	}

	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	shutdownTracing, err := observability.NewTracerProvider(ctx, observability.TracingConfig{
		Enabled:        cfg.OTelEnabled,
		ServiceName:    "billmate",
		ServiceVersion: version,
		Exporter:       cfg.OTelExporter,
		Endpoint:       cfg.OTelEndpoint,
		SamplingRatio:  cfg.OTelSamplingRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	dsn := cfg.DBPath
	if cfg.DBDriver == sqldb.DriverPostgres {
		dsn = cfg.DatabaseURL
	}
	store, err := sqldb.Open(ctx, cfg.DBDriver, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", store.Driver())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	dir := directory.New(store, cfg.DirectoryCacheTTL)
	l := ledger.New(store, ledger.WithMetrics(metrics))
	groupRegistry := groups.NewRegistry(store, groups.RandomCodes{})

	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, dir), interceptors))
	mux.Handle(apiconnect.NewBillServiceHandler(service.NewBillService(l), interceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(groupRegistry, l, dir), interceptors))
	mux.Handle(apiconnect.NewDebtServiceHandler(service.NewDebtService(l, dir), interceptors))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := otelhttp.NewHandler(corsMiddleware(mux), "billmate",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/metrics" && r.URL.Path != "/healthz" }),
	)

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		// Wrap with h2c for HTTP/2 without TLS (required for Connect)
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go reconcileLoop(ctx, l, cfg.ReconcileInterval)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// reconcileLoop repairs incomplete two-phase writes once at startup and then every interval.
// A zero interval runs the startup sweep only.
func reconcileLoop(ctx context.Context, l *ledger.Ledger, interval time.Duration) {
	sweep := func() {
		result, err := l.Reconcile(ctx)
		if err != nil {
			slog.Error("Reconcile sweep failed", "error", err)
		}
		if result.Linked > 0 || result.Settled > 0 {
			slog.Info("Reconcile sweep repaired bills", "linked", result.Linked, "settled", result.Settled)
		}
	}

	sweep()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
