// Command stockaded runs the Stockade inventory API server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/stockade-io/stockade/pkg/api"
	"github.com/stockade-io/stockade/pkg/auth"
	"github.com/stockade-io/stockade/pkg/config"
	"github.com/stockade-io/stockade/pkg/inventory"
	"github.com/stockade-io/stockade/pkg/observability"
	"github.com/stockade-io/stockade/pkg/rbac"
	"github.com/stockade-io/stockade/pkg/storage/postgres"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply catalog schema migrations and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).
			Error("configuration failed", "error", err.Error())
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	db, err := postgres.Open(cfg.Storage.PostgresURL)
	if err != nil {
		logger.Error("postgres connection failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if *migrate {
		if err := postgres.Migrate(context.Background(), db); err != nil {
			logger.Error("migration failed", "error", err.Error())
			os.Exit(1)
		}
		logger.Info("migrations applied")
		return
	}

	blacklist, err := postgres.NewRedisClient(cfg.Storage)
	if err != nil {
		logger.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	defer blacklist.Close()

	signingKey, err := auth.ParseSigningKey(cfg.Auth.SigningKey)
	if err != nil {
		logger.Error("signing key rejected", "error", err.Error())
		os.Exit(1)
	}
	verifyKey, err := auth.ParseVerifyKey(cfg.Auth.VerifyKey)
	if err != nil {
		logger.Error("verify key rejected", "error", err.Error())
		os.Exit(1)
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	users := postgres.NewUserStore(db)
	grants := postgres.NewGrantStore(db)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	server := api.NewServer(api.Options{
		Validator: auth.NewCredentialValidator(users, hasher, cfg.Auth.StoreTimeout),
		Issuer:    auth.NewTokenIssuer(signingKey, cfg.Auth.Issuer, cfg.Auth.Lifetimes),
		Verifier: auth.NewTokenVerifier(verifyKey, cfg.Auth.Issuer,
			cfg.Auth.SchemePrefixes, blacklist, cfg.Auth.CacheTimeout),
		Revoker: auth.NewRevoker(verifyKey, cfg.Auth.SchemePrefixes,
			blacklist, cfg.Storage.BlacklistTTL, cfg.Auth.CacheTimeout),
		Checker:      rbac.NewChecker(grants, cfg.Auth.StoreTimeout),
		Items:        inventory.NewPostgresStore(db),
		Logger:       logger,
		Metrics:      metrics,
		TenantHeader: cfg.Auth.TenantHeader,
	})

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	healthMux.Handle("/healthz", observability.HealthHandler(map[string]observability.Pinger{
		"postgres": pingerFunc(db.PingContext),
		"redis":    blacklist,
	}))
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("health server listening", "addr", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", "error", err.Error())
		}
	}()

	go func() {
		logger.Info("api server listening", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown failed", "error", err.Error())
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown failed", "error", err.Error())
	}
}

// pingerFunc adapts a func to observability.Pinger.
type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
