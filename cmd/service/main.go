// Command service corre el servidor HTTP de chatgate.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/chatgate/internal/account"
	"github.com/dropDatabas3/chatgate/internal/cache"
	"github.com/dropDatabas3/chatgate/internal/config"
	"github.com/dropDatabas3/chatgate/internal/flow"
	adminctrl "github.com/dropDatabas3/chatgate/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/chatgate/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/chatgate/internal/http/controllers/health"
	"github.com/dropDatabas3/chatgate/internal/http/router"
	"github.com/dropDatabas3/chatgate/internal/http/server"
	authsvc "github.com/dropDatabas3/chatgate/internal/http/services/auth"
	"github.com/dropDatabas3/chatgate/internal/metrics"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
	"github.com/dropDatabas3/chatgate/internal/provider"
	"github.com/dropDatabas3/chatgate/internal/security/secretbox"
	"github.com/dropDatabas3/chatgate/internal/session"
	"github.com/dropDatabas3/chatgate/internal/store"
)

func main() {
	configPath := flag.String("config", "configs/config.example.yaml", "Path to YAML config")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "chatgate",
	})
	defer func() { _ = logger.Sync() }()
	logg := logger.L()

	// secretbox lee AUTH_SECRET directo del entorno: propagamos el secret
	// efectivo antes del primer uso para que firma de sesiones/states y
	// ofuscación compartan la misma clave.
	if os.Getenv("AUTH_SECRET") == "" {
		_ = os.Setenv("AUTH_SECRET", cfg.Auth.Secret)
	}
	if cfg.Auth.Secret == secretbox.DefaultKey || secretbox.UsingDefaultKey() {
		logg.Warn("AUTH_SECRET not set, signing and obfuscation use the default dev key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- storage ----
	var connMaxLifetime time.Duration
	if s := cfg.Storage.Postgres.ConnMaxLifetime; s != "" {
		connMaxLifetime, _ = time.ParseDuration(s)
	}
	st, err := store.New(ctx, store.Config{
		Driver:          cfg.Storage.Driver,
		DSN:             cfg.Storage.DSN,
		MaxConns:        cfg.Storage.Postgres.MaxOpenConns,
		MinConns:        cfg.Storage.Postgres.MaxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
	})
	if err != nil {
		logg.Fatal("store init failed", logger.Err(err))
	}
	defer st.Close()

	// ---- cache ----
	cc, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Host:     cfg.Cache.Redis.Host,
		Port:     cfg.Cache.Redis.Port,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		logg.Fatal("cache init failed", logger.Err(err))
	}
	defer func() { _ = cc.Close() }()

	// ---- metrics ----
	registry := prometheus.NewRegistry()
	if err := metrics.RegisterOAuth(registry); err != nil {
		logg.Fatal("metrics registration failed", logger.Err(err))
	}

	// ---- domain ----
	reg := provider.NewRegistry(st)
	fallback := make(map[string]provider.StaticCredential, len(cfg.Providers.Static))
	for name, cred := range cfg.Providers.Static {
		fallback[name] = provider.StaticCredential{
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
		}
	}
	pc := provider.NewConfigCache(reg, provider.CacheOptions{
		TTL:      cfg.Providers.CacheTTL,
		Fallback: fallback,
	})

	secret := []byte(cfg.Auth.Secret)
	states := flow.NewStateSigner(secret)
	issuer := session.NewIssuer(secret, cfg.IsProd())
	resolver := account.NewResolver(st)

	// ---- http ----
	authControllers := authctrl.NewControllers(authctrl.Deps{
		Start: authsvc.NewStartService(authsvc.StartDeps{Providers: pc, States: states}),
		Callback: authsvc.NewCallbackService(authsvc.CallbackDeps{
			Providers: pc,
			States:    states,
			Accounts:  resolver,
			Sessions:  issuer,
			Cache:     cc,
			ResultTTL: cfg.Auth.ResultCodeTTL,
		}),
		Result:   authsvc.NewResultService(authsvc.ResultDeps{Cache: cc, Sessions: issuer}),
		Sessions: issuer,
		URLs: authctrl.URLs{
			Login:   cfg.Auth.LoginURL,
			Success: cfg.Auth.SuccessURL,
			Landing: cfg.Auth.LandingURL,
		},
	})

	handler := router.New(router.Deps{
		Auth:               authControllers,
		Providers:          adminctrl.NewProvidersController(reg),
		Health:             healthctrl.NewController(st, cc),
		Sessions:           issuer,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MetricsRegistry:    registry,
	})

	srv := server.New(cfg.Server.Addr, handler)
	if err := srv.Run(ctx); err != nil {
		logg.Fatal("server exited with error", logger.Err(err))
	}
	logg.Info("server stopped")
}
