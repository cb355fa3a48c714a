// Package main runs the user portal HTTP server.
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

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	_ "userportal/docs" // swagger docs

	"userportal/internal/auth"
	"userportal/internal/cache"
	"userportal/internal/config"
	"userportal/internal/db"
	"userportal/internal/handler"
	"userportal/internal/logging"
	"userportal/internal/metrics"
	"userportal/internal/repository"
	"userportal/internal/router"
	"userportal/internal/service"
	"userportal/internal/session"
	"userportal/internal/view"
)

// Version information set at build time.
var version = "dev"

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

// @title User Portal
// @version 1.0
// @description Signup, login and admin user management pages.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cmd := newServerCmd()
	cmd.Version = version

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServerCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Run the user portal HTTP server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return oops.Code("CONFIG_INVALID").Wrap(err)
			}
			if err := cfg.Validate(); err != nil {
				return oops.Code("CONFIG_INVALID").Wrap(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file path")
	cmd.Flags().String("server-port", "8080", "HTTP listen port")
	cmd.Flags().String("db-driver", "mysql", "database driver (mysql or sqlite)")
	cmd.Flags().String("db-dsn", "", "database DSN")
	cmd.Flags().String("redis-addr", "localhost:6379", "Redis address")
	cmd.Flags().String("session-store", "redis", "session store (redis or memory)")
	cmd.Flags().String("log-level", "info", "log level")
	cmd.Flags().String("log-format", "json", "log format (json or text)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.SetDefault("userportal", version, cfg.Log.Format, cfg.Log.Level)

	gormDB, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		if cfg.Session.Store == "redis" {
			return err
		}
		slog.Warn("redis unavailable, user cache disabled", "addr", cfg.Redis.Addr, "error", err)
		cacheClient = nil
	}

	var store session.Store
	switch cfg.Session.Store {
	case "memory":
		memStore := session.NewMemoryStore(sweepInterval)
		defer memStore.Close()
		store = memStore
	default:
		store = session.NewRedisStore(cacheClient)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterMetrics(reg)

	userRepo := repository.NewUserRepository(gormDB)
	tokens := auth.NewJWTService(cfg.Session.Secret)
	sessions := session.NewManager(store, tokens, cfg.Session.TTL, cfg.Session.SecureCookie)

	authService := service.NewAuthService(userRepo, auth.NewBcryptHasher(auth.DefaultCost), tokens)
	userService := service.NewUserService(userRepo, cacheClient)

	var oauthHandler *handler.OAuthHandler
	if google := cfg.OAuth.Google; google.Enabled() {
		provider := auth.NewGoogleProvider(google.ClientID, google.ClientSecret, google.RedirectURL)
		oauthHandler = handler.NewOAuthHandler(provider, authService, tokens, sessions, cfg.Session.SecureCookie)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	router.Register(
		e,
		sessions,
		reg,
		handler.NewAuthHandler(authService, sessions, oauthHandler != nil),
		handler.NewUserHandler(userService),
		oauthHandler,
	)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "session_store", cfg.Session.Store,
			"google_login", oauthHandler != nil)
		errCh <- e.Start(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
