package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/tbourn/go-profile-backend/internal/cache"
	"github.com/tbourn/go-profile-backend/internal/config"
	httpapi "github.com/tbourn/go-profile-backend/internal/http"
	"github.com/tbourn/go-profile-backend/internal/observability"
	"github.com/tbourn/go-profile-backend/internal/repo"
	"github.com/tbourn/go-profile-backend/internal/services"
	"github.com/tbourn/go-profile-backend/internal/sysutil"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "profile-server",
		Usage:   "profiles, comments and likes over a document store",
		Version: sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before reading configuration; missing files are ignored",
			},
		},
		Before: func(c *cli.Context) error {
			return loadEnvFile(c.String("env-file"))
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
			{
				Name:   "provision",
				Usage:  "create collections, indexes and sequence counters, then exit",
				Action: provision,
			},
		},
	}
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// bootstrap loads configuration and installs the global logger.
func bootstrap(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	sysutil.SetupLogger(c.App.ErrWriter, cfg.OTEL.ServiceName, cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)
	return cfg, nil
}

// openStore connects the backend named by cfg.Store.Driver.
func openStore(ctx context.Context, cfg config.Config) (repo.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		return repo.ConnectMongo(ctx, cfg.Store.MongoURL, cfg.Store.MongoDB, cfg.Store.ConnectTimeout)
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(cfg.Store.DBPath)
		if err != nil {
			return nil, err
		}
		return repo.NewSQLStore(db), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func provision(c *cli.Context) error {
	cfg, err := bootstrap(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	if err := store.Provision(ctx); err != nil {
		return err
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("store provisioned")
	return nil
}

func serve(c *cli.Context) error {
	cfg, err := bootstrap(c)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(cctx); err != nil {
			log.Error().Err(err).Msg("store close")
		}
	}()
	if err := store.Provision(ctx); err != nil {
		return fmt.Errorf("provision: %w", err)
	}

	var profileCache services.ProfileCache
	if cfg.Cache.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.Cache.RedisURL)
		if err != nil {
			// Profiles are still served from the store.
			log.Warn().Err(err).Msg("redis unavailable, profile cache disabled")
		} else {
			pc := cache.NewProfileCache(client, cfg.Cache.ProfileTTL)
			defer pc.Close()
			profileCache = pc
		}
	}

	shutdownTracing, err := observability.SetupOTel(ctx, cfg.OTEL, observability.BuildInfo{
		Version:     c.App.Version,
		StoreDriver: cfg.Store.Driver,
	})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(cctx); err != nil {
			log.Error().Err(err).Msg("otel shutdown")
		}
	}()

	srv := newServer(cfg, store, profileCache)
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("driver", cfg.Store.Driver).
			Str("version", c.App.Version).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// newServer builds the HTTP server with routes and the configured timeouts.
func newServer(cfg config.Config, store repo.Store, profileCache services.ProfileCache) *http.Server {
	r := gin.New()
	httpapi.RegisterRoutes(r, store, profileCache, cfg)
	return &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}
