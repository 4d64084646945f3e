package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stwalsh4118/lyra/internal/config"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/logger"
	"github.com/stwalsh4118/lyra/internal/server"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.Command{
		Name:  "lyra",
		Usage: "Music streaming backend for profiles, playlists and favorites",
		Flags: serveFlags(),
		// Running without a subcommand serves
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Flags:  serveFlags(),
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations and exit",
				Action: migrateUp,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("lyra exited with an error")
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "migrate",
			Usage: "apply pending migrations before serving",
		},
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if cmd.Bool("migrate") || cfg.Database.AutoMigrate {
		if err := applyMigrations(cfg, database); err != nil {
			return err
		}
	}

	rdb, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	srv := server.New(cfg, database, rdb)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func migrateUp(_ context.Context, _ *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	return applyMigrations(cfg, database)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)
	return cfg, nil
}

func openDatabase(cfg *config.Config) (*db.DB, error) {
	dsn := cfg.Database.URL
	if cfg.Database.Driver == config.DriverSQLite {
		dsn = cfg.Database.Path
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := db.New(cfg.Database.Driver, dsn, cfg.Database.ConnectionTimeout)
	if err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("driver", cfg.Database.Driver).
		Str("role", cfg.Database.Role).
		Msg("Database connected")

	return database, nil
}

func applyMigrations(cfg *config.Config, database *db.DB) error {
	if err := db.RunMigrations(database, cfg.Database.MigrationsPath); err != nil {
		return err
	}

	logger.Log.Info().
		Str("path", cfg.Database.MigrationsPath).
		Msg("Migrations applied")
	return nil
}

// connectRedis returns nil when no revocation store is configured
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.RevocationEnabled() {
		logger.Log.Warn().Msg("Redis not configured, token revocation disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logger.Log.Info().
		Str("addr", cfg.Addr).
		Msg("Token revocation store connected")

	return rdb, nil
}
