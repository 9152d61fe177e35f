package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/explorer/internal/config"
	"github.com/JonMunkholm/explorer/internal/core"
	"github.com/JonMunkholm/explorer/internal/logging"
	"github.com/JonMunkholm/explorer/internal/web"
)

func runServe(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env")
	if err := godotenv.Overload(envFile); err != nil {
		slog.Info("no .env file found, using environment variables", "file", envFile)
	} else {
		slog.Info("loaded .env file", "file", envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"dataset_dir", cfg.Datasets.Dir,
		"sql_tables", len(cfg.Database.Tables),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	service, err := core.NewService(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := service.LoadBuiltin(ctx); err != nil {
		slog.Warn("some builtin datasets failed to load", "error", err)
	}

	if cfg.Database.Enabled() {
		pool, err := connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := service.LoadSQL(ctx, pool, cfg.Database.Tables); err != nil {
			slog.Warn("some sql datasets failed to load", "error", err)
		}
	}

	server := web.NewServer(service, cfg)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.IngestStatus(); status.Active > 0 {
			slog.Info("waiting for dataset loads to complete", "active", status.Active)
			if err := service.WaitForIngests(shutdownCtx); err != nil {
				slog.Warn("dataset loads did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// connect opens and pings the pool used for SQL-backed datasets.
func connect(ctx context.Context, dbCfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dbCfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(dbCfg.MaxConns)
	poolConfig.ConnConfig.ConnectTimeout = dbCfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbCfg.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(dbCfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}
