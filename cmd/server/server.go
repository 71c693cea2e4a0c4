package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/promptdesk/server/internal/completion"
	"codeberg.org/promptdesk/server/internal/config"
	"codeberg.org/promptdesk/server/internal/feed"
	"codeberg.org/promptdesk/server/internal/logger"
	"codeberg.org/promptdesk/server/internal/sessions"
	"codeberg.org/promptdesk/server/internal/users"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// keep the pool small, hosted poolers have tight connection budgets
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// use simple protocol for PgBouncer compatibility. transaction-mode
	// pooling doesn't support prepared statements, which causes connections
	// to hang on subsequent queries
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	userRepo := users.NewRepository(db)

	// Redis cache for recent-session lists is optional; the feed falls back
	// to Postgres reads when it's absent
	var cache *sessions.RecentCache

	if cfg.RedisURL != "" {
		cache, err = sessions.NewRecentCache(cfg.RedisURL)
		if err != nil {
			logger.ErrorErr(err, "failed to initialize redis cache, continuing without it")
			cache = nil
		}
	}

	sessionStore := sessions.NewPostgresStore(db, cache)

	completer, err := completion.NewCompleter()
	if err != nil {
		if cache != nil {
			cache.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		}

		db.Close()
		return nil, fmt.Errorf("failed to initialize completer: %w", err)
	}

	logger.Info("completion provider initialized", "model", completer.Model())

	hub := feed.NewHub(sessionStore)

	router := gin.Default()

	server := &Server{
		db:           db,
		config:       cfg,
		userRepo:     userRepo,
		sessionStore: sessionStore,
		cache:        cache,
		completer:    completer,
		hub:          hub,
		router:       router,
	}

	if err := RegisterRoutes(router, server); err != nil {
		if cache != nil {
			cache.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		}

		db.Close()
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return server, nil
}
