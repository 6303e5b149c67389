package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"portal/internal/auth"
	"portal/internal/config"
	"portal/internal/database"
	"portal/internal/email"
	"portal/internal/metrics"
	"portal/internal/session"
	"portal/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// app is the wired portal. close releases its connections.
type app struct {
	router *gin.Engine
	close  func()
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, *redis.Client, error) {
	if cfg.SessionStore == config.SessionStoreRedis {
		client := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return session.NewRedisStore(client), client, nil
	}
	return session.NewMemoryStore(cfg.SessionMemoryCapacity, cfg.SessionTTL()), nil, nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.Service, error) {
	if cfg.AutoMigrate {
		version, err := database.Migrate(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("database migrated", "version", version)
	}
	return database.New(ctx, cfg.DatabaseURL)
}

// buildApp wires every component from cfg
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	store, redisClient, err := newSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if redisClient != nil {
		closers = append(closers, func() { _ = redisClient.Close() })
	}
	sessions := session.NewManager(store)
	logger.Info("session store ready", "backend", cfg.SessionStore)

	var db database.Service
	if cfg.DatabaseURL != "" {
		db, err = openDatabase(ctx, cfg, logger)
		if err != nil {
			closeAll()
			return nil, err
		}
		closers = append(closers, db.Close)
		logger.Info("connected to database")
	}

	hasher := auth.NewArgon2idHasher()
	var users auth.Repository
	var verifier auth.Verifier

	switch cfg.AuthVerifier {
	case config.VerifierStatic:
		static, err := auth.NewStaticVerifier(cfg.AuthUsers)
		if err != nil {
			closeAll()
			return nil, err
		}
		verifier = static
		logger.Info("using static credential verifier; registration disabled")
	case config.VerifierAccounts:
		if db != nil {
			users = auth.NewPostgresRepository(db)
		} else {
			users = auth.NewMemoryRepository()
			logger.Warn("DATABASE_URL not set; accounts are kept in memory and lost on restart")
		}
		verifier = auth.NewAccountVerifier(users, hasher)
	default:
		closeAll()
		return nil, errors.New("unknown credential verifier " + cfg.AuthVerifier)
	}

	emailCfg := email.NewConfig()
	logger.Info("email sender ready", "mode", emailCfg.Mode)

	m := metrics.New()
	svc := auth.NewService(auth.Options{
		Sessions:   sessions,
		Verifier:   verifier,
		Users:      users,
		Hasher:     hasher,
		Email:      email.NewSender(emailCfg, logger),
		Metrics:    m,
		Logger:     logger,
		SessionTTL: cfg.SessionTTL(),
	})
	handler := auth.NewHandler(svc, logger, auth.HandlerConfig{
		SecureCookie: cfg.IsProduction(),
		Timeout:      cfg.AuthTimeout,
	})

	router, err := web.SetupRouter(web.Dependencies{
		Auth:           svc,
		Handler:        handler,
		Sessions:       sessions,
		DB:             db,
		Metrics:        m,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigin,
	})
	if err != nil {
		closeAll()
		return nil, err
	}

	return &app{router: router, close: closeAll}, nil
}
