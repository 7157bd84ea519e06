package container

import (
	"context"
	"fmt"

	internal_auditlog "assettracker/internal/auditlog"
	"assettracker/internal/config"
	"assettracker/internal/database"
	"assettracker/internal/inventory/assets"
	"assettracker/internal/middleware"
	"assettracker/internal/rate_limiter"
	"assettracker/internal/repository"
	"assettracker/pkg/auditlog"
	"assettracker/pkg/security"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Store         assets.Store
	AuditLog      *auditlog.Auditlog
	AssetService  *assets.AssetService
	AssetHandler  *assets.AssetHandler
	Authenticator *security.Authenticator
	RateLimiter   rate_limiter.Limiter
	Health        *middleware.HealthChecker

	closers []func() error
}

// NewAppContainer opens the store selected by cfg.DatabaseURL and wires the
// application on top of it. Background work is bound to ctx.
func NewAppContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	dsn, err := database.ParseURL(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger}

	var store assets.Store
	var auditLogRepo auditlog.Repository

	switch {
	case dsn.IsSQL():
		db, err := database.NewSQLConnection(dsn)
		if err != nil {
			return nil, err
		}
		repo := repository.NewRepository(db, string(dsn.Backend))
		c.closers = append(c.closers, repo.Close)
		store = assets.NewRepository(repo)
		auditLogRepo = internal_auditlog.NewRepository(repo)
	default:
		client, err := database.NewMongoClient(ctx, dsn.DriverDSN)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() error { return client.Disconnect(context.Background()) })
		db := client.Database(cfg.MongoDatabase)
		store = assets.NewMongoRepository(db)
		auditLogRepo = internal_auditlog.NewMongoRepository(db)
	}

	logger.Info("Connected to the database", zap.String("backend", string(dsn.Backend)))

	c.wire(ctx, store, auditLogRepo)
	return c, nil
}

// NewContainer wires the application on top of an already opened store.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger, store assets.Store, auditLogRepo auditlog.Repository) *Container {
	c := &Container{Config: cfg, Logger: logger}
	c.wire(ctx, store, auditLogRepo)
	return c
}

func (c *Container) wire(ctx context.Context, store assets.Store, auditLogRepo auditlog.Repository) {
	cfg := c.Config

	c.Store = store
	c.AuditLog = auditlog.NewAuditLog(auditLogRepo, c.Logger)
	c.AssetService = assets.NewAssetService(store, c.AuditLog)

	if cfg.AuthEnabled() {
		c.Authenticator = security.NewAuthenticator(cfg.JWTSecret, cfg.JWTTTL)
	}
	c.AssetHandler = assets.NewAssetHandler(c.AssetService, c.Authenticator)
	c.Health = middleware.NewHealthChecker(store, cfg.Version, c.Logger)

	switch {
	case cfg.RateLimitRequests <= 0:
	case cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		c.closers = append(c.closers, client.Close)
		c.RateLimiter = rate_limiter.NewRedisRateLimiter(client, cfg.RateLimitRequests, cfg.RateLimitWindow)
	default:
		c.RateLimiter = rate_limiter.NewRateLimiter(ctx, cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
}

func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close container: %w", err)
		}
	}
	return firstErr
}
