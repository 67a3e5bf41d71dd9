package cache

import (
	"github.com/ecclesia/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Caches bundles the Redis client (nil when unavailable) and the report cache built on it
type Caches struct {
	Client  *redis.Client
	Reports ReportCache
}

// Close releases the Redis connection if any
func (c *Caches) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// New connects to Redis when enabled and falls back to in-memory stores otherwise.
// A configured but unreachable Redis is logged and also falls back.
func New(cfg config.RedisConfig, logger *zap.Logger) *Caches {
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory caches")
		return &Caches{Reports: NewInMemoryReportCache(cfg.ReportTTL)}
	}

	client, err := NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory caches. "+
			"Cached reports and revoked tokens will not be shared between instances.",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return &Caches{Reports: NewInMemoryReportCache(cfg.ReportTTL)}
	}

	logger.Info("Using Redis caches", zap.String("addr", cfg.Addr()))
	return &Caches{Client: client, Reports: NewRedisReportCache(client, cfg.ReportTTL)}
}
