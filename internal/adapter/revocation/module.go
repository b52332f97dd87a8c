package revocation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/rewardportal/internal/config"
	pkgAuth "github.com/polkiloo/rewardportal/internal/pkg/auth"
)

// Module provides the session revoker. Redis is used when an address is configured.
var Module = fx.Provide(newRevoker)

var newRedisClient = func(cfg *config.Config) redisClient {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

type revokerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newRevoker(p revokerParams) (pkgAuth.Revoker, error) {
	if p.Config.RedisAddr == "" {
		p.Logger.Info("session revocation disabled")
		return NopRevoker{}, nil
	}

	client := newRedisClient(p.Config)
	revoker := NewRedisRevoker(client)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			p.Logger.Info("session revocation enabled", slog.String("addr", p.Config.RedisAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return revoker.Close()
		},
	})
	return revoker, nil
}
