package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/rewardportal/internal/config"
	"github.com/polkiloo/rewardportal/internal/domain/repository"
	"github.com/polkiloo/rewardportal/internal/storage/postgres"
	"github.com/polkiloo/rewardportal/internal/storage/sqlite"
)

// Module wires the storage backend selected by the database URI and exposes
// its repositories.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.UserRepository { return f.Users() },
		func(f repository.Factory) repository.AdminRepository { return f.Admins() },
		func(f repository.Factory) repository.WithdrawalRepository { return f.Withdrawals() },
		func(f repository.Factory) repository.EventRepository { return f.Events() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newFactory(p storageParams) (repository.Factory, error) {
	if p.Config.UsesSQLite() {
		s, err := sqlite.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := postgres.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func registerLifecycle(lc fx.Lifecycle, factory repository.Factory) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			factory.Close()
			return nil
		},
	})
}
