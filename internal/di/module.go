package di

import (
	"github.com/polkiloo/rewardportal/internal/adapter/events"
	"github.com/polkiloo/rewardportal/internal/adapter/revocation"
	"github.com/polkiloo/rewardportal/internal/app"
	"github.com/polkiloo/rewardportal/internal/config"
	"github.com/polkiloo/rewardportal/internal/domain/repository"
	"github.com/polkiloo/rewardportal/internal/logger"
	"github.com/polkiloo/rewardportal/internal/pkg/auth"
	"github.com/polkiloo/rewardportal/internal/pkg/referral"
	"github.com/polkiloo/rewardportal/internal/server/http/handlers"
	"github.com/polkiloo/rewardportal/internal/server/http/router"
	"github.com/polkiloo/rewardportal/internal/storage"
	"github.com/polkiloo/rewardportal/internal/usecase"
	"go.uber.org/fx"
)

// Module assembles the full application graph. Extra options are appended last
// so tests can replace providers.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		referral.Module,
		storage.Module,
		revocation.Module,
		events.Module,
		usecase.Module,
		fx.Provide(
			func(p events.Publisher) app.EventPublisher { return p },
			func(f repository.Factory) app.HealthChecker { return f },
			func(f *app.PortalFacade) handlers.PortalFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
