package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/rewardportal/internal/config"
	"github.com/polkiloo/rewardportal/internal/worker"
)

// Module provides the portal facade, the HTTP server and the outbox relay, and
// ties their start and stop to the fx lifecycle.
var Module = fx.Options(
	fx.Provide(
		NewPortalFacade,
		newHTTPServer,
		newEventRelay,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *PortalFacade
	Config *config.Config
	Logger *slog.Logger
}

func newEventRelay(p workerParams) *worker.EventRelay {
	return worker.NewEventRelay(
		p.Facade,
		p.Config.EventPollInterval,
		p.Config.EventBatchSize,
		p.Config.RelayWorkers,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Relay      *worker.EventRelay
	Config     *config.Config
}

// portal runs the web front end and the outbox relay side by side.
type portal struct {
	server          *http.Server
	relay           *worker.EventRelay
	shutdowner      fx.Shutdowner
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func registerLifecycle(p lifecycleParams) {
	rp := &portal{
		server:          p.Server,
		relay:           p.Relay,
		shutdowner:      p.Shutdowner,
		logger:          p.Logger,
		shutdownTimeout: p.Config.ShutdownTimeout,
	}
	p.Lifecycle.Append(fx.Hook{OnStart: rp.start, OnStop: rp.stop})
}

func (rp *portal) start(ctx context.Context) error {
	rp.logger.Info("starting rewardportal", slog.String("addr", rp.server.Addr))
	// fx cancels ctx right after startup.
	rp.relay.Start(context.WithoutCancel(ctx))
	go rp.serve()
	return nil
}

// serve blocks on the listener and asks fx to stop the app if it dies.
func (rp *portal) serve() {
	err := rp.server.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}
	rp.logger.Error("http server terminated", slog.String("error", err.Error()))
	if err := rp.shutdowner.Shutdown(); err != nil {
		rp.logger.Error("request shutdown", slog.String("error", err.Error()))
	}
}

// stop drains HTTP traffic first so no request is left writing to the outbox,
// then waits for the relay to finish in-flight publishes.
func (rp *portal) stop(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok && rp.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rp.shutdownTimeout)
		defer cancel()
	}

	err := rp.server.Shutdown(ctx)
	rp.relay.Stop()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	rp.logger.Info("rewardportal stopped")
	return nil
}
