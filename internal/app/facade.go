package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/rewardportal/internal/config"
	"github.com/polkiloo/rewardportal/internal/domain/model"
	"github.com/polkiloo/rewardportal/internal/domain/repository"
	pkgAuth "github.com/polkiloo/rewardportal/internal/pkg/auth"
	"github.com/polkiloo/rewardportal/internal/usecase"
)

// EventPublisher delivers outbox events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
}

// HealthChecker pings the backing database.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// PortalFacade is the single entry point used by the HTTP layer and the relay.
type PortalFacade struct {
	auth        *usecase.AuthUseCase
	signup      *usecase.SignupUseCase
	rewards     *usecase.RewardUseCase
	withdrawals *usecase.WithdrawalUseCase
	accounts    *usecase.AccountUseCase
	events      repository.EventRepository
	publisher   EventPublisher
	health      HealthChecker
	lease       time.Duration
}

type facadeParams struct {
	fx.In

	Auth        *usecase.AuthUseCase
	Signup      *usecase.SignupUseCase
	Rewards     *usecase.RewardUseCase
	Withdrawals *usecase.WithdrawalUseCase
	Accounts    *usecase.AccountUseCase
	Events      repository.EventRepository
	Publisher   EventPublisher
	Health      HealthChecker
	Config      *config.Config
}

// NewPortalFacade builds the facade. Leased events become visible to the relay
// again after a few poll intervals if publishing never completes.
func NewPortalFacade(p facadeParams) *PortalFacade {
	return &PortalFacade{
		auth:        p.Auth,
		signup:      p.Signup,
		rewards:     p.Rewards,
		withdrawals: p.Withdrawals,
		accounts:    p.Accounts,
		events:      p.Events,
		publisher:   p.Publisher,
		health:      p.Health,
		lease:       leaseDuration(p.Config.EventPollInterval),
	}
}

func leaseDuration(poll time.Duration) time.Duration {
	lease := 5 * poll
	if lease < 30*time.Second {
		return 30 * time.Second
	}
	return lease
}

func (f *PortalFacade) RegisterUser(ctx context.Context, reg model.Registration) error {
	_, err := f.signup.RegisterUser(ctx, reg)
	return err
}

func (f *PortalFacade) Login(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *PortalFacade) AdminLogin(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.AuthenticateAdmin(ctx, email, password)
	return token, err
}

func (f *PortalFacade) RegisterAdmin(ctx context.Context, username, email, password string) error {
	_, err := f.auth.RegisterAdmin(ctx, username, email, password)
	return err
}

func (f *PortalFacade) RegisterFirstAdmin(ctx context.Context, username, email, password string) error {
	_, err := f.auth.RegisterFirstAdmin(ctx, username, email, password)
	return err
}

func (f *PortalFacade) AdminsExist(ctx context.Context) (bool, error) {
	return f.auth.AdminsExist(ctx)
}

func (f *PortalFacade) Verify(ctx context.Context, token string) (pkgAuth.Identity, error) {
	return f.auth.Verify(ctx, token)
}

func (f *PortalFacade) Logout(ctx context.Context, token string) error {
	return f.auth.Logout(ctx, token)
}

func (f *PortalFacade) Dashboard(ctx context.Context, userID int64) (*model.Dashboard, error) {
	return f.accounts.Dashboard(ctx, userID)
}

func (f *PortalFacade) ClaimDailyReward(ctx context.Context, userID int64) (*model.ClaimResult, error) {
	return f.rewards.Claim(ctx, userID)
}

func (f *PortalFacade) SubmitWithdrawal(ctx context.Context, userID int64, req model.WithdrawalRequest) (*model.Withdrawal, error) {
	return f.withdrawals.Submit(ctx, userID, req)
}

func (f *PortalFacade) ApproveWithdrawal(ctx context.Context, id int64) (bool, error) {
	return f.withdrawals.Approve(ctx, id)
}

func (f *PortalFacade) AdminOverview(ctx context.Context) (*model.AdminOverview, error) {
	return f.accounts.AdminOverview(ctx)
}

func (f *PortalFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

// PendingEvents leases a batch of unpublished outbox events.
func (f *PortalFacade) PendingEvents(ctx context.Context, limit int) ([]model.Event, error) {
	return f.events.LeasePending(ctx, limit, f.lease)
}

// PublishEvent sends the event and marks it published on success.
func (f *PortalFacade) PublishEvent(ctx context.Context, event model.Event) error {
	if err := f.publisher.Publish(ctx, event); err != nil {
		return err
	}
	if err := f.events.MarkPublished(ctx, event.ID); err != nil {
		return fmt.Errorf("mark event %d published: %w", event.ID, err)
	}
	return nil
}
