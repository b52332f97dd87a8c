package handlers

import (
	"context"

	"github.com/polkiloo/rewardportal/internal/domain/model"
	"github.com/polkiloo/rewardportal/internal/server/http/middleware"
)

// AuthFacade describes account and session operations required by handlers.
type AuthFacade interface {
	RegisterUser(ctx context.Context, reg model.Registration) error
	Login(ctx context.Context, email, password string) (string, error)
	AdminLogin(ctx context.Context, email, password string) (string, error)
	RegisterAdmin(ctx context.Context, username, email, password string) error
	RegisterFirstAdmin(ctx context.Context, username, email, password string) error
	Logout(ctx context.Context, token string) error
}

// RewardFacade provides the user dashboard and the daily claim.
type RewardFacade interface {
	Dashboard(ctx context.Context, userID int64) (*model.Dashboard, error)
	ClaimDailyReward(ctx context.Context, userID int64) (*model.ClaimResult, error)
}

// WithdrawalFacade encapsulates payout operations exposed via HTTP.
type WithdrawalFacade interface {
	SubmitWithdrawal(ctx context.Context, userID int64, req model.WithdrawalRequest) (*model.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, id int64) (bool, error)
	AdminOverview(ctx context.Context) (*model.AdminOverview, error)
}

// HealthFacade checks backing services.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// PortalFacade aggregates the full set of operations used across handlers and gates.
type PortalFacade interface {
	AuthFacade
	RewardFacade
	WithdrawalFacade
	HealthFacade
	middleware.TokenVerifier
	middleware.AdminRegistry
}
