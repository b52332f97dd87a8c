package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
	"github.com/polkiloo/rewardportal/internal/domain/repository"
)

// AccountUseCase builds the read-only dashboard projections.
type AccountUseCase struct {
	users       repository.UserRepository
	withdrawals *WithdrawalUseCase
	rewards     *RewardUseCase
}

// NewAccountUseCase constructs AccountUseCase.
func NewAccountUseCase(users repository.UserRepository, withdrawals *WithdrawalUseCase, rewards *RewardUseCase) *AccountUseCase {
	return &AccountUseCase{users: users, withdrawals: withdrawals, rewards: rewards}
}

// Dashboard returns the user's profile, withdrawal history and claim countdown.
func (u *AccountUseCase) Dashboard(ctx context.Context, userID int64) (*model.Dashboard, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, err
	}

	history, err := u.withdrawals.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.Dashboard{
		User:        *usr,
		Withdrawals: history,
		NextClaimIn: u.rewards.NextClaimIn(usr),
	}, nil
}

// AdminOverview lists all users and withdrawals.
func (u *AccountUseCase) AdminOverview(ctx context.Context) (*model.AdminOverview, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	withdrawals, err := u.withdrawals.List(ctx)
	if err != nil {
		return nil, err
	}
	return &model.AdminOverview{Users: users, Withdrawals: withdrawals}, nil
}
