package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/polkiloo/rewardportal/internal/config"
	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
	"github.com/polkiloo/rewardportal/internal/domain/repository"
)

// RewardUseCase grants the daily reward at most once per cooldown window.
type RewardUseCase struct {
	users    repository.UserRepository
	amount   int64
	cooldown time.Duration
	now      func() time.Time
}

// NewRewardUseCase constructs RewardUseCase.
func NewRewardUseCase(users repository.UserRepository, cfg *config.Config) *RewardUseCase {
	return &RewardUseCase{
		users:    users,
		amount:   cfg.DailyReward,
		cooldown: cfg.ClaimCooldown,
		now:      time.Now,
	}
}

// Claim credits the daily reward. It fails with *ClaimCooldownError while the
// previous claim is younger than the cooldown.
func (u *RewardUseCase) Claim(ctx context.Context, userID int64) (*model.ClaimResult, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, err
	}

	now := u.now().UTC()
	if wait := model.NextClaimIn(usr.LastClaimAt, now, u.cooldown); wait > 0 {
		return nil, &domainErrors.ClaimCooldownError{Remaining: wait}
	}

	balance, claimed, err := u.users.ClaimReward(ctx, userID, u.amount, now, now.Add(-u.cooldown))
	if err != nil {
		return nil, err
	}
	if !claimed {
		// A concurrent claim updated the row first.
		current, err := u.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return nil, &domainErrors.ClaimCooldownError{Remaining: model.NextClaimIn(current.LastClaimAt, now, u.cooldown)}
	}

	return &model.ClaimResult{Amount: u.amount, Balance: balance, ClaimedAt: now}, nil
}

// NextClaimIn reports how long the user has to wait before claiming again.
func (u *RewardUseCase) NextClaimIn(usr *model.User) time.Duration {
	return model.NextClaimIn(usr.LastClaimAt, u.now(), u.cooldown)
}
