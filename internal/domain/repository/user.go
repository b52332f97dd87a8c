package repository

import (
	"context"
	"time"

	"github.com/polkiloo/rewardportal/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	// Create inserts the account and, when ReferredBy is set, credits the
	// referrer by referralBonus within the same transaction.
	Create(ctx context.Context, user model.NewUser, referralBonus int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByReferralCode(ctx context.Context, code string) (*model.User, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	// ClaimReward credits amount and sets last claim to now only when the
	// previous claim is absent or not later than cutoff. It reports whether
	// the row was updated and the resulting balance.
	ClaimReward(ctx context.Context, userID, amount int64, now, cutoff time.Time) (int64, bool, error)
	List(ctx context.Context) ([]model.User, error)
}
