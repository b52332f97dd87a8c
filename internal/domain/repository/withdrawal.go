package repository

import (
	"context"

	"github.com/polkiloo/rewardportal/internal/domain/model"
)

// WithdrawalRepository manages payout requests.
type WithdrawalRepository interface {
	// Submit debits the balance, stores the pending request and records a
	// submitted event atomically.
	Submit(ctx context.Context, userID int64, req model.WithdrawalRequest) (*model.Withdrawal, error)
	// Approve moves a pending request to approved. It returns false when the
	// request was already approved.
	Approve(ctx context.Context, id int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Withdrawal, error)
	List(ctx context.Context) ([]model.Withdrawal, error)
}
