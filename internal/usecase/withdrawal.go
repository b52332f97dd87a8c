package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
	"github.com/polkiloo/rewardportal/internal/domain/repository"
)

// WithdrawalUseCase manages payout requests and their review.
type WithdrawalUseCase struct {
	withdrawals repository.WithdrawalRepository
}

// NewWithdrawalUseCase constructs WithdrawalUseCase.
func NewWithdrawalUseCase(w repository.WithdrawalRepository) *WithdrawalUseCase {
	return &WithdrawalUseCase{withdrawals: w}
}

// Submit debits the user's balance and files a pending request.
func (u *WithdrawalUseCase) Submit(ctx context.Context, userID int64, req model.WithdrawalRequest) (*model.Withdrawal, error) {
	if req.Amount <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}

	req.Instrument.CardNumber = NormalizeCardNumber(req.Instrument.CardNumber)
	req.Instrument.ExpirationDate = strings.TrimSpace(req.Instrument.ExpirationDate)
	req.Instrument.SecurityCode = strings.TrimSpace(req.Instrument.SecurityCode)

	switch {
	case req.Instrument.CardNumber == "":
		return nil, domainErrors.Validation("card number is required")
	case !ValidateCardNumber(req.Instrument.CardNumber):
		return nil, domainErrors.Validation("card number is invalid")
	case req.Instrument.ExpirationDate == "":
		return nil, domainErrors.Validation("expiration date is required")
	case req.Instrument.SecurityCode == "":
		return nil, domainErrors.Validation("security code is required")
	}

	return u.withdrawals.Submit(ctx, userID, req)
}

// Approve moves a pending request to approved. Approving twice is a no-op that
// reports false.
func (u *WithdrawalUseCase) Approve(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, domainErrors.ErrNotFound
	}
	return u.withdrawals.Approve(ctx, id)
}

// History returns the user's withdrawals, newest first.
func (u *WithdrawalUseCase) History(ctx context.Context, userID int64) ([]model.Withdrawal, error) {
	return u.withdrawals.ListByUser(ctx, userID)
}

// List returns every withdrawal, newest first.
func (u *WithdrawalUseCase) List(ctx context.Context) ([]model.Withdrawal, error) {
	return u.withdrawals.List(ctx)
}
