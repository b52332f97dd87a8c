package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrEmailInUse            = errors.New("email is already in use")
	ErrNotFound              = errors.New("not found")
	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrClaimTooEarly         = errors.New("daily reward already claimed")
	ErrReferralCodeTaken     = errors.New("referral code already taken")
	ErrReferralCodeExhausted = errors.New("could not allocate unique referral code")
	ErrAdminSignupClosed     = errors.New("admin signup is closed")
)

// Validation builds a validation error for the named field.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ClaimCooldownError reports how long a user must wait before the next claim.
type ClaimCooldownError struct {
	Remaining time.Duration
}

func (e *ClaimCooldownError) Error() string {
	return fmt.Sprintf("%s: next claim in %dh %dm", ErrClaimTooEarly, e.Hours(), e.Minutes())
}

func (e *ClaimCooldownError) Unwrap() error {
	return ErrClaimTooEarly
}

// Hours returns whole hours left in the cooldown.
func (e *ClaimCooldownError) Hours() int {
	if e.Remaining <= 0 {
		return 0
	}
	return int(e.Remaining / time.Hour)
}

// Minutes returns whole minutes left after Hours.
func (e *ClaimCooldownError) Minutes() int {
	if e.Remaining <= 0 {
		return 0
	}
	return int((e.Remaining % time.Hour) / time.Minute)
}
