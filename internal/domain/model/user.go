package model

import "time"

// User represents a registered account holder.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Balance      int64
	ReferralCode string
	ReferredBy   *string
	LastClaimAt  *time.Time
	CreatedAt    time.Time
}

// NewUser carries the data required to insert an account.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	ReferralCode string
	ReferredBy   *string
	Balance      int64
}

// Registration is the signup input as submitted by a visitor.
type Registration struct {
	Username     string
	Email        string
	Password     string
	ReferralCode string
}
