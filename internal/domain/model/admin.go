package model

import "time"

// Admin is a back-office account allowed to review withdrawals.
type Admin struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
