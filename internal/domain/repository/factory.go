package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Admins() AdminRepository
	Withdrawals() WithdrawalRepository
	Events() EventRepository
	HealthCheck(ctx context.Context) error
	Close()
}
