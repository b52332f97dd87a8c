package repository

import (
	"context"

	"github.com/polkiloo/rewardportal/internal/domain/model"
)

// AdminRepository describes persistence operations for administrators.
type AdminRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*model.Admin, error)
	// CreateFirst inserts the admin only while no admin exists, otherwise it
	// returns errors.ErrAdminSignupClosed. The check and insert are atomic.
	CreateFirst(ctx context.Context, username, email, passwordHash string) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id int64) (*model.Admin, error)
	Count(ctx context.Context) (int64, error)
}
