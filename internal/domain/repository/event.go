package repository

import (
	"context"
	"time"

	"github.com/polkiloo/rewardportal/internal/domain/model"
)

// EventRepository gives the relay access to unpublished outbox events.
type EventRepository interface {
	// LeasePending returns up to limit unpublished events and hides them from
	// other callers for the lease duration.
	LeasePending(ctx context.Context, limit int, lease time.Duration) ([]model.Event, error)
	MarkPublished(ctx context.Context, id int64) error
}
