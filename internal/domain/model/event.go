package model

import "time"

// EventKind names an outbox event type.
type EventKind string

const (
	EventWithdrawalSubmitted EventKind = "withdrawal.submitted"
	EventWithdrawalApproved  EventKind = "withdrawal.approved"
)

// Event is an outbox record describing a withdrawal state change.
type Event struct {
	ID           int64
	Kind         EventKind
	WithdrawalID int64
	UserID       int64
	Amount       int64
	CreatedAt    time.Time
	PublishedAt  *time.Time
}
