package model

import "time"

// Dashboard aggregates what a signed-in user sees on their landing page.
type Dashboard struct {
	User        User
	Withdrawals []Withdrawal
	NextClaimIn time.Duration
}

// CanClaim reports whether the daily reward is available right now.
func (d Dashboard) CanClaim() bool {
	return d.NextClaimIn <= 0
}

// AdminOverview lists every account and withdrawal for review.
type AdminOverview struct {
	Users       []User
	Withdrawals []Withdrawal
}

// PendingCount returns how many withdrawals await approval.
func (o AdminOverview) PendingCount() int {
	var n int
	for _, w := range o.Withdrawals {
		if w.Status == WithdrawalStatusPending {
			n++
		}
	}
	return n
}
