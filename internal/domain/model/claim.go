package model

import "time"

// ClaimResult describes a successful daily reward claim.
type ClaimResult struct {
	Amount    int64
	Balance   int64
	ClaimedAt time.Time
}

// NextClaimIn returns the time left until a claim becomes available again.
// A nil lastClaim means the user has never claimed.
func NextClaimIn(lastClaim *time.Time, now time.Time, cooldown time.Duration) time.Duration {
	if lastClaim == nil {
		return 0
	}
	remaining := cooldown - now.Sub(*lastClaim)
	if remaining < 0 {
		return 0
	}
	return remaining
}
