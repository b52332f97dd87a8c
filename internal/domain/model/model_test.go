package model

import (
	"testing"
	"time"
)

func TestWithdrawalStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   WithdrawalStatus
		value string
	}{
		{"pending", WithdrawalStatusPending, "Pending"},
		{"approved", WithdrawalStatusApproved, "Approved"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestEventKindValues(t *testing.T) {
	cases := []struct {
		kind  EventKind
		value string
	}{
		{EventWithdrawalSubmitted, "withdrawal.submitted"},
		{EventWithdrawalApproved, "withdrawal.approved"},
	}

	for _, tc := range cases {
		if string(tc.kind) != tc.value {
			t.Fatalf("expected %s, got %s", tc.value, tc.kind)
		}
	}
}

func TestMaskedCardNumber(t *testing.T) {
	cases := []struct {
		card string
		want string
	}{
		{"4111111111111111", "************1111"},
		{"4111 1111 1111 1111", "************1111"},
		{"123", "123"},
		{"", ""},
	}
	for _, tc := range cases {
		got := PaymentInstrument{CardNumber: tc.card}.MaskedCardNumber()
		if got != tc.want {
			t.Fatalf("mask(%q): expected %q, got %q", tc.card, tc.want, got)
		}
	}
}

func TestNextClaimIn(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 24 * time.Hour

	if got := NextClaimIn(nil, now, cooldown); got != 0 {
		t.Fatalf("expected never-claimed user to be eligible, got %s", got)
	}

	recent := now.Add(-30 * time.Second)
	if got := NextClaimIn(&recent, now, cooldown); got != 23*time.Hour+59*time.Minute+30*time.Second {
		t.Fatalf("unexpected remaining wait %s", got)
	}

	old := now.Add(-25 * time.Hour)
	if got := NextClaimIn(&old, now, cooldown); got != 0 {
		t.Fatalf("expected old claim to be eligible, got %s", got)
	}

	exact := now.Add(-cooldown)
	if got := NextClaimIn(&exact, now, cooldown); got != 0 {
		t.Fatalf("expected claim exactly one cooldown ago to be eligible, got %s", got)
	}
}
