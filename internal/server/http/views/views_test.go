package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/polkiloo/rewardportal/internal/domain/model"
)

func render(t *testing.T, name string, data any) string {
	t.Helper()
	tmpl, err := Load()
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return buf.String()
}

func TestLoadDefinesEveryPage(t *testing.T) {
	tmpl, err := Load()
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}
	for _, name := range []string{
		"index.html", "signup.html", "login.html", "admin_signup.html", "admin_login.html",
		"dashboard.html", "withdraw.html", "admin_dashboard.html", "error.html",
	} {
		if tmpl.Lookup(name) == nil {
			t.Fatalf("template %s is not defined", name)
		}
	}
}

func TestDashboardMasksCardsAndShowsCountdown(t *testing.T) {
	approved := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	out := render(t, "dashboard.html", map[string]any{
		"Dashboard": &model.Dashboard{
			User: model.User{Username: "alice", Balance: 2500, ReferralCode: "alice123456"},
			Withdrawals: []model.Withdrawal{{
				Instrument: model.PaymentInstrument{CardNumber: "4111111111111111"},
				Amount:     500,
				Status:     model.WithdrawalStatusApproved,
				CreatedAt:  time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
				ApprovedAt: &approved,
			}},
			NextClaimIn: 23*time.Hour + 59*time.Minute + 30*time.Second,
		},
	})

	if strings.Contains(out, "4111111111111111") {
		t.Fatal("full card number must not be rendered")
	}
	for _, want := range []string{"************1111", "23h 59m", "alice123456", "2024-05-02 09:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in dashboard output", want)
		}
	}
	if strings.Contains(out, "claim-daily-reward") {
		t.Fatal("claim button must be hidden during cooldown")
	}
}

func TestDashboardOffersClaimWhenEligible(t *testing.T) {
	out := render(t, "dashboard.html", map[string]any{
		"Dashboard": &model.Dashboard{User: model.User{Username: "bob"}},
	})
	if !strings.Contains(out, `action="/claim-daily-reward"`) {
		t.Fatal("expected claim form for eligible user")
	}
	if !strings.Contains(out, "No withdrawals yet") {
		t.Fatal("expected empty history message")
	}
}

func TestAdminDashboardShowsApproveOnlyForPending(t *testing.T) {
	code := "alice123456"
	out := render(t, "admin_dashboard.html", map[string]any{
		"Overview": &model.AdminOverview{
			Users: []model.User{{ID: 1, Username: "bob", ReferredBy: &code}},
			Withdrawals: []model.Withdrawal{
				{ID: 5, Status: model.WithdrawalStatusPending, Instrument: model.PaymentInstrument{CardNumber: "4111111111111111"}},
				{ID: 6, Status: model.WithdrawalStatusApproved},
			},
		},
	})
	if !strings.Contains(out, "/admin/withdrawals/5/approve") {
		t.Fatal("expected approve form for pending withdrawal")
	}
	if strings.Contains(out, "/admin/withdrawals/6/approve") {
		t.Fatal("approved withdrawal must not offer approval")
	}
	if !strings.Contains(out, "1 withdrawal(s) awaiting approval") || !strings.Contains(out, code) {
		t.Fatalf("unexpected admin dashboard output: %s", out)
	}
}

func TestSignupPrefillsReferralCode(t *testing.T) {
	out := render(t, "signup.html", map[string]any{"ReferralCode": `abc"><script>`})
	if strings.Contains(out, "<script>") {
		t.Fatal("referral code must be escaped")
	}
	if !strings.Contains(out, "abc&#34;&gt;&lt;script&gt;") {
		t.Fatalf("expected escaped referral code in output: %s", out)
	}
}

func TestHelpers(t *testing.T) {
	if got := countdown(0); got != "now" {
		t.Fatalf("expected now, got %q", got)
	}
	if got := countdown(90 * time.Minute); got != "1h 30m" {
		t.Fatalf("unexpected countdown %q", got)
	}
	var missing *time.Time
	if got := formatTime(missing); got != "" {
		t.Fatalf("expected empty string for nil time, got %q", got)
	}
	if got := formatTime(time.Time{}); got != "" {
		t.Fatalf("expected empty string for zero time, got %q", got)
	}
}
