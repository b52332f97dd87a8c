package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
	testhelpers "github.com/polkiloo/rewardportal/internal/test"
)

func TestAccountUseCaseDashboard(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	last := now.Add(-time.Hour)
	users := testhelpers.NewUserRepositoryStub()
	users.Add(model.User{ID: 1, Username: "alice", Balance: 2500, LastClaimAt: &last})
	withdrawals := &testhelpers.WithdrawalRepositoryStub{Items: []model.Withdrawal{
		{ID: 1, UserID: 1, Amount: 100, Status: model.WithdrawalStatusPending},
		{ID: 2, UserID: 2, Amount: 200, Status: model.WithdrawalStatusPending},
	}}
	uc := NewAccountUseCase(users, NewWithdrawalUseCase(withdrawals), newRewardUseCase(users, now))

	dash, err := uc.Dashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.User.Username != "alice" || len(dash.Withdrawals) != 1 {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}
	if dash.NextClaimIn != 23*time.Hour || dash.CanClaim() {
		t.Fatalf("unexpected countdown: %s", dash.NextClaimIn)
	}

	if _, err := uc.Dashboard(context.Background(), 5); !errors.Is(err, domainErrors.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}

	withdrawals.ByUserFn = func(context.Context, int64) ([]model.Withdrawal, error) { return nil, errors.New("db down") }
	if _, err := uc.Dashboard(context.Background(), 1); err == nil {
		t.Fatal("expected history error")
	}
}

func TestAccountUseCaseAdminOverview(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	users.Add(model.User{ID: 1, Email: "a@x.io"})
	users.Add(model.User{ID: 2, Email: "b@x.io"})
	withdrawals := &testhelpers.WithdrawalRepositoryStub{Items: []model.Withdrawal{
		{ID: 1, UserID: 1, Status: model.WithdrawalStatusPending},
		{ID: 2, UserID: 2, Status: model.WithdrawalStatusApproved},
	}}
	uc := NewAccountUseCase(users, NewWithdrawalUseCase(withdrawals), newRewardUseCase(users, time.Now()))

	overview, err := uc.AdminOverview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(overview.Users) != 2 || len(overview.Withdrawals) != 2 || overview.PendingCount() != 1 {
		t.Fatalf("unexpected overview: %+v", overview)
	}

	users.Err = errors.New("db down")
	if _, err := uc.AdminOverview(context.Background()); err == nil {
		t.Fatal("expected repository error")
	}
}
