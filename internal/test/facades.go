package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/rewardportal/internal/domain/model"
	pkgAuth "github.com/polkiloo/rewardportal/internal/pkg/auth"
)

// VerifierStub resolves session tokens for gate tests.
type VerifierStub struct {
	VerifyFn func(context.Context, string) (pkgAuth.Identity, error)
	Identity pkgAuth.Identity
	Err      error
}

// Verify returns the configured identity or error.
func (s VerifierStub) Verify(ctx context.Context, token string) (pkgAuth.Identity, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, token)
	}
	if s.Err != nil {
		return pkgAuth.Identity{}, s.Err
	}
	return s.Identity, nil
}

// AdminRegistryStub answers whether an admin already exists.
type AdminRegistryStub struct {
	Exists bool
	Err    error
}

// AdminsExist returns the configured answer.
func (s AdminRegistryStub) AdminsExist(context.Context) (bool, error) {
	return s.Exists, s.Err
}

// PortalFacadeStub provides controllable behaviour for every HTTP endpoint.
type PortalFacadeStub struct {
	VerifierStub

	RegisterUserFn  func(context.Context, model.Registration) error
	LoginFn         func(context.Context, string, string) (string, error)
	AdminLoginFn    func(context.Context, string, string) (string, error)
	RegisterAdminFn func(context.Context, string, string, string) error
	RegisterFirstFn func(context.Context, string, string, string) error
	AdminsExistFn   func(context.Context) (bool, error)
	LogoutFn        func(context.Context, string) error
	DashboardFn     func(context.Context, int64) (*model.Dashboard, error)
	ClaimFn         func(context.Context, int64) (*model.ClaimResult, error)
	SubmitFn        func(context.Context, int64, model.WithdrawalRequest) (*model.Withdrawal, error)
	ApproveFn       func(context.Context, int64) (bool, error)
	OverviewFn      func(context.Context) (*model.AdminOverview, error)
	HealthErr       error
}

// RegisterUser delegates to provided function or succeeds.
func (s PortalFacadeStub) RegisterUser(ctx context.Context, reg model.Registration) error {
	if s.RegisterUserFn != nil {
		return s.RegisterUserFn(ctx, reg)
	}
	return nil
}

// Login returns a fixed user token by default.
func (s PortalFacadeStub) Login(ctx context.Context, email, password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, email, password)
	}
	return "user-token", nil
}

// AdminLogin returns a fixed admin token by default.
func (s PortalFacadeStub) AdminLogin(ctx context.Context, email, password string) (string, error) {
	if s.AdminLoginFn != nil {
		return s.AdminLoginFn(ctx, email, password)
	}
	return "admin-token", nil
}

// RegisterAdmin delegates to provided function or succeeds.
func (s PortalFacadeStub) RegisterAdmin(ctx context.Context, username, email, password string) error {
	if s.RegisterAdminFn != nil {
		return s.RegisterAdminFn(ctx, username, email, password)
	}
	return nil
}

// RegisterFirstAdmin delegates to provided function or succeeds.
func (s PortalFacadeStub) RegisterFirstAdmin(ctx context.Context, username, email, password string) error {
	if s.RegisterFirstFn != nil {
		return s.RegisterFirstFn(ctx, username, email, password)
	}
	return nil
}

// AdminsExist reports no admins by default so signup stays open.
func (s PortalFacadeStub) AdminsExist(ctx context.Context) (bool, error) {
	if s.AdminsExistFn != nil {
		return s.AdminsExistFn(ctx)
	}
	return false, nil
}

// Logout delegates to provided function or succeeds.
func (s PortalFacadeStub) Logout(ctx context.Context, token string) error {
	if s.LogoutFn != nil {
		return s.LogoutFn(ctx, token)
	}
	return nil
}

// Dashboard returns a small default dashboard.
func (s PortalFacadeStub) Dashboard(ctx context.Context, userID int64) (*model.Dashboard, error) {
	if s.DashboardFn != nil {
		return s.DashboardFn(ctx, userID)
	}
	return &model.Dashboard{User: model.User{ID: userID, Username: "alice", Balance: 2000, ReferralCode: "alice000001"}}, nil
}

// ClaimDailyReward returns a default successful claim.
func (s PortalFacadeStub) ClaimDailyReward(ctx context.Context, userID int64) (*model.ClaimResult, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, userID)
	}
	return &model.ClaimResult{Amount: 500, Balance: 2500, ClaimedAt: time.Unix(0, 0)}, nil
}

// SubmitWithdrawal returns a pending withdrawal by default.
func (s PortalFacadeStub) SubmitWithdrawal(ctx context.Context, userID int64, req model.WithdrawalRequest) (*model.Withdrawal, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, userID, req)
	}
	return &model.Withdrawal{ID: 1, UserID: userID, Amount: req.Amount, Status: model.WithdrawalStatusPending}, nil
}

// ApproveWithdrawal reports a transition by default.
func (s PortalFacadeStub) ApproveWithdrawal(ctx context.Context, id int64) (bool, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, id)
	}
	return true, nil
}

// AdminOverview returns an empty overview by default.
func (s PortalFacadeStub) AdminOverview(ctx context.Context) (*model.AdminOverview, error) {
	if s.OverviewFn != nil {
		return s.OverviewFn(ctx)
	}
	return &model.AdminOverview{}, nil
}

// HealthCheck returns the configured error.
func (s PortalFacadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}

// RelayFacadeStub mimics relay interactions with the portal facade.
type RelayFacadeStub struct {
	Batches    [][]model.Event
	PendingFn  func(context.Context, int) ([]model.Event, error)
	PublishErr map[int64]error

	mu        sync.Mutex
	published []int64
	attempts  int32
}

// Enqueue appends a batch returned by a later PendingEvents call.
func (s *RelayFacadeStub) Enqueue(batch []model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Batches = append(s.Batches, batch)
}

// PendingEvents pops batches from the configured queue.
func (s *RelayFacadeStub) PendingEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	return batch, nil
}

// PublishEvent records successful publishes.
func (s *RelayFacadeStub) PublishEvent(_ context.Context, event model.Event) error {
	atomic.AddInt32(&s.attempts, 1)
	if err := s.PublishErr[event.ID]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, event.ID)
	return nil
}

// PublishedIDs returns a copy of published event ids.
func (s *RelayFacadeStub) PublishedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.published...)
}

// Attempts returns how many publishes were attempted.
func (s *RelayFacadeStub) Attempts() int {
	return int(atomic.LoadInt32(&s.attempts))
}
