package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu     sync.Mutex
	Users  map[string]*model.User
	ByID   map[int64]*model.User
	Next   int64
	Err    error
	Exists map[string]bool

	CreateFn      func(context.Context, model.NewUser, int64) (*model.User, error)
	ClaimRewardFn func(context.Context, int64, int64, time.Time, time.Time) (int64, bool, error)
	CreateCalls   int
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users:  make(map[string]*model.User),
		ByID:   make(map[int64]*model.User),
		Exists: make(map[string]bool),
		Next:   1,
	}
}

// Add stores a ready-made user and returns it.
func (s *UserRepositoryStub) Add(user model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		user.ID = s.Next
	}
	if user.ID >= s.Next {
		s.Next = user.ID + 1
	}
	u := user
	s.Users[u.Email] = &u
	s.ByID[u.ID] = &u
	return &u
}

// Create registers user unless the email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.NewUser, referralBonus int64) (*model.User, error) {
	s.mu.Lock()
	s.CreateCalls++
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, user, referralBonus)
	}
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Users[user.Email]; exists {
		return nil, domainErrors.ErrEmailInUse
	}
	for _, u := range s.ByID {
		if u.ReferralCode == user.ReferralCode {
			return nil, domainErrors.ErrReferralCodeTaken
		}
	}
	if s.Next == 0 {
		s.Next = 1
	}
	created := &model.User{
		ID:           s.Next,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Balance:      user.Balance,
		ReferralCode: user.ReferralCode,
		ReferredBy:   user.ReferredBy,
		CreatedAt:    time.Now(),
	}
	s.Next++
	if user.ReferredBy != nil {
		for _, u := range s.ByID {
			if u.ReferralCode == *user.ReferredBy {
				u.Balance += referralBonus
			}
		}
	}
	s.Users[created.Email] = created
	s.ByID[created.ID] = created
	return created, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.Users[email]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.ByID[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByReferralCode fetches user owning the referral code.
func (s *UserRepositoryStub) GetByReferralCode(ctx context.Context, code string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.ByID {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ReferralCodeExists reports forced collisions from Exists or stored codes.
func (s *UserRepositoryStub) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Exists[code] {
		return true, nil
	}
	for _, u := range s.ByID {
		if u.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

// ClaimReward applies the conditional credit the way the database does.
func (s *UserRepositoryStub) ClaimReward(ctx context.Context, userID, amount int64, now, cutoff time.Time) (int64, bool, error) {
	if s.ClaimRewardFn != nil {
		return s.ClaimRewardFn(ctx, userID, amount, now, cutoff)
	}
	if s.Err != nil {
		return 0, false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.ByID[userID]
	if !ok {
		return 0, false, nil
	}
	if user.LastClaimAt != nil && user.LastClaimAt.After(cutoff) {
		return 0, false, nil
	}
	user.Balance += amount
	claimed := now
	user.LastClaimAt = &claimed
	return user.Balance, true, nil
}

// List returns users ordered by identifier.
func (s *UserRepositoryStub) List(ctx context.Context) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]model.User, 0, len(s.ByID))
	for _, u := range s.ByID {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// AdminRepositoryStub stores administrators in-memory.
type AdminRepositoryStub struct {
	Admins   map[string]*model.Admin
	Next     int64
	Err      error
	CountErr error
}

// NewAdminRepositoryStub constructs stub repository with initialized map.
func NewAdminRepositoryStub() *AdminRepositoryStub {
	return &AdminRepositoryStub{Admins: make(map[string]*model.Admin), Next: 1}
}

// CreateFirst registers an administrator only while none exist.
func (s *AdminRepositoryStub) CreateFirst(ctx context.Context, username, email, passwordHash string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Admins) > 0 {
		return nil, domainErrors.ErrAdminSignupClosed
	}
	return s.Create(ctx, username, email, passwordHash)
}

// Create registers an administrator unless the email is taken.
func (s *AdminRepositoryStub) Create(ctx context.Context, username, email, passwordHash string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Admins == nil {
		s.Admins = make(map[string]*model.Admin)
	}
	if _, ok := s.Admins[email]; ok {
		return nil, domainErrors.ErrEmailInUse
	}
	if s.Next == 0 {
		s.Next = 1
	}
	adm := &model.Admin{ID: s.Next, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.Next++
	s.Admins[email] = adm
	return adm, nil
}

// GetByEmail fetches administrator by email.
func (s *AdminRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if adm, ok := s.Admins[email]; ok {
		return adm, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches administrator by identifier.
func (s *AdminRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, adm := range s.Admins {
		if adm.ID == id {
			return adm, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Count returns the number of stored administrators.
func (s *AdminRepositoryStub) Count(ctx context.Context) (int64, error) {
	if s.CountErr != nil {
		return 0, s.CountErr
	}
	return int64(len(s.Admins)), nil
}

// WithdrawalRepositoryStub lets tests control withdrawal persistence.
type WithdrawalRepositoryStub struct {
	SubmitFn  func(context.Context, int64, model.WithdrawalRequest) (*model.Withdrawal, error)
	ApproveFn func(context.Context, int64) (bool, error)
	ListFn    func(context.Context) ([]model.Withdrawal, error)
	ByUserFn  func(context.Context, int64) ([]model.Withdrawal, error)
	Items     []model.Withdrawal
	Submitted []model.WithdrawalRequest
}

// Submit records the request and returns a pending withdrawal.
func (s *WithdrawalRepositoryStub) Submit(ctx context.Context, userID int64, req model.WithdrawalRequest) (*model.Withdrawal, error) {
	s.Submitted = append(s.Submitted, req)
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, userID, req)
	}
	w := model.Withdrawal{
		ID:         int64(len(s.Items) + 1),
		UserID:     userID,
		Instrument: req.Instrument,
		Address:    req.Address,
		Amount:     req.Amount,
		Status:     model.WithdrawalStatusPending,
		CreatedAt:  time.Now(),
	}
	s.Items = append(s.Items, w)
	return &w, nil
}

// Approve flips a stored pending withdrawal.
func (s *WithdrawalRepositoryStub) Approve(ctx context.Context, id int64) (bool, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, id)
	}
	for i := range s.Items {
		if s.Items[i].ID != id {
			continue
		}
		if s.Items[i].Status == model.WithdrawalStatusApproved {
			return false, nil
		}
		now := time.Now()
		s.Items[i].Status = model.WithdrawalStatusApproved
		s.Items[i].ApprovedAt = &now
		return true, nil
	}
	return false, domainErrors.ErrNotFound
}

// ListByUser returns configured withdrawals of the user.
func (s *WithdrawalRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Withdrawal, error) {
	if s.ByUserFn != nil {
		return s.ByUserFn(ctx, userID)
	}
	var items []model.Withdrawal
	for _, w := range s.Items {
		if w.UserID == userID {
			items = append(items, w)
		}
	}
	return items, nil
}

// List returns configured withdrawals.
func (s *WithdrawalRepositoryStub) List(ctx context.Context) ([]model.Withdrawal, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return s.Items, nil
}

// EventRepositoryStub serves queued outbox batches to the relay.
type EventRepositoryStub struct {
	mu        sync.Mutex
	Batches   [][]model.Event
	LeaseFn   func(context.Context, int, time.Duration) ([]model.Event, error)
	MarkErr   error
	Published []int64
	calls     int
}

// LeasePending pops the next configured batch.
func (s *EventRepositoryStub) LeasePending(ctx context.Context, limit int, lease time.Duration) ([]model.Event, error) {
	if s.LeaseFn != nil {
		return s.LeaseFn(ctx, limit, lease)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls < len(s.Batches) {
		batch := s.Batches[s.calls]
		s.calls++
		return batch, nil
	}
	return nil, nil
}

// MarkPublished records published event identifiers.
func (s *EventRepositoryStub) MarkPublished(ctx context.Context, id int64) error {
	if s.MarkErr != nil {
		return s.MarkErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, id)
	return nil
}

// PublishedIDs returns a snapshot of published identifiers.
func (s *EventRepositoryStub) PublishedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.Published...)
}
