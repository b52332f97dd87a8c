package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/polkiloo/rewardportal/internal/config"
	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
	pkgAuth "github.com/polkiloo/rewardportal/internal/pkg/auth"
	testhelpers "github.com/polkiloo/rewardportal/internal/test"
)

var signupConfig = &config.Config{SignupBonus: 2000, ReferralBonus: 2000}

func TestSignupUseCaseRegistersWithOnboardingCredit(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	codes := &testhelpers.CodeGeneratorStub{Codes: []string{"alice123456"}}
	uc := NewSignupUseCase(users, testhelpers.HasherStub{}, codes, signupConfig)

	usr, err := uc.RegisterUser(context.Background(), model.Registration{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if usr.Balance != 2000 || usr.ReferralCode != "alice123456" || usr.ReferredBy != nil {
		t.Fatalf("unexpected user: %+v", usr)
	}
	if usr.Email != "alice@example.com" || usr.PasswordHash != "hash:secret" {
		t.Fatalf("unexpected stored credentials: %+v", usr)
	}
}

func TestSignupUseCaseCreditsReferrer(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	referrer := users.Add(model.User{Email: "ref@example.com", ReferralCode: "ref000001", Balance: 2000})
	uc := NewSignupUseCase(users, testhelpers.HasherStub{}, &testhelpers.CodeGeneratorStub{Codes: []string{"bob000002"}}, signupConfig)

	usr, err := uc.RegisterUser(context.Background(), model.Registration{
		Username:     "bob",
		Email:        "bob@example.com",
		Password:     "pw",
		ReferralCode: " ref000001 ",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if usr.ReferredBy == nil || *usr.ReferredBy != "ref000001" {
		t.Fatalf("expected referred-by link, got %+v", usr.ReferredBy)
	}
	stored, _ := users.GetByID(context.Background(), referrer.ID)
	if stored.Balance != 4000 {
		t.Fatalf("expected referrer credited to 4000, got %d", stored.Balance)
	}
}

func TestSignupUseCaseIgnoresUnknownReferralCode(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	other := users.Add(model.User{Email: "other@example.com", ReferralCode: "other000001", Balance: 2000})
	uc := NewSignupUseCase(users, testhelpers.HasherStub{}, &testhelpers.CodeGeneratorStub{}, signupConfig)

	usr, err := uc.RegisterUser(context.Background(), model.Registration{
		Username:     "bob",
		Email:        "bob@example.com",
		Password:     "pw",
		ReferralCode: "missing",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if usr.ReferredBy != nil {
		t.Fatalf("did not expect referred-by, got %q", *usr.ReferredBy)
	}
	stored, _ := users.GetByID(context.Background(), other.ID)
	if stored.Balance != 2000 {
		t.Fatalf("no balance should change, got %d", stored.Balance)
	}
}

func TestSignupUseCaseValidation(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := NewSignupUseCase(users, testhelpers.HasherStub{}, &testhelpers.CodeGeneratorStub{}, signupConfig)

	cases := []model.Registration{
		{Email: "a@b.c", Password: "pw"},
		{Username: "a", Password: "pw"},
		{Username: "a", Email: "a@b.c"},
		{Username: "   ", Email: "a@b.c", Password: "pw"},
	}
	for _, reg := range cases {
		if _, err := uc.RegisterUser(context.Background(), reg); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("registration %+v: expected validation error, got %v", reg, err)
		}
	}
	if users.CreateCalls != 0 {
		t.Fatalf("nothing should be inserted, got %d inserts", users.CreateCalls)
	}
}

func TestSignupUseCaseDuplicateEmail(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	users.Add(model.User{Email: "dup@example.com", ReferralCode: "dup000001"})
	uc := NewSignupUseCase(users, testhelpers.HasherStub{}, &testhelpers.CodeGeneratorStub{}, signupConfig)

	_, err := uc.RegisterUser(context.Background(), model.Registration{Username: "d", Email: "dup@example.com", Password: "pw"})
	if !errors.Is(err, domainErrors.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
	if users.CreateCalls != 0 {
		t.Fatalf("nothing should be inserted, got %d inserts", users.CreateCalls)
	}
}

func TestSignupUseCaseRetriesReferralCodeCollisions(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	users.Exists["carl000001"] = true
	users.Add(model.User{Email: "x@example.com", ReferralCode: "carl000002"})
	codes := &testhelpers.CodeGeneratorStub{Codes: []string{"carl000001", "carl000002", "carl000003"}}
	uc := NewSignupUseCase(users, testhelpers.HasherStub{}, codes, signupConfig)

	usr, err := uc.RegisterUser(context.Background(), model.Registration{Username: "carl", Email: "carl@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if usr.ReferralCode != "carl000003" {
		t.Fatalf("expected third code, got %q", usr.ReferralCode)
	}
	if codes.Calls() != 3 {
		t.Fatalf("expected three attempts, got %d", codes.Calls())
	}
}

func TestSignupUseCaseRetriesOnInsertCollision(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	attempts := 0
	users.CreateFn = func(_ context.Context, u model.NewUser, _ int64) (*model.User, error) {
		attempts++
		if attempts == 1 {
			return nil, domainErrors.ErrReferralCodeTaken
		}
		return &model.User{ID: 1, Email: u.Email, ReferralCode: u.ReferralCode, Balance: u.Balance}, nil
	}
	codes := &testhelpers.CodeGeneratorStub{Codes: []string{"dan000001", "dan000002"}}
	uc := NewSignupUseCase(users, testhelpers.HasherStub{}, codes, signupConfig)

	usr, err := uc.RegisterUser(context.Background(), model.Registration{Username: "dan", Email: "dan@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if usr.ReferralCode != "dan000002" || attempts != 2 {
		t.Fatalf("unexpected retry result: %q after %d attempts", usr.ReferralCode, attempts)
	}
}

func TestSignupUseCaseReferralCodeExhausted(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	users.Exists["eve000001"] = true
	uc := NewSignupUseCase(users, testhelpers.HasherStub{}, &testhelpers.CodeGeneratorStub{Codes: []string{"eve000001"}}, signupConfig)

	_, err := uc.RegisterUser(context.Background(), model.Registration{Username: "eve", Email: "eve@example.com", Password: "pw"})
	if !errors.Is(err, domainErrors.ErrReferralCodeExhausted) {
		t.Fatalf("expected ErrReferralCodeExhausted, got %v", err)
	}
}

func TestSignupUseCasePropagatesFailures(t *testing.T) {
	hashErr := errors.New("hash failed")
	uc := NewSignupUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", hashErr
	}}, &testhelpers.CodeGeneratorStub{}, signupConfig)
	if _, err := uc.RegisterUser(context.Background(), model.Registration{Username: "f", Email: "f@x.io", Password: "pw"}); !errors.Is(err, hashErr) {
		t.Fatalf("expected hash error, got %v", err)
	}

	genErr := errors.New("no entropy")
	uc = NewSignupUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, &testhelpers.CodeGeneratorStub{Err: genErr}, signupConfig)
	if _, err := uc.RegisterUser(context.Background(), model.Registration{Username: "f", Email: "f@x.io", Password: "pw"}); !errors.Is(err, genErr) {
		t.Fatalf("expected generator error, got %v", err)
	}

	users := testhelpers.NewUserRepositoryStub()
	users.Err = errors.New("db down")
	uc = NewSignupUseCase(users, testhelpers.HasherStub{}, &testhelpers.CodeGeneratorStub{}, signupConfig)
	if _, err := uc.RegisterUser(context.Background(), model.Registration{Username: "f", Email: "f@x.io", Password: "pw"}); err == nil {
		t.Fatal("expected repository error")
	}
}

func TestSignupUseCaseRejectsOverlongPassword(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	hasher := testhelpers.HasherStub{HashFn: func(string) (string, error) { return "", pkgAuth.ErrPasswordTooLong }}
	uc := NewSignupUseCase(users, hasher, &testhelpers.CodeGeneratorStub{}, signupConfig)

	_, err := uc.RegisterUser(context.Background(), model.Registration{Username: "a", Email: "a@example.com", Password: "x"})
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if users.CreateCalls != 0 {
		t.Fatalf("expected no insert, got %d", users.CreateCalls)
	}
}
