package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/polkiloo/rewardportal/internal/config"
	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
	"github.com/polkiloo/rewardportal/internal/domain/repository"
	pkgAuth "github.com/polkiloo/rewardportal/internal/pkg/auth"
	"github.com/polkiloo/rewardportal/internal/pkg/referral"
)

const maxReferralCodeAttempts = 5

// SignupUseCase registers new accounts and pays referral bonuses.
type SignupUseCase struct {
	users         repository.UserRepository
	hasher        pkgAuth.PasswordHasher
	codes         referral.CodeGenerator
	signupBonus   int64
	referralBonus int64
}

// NewSignupUseCase constructs SignupUseCase.
func NewSignupUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, codes referral.CodeGenerator, cfg *config.Config) *SignupUseCase {
	return &SignupUseCase{
		users:         users,
		hasher:        hasher,
		codes:         codes,
		signupBonus:   cfg.SignupBonus,
		referralBonus: cfg.ReferralBonus,
	}
}

// RegisterUser creates the account with the onboarding credit. A referral code
// that belongs to an existing user links the accounts and credits the referrer;
// unknown codes are ignored.
func (u *SignupUseCase) RegisterUser(ctx context.Context, reg model.Registration) (*model.User, error) {
	username := strings.TrimSpace(reg.Username)
	email := normalizeEmail(reg.Email)
	switch {
	case username == "":
		return nil, domainErrors.Validation("username is required")
	case email == "":
		return nil, domainErrors.Validation("email is required")
	case reg.Password == "":
		return nil, domainErrors.Validation("password is required")
	}

	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return nil, domainErrors.ErrEmailInUse
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(u.hasher, reg.Password)
	if err != nil {
		return nil, err
	}

	referredBy, err := u.resolveReferrer(ctx, reg.ReferralCode)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxReferralCodeAttempts; attempt++ {
		code, err := u.codes.Generate(email)
		if err != nil {
			return nil, err
		}

		exists, err := u.users.ReferralCodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		usr, err := u.users.Create(ctx, model.NewUser{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			ReferralCode: code,
			ReferredBy:   referredBy,
			Balance:      u.signupBonus,
		}, u.referralBonus)
		if errors.Is(err, domainErrors.ErrReferralCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return usr, nil
	}

	return nil, domainErrors.ErrReferralCodeExhausted
}

func (u *SignupUseCase) resolveReferrer(ctx context.Context, code string) (*string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	referrer, err := u.users.GetByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &referrer.ReferralCode, nil
}
