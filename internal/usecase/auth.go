package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
	"github.com/polkiloo/rewardportal/internal/domain/repository"
	pkgAuth "github.com/polkiloo/rewardportal/internal/pkg/auth"
)

// AuthUseCase handles credential checks, admin accounts and session tokens.
type AuthUseCase struct {
	users   repository.UserRepository
	admins  repository.AdminRepository
	hasher  pkgAuth.PasswordHasher
	tokens  pkgAuth.Strategy
	revoker pkgAuth.Revoker
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	users repository.UserRepository,
	admins repository.AdminRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	revoker pkgAuth.Revoker,
) *AuthUseCase {
	return &AuthUseCase{users: users, admins: admins, hasher: hasher, tokens: strategy, revoker: revoker}
}

// Authenticate validates user credentials and returns a session token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.Validation("email and password are required")
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := checkPassword(u.hasher, usr.PasswordHash, password); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(pkgAuth.Identity{SubjectID: usr.ID, Role: pkgAuth.RoleUser})
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// AuthenticateAdmin validates administrator credentials and returns a session token.
func (u *AuthUseCase) AuthenticateAdmin(ctx context.Context, email, password string) (*model.Admin, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.Validation("email and password are required")
	}

	adm, err := u.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := checkPassword(u.hasher, adm.PasswordHash, password); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(pkgAuth.Identity{SubjectID: adm.ID, Role: pkgAuth.RoleAdmin})
	if err != nil {
		return nil, "", err
	}

	return adm, token, nil
}

// RegisterAdmin creates an administrator account on behalf of an existing admin.
func (u *AuthUseCase) RegisterAdmin(ctx context.Context, username, email, password string) (*model.Admin, error) {
	return u.registerAdmin(ctx, username, email, password, u.admins.Create)
}

// RegisterFirstAdmin creates the bootstrap administrator. It fails with
// ErrAdminSignupClosed once any admin exists, even under concurrent signups.
func (u *AuthUseCase) RegisterFirstAdmin(ctx context.Context, username, email, password string) (*model.Admin, error) {
	return u.registerAdmin(ctx, username, email, password, u.admins.CreateFirst)
}

func (u *AuthUseCase) registerAdmin(
	ctx context.Context,
	username, email, password string,
	create func(ctx context.Context, username, email, passwordHash string) (*model.Admin, error),
) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	switch {
	case username == "":
		return nil, domainErrors.Validation("username is required")
	case email == "":
		return nil, domainErrors.Validation("email is required")
	case password == "":
		return nil, domainErrors.Validation("password is required")
	}

	hash, err := hashPassword(u.hasher, password)
	if err != nil {
		return nil, err
	}

	return create(ctx, username, email, hash)
}

// AdminsExist reports whether at least one administrator has been registered.
func (u *AuthUseCase) AdminsExist(ctx context.Context) (bool, error) {
	n, err := u.admins.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Verify parses the token and checks it has not been revoked.
func (u *AuthUseCase) Verify(ctx context.Context, token string) (pkgAuth.Identity, error) {
	if token == "" {
		return pkgAuth.Identity{}, pkgAuth.ErrInvalidToken
	}
	identity, err := u.tokens.ParseToken(token)
	if err != nil {
		return pkgAuth.Identity{}, err
	}
	revoked, err := u.revoker.IsRevoked(ctx, identity.TokenID)
	if err != nil {
		return pkgAuth.Identity{}, err
	}
	if revoked {
		return pkgAuth.Identity{}, pkgAuth.ErrInvalidToken
	}
	return identity, nil
}

// Logout revokes the token until its natural expiry. Tokens that no longer
// verify need no revocation.
func (u *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	identity, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	return u.revoker.Revoke(ctx, identity.TokenID, identity.ExpiresAt)
}

func hashPassword(hasher pkgAuth.PasswordHasher, password string) (string, error) {
	hash, err := hasher.Hash(password)
	if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
		return "", domainErrors.Validation("password is too long")
	}
	return hash, err
}

// checkPassword reports a mismatch as invalid credentials; any other hasher
// failure, such as an unreadable stored hash, is returned as is.
func checkPassword(hasher pkgAuth.PasswordHasher, hash, password string) error {
	err := hasher.Compare(hash, password)
	if errors.Is(err, pkgAuth.ErrPasswordMismatch) {
		return domainErrors.ErrInvalidCredentials
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
