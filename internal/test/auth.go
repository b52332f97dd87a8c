package test

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkgAuth "github.com/polkiloo/rewardportal/internal/pkg/auth"
	"github.com/polkiloo/rewardportal/internal/pkg/referral"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return pkgAuth.ErrPasswordMismatch
	}
	return nil
}

// StrategyStub issues "role-id" tokens such as "user-42" unless overridden.
type StrategyStub struct {
	IssueFn func(pkgAuth.Identity) (string, error)
	ParseFn func(string) (pkgAuth.Identity, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(identity pkgAuth.Identity) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(identity)
	}
	return fmt.Sprintf("%s-%d", identity.Role, identity.SubjectID), nil
}

// ParseToken parses tokens produced by IssueToken.
func (s StrategyStub) ParseToken(token string) (pkgAuth.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	for _, role := range []pkgAuth.Role{pkgAuth.RoleUser, pkgAuth.RoleAdmin} {
		var id int64
		if _, err := fmt.Sscanf(token, string(role)+"-%d", &id); err == nil {
			return pkgAuth.Identity{
				SubjectID: id,
				Role:      role,
				TokenID:   token,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		}
	}
	return pkgAuth.Identity{}, pkgAuth.ErrInvalidToken
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// RevokerStub keeps revoked token identifiers in memory.
type RevokerStub struct {
	mu      sync.Mutex
	Revoked map[string]time.Time
	Err     error
}

// Revoke stores tokenID until the given expiry.
func (s *RevokerStub) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Revoked == nil {
		s.Revoked = make(map[string]time.Time)
	}
	s.Revoked[tokenID] = until
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (s *RevokerStub) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Revoked[tokenID]
	return ok, nil
}

// CodeGeneratorStub hands out queued referral codes.
type CodeGeneratorStub struct {
	Codes []string
	Err   error
	calls int
}

// Generate returns the next queued code, repeating the last one when exhausted.
func (s *CodeGeneratorStub) Generate(email string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Codes) == 0 {
		return referral.Prefix(email) + "000001", nil
	}
	i := s.calls
	if i >= len(s.Codes) {
		i = len(s.Codes) - 1
	}
	s.calls++
	return s.Codes[i], nil
}

// Calls returns how many codes were requested.
func (s *CodeGeneratorStub) Calls() int {
	return s.calls
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
var _ pkgAuth.Revoker = (*RevokerStub)(nil)
var _ referral.CodeGenerator = (*CodeGeneratorStub)(nil)
