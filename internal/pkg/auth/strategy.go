package auth

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

// Role distinguishes end users from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the authenticated principal carried inside a session token.
type Identity struct {
	SubjectID int64
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

type Strategy interface {
	IssueToken(identity Identity) (string, error)
	ParseToken(token string) (Identity, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}

func (o Options) ttl() time.Duration {
	if o.TTL <= 0 {
		return 30 * 24 * time.Hour
	}
	return o.TTL
}

func (o Options) clock() func() time.Time {
	if o.Now == nil {
		return time.Now
	}
	return o.Now
}

// Revoker keeps track of tokens invalidated before their expiry.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
