package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/rewardportal/internal/pkg/auth"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	// AdminIDContextKey is a gin context key for authenticated admin identifier.
	AdminIDContextKey = "adminID"
	// AuthCookieName names the session cookie.
	AuthCookieName = "token"
)

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (pkgAuth.Identity, error)
}

// AdminRegistry reports whether the admin bootstrap has happened.
type AdminRegistry interface {
	AdminsExist(ctx context.Context) (bool, error)
}

// GuestOnly sends visitors with a valid session to their dashboard. An
// unverifiable cookie is cleared and the request proceeds.
func GuestOnly(verifier TokenVerifier, secure bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AuthCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				ClearAuthCookie(c, secure)
				c.Next()
				return
			}
			abortInternal(c, logger, err)
			return
		}

		switch identity.Role {
		case pkgAuth.RoleAdmin:
			c.Redirect(http.StatusFound, "/admin/dashboard")
		default:
			c.Redirect(http.StatusFound, "/dashboard")
		}
		c.Abort()
	}
}

// UserRequired ensures a user session is present before accessing handler.
func UserRequired(verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return requireRole(verifier, pkgAuth.RoleUser, "/", UserIDContextKey, logger)
}

// AdminRequired ensures an admin session is present before accessing handler.
func AdminRequired(verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return requireRole(verifier, pkgAuth.RoleAdmin, "/admin-login", AdminIDContextKey, logger)
}

// AdminSignupGate leaves admin signup open until the first admin exists and
// requires an admin session afterwards.
func AdminSignupGate(verifier TokenVerifier, registry AdminRegistry, logger *slog.Logger) gin.HandlerFunc {
	adminOnly := AdminRequired(verifier, logger)
	return func(c *gin.Context) {
		exists, err := registry.AdminsExist(c.Request.Context())
		if err != nil {
			abortInternal(c, logger, err)
			return
		}
		if !exists {
			c.Next()
			return
		}
		adminOnly(c)
	}
}

func requireRole(verifier TokenVerifier, role pkgAuth.Role, redirect, key string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AuthCookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, redirect)
			c.Abort()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.Redirect(http.StatusFound, redirect)
				c.Abort()
				return
			}
			abortInternal(c, logger, err)
			return
		}
		if identity.Role != role {
			c.Redirect(http.StatusFound, redirect)
			c.Abort()
			return
		}

		c.Set(key, identity.SubjectID)
		c.Next()
	}
}

func abortInternal(c *gin.Context, logger *slog.Logger, err error) {
	logger.Error("session verification failed",
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	c.AbortWithStatus(http.StatusInternalServerError)
}

// SetAuthCookie writes the session cookie to response.
func SetAuthCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, token, 0, "/", "", secure, true)
}

// ClearAuthCookie expires the session cookie.
func ClearAuthCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, "", -1, "/", "", secure, true)
}
