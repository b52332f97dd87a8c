package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/domain/model"
	"github.com/polkiloo/rewardportal/internal/server/http/dto"
	"github.com/polkiloo/rewardportal/internal/server/http/middleware"
)

// AuthHandler processes signup, login and logout.
type AuthHandler struct {
	facade       AuthFacade
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{facade: facade, secureCookie: secureCookie, logger: logger}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	err := h.facade.RegisterUser(c.Request.Context(), model.Registration{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		h.signupError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// AdminSignup handles POST /admin/signup.
func (h *AuthHandler) AdminSignup(c *gin.Context) {
	var req dto.AdminSignupRequest
	if err := c.ShouldBind(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	register := h.facade.RegisterAdmin
	if _, ok := c.Get(middleware.AdminIDContextKey); !ok {
		// anonymous signups only bootstrap the first admin
		register = h.facade.RegisterFirstAdmin
	}
	if err := register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		h.signupError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/admin-login")
}

func (h *AuthHandler) signupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainErrors.ErrEmailInUse):
		jsonError(c, http.StatusBadRequest, "Email is already in use")
	case errors.Is(err, domainErrors.ErrAdminSignupClosed):
		jsonError(c, http.StatusForbidden, "Admin signup is closed")
	default:
		logError(h.logger, c, "signup failed", err)
		jsonError(c, http.StatusInternalServerError, "Error during sign-up")
	}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, h.facade.Login, "/dashboard")
}

// AdminLogin handles POST /admin-login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, h.facade.AdminLogin, "/admin/dashboard")
}

func (h *AuthHandler) login(c *gin.Context, authenticate func(context.Context, string, string) (string, error), redirect string) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, err := authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			jsonError(c, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			jsonError(c, http.StatusUnauthorized, "Invalid email or password")
		default:
			logError(h.logger, c, "login failed", err)
			jsonError(c, http.StatusInternalServerError, "Error during login")
		}
		return
	}

	middleware.SetAuthCookie(c, token, h.secureCookie)
	c.Redirect(http.StatusFound, redirect)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.AuthCookieName); err == nil && token != "" {
		if err := h.facade.Logout(c.Request.Context(), token); err != nil {
			logError(h.logger, c, "logout failed", err)
			renderError(c, http.StatusInternalServerError, "Error during logout")
			return
		}
	}

	middleware.ClearAuthCookie(c, h.secureCookie)
	c.Redirect(http.StatusFound, "/")
}
