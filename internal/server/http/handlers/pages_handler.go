package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler renders the static forms.
type PageHandler struct{}

// NewPageHandler creates PageHandler instance.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Index handles GET / and GET /index.
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// Signup handles GET /signup, prefilling ?referral_code=.
func (h *PageHandler) Signup(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"ReferralCode": c.Query("referral_code")})
}

// Login handles GET /login.
func (h *PageHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

// AdminSignup handles GET /admin-signup.
func (h *PageHandler) AdminSignup(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_signup.html", nil)
}

// AdminLogin handles GET /admin-login.
func (h *PageHandler) AdminLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login.html", nil)
}

// Withdraw handles GET /withdraw.
func (h *PageHandler) Withdraw(c *gin.Context) {
	c.HTML(http.StatusOK, "withdraw.html", nil)
}
