package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/server/http/dto"
)

// RewardHandler serves the user dashboard and the daily claim.
type RewardHandler struct {
	facade RewardFacade
	logger *slog.Logger
}

// NewRewardHandler constructs RewardHandler.
func NewRewardHandler(facade RewardFacade, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{facade: facade, logger: logger}
}

// Dashboard handles GET /dashboard.
func (h *RewardHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.facade.Dashboard(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			renderError(c, http.StatusNotFound, "User not found")
			return
		}
		logError(h.logger, c, "load dashboard failed", err)
		renderError(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"Dashboard": dashboard})
}

// Claim handles POST /claim-daily-reward.
func (h *RewardHandler) Claim(c *gin.Context) {
	_, err := h.facade.ClaimDailyReward(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		var cooldown *domainErrors.ClaimCooldownError
		switch {
		case errors.As(err, &cooldown):
			c.JSON(http.StatusTooManyRequests, dto.CooldownResponse{
				Error:   "Daily reward already claimed",
				Hours:   cooldown.Hours(),
				Minutes: cooldown.Minutes(),
			})
		case errors.Is(err, domainErrors.ErrNotFound):
			renderError(c, http.StatusNotFound, "User not found")
		default:
			logError(h.logger, c, "claim daily reward failed", err)
			renderError(c, http.StatusInternalServerError, "Error processing daily reward claim")
		}
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}
