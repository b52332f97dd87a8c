package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/rewardportal/internal/domain/errors"
	"github.com/polkiloo/rewardportal/internal/server/http/dto"
)

// WithdrawalHandler manages payout requests and their review.
type WithdrawalHandler struct {
	facade WithdrawalFacade
	logger *slog.Logger
}

// NewWithdrawalHandler constructs WithdrawalHandler.
func NewWithdrawalHandler(facade WithdrawalFacade, logger *slog.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{facade: facade, logger: logger}
}

// Submit handles POST /withdraw.
func (h *WithdrawalHandler) Submit(c *gin.Context) {
	var req dto.WithdrawRequest
	if err := c.ShouldBind(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid withdrawal request")
		return
	}

	_, err := h.facade.SubmitWithdrawal(c.Request.Context(), CurrentUserID(c), req.Model())
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidAmount):
			jsonError(c, http.StatusBadRequest, "Amount must be positive")
		case errors.Is(err, domainErrors.ErrValidation):
			jsonError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domainErrors.ErrInsufficientBalance):
			jsonError(c, http.StatusPaymentRequired, "Insufficient balance")
		case errors.Is(err, domainErrors.ErrNotFound):
			renderError(c, http.StatusNotFound, "User not found")
		default:
			logError(h.logger, c, "submit withdrawal failed", err)
			renderError(c, http.StatusInternalServerError, "Error during withdrawal")
		}
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// AdminDashboard handles GET /admin/dashboard.
func (h *WithdrawalHandler) AdminDashboard(c *gin.Context) {
	overview, err := h.facade.AdminOverview(c.Request.Context())
	if err != nil {
		logError(h.logger, c, "load admin overview failed", err)
		renderError(c, http.StatusInternalServerError, "Error fetching withdrawals")
		return
	}
	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{"Overview": overview})
}

// Approve handles POST /admin/withdrawals/:id/approve.
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		renderError(c, http.StatusBadRequest, "Invalid withdrawal id")
		return
	}

	changed, err := h.facade.ApproveWithdrawal(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			renderError(c, http.StatusNotFound, "Withdrawal not found")
			return
		}
		logError(h.logger, c, "approve withdrawal failed", err)
		renderError(c, http.StatusInternalServerError, "Error approving withdrawal")
		return
	}
	if changed {
		h.logger.Info("withdrawal approved", slog.Int64("withdrawal_id", id))
	}

	c.Redirect(http.StatusFound, "/admin/dashboard")
}
