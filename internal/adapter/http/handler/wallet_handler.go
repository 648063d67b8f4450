package handler

import (
	"upbolis-market/internal/adapter/http/dto"
	"upbolis-market/internal/adapter/http/middleware"
	"upbolis-market/internal/core/ports"
	"upbolis-market/pkg/apperror"
	"upbolis-market/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet balance and transaction history endpoints.
type WalletHandler struct {
	reportingSvc ports.ReportingService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(reportingSvc ports.ReportingService) *WalletHandler {
	return &WalletHandler{reportingSvc: reportingSvc}
}

// GetBalance handles GET /api/v1/wallets/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrMissingIdentity())
		return
	}

	balance, err := h.reportingSvc.GetWalletBalance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WalletBalanceResponse{Balance: balance.StringFixed(2)})
}

// ListTransactions handles GET /api/v1/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrMissingIdentity())
		return
	}

	txns, err := h.reportingSvc.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToTransactionResponses(txns))
}
