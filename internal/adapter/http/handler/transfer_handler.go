package handler

import (
	"upbolis-market/internal/adapter/http/dto"
	"upbolis-market/internal/adapter/http/middleware"
	"upbolis-market/internal/core/ports"
	"upbolis-market/pkg/apperror"
	"upbolis-market/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferHandler handles peer-to-peer transfer endpoints.
type TransferHandler struct {
	transferSvc ports.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// Transfer handles POST /api/v1/transfers.
func (h *TransferHandler) Transfer(c *gin.Context) {
	senderID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrMissingIdentity())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation("amount must be a decimal string"))
		return
	}

	result, err := h.transferSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		SenderID:    senderID,
		RecipientID: uuid.MustParse(req.RecipientID), // format enforced by binding
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToTransferResponse(result))
}
