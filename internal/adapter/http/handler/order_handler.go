package handler

import (
	"fmt"

	"upbolis-market/internal/adapter/http/dto"
	"upbolis-market/internal/adapter/http/middleware"
	"upbolis-market/internal/core/ports"
	"upbolis-market/pkg/apperror"
	"upbolis-market/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order settlement and order history endpoints.
type OrderHandler struct {
	settlementSvc ports.SettlementService
	reportingSvc  ports.ReportingService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(settlementSvc ports.SettlementService, reportingSvc ports.ReportingService) *OrderHandler {
	return &OrderHandler{
		settlementSvc: settlementSvc,
		reportingSvc:  reportingSvc,
	}
}

// CreateOrder handles POST /api/v1/orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	buyerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrMissingIdentity())
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	items := make([]ports.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		productID, err := uuid.Parse(it.ProductID)
		if err != nil {
			response.Error(c, apperror.Validation(fmt.Sprintf("invalid product id %q", it.ProductID)))
			return
		}
		items = append(items, ports.CartItem{ProductID: productID, Quantity: it.Quantity})
	}

	detail, err := h.settlementSvc.Settle(c.Request.Context(), ports.SettleRequest{
		BuyerID:     buyerID,
		Items:       items,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToOrderResponse(detail))
}

// ListOrders handles GET /api/v1/orders.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	buyerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrMissingIdentity())
		return
	}

	details, err := h.reportingSvc.ListOrders(c.Request.Context(), buyerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToOrderResponses(details))
}

// GetOrder handles GET /api/v1/orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	buyerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrMissingIdentity())
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid order id"))
		return
	}

	detail, err := h.reportingSvc.GetOrder(c.Request.Context(), buyerID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToOrderResponse(detail))
}
