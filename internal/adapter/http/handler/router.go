package handler

import (
	"upbolis-market/internal/adapter/http/middleware"
	"upbolis-market/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	SettlementSvc  ports.SettlementService
	TransferSvc    ports.TransferService
	ReportingSvc   ports.ReportingService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// All API routes require a caller identity from the gateway
	v1 := r.Group("/api/v1", middleware.Identity())

	orderHandler := NewOrderHandler(deps.SettlementSvc, deps.ReportingSvc)
	orders := v1.Group("/orders")
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
	}

	transferHandler := NewTransferHandler(deps.TransferSvc)
	v1.POST("/transfers", transferHandler.Transfer)

	walletHandler := NewWalletHandler(deps.ReportingSvc)
	v1.GET("/wallets/balance", walletHandler.GetBalance)
	v1.GET("/transactions", walletHandler.ListTransactions)

	return r
}
