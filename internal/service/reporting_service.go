package service

import (
	"context"
	"fmt"

	"upbolis-market/internal/core/domain"
	"upbolis-market/internal/core/ports"
	"upbolis-market/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ReportingServiceImpl implements ports.ReportingService, the read side of
// the marketplace. It never mutates state and never locks rows.
type ReportingServiceImpl struct {
	orderRepo   ports.OrderRepository
	productRepo ports.ProductRepository
	walletRepo  ports.WalletRepository
	txRepo      ports.TransactionRepository
	log         zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(
	orderRepo ports.OrderRepository,
	productRepo ports.ProductRepository,
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	log zerolog.Logger,
) *ReportingServiceImpl {
	return &ReportingServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		log:         log,
	}
}

// ListOrders returns the buyer's order history with line items, newest first.
func (s *ReportingServiceImpl) ListOrders(ctx context.Context, buyerID uuid.UUID) ([]domain.OrderDetail, error) {
	orders, err := s.orderRepo.ListByBuyerID(ctx, buyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list orders: %w", err))
	}

	details := make([]domain.OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail, err := s.buildDetail(ctx, order)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// GetOrder returns one of the buyer's orders. An order that exists but
// belongs to someone else reads as not found, so order IDs are not probeable.
func (s *ReportingServiceImpl) GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*domain.OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if order == nil || order.BuyerID != buyerID {
		return nil, apperror.ErrOrderNotFound()
	}
	return s.buildDetail(ctx, *order)
}

// ListTransactions returns every ledger entry touching the user's wallet,
// newest first. A user without a wallet has an empty history.
func (s *ReportingServiceImpl) ListTransactions(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	wallet, err := s.walletRepo.GetByOwnerID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return []domain.Transaction{}, nil
	}

	txns, err := s.txRepo.ListByWalletID(ctx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// GetWalletBalance returns the user's balance. A user whose wallet has not
// been created yet holds zero.
func (s *ReportingServiceImpl) GetWalletBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	wallet, err := s.walletRepo.GetByOwnerID(ctx, userID)
	if err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return decimal.Zero, nil
	}
	return wallet.Balance, nil
}

func (s *ReportingServiceImpl) buildDetail(ctx context.Context, order domain.Order) (*domain.OrderDetail, error) {
	items, err := s.orderRepo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list order items: %w", err))
	}

	details := make([]domain.OrderItemDetail, 0, len(items))
	for _, item := range items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get product: %w", err))
		}
		if product == nil {
			// Catalog row gone; the snapshot on the item still stands.
			product = &domain.Product{ID: item.ProductID}
		}
		details = append(details, domain.OrderItemDetail{Item: item, Product: *product})
	}

	return &domain.OrderDetail{Order: order, Items: details}, nil
}
