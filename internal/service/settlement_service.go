package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"upbolis-market/internal/core/domain"
	"upbolis-market/internal/core/ports"
	"upbolis-market/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const idempotencyTTL = 24 * time.Hour

// SettlementServiceImpl implements ports.SettlementService. A settlement
// turns a cart into a paid order, debits the buyer, pays out each distinct
// seller and decrements stock, all inside one database transaction.
type SettlementServiceImpl struct {
	orderRepo   ports.OrderRepository
	productRepo ports.ProductRepository
	walletRepo  ports.WalletRepository
	txRepo      ports.TransactionRepository
	idempRepo   ports.IdempotencyRepository
	idempCache  ports.IdempotencyCache
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(
	orderRepo ports.OrderRepository,
	productRepo ports.ProductRepository,
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		idempRepo:   idempRepo,
		idempCache:  idempCache,
		transactor:  transactor,
		log:         log,
	}
}

// Settle implements the settlement algorithm with pessimistic locking.
func (s *SettlementServiceImpl) Settle(ctx context.Context, req ports.SettleRequest) (*domain.OrderDetail, error) {
	if len(req.Items) == 0 {
		return nil, apperror.ErrEmptyCart()
	}

	idempKey := ""
	if req.ReferenceID != "" {
		idempKey = domain.BuildIdempotencyKey(req.BuyerID, req.ReferenceID)

		// Layer 1: Redis idempotency check
		cached, err := s.idempCache.Get(ctx, idempKey)
		if err != nil {
			s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
		}
		if cached != nil {
			return unmarshalCachedOrder(cached)
		}

		// Layer 2: DB idempotency check
		idempLog, err := s.idempRepo.Get(ctx, idempKey)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
		}
		if idempLog != nil {
			return unmarshalCachedOrder(idempLog.ResponseJSON)
		}
	}

	detail, err := withConflictRetry(ctx, s.log, "settle", func(ctx context.Context) (*domain.OrderDetail, error) {
		return s.settleOnce(ctx, req, idempKey)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("order_id", detail.Order.ID.String()).
		Str("buyer_id", req.BuyerID.String()).
		Str("total", detail.Order.TotalAmount.String()).
		Int("items", len(detail.Items)).
		Msg("order settled")

	return detail, nil
}

// settleOnce runs one settlement attempt inside a single database
// transaction. Lock order is buyer wallet, then products in cart order, then
// seller wallets in first-seen order; a deadlock against a concurrent
// settlement aborts the attempt and the caller retries.
func (s *SettlementServiceImpl) settleOnce(ctx context.Context, req ports.SettleRequest, idempKey string) (*domain.OrderDetail, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get buyer wallet
	buyerWallet, err := s.walletRepo.GetByOwnerIDForUpdate(ctx, dbTx, req.BuyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock buyer wallet: %w", err))
	}
	if buyerWallet == nil {
		return nil, apperror.ErrWalletNotFound(req.BuyerID.String())
	}

	// Validate the cart in submitted order, locking each product once.
	// Stock is decremented in memory so a product repeated in the cart is
	// checked against what earlier lines already claimed.
	locked := make(map[uuid.UUID]*domain.Product)
	var lockOrder []uuid.UUID

	total := decimal.Zero
	sellerTotals := make(map[uuid.UUID]decimal.Decimal)
	var sellerOrder []uuid.UUID

	type line struct {
		product  *domain.Product
		quantity int32
		subtotal decimal.Decimal
	}
	lines := make([]line, 0, len(req.Items))

	for _, item := range req.Items {
		product, ok := locked[item.ProductID]
		if !ok {
			product, err = s.productRepo.GetByIDForUpdate(ctx, dbTx, item.ProductID)
			if err != nil {
				return nil, apperror.InternalError(fmt.Errorf("lock product: %w", err))
			}
			if product == nil {
				return nil, apperror.ErrProductNotFound(item.ProductID.String())
			}
			locked[item.ProductID] = product
			lockOrder = append(lockOrder, item.ProductID)
		}

		if !product.Active {
			return nil, apperror.ErrProductInactive(product.Name)
		}
		if item.Quantity < 1 {
			return nil, apperror.ErrInvalidQuantity(product.Name)
		}
		if !product.InStock(item.Quantity) {
			return nil, apperror.ErrInsufficientStock(product.Name)
		}
		if !product.HasSeller() {
			return nil, apperror.ErrNoSellerAssigned(product.Name)
		}
		product.Stock -= item.Quantity

		subtotal := product.Price.Mul(decimal.NewFromInt32(item.Quantity))
		total = total.Add(subtotal)

		sellerID := *product.SellerID
		if _, seen := sellerTotals[sellerID]; !seen {
			sellerOrder = append(sellerOrder, sellerID)
		}
		sellerTotals[sellerID] = sellerTotals[sellerID].Add(subtotal)

		lines = append(lines, line{product: product, quantity: item.Quantity, subtotal: subtotal})
	}

	// Business rule: sufficient funds for the whole cart
	if !buyerWallet.CanDebit(total) {
		return nil, apperror.ErrInsufficientFunds()
	}

	// Persist: debit buyer
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, buyerWallet.ID, buyerWallet.Balance.Sub(total)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit buyer: %w", err))
	}

	// Persist: one payout transaction per distinct seller, first-seen order.
	// A seller buying their own product is paid into the wallet already
	// debited above; the locked re-read observes the debited balance.
	payoutIDs := make([]uuid.UUID, 0, len(sellerOrder))
	for _, sellerID := range sellerOrder {
		sellerWallet, err := s.walletRepo.GetOrCreateByOwnerIDForUpdate(ctx, dbTx, sellerID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock seller wallet: %w", err))
		}

		amount := sellerTotals[sellerID]
		if err := s.walletRepo.UpdateBalance(ctx, dbTx, sellerWallet.ID, sellerWallet.Balance.Add(amount)); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("credit seller: %w", err))
		}

		payout := &domain.Transaction{
			ID:           uuid.New(),
			FromWalletID: buyerWallet.ID,
			ToWalletID:   sellerWallet.ID,
			Amount:       amount,
			Type:         domain.TransactionTypeTransfer,
			Description:  "order settlement",
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.txRepo.Create(ctx, dbTx, payout); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create payout: %w", err))
		}
		payoutIDs = append(payoutIDs, payout.ID)
	}

	// The order links a ledger entry only when there is exactly one; a
	// multi-seller cart has no single representative payout.
	order := &domain.Order{
		ID:          uuid.New(),
		BuyerID:     req.BuyerID,
		TotalAmount: total,
		Status:      domain.OrderStatusPaid,
		CreatedAt:   time.Now().UTC(),
	}
	if len(payoutIDs) == 1 {
		order.TransactionID = &payoutIDs[0]
	}
	if err := s.orderRepo.Create(ctx, dbTx, order); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create order: %w", err))
	}

	// Persist: line items with price snapshots
	details := make([]domain.OrderItemDetail, 0, len(lines))
	for _, l := range lines {
		item := &domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: l.product.ID,
			Quantity:  l.quantity,
			UnitPrice: l.product.Price,
			Subtotal:  l.subtotal,
			CreatedAt: order.CreatedAt,
		}
		if err := s.orderRepo.CreateItem(ctx, dbTx, item); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create order item: %w", err))
		}
		details = append(details, domain.OrderItemDetail{Item: *item, Product: *l.product})
	}

	// Persist: stock decrements, one write per distinct product
	for _, productID := range lockOrder {
		if err := s.productRepo.UpdateStock(ctx, dbTx, productID, locked[productID].Stock); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update stock: %w", err))
		}
	}

	detail := &domain.OrderDetail{Order: *order, Items: details}
	respJSON, err := json.Marshal(detail)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal response: %w", err))
	}

	// Persist: idempotency log inside the same transaction
	if idempKey != "" {
		idempLogEntry := &domain.IdempotencyLog{
			Key:          idempKey,
			OrderID:      order.ID,
			ResponseJSON: respJSON,
			CreatedAt:    order.CreatedAt,
		}
		if err := s.idempRepo.Create(ctx, dbTx, idempLogEntry); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("save idempotency log: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-process: cache in Redis (best-effort)
	if idempKey != "" {
		if err := s.idempCache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
			s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
		}
	}

	return detail, nil
}

func unmarshalCachedOrder(data []byte) (*domain.OrderDetail, error) {
	var detail domain.OrderDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached order: %w", err))
	}
	return &detail, nil
}
