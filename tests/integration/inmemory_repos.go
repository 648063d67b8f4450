package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"upbolis-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memStore is a shared in-memory database. A transaction holds the store
// mutex from Begin to Commit/Rollback, which serializes units of work the
// way row locks do, and Rollback restores a snapshot taken at Begin so
// aborted settlements leave no partial writes.
type memStore struct {
	mu       sync.Mutex
	wallets  map[uuid.UUID]domain.Wallet // by wallet ID
	products map[uuid.UUID]domain.Product
	orders   map[uuid.UUID]domain.Order
	items    map[uuid.UUID][]domain.OrderItem // by order ID
	txns     []domain.Transaction
	idemp    map[string]domain.IdempotencyLog
}

func newMemStore() *memStore {
	return &memStore{
		wallets:  make(map[uuid.UUID]domain.Wallet),
		products: make(map[uuid.UUID]domain.Product),
		orders:   make(map[uuid.UUID]domain.Order),
		items:    make(map[uuid.UUID][]domain.OrderItem),
		idemp:    make(map[string]domain.IdempotencyLog),
	}
}

type memSnapshot struct {
	wallets  map[uuid.UUID]domain.Wallet
	products map[uuid.UUID]domain.Product
	orders   map[uuid.UUID]domain.Order
	items    map[uuid.UUID][]domain.OrderItem
	txns     []domain.Transaction
	idemp    map[string]domain.IdempotencyLog
}

func (s *memStore) snapshot() *memSnapshot {
	snap := &memSnapshot{
		wallets:  make(map[uuid.UUID]domain.Wallet, len(s.wallets)),
		products: make(map[uuid.UUID]domain.Product, len(s.products)),
		orders:   make(map[uuid.UUID]domain.Order, len(s.orders)),
		items:    make(map[uuid.UUID][]domain.OrderItem, len(s.items)),
		txns:     append([]domain.Transaction(nil), s.txns...),
		idemp:    make(map[string]domain.IdempotencyLog, len(s.idemp)),
	}
	for k, v := range s.wallets {
		snap.wallets[k] = v
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = append([]domain.OrderItem(nil), v...)
	}
	for k, v := range s.idemp {
		snap.idemp[k] = v
	}
	return snap
}

func (s *memStore) restore(snap *memSnapshot) {
	s.wallets = snap.wallets
	s.products = snap.products
	s.orders = snap.orders
	s.items = snap.items
	s.txns = snap.txns
	s.idemp = snap.idemp
}

// seedWallet inserts a wallet for owner with the given balance.
func (s *memStore) seedWallet(ownerID uuid.UUID, balance string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := domain.Wallet{ID: uuid.New(), OwnerID: ownerID, Balance: decimal.RequireFromString(balance)}
	s.wallets[w.ID] = w
	return w.ID
}

// seedProduct inserts a product into the catalog.
func (s *memStore) seedProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *memStore) walletByOwner(ownerID uuid.UUID) (domain.Wallet, bool) {
	for _, w := range s.wallets {
		if w.OwnerID == ownerID {
			return w, true
		}
	}
	return domain.Wallet{}, false
}

// balanceOf reads a wallet balance outside any transaction.
func (s *memStore) balanceOf(ownerID uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.walletByOwner(ownerID)
	if !ok {
		return decimal.Zero
	}
	return w.Balance
}

// stockOf reads a product's stock outside any transaction.
func (s *memStore) stockOf(productID uuid.UUID) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].Stock
}

// --- Transactor (snapshot + rollback) ---

type memTransactor struct{ store *memStore }

func newMemTransactor(store *memStore) *memTransactor {
	return &memTransactor{store: store}
}

func (t *memTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.store.mu.Lock()
	return &memTx{store: t.store, snap: t.store.snapshot()}, nil
}

// memTx implements pgx.Tx over the store. Only Commit and Rollback are ever
// called; the embedded interface covers the rest.
type memTx struct {
	pgx.Tx
	store *memStore
	snap  *memSnapshot
	done  bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.restore(t.snap)
	t.store.mu.Unlock()
	return nil
}

// --- Wallet Repo ---
//
// Methods taking a pgx.Tx run with the store mutex already held by Begin and
// must not lock; the rest lock for the duration of the call.

type memWalletRepo struct{ store *memStore }

func (r *memWalletRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.walletByOwner(ownerID)
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *memWalletRepo) GetByOwnerIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) (*domain.Wallet, error) {
	w, ok := r.store.walletByOwner(ownerID)
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *memWalletRepo) GetOrCreateByOwnerIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) (*domain.Wallet, error) {
	if w, ok := r.store.walletByOwner(ownerID); ok {
		return &w, nil
	}
	w := domain.Wallet{ID: uuid.New(), OwnerID: ownerID, Balance: decimal.Zero}
	r.store.wallets[w.ID] = w
	return &w, nil
}

func (r *memWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	w, ok := r.store.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	w.Balance = balance
	r.store.wallets[walletID] = w
	return nil
}

// --- Product Repo ---

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProductRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProductRepo) UpdateStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, stock int32) error {
	p, ok := r.store.products[productID]
	if !ok {
		return fmt.Errorf("product not found: %s", productID)
	}
	p.Stock = stock
	r.store.products[productID] = p
	return nil
}

// --- Order Repo ---

type memOrderRepo struct{ store *memStore }

func (r *memOrderRepo) Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	r.store.orders[order.ID] = *order
	return nil
}

func (r *memOrderRepo) CreateItem(ctx context.Context, tx pgx.Tx, item *domain.OrderItem) error {
	r.store.items[item.OrderID] = append(r.store.items[item.OrderID], *item)
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *memOrderRepo) ListByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var orders []domain.Order
	for _, o := range r.store.orders {
		if o.BuyerID == buyerID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (r *memOrderRepo) ListItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]domain.OrderItem(nil), r.store.items[orderID]...), nil
}

// --- Transaction Repo ---

type memTransactionRepo struct{ store *memStore }

func (r *memTransactionRepo) Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	r.store.txns = append(r.store.txns, *txn)
	return nil
}

func (r *memTransactionRepo) ListByWalletID(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Transaction
	for _, t := range r.store.txns {
		if t.FromWalletID == walletID || t.ToWalletID == walletID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// --- Idempotency Repo ---

type memIdempotencyRepo struct{ store *memStore }

func (r *memIdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	r.store.idemp[log.Key] = *log
	return nil
}

func (r *memIdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	l, ok := r.store.idemp[key]
	if !ok {
		return nil, nil
	}
	return &l, nil
}
