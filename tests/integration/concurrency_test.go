package integration

import (
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two buyers race for stock that can satisfy only one of them. Row locking
// must let exactly one settle and fail the other cleanly.
func TestIntegration_ConcurrentSettlements_OversoldStock(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	sellerID := uuid.New()
	product := app.seedCatalogProduct(sellerID, "10.00", 3)

	buyers := []uuid.UUID{uuid.New(), uuid.New()}
	for _, b := range buyers {
		app.store.seedWallet(b, "100.00")
	}

	codes := make([]int, len(buyers))
	errCodes := make([]string, len(buyers))
	var wg sync.WaitGroup
	for i, b := range buyers {
		wg.Add(1)
		go func(i int, buyerID uuid.UUID) {
			defer wg.Done()
			code, resp := app.do(t, buyerID, http.MethodPost, "/api/v1/orders",
				orderBody("", line(product.ID, 2)))
			codes[i] = code
			if ec, ok := resp["error_code"].(string); ok {
				errCodes[i] = ec
			}
		}(i, b)
	}
	wg.Wait()

	var wins, losses int
	for i, code := range codes {
		switch code {
		case http.StatusCreated:
			wins++
		case http.StatusUnprocessableEntity:
			losses++
			assert.Equal(t, "ORD_005", errCodes[i])
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
	assert.Equal(t, int32(1), app.store.stockOf(product.ID))

	// Exactly one buyer was debited
	total := app.store.balanceOf(buyers[0]).Add(app.store.balanceOf(buyers[1]))
	assert.True(t, total.Equal(decimal.RequireFromString("180.00")),
		"combined buyer balance = %s", total)
}

// Opposing transfers between the same pair of wallets must conserve the total
// amount of funds in the system.
func TestIntegration_ConcurrentTransfers_ConserveFunds(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	alice := uuid.New()
	bob := uuid.New()
	app.store.seedWallet(alice, "100.00")
	app.store.seedWallet(bob, "100.00")

	const rounds = 5
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			code, _ := app.do(t, alice, http.MethodPost, "/api/v1/transfers",
				map[string]any{"recipient_id": bob.String(), "amount": "1.00"})
			assert.Equal(t, http.StatusCreated, code)
		}()
		go func() {
			defer wg.Done()
			code, _ := app.do(t, bob, http.MethodPost, "/api/v1/transfers",
				map[string]any{"recipient_id": alice.String(), "amount": "1.00"})
			assert.Equal(t, http.StatusCreated, code)
		}()
	}
	wg.Wait()

	total := app.store.balanceOf(alice).Add(app.store.balanceOf(bob))
	assert.True(t, total.Equal(decimal.RequireFromString("200.00")),
		"combined balance = %s", total)
}

// Many distinct buyers settling against ample stock: every settlement lands
// and the seller is paid once per order.
func TestIntegration_ConcurrentSettlements_AllSucceed(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	sellerID := uuid.New()
	product := app.seedCatalogProduct(sellerID, "10.00", 100)

	const buyers = 8
	ids := make([]uuid.UUID, buyers)
	for i := range ids {
		ids[i] = uuid.New()
		app.store.seedWallet(ids[i], "50.00")
	}

	var wg sync.WaitGroup
	for _, b := range ids {
		wg.Add(1)
		go func(buyerID uuid.UUID) {
			defer wg.Done()
			code, resp := app.do(t, buyerID, http.MethodPost, "/api/v1/orders",
				orderBody("", line(product.ID, 1)))
			assert.Equal(t, http.StatusCreated, code, "body: %v", resp)
		}(b)
	}
	wg.Wait()

	require.Equal(t, int32(100-buyers), app.store.stockOf(product.ID))
	want := decimal.RequireFromString("10.00").Mul(decimal.NewFromInt(buyers))
	assert.True(t, app.store.balanceOf(sellerID).Equal(want),
		"seller balance = %s", app.store.balanceOf(sellerID))
}
