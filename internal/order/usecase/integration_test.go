//go:build integration

package usecase

import (
	"context"
	"testing"

	invrepo "github.com/fekuna/omnipos-catalog-service/internal/inventory/repository"
	invuc "github.com/fekuna/omnipos-catalog-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-catalog-service/internal/order/dto"
	orderrepo "github.com/fekuna/omnipos-catalog-service/internal/order/repository"
	"github.com/fekuna/omnipos-catalog-service/internal/payment"
	"github.com/fekuna/omnipos-catalog-service/internal/testdb"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockRow struct {
	Stock      int  `db:"stock"`
	IsArchived bool `db:"is_archived"`
}

func TestWebhookDecrementsStockInPostgres(t *testing.T) {
	db := testdb.Start(t)
	ctx := context.Background()
	_, storeID := testdb.SeedStore(t, db)

	insertProduct := func(name string, stock int) string {
		id := uuid.NewString()
		_, err := db.Exec(`INSERT INTO products (id, store_id, name, slug, price, stock) VALUES ($1, $2, $3, $3, 10, $4)`,
			id, storeID, name, stock)
		require.NoError(t, err)
		return id
	}
	partial := insertProduct("tee", 5)
	soldOut := insertProduct("cap", 5)

	log := logger.NewNop()
	inv := invuc.NewInventoryUseCase(invrepo.NewPGRepository(db), nil, nil, log)
	gw := &FakeGateway{}
	uc := NewOrderUseCase(orderrepo.NewPGRepository(db), inv, gw, nil, nil, nil, settings, log)

	pay := func(productID string, quantity int) string {
		_, err := uc.Checkout(ctx, &dto.CheckoutInput{
			StoreID:     storeID,
			RedirectURL: "https://shop.example.com",
			CheckoutRequest: dto.CheckoutRequest{
				CartProducts: []dto.CartProduct{{ID: productID, Quantity: quantity}},
			},
		})
		require.NoError(t, err)
		orderID := gw.requests[len(gw.requests)-1].OrderID
		gw.completion = &payment.Completion{SessionID: "cs_" + orderID, OrderID: orderID, Address: "Jl. Merdeka 1", Phone: "+62 811"}

		// The provider may deliver the same event more than once.
		require.NoError(t, uc.HandleWebhook(ctx, []byte(`{}`), "valid"))
		require.NoError(t, uc.HandleWebhook(ctx, []byte(`{}`), "valid"))
		return orderID
	}
	stock := func(db *sqlx.DB, id string) stockRow {
		var row stockRow
		require.NoError(t, db.Get(&row, `SELECT stock, is_archived FROM products WHERE id = $1`, id))
		return row
	}

	orderID := pay(partial, 3)
	assert.Equal(t, stockRow{Stock: 2, IsArchived: false}, stock(db, partial))

	o, err := uc.GetOrder(ctx, storeID, orderID)
	require.NoError(t, err)
	assert.True(t, o.IsPaid)
	assert.Equal(t, "Jl. Merdeka 1", o.Address)
	require.Len(t, o.Items, 1)

	var movements int
	require.NoError(t, db.Get(&movements, `SELECT count(*) FROM inventory_movements WHERE reference_id = $1`, orderID))
	assert.Equal(t, 1, movements)

	pay(soldOut, 5)
	assert.Equal(t, stockRow{Stock: 0, IsArchived: true}, stock(db, soldOut))

	overview, err := uc.Overview(ctx, storeID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.SalesCount)
	assert.Equal(t, 1, overview.StockCount)
	assert.Equal(t, "80", overview.TotalRevenue.String())
}
