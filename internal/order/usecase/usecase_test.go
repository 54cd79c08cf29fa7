package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	invdto "github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/order"
	"github.com/fekuna/omnipos-catalog-service/internal/order/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/payment"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pTee    = "0b9f3c1e-4d7a-4a8e-9a57-0d6a2b3c4d5e"
	pHoodie = "1c8e2d0f-5e6b-4b9f-8a68-1e7b3c4d5e6f"
	vRedS   = "2d7f1e9a-6f5c-4c0e-9b79-2f8c4d5e6f70"
)

type MockOrderRepo struct {
	mu       sync.Mutex
	products map[string]dto.PricedProduct
	variants map[string]string
	orders   map[string]*model.Order
	deleted  []string
}

func newRepo() *MockOrderRepo {
	return &MockOrderRepo{
		products: map[string]dto.PricedProduct{
			pTee: {ID: pTee, Name: "Tee", Price: decimal.RequireFromString("20.00"),
				SalePrice: decimal.NewNullDecimal(decimal.RequireFromString("15.50"))},
			pHoodie: {ID: pHoodie, Name: "Hoodie", Price: decimal.RequireFromString("40.00")},
		},
		variants: map[string]string{vRedS: pHoodie},
		orders:   map[string]*model.Order{},
	}
}

func (m *MockOrderRepo) PricedProducts(_ context.Context, storeID string, ids []string) ([]dto.PricedProduct, error) {
	var out []dto.PricedProduct
	for _, id := range ids {
		if p, ok := m.products[id]; ok && storeID == "s1" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) VariantOwners(_ context.Context, _ string, ids []string) ([]dto.VariantOwner, error) {
	var out []dto.VariantOwner
	for _, id := range ids {
		if pid, ok := m.variants[id]; ok {
			out = append(out, dto.VariantOwner{ID: id, ProductID: pid})
		}
	}
	return out, nil
}

func (m *MockOrderRepo) VariantLabels(_ context.Context, ids []string) ([]dto.VariantLabel, error) {
	var out []dto.VariantLabel
	for _, id := range ids {
		if id == vRedS {
			out = append(out,
				dto.VariantLabel{VariantID: id, OptionName: "Color", ValueName: "Red"},
				dto.VariantLabel{VariantID: id, OptionName: "Size", ValueName: "S"})
		}
	}
	return out, nil
}

func (m *MockOrderRepo) ProductImages(_ context.Context, ids []string) ([]dto.ProductImage, error) {
	var out []dto.ProductImage
	for _, id := range ids {
		if id == pHoodie {
			out = append(out, dto.ProductImage{ProductID: id, URL: "https://cdn.example/hoodie.png"})
		}
	}
	return out, nil
}

func (m *MockOrderRepo) Create(_ context.Context, o *model.Order) error {
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *MockOrderRepo) SetPaymentSession(_ context.Context, orderID, sessionID string) error {
	m.orders[orderID].PaymentSessionID = &sessionID
	return nil
}

func (m *MockOrderRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.orders, id)
	return nil
}

func (m *MockOrderRepo) FindBySession(_ context.Context, sessionID string) (*model.Order, error) {
	for _, o := range m.orders {
		if o.PaymentSessionID != nil && *o.PaymentSessionID == sessionID {
			return o, nil
		}
	}
	return nil, nil
}

func (m *MockOrderRepo) MarkPaid(_ context.Context, _ sqlx.ExtContext, id, address, phone string, at time.Time) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.IsPaid {
		return nil, nil
	}
	o.IsPaid, o.Address, o.Phone, o.PaidAt = true, address, phone, &at
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepo) FindItems(_ context.Context, _ sqlx.ExtContext, ids []string) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for _, id := range ids {
		if o, ok := m.orders[id]; ok {
			out = append(out, o.Items...)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) WithTx(_ context.Context, fn func(tx *sqlx.Tx) error) error { return fn(nil) }

func (m *MockOrderRepo) FindByID(_ context.Context, _, id string) (*model.Order, error) {
	return m.orders[id], nil
}

func (m *MockOrderRepo) FindAll(context.Context, *dto.OrderFilters) ([]model.Order, int, error) {
	return []model.Order{}, 0, nil
}

func (m *MockOrderRepo) TotalRevenue(context.Context, string) (decimal.Decimal, error) {
	return decimal.RequireFromString("125.50"), nil
}
func (m *MockOrderRepo) SalesCount(context.Context, string) (int, error) { return 3, nil }
func (m *MockOrderRepo) StockCount(context.Context, string) (int, error) { return 7, nil }
func (m *MockOrderRepo) MonthlyRevenue(_ context.Context, _ string, from, to time.Time) ([]dto.MonthlyRevenue, error) {
	if from.Year() != 2026 || to.Year() != 2027 {
		return nil, errors.New("unexpected range")
	}
	return []dto.MonthlyRevenue{
		{Month: 1, Total: decimal.RequireFromString("100.00")},
		{Month: 12, Total: decimal.RequireFromString("25.50")},
	}, nil
}

type MockInventory struct {
	mu       sync.Mutex
	deducted []string
}

func (m *MockInventory) DeductForOrder(_ context.Context, _ *sqlx.Tx, o *model.Order) ([]model.InventoryMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deducted = append(m.deducted, o.ID)
	return make([]model.InventoryMovement, len(o.Items)), nil
}
func (m *MockInventory) AdjustStock(context.Context, *invdto.AdjustStockInput) (*model.InventoryMovement, error) {
	return nil, nil
}
func (m *MockInventory) ListMovements(context.Context, *invdto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return nil, 0, nil
}

type FakeGateway struct {
	requests   []*payment.CheckoutRequest
	fail       bool
	completion *payment.Completion
}

func (g *FakeGateway) CreateCheckoutSession(_ context.Context, req *payment.CheckoutRequest) (*payment.Session, error) {
	if g.fail {
		return nil, errors.New("provider down")
	}
	g.requests = append(g.requests, req)
	return &payment.Session{ID: "cs_" + req.OrderID, URL: "https://pay.example/" + req.OrderID}, nil
}

func (g *FakeGateway) ParseWebhook(_ []byte, signature string) (*payment.Completion, error) {
	if signature != "valid" {
		return nil, payment.ErrInvalidSignature
	}
	return g.completion, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []order.Event
}

func (r *recordingPublisher) Publish(_ context.Context, _, _ string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, v.(order.Event))
	return nil
}
func (r *recordingPublisher) Close() error { return nil }

type recordingObserver struct {
	ids []string
}

func (o *recordingObserver) StockChanged(_ context.Context, _ string, ids []string) {
	o.ids = append(o.ids, ids...)
}

var settings = Settings{EventTopic: "orders.events"}

func strp(s string) *string { return &s }

func checkoutInput(lines ...dto.CartProduct) *dto.CheckoutInput {
	return &dto.CheckoutInput{
		StoreID:         "s1",
		RedirectURL:     "https://shop.example/",
		CheckoutRequest: dto.CheckoutRequest{CartProducts: lines},
	}
}

func TestCheckoutPricesFromStoredRecords(t *testing.T) {
	repo := newRepo()
	gw := &FakeGateway{}
	uc := NewOrderUseCase(repo, &MockInventory{}, gw, nil, nil, nil, settings, logger.NewNop())

	res, err := uc.Checkout(context.Background(), checkoutInput(
		dto.CartProduct{ID: pTee, Quantity: 2},
		dto.CartProduct{ID: pHoodie, Quantity: 1, VariantID: strp(vRedS)},
	))
	require.NoError(t, err)
	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	assert.Equal(t, "https://pay.example/"+req.OrderID, res.CheckoutURL)
	assert.Equal(t, "USD", req.Currency)
	assert.Equal(t, "https://shop.example/cart?success=1", req.SuccessURL)
	assert.Equal(t, "https://shop.example/cart?canceled=1", req.CancelURL)
	require.Len(t, req.Items, 2)
	assert.True(t, decimal.RequireFromString("15.50").Equal(req.Items[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("40.00").Equal(req.Items[1].UnitPrice))
	assert.Empty(t, req.Items[0].Description)
	assert.Equal(t, "Hoodie - Color - Red / Size - S", req.Items[1].Description)
	assert.Equal(t, []string{"https://cdn.example/hoodie.png"}, req.Items[1].Images)

	o := repo.orders[req.OrderID]
	require.NotNil(t, o)
	assert.False(t, o.IsPaid)
	assert.True(t, decimal.RequireFromString("71.00").Equal(o.TotalPrice))
	assert.Equal(t, "cs_"+o.ID, *o.PaymentSessionID)
	assert.Equal(t, vRedS, *o.Items[1].VariantID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	uc := NewOrderUseCase(newRepo(), &MockInventory{}, &FakeGateway{}, nil, nil, nil, settings, logger.NewNop())
	_, err := uc.Checkout(context.Background(), checkoutInput())
	require.True(t, apperror.Is(err, apperror.KindBadRequest))
	assert.Equal(t, MsgCartEmpty, apperror.From(err).Message)
}

func TestCheckoutRejectsUnknownCurrency(t *testing.T) {
	repo := newRepo()
	gw := &FakeGateway{}
	uc := NewOrderUseCase(repo, &MockInventory{}, gw, nil, nil, nil, settings, logger.NewNop())

	in := checkoutInput(dto.CartProduct{ID: pTee, Quantity: 1})
	in.Currency = "zzz"
	_, err := uc.Checkout(context.Background(), in)
	require.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, []string{MsgCurrencyInvalid}, apperror.From(err).Fields["currency"])
	assert.Empty(t, repo.orders)
	assert.Empty(t, gw.requests)

	in.Currency = "jpy"
	_, err = uc.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "JPY", gw.requests[0].Currency)
}

func TestCheckoutRejectsUnknownArchivedAndForeignVariant(t *testing.T) {
	repo := newRepo()
	archived := repo.products[pHoodie]
	archived.IsArchived = true
	repo.products[pHoodie] = archived
	uc := NewOrderUseCase(repo, &MockInventory{}, &FakeGateway{}, nil, nil, nil, settings, logger.NewNop())

	_, err := uc.Checkout(context.Background(), checkoutInput(
		dto.CartProduct{ID: pHoodie, Quantity: 1},
		dto.CartProduct{ID: pTee, Quantity: 1, VariantID: strp(vRedS)},
		dto.CartProduct{ID: "3e6a0f8b-7a4d-4d1f-8c8a-3a9d5e6f7081", Quantity: 1},
	))
	require.True(t, apperror.Is(err, apperror.KindValidation))
	fields := apperror.From(err).Fields
	assert.Equal(t, []string{MsgProductUnavailable}, fields["cartProducts.0"])
	assert.Equal(t, []string{MsgVariantInvalid}, fields["cartProducts.1"])
	assert.Equal(t, []string{MsgProductUnavailable}, fields["cartProducts.2"])
	assert.Empty(t, repo.orders)
}

func TestCheckoutRemovesOrderWhenProviderFails(t *testing.T) {
	repo := newRepo()
	uc := NewOrderUseCase(repo, &MockInventory{}, &FakeGateway{fail: true}, nil, nil, nil, settings, logger.NewNop())
	_, err := uc.Checkout(context.Background(), checkoutInput(dto.CartProduct{ID: pTee, Quantity: 1}))
	require.Error(t, err)
	assert.Len(t, repo.deleted, 1)
	assert.Empty(t, repo.orders)
}

func paidFixture(t *testing.T) (*MockOrderRepo, *FakeGateway, string) {
	repo := newRepo()
	gw := &FakeGateway{}
	uc := NewOrderUseCase(repo, &MockInventory{}, gw, nil, nil, nil, settings, logger.NewNop())
	_, err := uc.Checkout(context.Background(), checkoutInput(dto.CartProduct{ID: pTee, Quantity: 3}))
	require.NoError(t, err)
	orderID := gw.requests[0].OrderID
	gw.completion = &payment.Completion{SessionID: "cs_" + orderID, OrderID: orderID, Address: "Jl. Merdeka 1, Bandung", Phone: "+62 811"}
	return repo, gw, orderID
}

func TestWebhookMarksPaidOnce(t *testing.T) {
	repo, gw, orderID := paidFixture(t)
	inv := &MockInventory{}
	pub := &recordingPublisher{}
	obs := &recordingObserver{}
	uc := NewOrderUseCase(repo, inv, gw, nil, pub, obs, settings, logger.NewNop())

	require.NoError(t, uc.HandleWebhook(context.Background(), []byte(`{}`), "valid"))
	require.NoError(t, uc.HandleWebhook(context.Background(), []byte(`{}`), "valid"))

	o := repo.orders[orderID]
	assert.True(t, o.IsPaid)
	assert.Equal(t, "Jl. Merdeka 1, Bandung", o.Address)
	assert.Equal(t, "+62 811", o.Phone)
	assert.Equal(t, []string{orderID}, inv.deducted)
	assert.Equal(t, []string{pTee}, obs.ids)
	require.Len(t, pub.events, 1)
	assert.Equal(t, order.EventPaid, pub.events[0].Type)
	assert.Equal(t, 1, pub.events[0].Movements)
}

func TestWebhookConcurrentDeliveriesDeductOnce(t *testing.T) {
	repo, gw, orderID := paidFixture(t)
	inv := &MockInventory{}
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	uc := NewOrderUseCase(repo, inv, gw, rc, nil, nil, settings, logger.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := uc.HandleWebhook(context.Background(), []byte(`{}`), "valid")
			if err != nil {
				assert.True(t, apperror.Is(err, apperror.KindConflict))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{orderID}, inv.deducted)
	assert.False(t, mr.Exists("lock:order:"+orderID))
}

func TestWebhookFallsBackToSessionLookup(t *testing.T) {
	repo, gw, orderID := paidFixture(t)
	gw.completion.OrderID = ""
	inv := &MockInventory{}
	uc := NewOrderUseCase(repo, inv, gw, nil, nil, nil, settings, logger.NewNop())

	require.NoError(t, uc.HandleWebhook(context.Background(), []byte(`{}`), "valid"))
	assert.Equal(t, []string{orderID}, inv.deducted)
}

func TestWebhookSignatureAndIgnoredEvents(t *testing.T) {
	repo := newRepo()
	gw := &FakeGateway{}
	inv := &MockInventory{}
	uc := NewOrderUseCase(repo, inv, gw, nil, nil, nil, settings, logger.NewNop())

	err := uc.HandleWebhook(context.Background(), []byte(`{}`), "forged")
	require.True(t, apperror.Is(err, apperror.KindBadRequest))
	assert.Equal(t, MsgSignatureInvalid, apperror.From(err).Message)

	require.NoError(t, uc.HandleWebhook(context.Background(), []byte(`{}`), "valid"))
	assert.Empty(t, inv.deducted)
}

func TestOverviewFillsTwelveMonths(t *testing.T) {
	uc := NewOrderUseCase(newRepo(), &MockInventory{}, &FakeGateway{}, nil, nil, nil, settings, logger.NewNop())

	o, err := uc.Overview(context.Background(), "s1", 2026)
	require.NoError(t, err)
	assert.Equal(t, "125.5", o.TotalRevenue.String())
	assert.Equal(t, 3, o.SalesCount)
	assert.Equal(t, 7, o.StockCount)
	require.Len(t, o.Graph, 12)
	assert.Equal(t, "Jan", o.Graph[0].Name)
	assert.Equal(t, "100", o.Graph[0].Total.String())
	assert.True(t, o.Graph[5].Total.IsZero())
	assert.Equal(t, "25.5", o.Graph[11].Total.String())
}

func TestGetOrderNotFound(t *testing.T) {
	uc := NewOrderUseCase(newRepo(), &MockInventory{}, &FakeGateway{}, nil, nil, nil, settings, logger.NewNop())
	_, err := uc.GetOrder(context.Background(), "s1", "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
