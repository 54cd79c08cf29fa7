package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/order"
	"github.com/fekuna/omnipos-catalog-service/internal/order/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/payment"
	"github.com/fekuna/omnipos-catalog-service/pkg/broker"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MsgNotFound           = "order.not_found"
	MsgCartEmpty          = "order.cart.empty"
	MsgProductUnavailable = "order.product.unavailable"
	MsgVariantInvalid     = "order.variant.invalid"
	MsgSignatureInvalid   = "order.webhook.signature"
	MsgBusy               = "order.busy"
	MsgCurrencyInvalid    = "order.currency.invalid"

	lockTTL = 30 * time.Second
)

var months = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type Settings struct {
	DefaultCurrency string
	EventTopic      string
}

type orderUseCase struct {
	repo      order.Repository
	inventory inventory.UseCase
	gateway   payment.Gateway
	cache     *cache.RedisClient
	publisher broker.Publisher
	observer  inventory.StockObserver
	settings  Settings
	logger    logger.ZapLogger
}

// NewOrderUseCase wires checkout and payment confirmation. cache, publisher
// and observer may be nil.
func NewOrderUseCase(
	repo order.Repository,
	inv inventory.UseCase,
	gateway payment.Gateway,
	cache *cache.RedisClient,
	publisher broker.Publisher,
	observer inventory.StockObserver,
	settings Settings,
	log logger.ZapLogger,
) order.UseCase {
	if settings.DefaultCurrency == "" {
		settings.DefaultCurrency = "USD"
	}
	return &orderUseCase{
		repo:      repo,
		inventory: inv,
		gateway:   gateway,
		cache:     cache,
		publisher: publisher,
		observer:  observer,
		settings:  settings,
		logger:    log,
	}
}

func (uc *orderUseCase) Checkout(ctx context.Context, input *dto.CheckoutInput) (*dto.CheckoutResponse, error) {
	if len(input.CartProducts) == 0 {
		return nil, apperror.BadRequest(MsgCartEmpty)
	}

	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = uc.settings.DefaultCurrency
	}
	if _, err := payment.Decimals(currency); err != nil {
		return nil, apperror.Field("currency", MsgCurrencyInvalid)
	}

	o, items, err := uc.price(ctx, input)
	if err != nil {
		return nil, err
	}
	o.Currency = currency

	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	redirect := strings.TrimRight(input.RedirectURL, "/")
	session, err := uc.gateway.CreateCheckoutSession(ctx, &payment.CheckoutRequest{
		OrderID:    o.ID,
		Currency:   currency,
		Items:      items,
		SuccessURL: redirect + "/cart?success=1",
		CancelURL:  redirect + "/cart?canceled=1",
	})
	if err != nil {
		if derr := uc.repo.Delete(ctx, o.ID); derr != nil {
			uc.logger.Warn("failed to remove unpaid order", zap.String("order_id", o.ID), zap.Error(derr))
		}
		return nil, err
	}
	if err := uc.repo.SetPaymentSession(ctx, o.ID, session.ID); err != nil {
		return nil, err
	}

	uc.logger.Info("checkout session created",
		zap.String("store_id", o.StoreID),
		zap.String("order_id", o.ID),
		zap.String("total", o.TotalPrice.StringFixed(2)))
	return &dto.CheckoutResponse{CheckoutURL: session.URL}, nil
}

// price builds the pending order from stored prices. Variant lines are
// charged at the price of the variant's product and described by its
// options.
func (uc *orderUseCase) price(ctx context.Context, input *dto.CheckoutInput) (*model.Order, []payment.LineItem, error) {
	var variantIDs []string
	for _, cp := range input.CartProducts {
		if cp.VariantID != nil {
			variantIDs = append(variantIDs, *cp.VariantID)
		}
	}
	owners, err := uc.repo.VariantOwners(ctx, input.StoreID, variantIDs)
	if err != nil {
		return nil, nil, err
	}
	ownerOf := make(map[string]string, len(owners))
	for _, v := range owners {
		ownerOf[v.ID] = v.ProductID
	}

	productIDs := make([]string, 0, len(input.CartProducts))
	for _, cp := range input.CartProducts {
		productIDs = append(productIDs, cp.ID)
	}
	products, err := uc.repo.PricedProducts(ctx, input.StoreID, productIDs)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]dto.PricedProduct, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	labels, err := uc.repo.VariantLabels(ctx, variantIDs)
	if err != nil {
		return nil, nil, err
	}
	optionsOf := map[string][]string{}
	for _, l := range labels {
		optionsOf[l.VariantID] = append(optionsOf[l.VariantID], l.OptionName+" - "+l.ValueName)
	}
	images, err := uc.repo.ProductImages(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	imagesOf := map[string][]string{}
	for _, img := range images {
		imagesOf[img.ProductID] = append(imagesOf[img.ProductID], img.URL)
	}

	now := time.Now()
	o := &model.Order{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		StoreID:   input.StoreID,
	}
	fields := map[string][]string{}
	var lines []payment.LineItem

	for i, cp := range input.CartProducts {
		key := fmt.Sprintf("cartProducts.%d", i)
		p, ok := byID[cp.ID]
		if !ok || p.IsArchived {
			fields[key] = append(fields[key], MsgProductUnavailable)
			continue
		}
		if cp.VariantID != nil && ownerOf[*cp.VariantID] != cp.ID {
			fields[key] = append(fields[key], MsgVariantInvalid)
			continue
		}

		unit := p.UnitPrice()
		o.Items = append(o.Items, model.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     o.ID,
			ProductID:   p.ID,
			VariantID:   cp.VariantID,
			Quantity:    cp.Quantity,
			UnitPrice:   unit,
			ProductName: p.Name,
		})
		o.TotalPrice = o.TotalPrice.Add(unit.Mul(decimal.NewFromInt(int64(cp.Quantity))))
		line := payment.LineItem{Name: p.Name, Images: imagesOf[p.ID], UnitPrice: unit, Quantity: cp.Quantity}
		if cp.VariantID != nil && len(optionsOf[*cp.VariantID]) > 0 {
			line.Description = p.Name + " - " + strings.Join(optionsOf[*cp.VariantID], " / ")
		}
		lines = append(lines, line)
	}

	if len(fields) > 0 {
		return nil, nil, apperror.Validation(fields)
	}
	return o, lines, nil
}

func (uc *orderUseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	completion, err := uc.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return apperror.BadRequest(MsgSignatureInvalid)
		}
		return err
	}
	if completion == nil {
		return nil
	}

	orderID := completion.OrderID
	if orderID == "" {
		o, err := uc.repo.FindBySession(ctx, completion.SessionID)
		if err != nil {
			return err
		}
		if o == nil {
			uc.logger.Warn("completed session has no order", zap.String("session_id", completion.SessionID))
			return nil
		}
		orderID = o.ID
	}

	if uc.cache != nil {
		lockKey := "lock:order:" + orderID
		lockValue := uuid.New().String()
		ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, lockTTL)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Conflict("order", MsgBusy)
		}
		defer uc.cache.ReleaseLock(ctx, lockKey, lockValue)
	}

	var (
		paid      *model.Order
		movements []model.InventoryMovement
	)
	err = uc.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		o, err := uc.repo.MarkPaid(ctx, tx, orderID, completion.Address, completion.Phone, time.Now())
		if err != nil || o == nil {
			return err
		}
		if o.Items, err = uc.repo.FindItems(ctx, tx, []string{o.ID}); err != nil {
			return err
		}
		if movements, err = uc.inventory.DeductForOrder(ctx, tx, o); err != nil {
			return err
		}
		paid = o
		return nil
	})
	if err != nil {
		return err
	}
	if paid == nil {
		uc.logger.Info("payment already applied", zap.String("order_id", orderID))
		return nil
	}

	uc.logger.Info("order paid",
		zap.String("store_id", paid.StoreID),
		zap.String("order_id", paid.ID),
		zap.Int("movements", len(movements)))
	uc.afterPaid(ctx, paid, movements)
	return nil
}

func (uc *orderUseCase) afterPaid(ctx context.Context, o *model.Order, movements []model.InventoryMovement) {
	if uc.observer != nil {
		seen := map[string]bool{}
		var ids []string
		for _, it := range o.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
		uc.observer.StockChanged(ctx, o.StoreID, ids)
	}

	if uc.publisher == nil {
		return
	}
	e := order.Event{
		Type:       order.EventPaid,
		StoreID:    o.StoreID,
		OrderID:    o.ID,
		TotalPrice: o.TotalPrice,
		Currency:   o.Currency,
		Items:      len(o.Items),
		Movements:  len(movements),
		At:         time.Now(),
	}
	if err := uc.publisher.Publish(ctx, uc.settings.EventTopic, o.ID, e); err != nil {
		uc.logger.Error("failed to publish order event", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (uc *orderUseCase) GetOrder(ctx context.Context, storeID, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound(MsgNotFound)
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) Overview(ctx context.Context, storeID string, year int) (*dto.Overview, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	revenue, err := uc.repo.TotalRevenue(ctx, storeID)
	if err != nil {
		return nil, err
	}
	sales, err := uc.repo.SalesCount(ctx, storeID)
	if err != nil {
		return nil, err
	}
	stock, err := uc.repo.StockCount(ctx, storeID)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	monthly, err := uc.repo.MonthlyRevenue(ctx, storeID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	graph := make([]dto.GraphPoint, len(months))
	for i, name := range months {
		graph[i] = dto.GraphPoint{Name: name, Total: decimal.Zero}
	}
	for _, m := range monthly {
		if m.Month >= 1 && m.Month <= 12 {
			graph[m.Month-1].Total = m.Total
		}
	}

	return &dto.Overview{
		TotalRevenue: revenue,
		SalesCount:   sales,
		StockCount:   stock,
		Graph:        graph,
	}, nil
}
