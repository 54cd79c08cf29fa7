package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	MsgProductNotFound = "product.not_found"
	MsgVariantNotFound = "inventory.variant.not_found"
	MsgInsufficient    = "inventory.stock.insufficient"
	MsgBusy            = "inventory.busy"

	lockTTL      = 10 * time.Second
	lockAttempts = 3
)

type inventoryUseCase struct {
	repo     inventory.Repository
	cache    *cache.RedisClient
	observer inventory.StockObserver
	logger   logger.ZapLogger
}

// NewInventoryUseCase builds the ledger. cache and observer may be nil.
func NewInventoryUseCase(repo inventory.Repository, cache *cache.RedisClient, observer inventory.StockObserver, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:     repo,
		cache:    cache,
		observer: observer,
		logger:   log,
	}
}

type line struct {
	productID string
	variantID string
	quantity  int
}

// lines merges order items on (product, variant) and sorts them so
// concurrent orders lock rows in the same order.
func lines(items []model.OrderItem) []line {
	idx := map[[2]string]int{}
	var out []line
	for _, it := range items {
		vid := ""
		if it.VariantID != nil {
			vid = *it.VariantID
		}
		key := [2]string{it.ProductID, vid}
		if i, ok := idx[key]; ok {
			out[i].quantity += it.Quantity
			continue
		}
		idx[key] = len(out)
		out = append(out, line{productID: it.ProductID, variantID: vid, quantity: it.Quantity})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].productID != out[j].productID {
			return out[i].productID < out[j].productID
		}
		return out[i].variantID < out[j].variantID
	})
	return out
}

func (uc *inventoryUseCase) DeductForOrder(ctx context.Context, tx *sqlx.Tx, order *model.Order) ([]model.InventoryMovement, error) {
	now := time.Now()
	ref := model.ReferenceOrder
	movements := []model.InventoryMovement{}

	ls := lines(order.Items)
	for i := 0; i < len(ls); {
		productID := ls[i].productID
		j := i
		for j < len(ls) && ls[j].productID == productID {
			j++
		}
		group := ls[i:j]
		i = j

		p, err := uc.repo.LockProduct(ctx, tx, order.StoreID, productID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			uc.logger.Warn("ordered product no longer exists",
				zap.String("order_id", order.ID), zap.String("product_id", productID))
			continue
		}

		for _, l := range group {
			m := model.InventoryMovement{
				ID:            uuid.New().String(),
				StoreID:       order.StoreID,
				ProductID:     productID,
				MovementType:  model.MovementSale,
				ReferenceType: &ref,
				ReferenceID:   &order.ID,
				CreatedAt:     now,
			}
			if l.variantID == "" {
				m.QuantityBefore = p.Stock
				p.Stock = max(p.Stock-l.quantity, 0)
				m.QuantityAfter = p.Stock
			} else {
				v, err := uc.repo.LockVariant(ctx, tx, productID, l.variantID)
				if err != nil {
					return nil, err
				}
				if v == nil {
					uc.logger.Warn("ordered variant no longer exists",
						zap.String("order_id", order.ID), zap.String("variant_id", l.variantID))
					continue
				}
				after := max(v.Stock-l.quantity, 0)
				if err := uc.repo.SetVariantStock(ctx, tx, v.ID, after); err != nil {
					return nil, err
				}
				vid := l.variantID
				m.VariantID = &vid
				m.QuantityBefore, m.QuantityAfter = v.Stock, after
			}
			m.QuantityChange = m.QuantityAfter - m.QuantityBefore
			movements = append(movements, m)
		}

		exhausted := p.Stock == 0
		if p.Variants > 0 {
			total, err := uc.repo.VariantStockTotal(ctx, tx, productID)
			if err != nil {
				return nil, err
			}
			exhausted = total == 0
		}
		if err := uc.repo.SetProductStock(ctx, tx, productID, p.Stock, exhausted); err != nil {
			return nil, err
		}
	}

	for i := range movements {
		if err := uc.repo.LogMovement(ctx, tx, &movements[i]); err != nil {
			return nil, err
		}
	}
	return movements, nil
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryMovement, error) {
	if input.QuantityChange == 0 {
		return nil, apperror.Field("quantityChange", "validation.required")
	}

	if uc.cache != nil {
		lockKey := fmt.Sprintf("lock:inventory:%s:%s", input.StoreID, input.ProductID)
		lockValue := uuid.New().String()
		acquired := false
		for i := 0; i < lockAttempts; i++ {
			ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, lockTTL)
			if err != nil {
				return nil, err
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if !acquired {
			return nil, apperror.Conflict("productId", MsgBusy)
		}
		defer uc.cache.ReleaseLock(ctx, lockKey, lockValue)
	}

	movement := &model.InventoryMovement{
		ID:             uuid.New().String(),
		StoreID:        input.StoreID,
		ProductID:      input.ProductID,
		VariantID:      input.VariantID,
		MovementType:   model.MovementAdjustment,
		QuantityChange: input.QuantityChange,
		Notes:          input.Notes,
		CreatedAt:      time.Now(),
	}

	err := uc.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		p, err := uc.repo.LockProduct(ctx, tx, input.StoreID, input.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound(MsgProductNotFound)
		}

		level := p
		if input.VariantID != nil {
			level, err = uc.repo.LockVariant(ctx, tx, input.ProductID, *input.VariantID)
			if err != nil {
				return err
			}
			if level == nil {
				return apperror.Field("variantId", MsgVariantNotFound)
			}
		}

		movement.QuantityBefore = level.Stock
		movement.QuantityAfter = level.Stock + input.QuantityChange
		if movement.QuantityAfter < 0 {
			return apperror.Field("quantityChange", MsgInsufficient)
		}

		if input.VariantID != nil {
			err = uc.repo.SetVariantStock(ctx, tx, level.ID, movement.QuantityAfter)
		} else {
			err = uc.repo.SetProductStock(ctx, tx, p.ID, movement.QuantityAfter, false)
		}
		if err != nil {
			return err
		}
		return uc.repo.LogMovement(ctx, tx, movement)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.String("store_id", input.StoreID),
		zap.String("product_id", input.ProductID),
		zap.Int("change", input.QuantityChange),
		zap.Int("after", movement.QuantityAfter))
	if uc.observer != nil {
		uc.observer.StockChanged(ctx, input.StoreID, []string{input.ProductID})
	}
	return movement, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}
