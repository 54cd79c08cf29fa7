package dto

import (
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/query"
)

// StockLevel is a locked stock row. Variants is the number of variants of a
// product row and is always 0 for variant rows.
type StockLevel struct {
	ID       string `db:"id"`
	Stock    int    `db:"stock"`
	Variants int    `db:"variants"`
}

type MovementFilters struct {
	query.Params
	ProductID    string
	MovementType string
	StartDate    *time.Time
	EndDate      *time.Time
}

type AdjustStockRequest struct {
	ProductID      string  `json:"productId" binding:"required,uuid"`
	VariantID      *string `json:"variantId" binding:"omitempty,uuid"`
	QuantityChange int     `json:"quantityChange" binding:"required"`
	Notes          string  `json:"notes" binding:"max=500"`
}

type AdjustStockInput struct {
	StoreID string
	AdjustStockRequest
}
