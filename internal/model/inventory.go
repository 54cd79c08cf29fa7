package model

import "time"

const (
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"

	ReferenceOrder = "order"
)

type InventoryMovement struct {
	ID             string    `db:"id" json:"id"`
	StoreID        string    `db:"store_id" json:"storeId"`
	ProductID      string    `db:"product_id" json:"productId"`
	VariantID      *string   `db:"variant_id" json:"variantId,omitempty"`
	MovementType   string    `db:"movement_type" json:"movementType"`
	QuantityChange int       `db:"quantity_change" json:"quantityChange"`
	QuantityBefore int       `db:"quantity_before" json:"quantityBefore"`
	QuantityAfter  int       `db:"quantity_after" json:"quantityAfter"`
	ReferenceType  *string   `db:"reference_type" json:"referenceType,omitempty"`
	ReferenceID    *string   `db:"reference_id" json:"referenceId,omitempty"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
