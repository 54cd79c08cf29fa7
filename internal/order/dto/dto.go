package dto

import (
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/shopspring/decimal"
)

type OrderFilters struct {
	query.Params
	IsPaid *bool
}

// PricedProduct is the stored price record a cart line is charged at.
type PricedProduct struct {
	ID         string              `db:"id"`
	Name       string              `db:"name"`
	Price      decimal.Decimal     `db:"price"`
	SalePrice  decimal.NullDecimal `db:"sale_price"`
	IsArchived bool                `db:"is_archived"`
}

// UnitPrice is the sale price when one is set, the list price otherwise.
func (p PricedProduct) UnitPrice() decimal.Decimal {
	if p.SalePrice.Valid && p.SalePrice.Decimal.IsPositive() {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// VariantOwner maps a variant to the product it belongs to.
type VariantOwner struct {
	ID        string `db:"id"`
	ProductID string `db:"product_id"`
}

// VariantLabel is one option of a variant as "Option - Value" text parts.
type VariantLabel struct {
	VariantID  string `db:"variant_id"`
	OptionName string `db:"option_name"`
	ValueName  string `db:"value_name"`
}

type ProductImage struct {
	ProductID string `db:"product_id"`
	URL       string `db:"url"`
}

type MonthlyRevenue struct {
	Month int             `db:"month"`
	Total decimal.Decimal `db:"total"`
}

type GraphPoint struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

type Overview struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	SalesCount   int             `json:"salesCount"`
	StockCount   int             `json:"stockCount"`
	Graph        []GraphPoint    `json:"graphRevenue"`
}
