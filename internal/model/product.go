package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	StoreID     string              `db:"store_id" json:"storeId"`
	Name        string              `db:"name" json:"name"`
	Slug        string              `db:"slug" json:"slug"`
	Description string              `db:"description" json:"description"`
	Price       decimal.Decimal     `db:"price" json:"price"`
	SalePrice   decimal.NullDecimal `db:"sale_price" json:"salePrice"`
	Stock       int                 `db:"stock" json:"stock"`
	IsFeatured  bool                `db:"is_featured" json:"isFeatured"`
	IsArchived  bool                `db:"is_archived" json:"isArchived"`

	// Relations, filled by the repository when requested
	Images     []Image    `db:"-" json:"images"`
	Categories []Category `db:"-" json:"categories,omitempty"`
	Tags       []Tag      `db:"-" json:"tags,omitempty"`
	Seo        *Seo       `db:"-" json:"seo,omitempty"`
	Variants   []Variant  `db:"-" json:"variants"`
	TotalStock int        `db:"-" json:"totalStock"`
}

type Image struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	URL       string `db:"url" json:"url"`
}

type Tag struct {
	ID      string `db:"id" json:"id"`
	StoreID string `db:"store_id" json:"storeId"`
	Name    string `db:"name" json:"name"`
}

type Seo struct {
	ProductID       string  `db:"product_id" json:"productId"`
	MetaTitle       *string `db:"meta_title" json:"metaTitle"`
	MetaDescription *string `db:"meta_description" json:"metaDescription"`
	MetaKeywords    *string `db:"meta_keywords" json:"metaKeywords"`
}

type Variant struct {
	BaseModel
	ProductID string               `db:"product_id" json:"productId"`
	Stock     int                  `db:"stock" json:"stock"`
	Position  int                  `db:"position" json:"position"`
	Options   []VariantOptionValue `db:"-" json:"options"`
}

// VariantOptionValue links a variant to exactly one value of one option.
// OptionName and ValueName are only populated by joined reads.
type VariantOptionValue struct {
	ID            string `db:"id" json:"id"`
	VariantID     string `db:"variant_id" json:"variantId"`
	OptionID      string `db:"option_id" json:"optionId"`
	OptionValueID string `db:"option_value_id" json:"optionValueId"`
	OptionName    string `db:"option_name" json:"optionName,omitempty"`
	ValueName     string `db:"value_name" json:"valueName,omitempty"`
}
