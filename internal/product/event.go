package product

import (
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/shopspring/decimal"
)

const (
	EventUpserted = "product.upserted"
	EventDeleted  = "product.deleted"
)

// Event is published to the catalog topic after every product mutation.
// Document is empty for deletions.
type Event struct {
	Type      string    `json:"type"`
	StoreID   string    `json:"storeId"`
	ProductID string    `json:"productId"`
	Document  *Document `json:"document,omitempty"`
	At        time.Time `json:"at"`
}

// Document is the search index representation of a product. Its field
// names match the product's JSON so hits decode into model.Product.
type Document struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"storeId"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	TotalStock  int             `json:"totalStock"`
	IsFeatured  bool            `json:"isFeatured"`
	IsArchived  bool            `json:"isArchived"`
	Tags        []string        `json:"tagNames"`
	CategoryIDs []string        `json:"categoryIds"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

const IndexMapping = `{
	"mappings": {
		"properties": {
			"storeId": { "type": "keyword" },
			"name": { "type": "text" },
			"slug": { "type": "keyword" },
			"description": { "type": "text" },
			"price": { "type": "double" },
			"isFeatured": { "type": "boolean" },
			"isArchived": { "type": "boolean" },
			"tagNames": { "type": "text" },
			"categoryIds": { "type": "keyword" },
			"createdAt": { "type": "date" }
		}
	}
}`

func NewDocument(p *model.Product) *Document {
	d := &Document{
		ID:          p.ID,
		StoreID:     p.StoreID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		TotalStock:  p.TotalStock,
		IsFeatured:  p.IsFeatured,
		IsArchived:  p.IsArchived,
		Tags:        make([]string, 0, len(p.Tags)),
		CategoryIDs: make([]string, 0, len(p.Categories)),
		CreatedAt:   p.CreatedAt,
	}
	for _, t := range p.Tags {
		d.Tags = append(d.Tags, t.Name)
	}
	for _, c := range p.Categories {
		d.CategoryIDs = append(d.CategoryIDs, c.ID)
	}
	if len(p.Images) > 0 {
		d.ImageURL = p.Images[0].URL
	}
	return d
}

// Product converts a search hit back into a product carrying the indexed
// fields and its cover image.
func (d *Document) Product() model.Product {
	p := model.Product{
		BaseModel:   model.BaseModel{ID: d.ID, CreatedAt: d.CreatedAt},
		StoreID:     d.StoreID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Price:       d.Price,
		Stock:       d.Stock,
		TotalStock:  d.TotalStock,
		IsFeatured:  d.IsFeatured,
		IsArchived:  d.IsArchived,
		Images:      []model.Image{},
		Variants:    []model.Variant{},
	}
	if d.ImageURL != "" {
		p.Images = append(p.Images, model.Image{ProductID: d.ID, URL: d.ImageURL})
	}
	return p
}
