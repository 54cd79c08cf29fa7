package dto

import (
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name            string               `json:"name" binding:"required,max=200"`
	Slug            string               `json:"slug" binding:"required,max=200"`
	Description     string               `json:"description" binding:"required"`
	Price           decimal.Decimal      `json:"price"`
	SalePrice       decimal.NullDecimal  `json:"salePrice"`
	Stock           int                  `json:"stock" binding:"min=0"`
	MetaTitle       string               `json:"metaTitle" binding:"max=200"`
	MetaDescription string               `json:"metaDescription" binding:"max=500"`
	MetaKeywords    string               `json:"metaKeywords" binding:"max=500"`
	IsFeatured      bool                 `json:"isFeatured"`
	IsArchived      bool                 `json:"isArchived"`
	Categories      []string             `json:"categories" binding:"required,min=1,dive,uuid"`
	Images          []string             `json:"images" binding:"required,min=1,dive,url"`
	Tags            []string             `json:"tags" binding:"dive,required,max=60"`
	Variants        []variant.Definition `json:"variants" binding:"dive"`
}

type CreateProductInput struct {
	StoreID string
	ProductRequest
}

type UpdateProductInput struct {
	ID      string
	StoreID string
	ProductRequest
}
