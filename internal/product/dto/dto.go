package dto

import "github.com/fekuna/omnipos-catalog-service/internal/query"

type ProductFilters struct {
	query.Params
	IsArchived     *bool // Nil means ignore
	IsFeatured     *bool
	CategoryIDs    []string // Matches products in any of them
	WithTags       bool
	WithCategories bool
	WithSeo        bool
}

type GetOptions struct {
	IsArchived     *bool
	IsFeatured     *bool
	WithTags       bool
	WithCategories bool
	WithSeo        bool
}

// Relations picks the optional relations to load for a product read.
func (f *ProductFilters) Relations() GetOptions {
	return GetOptions{WithTags: f.WithTags, WithCategories: f.WithCategories, WithSeo: f.WithSeo}
}
