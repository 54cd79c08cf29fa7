package dto

import "github.com/fekuna/omnipos-catalog-service/internal/query"

type CategoryFilters struct {
	query.Params
	OnlyParents  bool
	ParentID     *string // Nil means ignore
	WithChildren bool
}

type GetOptions struct {
	WithChildren bool
	WithParent   bool
}
