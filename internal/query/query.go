// Package query is the listing layer shared by categories, options,
// products and navigation: offset pagination, symbolic sort keys and
// composable store-scoped filters.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Params struct {
	StoreID  string
	Page     int
	PageSize int
	Query    string
	Sort     string
}

func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Query = strings.TrimSpace(p.Query)
	return p
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Page is the {items, count} envelope returned by every listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// List runs the count and the page query for table from the same filter, so
// count always describes exactly the rows the pages iterate over.
func List[T any](ctx context.Context, db sqlx.ExtContext, table string, f *Filter, order Order, p Params) ([]T, int, error) {
	p = p.Normalize()
	where := f.Where()

	countQuery, countArgs, err := db.BindNamed("SELECT count(*) FROM "+table+where, f.Args())
	if err != nil {
		return nil, 0, err
	}
	var count int
	if err := sqlx.GetContext(ctx, db, &count, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", table, err)
	}

	listQuery := fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s LIMIT %d OFFSET %d",
		table, where, order, p.PageSize, p.Offset())
	listQuery, listArgs, err := db.BindNamed(listQuery, f.Args())
	if err != nil {
		return nil, 0, err
	}

	items := []T{}
	if err := sqlx.SelectContext(ctx, db, &items, listQuery, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", table, err)
	}
	return items, count, nil
}
