package query

type SortKey string

const (
	Newest         SortKey = "newest"
	Oldest         SortKey = "oldest"
	NameAsc        SortKey = "name-asc"
	NameDesc       SortKey = "name-desc"
	PriceLowToHigh SortKey = "price-low-to-high"
	PriceHighToLow SortKey = "price-high-to-low"
	StockLowToHigh SortKey = "stock-low-to-high"
	StockHighToLow SortKey = "stock-high-to-low"
)

type Order struct {
	Column string
	Desc   bool
}

// String renders the ORDER BY expression. id is appended as a tie breaker
// so offset pages never overlap on equal sort values.
func (o Order) String() string {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return o.Column + " " + dir + ", id " + dir
}

type SortTable map[SortKey]Order

var defaultOrder = Order{Column: "created_at", Desc: true}

var BaseSorts = SortTable{
	Newest:   defaultOrder,
	Oldest:   {Column: "created_at"},
	NameAsc:  {Column: "name"},
	NameDesc: {Column: "name", Desc: true},
}

var ProductSorts = BaseSorts.With(SortTable{
	PriceLowToHigh: {Column: "price"},
	PriceHighToLow: {Column: "price", Desc: true},
	StockLowToHigh: {Column: "stock"},
	StockHighToLow: {Column: "stock", Desc: true},
})

// With returns a new table holding the entries of t overlaid with extra.
func (t SortTable) With(extra SortTable) SortTable {
	out := make(SortTable, len(t)+len(extra))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Resolve maps a symbolic sort key to its order. Unknown or empty keys fall
// back to newest first.
func (t SortTable) Resolve(key string) Order {
	if o, ok := t[SortKey(key)]; ok {
		return o
	}
	return defaultOrder
}
