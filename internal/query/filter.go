package query

import (
	"fmt"
	"strings"
)

// Filter accumulates store-scoped predicates. AND and OR lists are kept
// apart; an empty list contributes nothing to the WHERE clause.
type Filter struct {
	base []string
	and  []string
	or   []string
	args map[string]any
	n    int
}

// ForStore starts a filter bound to storeID. Every listing is store scoped.
func ForStore(storeID string) *Filter {
	f := &Filter{args: map[string]any{}}
	f.base = append(f.base, "store_id = "+f.Bind(storeID))
	return f
}

// Bind registers v as a named argument and returns its placeholder.
func (f *Filter) Bind(v any) string {
	f.n++
	name := fmt.Sprintf("p%d", f.n)
	f.args[name] = v
	return ":" + name
}

func (f *Filter) And(cond string) *Filter {
	f.and = append(f.and, cond)
	return f
}

func (f *Filter) Or(cond string) *Filter {
	f.or = append(f.or, cond)
	return f
}

// NameContains adds a case-insensitive substring match on column. An empty
// query adds nothing.
func (f *Filter) NameContains(column, q string) *Filter {
	q = strings.TrimSpace(q)
	if q == "" {
		return f
	}
	return f.And(column + " ILIKE " + f.Bind("%"+EscapeLike(q)+"%"))
}

// BoolEquals adds column = v when v is set.
func (f *Filter) BoolEquals(column string, v *bool) *Filter {
	if v == nil {
		return f
	}
	return f.And(column + " = " + f.Bind(*v))
}

func (f *Filter) Where() string {
	parts := make([]string, 0, len(f.base)+len(f.and)+1)
	parts = append(parts, f.base...)
	parts = append(parts, f.and...)
	if len(f.or) > 0 {
		parts = append(parts, "("+strings.Join(f.or, " OR ")+")")
	}
	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func (f *Filter) Args() map[string]any {
	return f.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
