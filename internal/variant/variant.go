// Package variant enumerates option value combinations for a product and
// checks admin-edited variant definitions before they are persisted.
package variant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
)

// OptionValue is one candidate value of a named option.
type OptionValue struct {
	OptionID   string `json:"optionId"`
	OptionName string `json:"optionName"`
	ValueID    string `json:"valueId"`
	ValueName  string `json:"valueName"`
}

// Combination holds one value per option, in option order.
type Combination []OptionValue

// Combinations returns the cartesian product of values grouped by option
// name. Options keep the order in which their first value appears and the
// first option varies slowest. No values means no combinations.
func Combinations(values []OptionValue) []Combination {
	var names []string
	groups := map[string][]OptionValue{}
	for _, v := range values {
		if _, ok := groups[v.OptionName]; !ok {
			names = append(names, v.OptionName)
		}
		groups[v.OptionName] = append(groups[v.OptionName], v)
	}
	if len(names) == 0 {
		return nil
	}

	var out []Combination
	var walk func(i int, current Combination)
	walk = func(i int, current Combination) {
		if i == len(names) {
			c := make(Combination, len(current))
			copy(c, current)
			out = append(out, c)
			return
		}
		for _, v := range groups[names[i]] {
			walk(i+1, append(current, v))
		}
	}
	walk(0, make(Combination, 0, len(names)))
	return out
}

// Selection assigns one value of one option to a variant.
type Selection struct {
	OptionID string `json:"optionId" binding:"required"`
	ValueID  string `json:"valueId" binding:"required"`
}

// Definition is a variant as submitted by the variant matrix editor.
type Definition struct {
	ID      string      `json:"id"`
	Stock   int         `json:"stock" binding:"min=0"`
	Options []Selection `json:"options" binding:"dive"`
}

// Key identifies the combination of d independent of selection order.
func (d Definition) Key() string {
	ids := make([]string, len(d.Options))
	for i, s := range d.Options {
		ids[i] = s.ValueID
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

const (
	MsgOptionsRequired = "variant.options.required"
	MsgOptionRepeated  = "variant.options.repeated"
	MsgDuplicate       = "variant.duplicate"
)

// Validate checks that every variant has at least one option, uses each
// option at most once and that no two variants share a combination. Errors
// are keyed variants.<index>.options.
func Validate(defs []Definition) error {
	fields := map[string][]string{}
	seen := map[string]int{}
	for i, d := range defs {
		key := fmt.Sprintf("variants.%d.options", i)
		if len(d.Options) == 0 {
			fields[key] = append(fields[key], MsgOptionsRequired)
			continue
		}
		options := map[string]bool{}
		for _, s := range d.Options {
			if options[s.OptionID] {
				fields[key] = append(fields[key], MsgOptionRepeated)
				break
			}
			options[s.OptionID] = true
		}
		if _, dup := seen[d.Key()]; dup {
			fields[key] = append(fields[key], MsgDuplicate)
			continue
		}
		seen[d.Key()] = i
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

// TotalStock sums variant stock.
func TotalStock(defs []Definition) int {
	total := 0
	for _, d := range defs {
		total += d.Stock
	}
	return total
}

// ProductStock is the stock stored on the product row itself: the submitted
// value for simple products, 0 once variants carry the stock.
func ProductStock(stock int, defs []Definition) int {
	if len(defs) > 0 {
		return 0
	}
	return stock
}

// FromCombinations turns generated combinations into empty definitions
// ready for the matrix editor.
func FromCombinations(combos []Combination) []Definition {
	defs := make([]Definition, 0, len(combos))
	for _, c := range combos {
		d := Definition{Options: make([]Selection, len(c))}
		for i, v := range c {
			d.Options[i] = Selection{OptionID: v.OptionID, ValueID: v.ValueID}
		}
		defs = append(defs, d)
	}
	return defs
}
