package models

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Dues maps a participant to the signed amount they owe. Negative amounts
// are owed to the participant.
type Dues map[string]decimal.Decimal

// Sum returns the total of all dues. A consistent allocation sums to zero.
func (d Dues) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range d {
		total = total.Add(v)
	}
	return total
}

// Merge returns a new map holding the dues of both maps, summed where a
// participant appears in both. Neither input is modified.
func (d Dues) Merge(other Dues) Dues {
	out := make(Dues, len(d)+len(other))
	maps.Copy(out, d)
	for name, v := range other {
		if cur, ok := out[name]; ok {
			out[name] = cur.Add(v)
		} else {
			out[name] = v
		}
	}
	return out
}

// Names returns the participants in sorted order.
func (d Dues) Names() []string {
	return slices.Sorted(maps.Keys(d))
}

// Equal reports whether both maps hold the same participants with equal
// amounts.
func (d Dues) Equal(other Dues) bool {
	if len(d) != len(other) {
		return false
	}
	for name, v := range d {
		o, ok := other[name]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}
