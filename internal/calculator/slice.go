package calculator

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
)

// Slice is a part of a cost's period and the share of the cost it carries.
type Slice struct {
	Dates  daterange.DateRange
	Amount decimal.Decimal
}

// SliceCost cuts dr at every date in changeDates that falls strictly inside
// it and gives each part a share of amount proportional to its length.
// Shares are whole cents and add up to exactly amount. A range that ends
// before it starts is ErrMalformedEntry.
func SliceCost(dr daterange.DateRange, amount decimal.Decimal, changeDates []time.Time) ([]Slice, error) {
	if dr.Start.Compare(dr.EndExclusive) > 0 {
		return nil, fmt.Errorf("%w: %s ends before it starts", models.ErrMalformedEntry, dr)
	}
	whole, err := dr.Days()
	if err != nil {
		return nil, err
	}

	parts := daterange.SliceAt(dr, changeDates)
	weights := make([]int64, len(parts))
	for i, p := range parts {
		if whole == 0 {
			weights[i] = 1
			continue
		}
		days, err := p.Days()
		if err != nil {
			return nil, err
		}
		weights[i] = days
	}

	shares, err := allocate(amount, weights)
	if err != nil {
		return nil, fmt.Errorf("slicing %s: %w", dr, err)
	}

	out := make([]Slice, len(parts))
	total := decimal.Zero
	for i, p := range parts {
		out[i] = Slice{Dates: p, Amount: shares[i]}
		total = total.Add(shares[i])
	}
	if !total.Equal(amount) {
		return nil, fmt.Errorf("%w: slicing %s of %s gave slices totalling %s",
			ErrReconciliation, amount, dr, total)
	}
	return out, nil
}

// HouseChangeDates returns every date someone moves into or out of the
// house, sorted and without duplicates.
func HouseChangeDates(house models.House) []time.Time {
	var dates []time.Time
	for _, person := range house.People {
		for _, r := range person.Residencies {
			if d, ok := r.Start.Time(); ok {
				dates = append(dates, d)
			}
			if d, ok := r.EndExclusive.Time(); ok {
				dates = append(dates, d)
			}
		}
	}
	slices.SortFunc(dates, time.Time.Compare)
	return slices.CompactFunc(dates, time.Time.Equal)
}
