package calculator

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/housesplit/internal/models"
)

// SplitEvenly divides amount equally among names and returns what each
// person owes.
//
// Names are de-duplicated and sorted. When the amount does not divide into
// whole cents, the leftover cents go one each to the first names in sorted
// order, so the shares always add up to exactly amount.
func SplitEvenly(amount decimal.Decimal, names []string) (models.Dues, error) {
	participants := slices.Clone(names)
	slices.Sort(participants)
	participants = slices.Compact(participants)
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	weights := make([]int64, len(participants))
	for i := range weights {
		weights[i] = 1
	}
	shares, err := allocate(amount, weights)
	if err != nil {
		return nil, err
	}

	dues := make(models.Dues, len(participants))
	for i, p := range participants {
		dues[p] = shares[i]
	}

	if total := dues.Sum(); !total.Equal(amount) {
		return nil, fmt.Errorf("%w: splitting %s gave dues totalling %s", ErrReconciliation, amount, total)
	}
	return dues, nil
}
