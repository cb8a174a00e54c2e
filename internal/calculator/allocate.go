package calculator

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/housesplit/internal/models"
)

// allocate divides amount into len(weights) parts proportional to weights.
// Each part is a whole number of cents and the parts always sum to amount:
// the cents lost to truncation go one each to the parts with the largest
// remainders, earlier parts first on ties.
func allocate(amount decimal.Decimal, weights []int64) ([]decimal.Decimal, error) {
	cents := amount.Shift(2)
	if !cents.IsInteger() {
		return nil, fmt.Errorf("%w: amount %s is not a whole number of cents", models.ErrMalformedEntry, amount)
	}

	var total int64
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight %d", w)
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("weights sum to zero")
	}

	divisor := decimal.NewFromInt(total)
	parts := make([]decimal.Decimal, len(weights))
	remainders := make([]decimal.Decimal, len(weights))
	assigned := decimal.Zero
	for i, w := range weights {
		q, r := cents.Mul(decimal.NewFromInt(w)).QuoRem(divisor, 0)
		parts[i] = q
		remainders[i] = r.Abs()
		assigned = assigned.Add(q)
	}

	leftover := cents.Sub(assigned).IntPart()
	if leftover != 0 {
		step := decimal.NewFromInt(int64(cmpSign(leftover)))
		order := make([]int, len(weights))
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(a, b int) int {
			return remainders[b].Cmp(remainders[a])
		})
		for k := int64(0); k < abs(leftover); k++ {
			i := order[k]
			parts[i] = parts[i].Add(step)
		}
	}

	for i := range parts {
		parts[i] = parts[i].Shift(-2)
	}
	return parts, nil
}

func cmpSign(n int64) int {
	return cmp.Compare(n, 0)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
