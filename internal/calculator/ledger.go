package calculator

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/housesplit/internal/models"
)

// Step is the outcome of processing one ledger entry.
type Step struct {
	Entry models.Entry

	// Dues is what the entry alone allocates.
	Dues models.Dues

	// Running is the total of every entry up to and including this one.
	Running models.Dues
}

// RunLedger processes entries in chronological order, entries on the same
// day in input order, and returns one Step per entry. It stops at the first
// entry that cannot be allocated.
func RunLedger(house models.House, entries []models.Entry) ([]Step, error) {
	sorted := models.SortByDate(entries)
	dues := make([]models.Dues, len(sorted))
	for i, entry := range sorted {
		d, err := ComputeDues(entry, house)
		if err != nil {
			return nil, entryError(i, entry, err)
		}
		dues[i] = d
	}
	return fold(sorted, dues)
}

// RunLedgerConcurrently is RunLedger with the per-entry allocations spread
// over at most limit goroutines. The fold into running totals stays in
// chronological order, so the steps are identical to RunLedger's.
//
// When several entries fail, the error reported is the chronologically
// first one, as with RunLedger. Entries after a known failure are skipped.
func RunLedgerConcurrently(ctx context.Context, house models.House, entries []models.Entry, limit int) ([]Step, error) {
	sorted := models.SortByDate(entries)
	dues := make([]models.Dues, len(sorted))
	errs := make([]error, len(sorted))

	// Lowest failing index so far; len(sorted) while nothing has failed.
	var firstFailed atomic.Int64
	firstFailed.Store(int64(len(sorted)))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, entry := range sorted {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if int64(i) > firstFailed.Load() {
				return nil
			}
			d, err := ComputeDues(entry, house)
			if err != nil {
				errs[i] = entryError(i, entry, err)
				for {
					cur := firstFailed.Load()
					if int64(i) >= cur || firstFailed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
				return nil
			}
			dues[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if i := firstFailed.Load(); i < int64(len(sorted)) {
		return nil, errs[i]
	}
	return fold(sorted, dues)
}

func entryError(i int, entry models.Entry, err error) error {
	return fmt.Errorf("ledger entry %d (%s on %s): %w",
		i+1, entry.Kind(), entry.Date().Format("2006-01-02"), err)
}

// fold accumulates per-entry dues into running totals, checking after every
// entry that the running total still balances.
func fold(entries []models.Entry, dues []models.Dues) ([]Step, error) {
	steps := make([]Step, len(entries))
	running := models.Dues{}
	for i, entry := range entries {
		running = running.Merge(dues[i])
		if err := checkBalanced(running); err != nil {
			return nil, fmt.Errorf("running total after entry %d: %w", i+1, err)
		}
		steps[i] = Step{Entry: entry, Dues: dues[i], Running: running}
	}
	return steps, nil
}

// Totals returns the grand total of a processed ledger.
func Totals(steps []Step) models.Dues {
	if len(steps) == 0 {
		return models.Dues{}
	}
	return steps[len(steps)-1].Running
}
