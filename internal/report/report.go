// Package report prints a processed ledger as a per-entry breakdown with
// running totals.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/housesplit/internal/calculator"
	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
)

// printer remembers the first write error so callers can check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// WriteLedger writes one block per step: the entry, the dues it allocates,
// and the running total after it.
func WriteLedger(w io.Writer, steps []calculator.Step) error {
	p := &printer{w: w}
	for _, step := range steps {
		p.printf("---> %s\n", Describe(step.Entry))
		p.dues(step.Dues)
		p.printf("========> Running Total\n")
		p.dues(step.Running)
	}
	return p.err
}

// WriteSettlement writes the transfers that clear every balance.
func WriteSettlement(w io.Writer, transfers []calculator.Transfer) error {
	p := &printer{w: w}
	p.printf("Settle up:\n")
	if len(transfers) == 0 {
		p.printf("  nothing to settle\n")
	}
	for _, t := range transfers {
		p.printf("  %s pays %s %s\n", t.From, t.To, dollars(t.Amount))
	}
	return p.err
}

// Describe renders a one-line summary of a ledger entry.
func Describe(entry models.Entry) string {
	switch e := entry.(type) {
	case models.Bill:
		s := fmt.Sprintf("Bill for '%s' from %s until %s totalling %s paid by %s",
			e.Description, e.ForDates.Start, e.ForDates.EndExclusive, dollars(e.Amount), e.PaidBy)
		if !e.PaidOn.IsZero() {
			s += " on " + e.PaidOn.Format(daterange.Layout)
		}
		return s
	case models.SharedCost:
		amongst := "everyone"
		if !e.SharedByEveryone() {
			amongst = strings.Join(e.SharedAmongst, ", ")
		}
		return fmt.Sprintf("Cost of '%s' totalling %s shared amongst %s paid by %s on %s",
			e.Description, dollars(e.Amount), amongst, e.PaidBy, e.OnDate.Format(daterange.Layout))
	case models.Payment:
		return fmt.Sprintf("Payment from %s to %s of %s on %s",
			e.Payer, e.Payee, dollars(e.Amount), e.OnDate.Format(daterange.Layout))
	default:
		return fmt.Sprintf("%s of %s on %s", entry.Kind(), dollars(entry.Total()), entry.Date().Format(daterange.Layout))
	}
}

// dues lists non-zero dues by name.
func (p *printer) dues(d models.Dues) {
	p.printf("Dues:\n")
	for _, name := range d.Names() {
		if d[name].IsZero() {
			continue
		}
		p.printf("  %s: %s\n", name, dollars(d[name]))
	}
}

func dollars(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
