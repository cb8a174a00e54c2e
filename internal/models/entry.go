package models

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/housesplit/internal/daterange"
)

// ErrMalformedEntry is returned for ledger entries with an unknown kind or
// conflicting fields.
var ErrMalformedEntry = errors.New("malformed ledger entry")

// EntryKind names the variant of a ledger entry.
type EntryKind string

const (
	KindBill       EntryKind = "bill"
	KindSharedCost EntryKind = "shared_cost"
	KindPayment    EntryKind = "payment"
)

// Entry is one item of a ledger. It is implemented by exactly Bill,
// SharedCost and Payment.
type Entry interface {
	// Kind returns the variant tag.
	Kind() EntryKind

	// Date is the day the entry is ordered by.
	Date() time.Time

	// Total is the amount of money the entry moves.
	Total() decimal.Decimal

	isEntry()
}

// Bill is a cost spread over a period, split among the residents present
// during that period.
type Bill struct {
	Description string

	// PaidBy is the participant who paid the bill.
	PaidBy string

	// ForDates is the billing period. It must be bounded.
	ForDates daterange.DateRange

	// PaidOn is the day the bill was paid. Zero means the start of ForDates.
	PaidOn time.Time

	Amount decimal.Decimal
}

func (Bill) Kind() EntryKind { return KindBill }

func (b Bill) Date() time.Time {
	if !b.PaidOn.IsZero() {
		return daterange.Truncate(b.PaidOn)
	}
	start, _ := b.ForDates.Start.Time()
	return start
}

func (b Bill) Total() decimal.Decimal { return b.Amount }

func (Bill) isEntry() {}

// SharedCost is a point-in-time cost split evenly among a group.
type SharedCost struct {
	Description string

	// PaidBy is the participant who paid.
	PaidBy string

	// OnDate is the day the cost was incurred.
	OnDate time.Time

	// SharedAmongst lists who shares the cost. Empty means everyone
	// resident in the house on OnDate.
	SharedAmongst []string

	Amount decimal.Decimal
}

func (SharedCost) Kind() EntryKind { return KindSharedCost }

func (s SharedCost) Date() time.Time { return daterange.Truncate(s.OnDate) }

func (s SharedCost) Total() decimal.Decimal { return s.Amount }

// SharedByEveryone reports whether the cost is shared by everyone resident
// on OnDate.
func (s SharedCost) SharedByEveryone() bool {
	return len(s.SharedAmongst) == 0
}

func (SharedCost) isEntry() {}

// Payment is a direct transfer of money from Payer to Payee.
type Payment struct {
	Payer string
	Payee string

	OnDate time.Time

	Amount decimal.Decimal
}

func (Payment) Kind() EntryKind { return KindPayment }

func (p Payment) Date() time.Time { return daterange.Truncate(p.OnDate) }

func (p Payment) Total() decimal.Decimal { return p.Amount }

func (Payment) isEntry() {}

// SortByDate returns a copy of entries in chronological order. Entries on
// the same day keep their input order.
func SortByDate(entries []Entry) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return a.Date().Compare(b.Date())
	})
	return sorted
}
