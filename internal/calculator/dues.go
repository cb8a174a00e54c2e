package calculator

import (
	"fmt"

	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
)

// ComputeDues returns what each participant owes for a single ledger entry.
// The result always sums to zero.
func ComputeDues(entry models.Entry, house models.House) (models.Dues, error) {
	switch e := entry.(type) {
	case models.Bill:
		return duesForBill(e, house)
	case models.SharedCost:
		return duesForSharedCost(e, house)
	case models.Payment:
		return duesForPayment(e)
	default:
		return nil, fmt.Errorf("%w: unknown ledger entry type %T", models.ErrMalformedEntry, entry)
	}
}

// duesForBill charges each slice of the bill to the people resident during
// that slice, so someone living in the house for half the period pays for
// half of it.
func duesForBill(bill models.Bill, house models.House) (models.Dues, error) {
	dues := models.Dues{bill.PaidBy: bill.Amount.Neg()}

	parts, err := SliceCost(bill.ForDates, bill.Amount, HouseChangeDates(house))
	if err != nil {
		return nil, fmt.Errorf("bill %q: %w", bill.Description, err)
	}

	for _, s := range parts {
		residents, err := ResidentParticipants(s.Dates, house.People)
		if err != nil {
			return nil, fmt.Errorf("bill %q: %w", bill.Description, err)
		}
		if len(residents) == 0 || len(residents) < house.MinPeople {
			return nil, fmt.Errorf("%w: bill %q has %d of %d required residents during %s",
				ErrUnderOccupancy, bill.Description, len(residents), house.MinPeople, s.Dates)
		}

		shares, err := SplitEvenly(s.Amount, residents)
		if err != nil {
			return nil, fmt.Errorf("bill %q during %s: %w", bill.Description, s.Dates, err)
		}
		dues = dues.Merge(shares)
	}

	if err := checkBalanced(dues); err != nil {
		return nil, fmt.Errorf("bill %q: %w", bill.Description, err)
	}
	return dues, nil
}

func duesForSharedCost(cost models.SharedCost, house models.House) (models.Dues, error) {
	dues := models.Dues{cost.PaidBy: cost.Amount.Neg()}

	names := cost.SharedAmongst
	if cost.SharedByEveryone() {
		residents, err := ResidentParticipants(daterange.Day(cost.OnDate), house.People)
		if err != nil {
			return nil, fmt.Errorf("shared cost %q: %w", cost.Description, err)
		}
		names = residents
	}

	shares, err := SplitEvenly(cost.Amount, names)
	if err != nil {
		return nil, fmt.Errorf("shared cost %q: %w", cost.Description, err)
	}
	dues = dues.Merge(shares)

	if err := checkBalanced(dues); err != nil {
		return nil, fmt.Errorf("shared cost %q: %w", cost.Description, err)
	}
	return dues, nil
}

func duesForPayment(payment models.Payment) (models.Dues, error) {
	dues := models.Dues{payment.Payer: payment.Amount.Neg()}
	dues = dues.Merge(models.Dues{payment.Payee: payment.Amount})

	if err := checkBalanced(dues); err != nil {
		return nil, fmt.Errorf("payment from %s to %s: %w", payment.Payer, payment.Payee, err)
	}
	return dues, nil
}

func checkBalanced(dues models.Dues) error {
	if total := dues.Sum(); !total.IsZero() {
		return fmt.Errorf("%w: dues total %s instead of zero", ErrReconciliation, total.StringFixed(2))
	}
	return nil
}
