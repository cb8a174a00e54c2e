package calculator

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/housesplit/internal/models"
)

// Transfer is a payment that moves a debtor towards a zero balance.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

type balance struct {
	name   string
	amount decimal.Decimal // always positive
}

// Settle suggests payments that clear every balance in total, which must
// sum to zero.
//
// Algorithm:
// - Debtors have positive dues, creditors negative dues
// - Both lists are ordered largest first, names breaking ties
// - Greedy: the current debtor pays the current creditor the smaller of the
//   two outstanding amounts, and whoever reaches zero is done
func Settle(total models.Dues) []Transfer {
	var debtors, creditors []balance
	for _, name := range total.Names() {
		v := total[name]
		switch v.Sign() {
		case 1:
			debtors = append(debtors, balance{name: name, amount: v})
		case -1:
			creditors = append(creditors, balance{name: name, amount: v.Neg()})
		}
	}
	byAmount := func(a, b balance) int {
		return b.amount.Cmp(a.amount)
	}
	slices.SortStableFunc(debtors, byAmount)
	slices.SortStableFunc(creditors, byAmount)

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.amount, creditor.amount)
		transfers = append(transfers, Transfer{
			From:   debtor.name,
			To:     creditor.name,
			Amount: amount,
		})

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)

		if debtor.amount.IsZero() {
			i++
		}
		if creditor.amount.IsZero() {
			j++
		}
	}
	return transfers
}
