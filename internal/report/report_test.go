package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/housesplit/internal/calculator"
	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
)

func TestWriteLedger(t *testing.T) {
	house, err := models.NewHouse("H", 0, nil)
	require.NoError(t, err)

	steps, err := calculator.RunLedger(house, []models.Entry{
		models.Payment{Payer: "Dan", Payee: "Bob", OnDate: daterange.Date(2014, time.February, 4), Amount: decimal.NewFromInt(25)},
		models.SharedCost{
			Description:   "Pizza",
			PaidBy:        "Dan",
			OnDate:        daterange.Date(2014, time.January, 20),
			SharedAmongst: []string{"Dan", "Carol"},
			Amount:        decimal.NewFromInt(30),
		},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteLedger(&buf, steps))

	want := `---> Cost of 'Pizza' totalling $30.00 shared amongst Dan, Carol paid by Dan on 2014-01-20
Dues:
  Carol: $15.00
  Dan: $-15.00
========> Running Total
Dues:
  Carol: $15.00
  Dan: $-15.00
---> Payment from Dan to Bob of $25.00 on 2014-02-04
Dues:
  Bob: $25.00
  Dan: $-25.00
========> Running Total
Dues:
  Bob: $25.00
  Carol: $15.00
  Dan: $-40.00
`
	assert.Equal(t, want, buf.String())
}

func TestWriteLedgerOmitsZeroDues(t *testing.T) {
	steps := []calculator.Step{{
		Entry:   models.Payment{Payer: "Dan", Payee: "Dan", OnDate: daterange.Date(2014, time.January, 1), Amount: decimal.NewFromInt(5)},
		Dues:    models.Dues{"Dan": decimal.Zero},
		Running: models.Dues{"Dan": decimal.Zero, "Bob": decimal.RequireFromString("1.5")},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteLedger(&buf, steps))
	assert.Equal(t, `---> Payment from Dan to Dan of $5.00 on 2014-01-01
Dues:
========> Running Total
Dues:
  Bob: $1.50
`, buf.String())
}

func TestDescribe(t *testing.T) {
	jan := func(d int) time.Time { return daterange.Date(2014, time.January, d) }

	tests := []struct {
		name  string
		entry models.Entry
		want  string
	}{
		{
			name: "bill with payment date",
			entry: models.Bill{
				Description: "PG&E",
				PaidBy:      "Bob",
				ForDates:    daterange.New(jan(1), jan(31)),
				PaidOn:      daterange.Date(2014, time.February, 3),
				Amount:      decimal.NewFromInt(100),
			},
			want: "Bill for 'PG&E' from 2014-01-01 until 2014-01-31 totalling $100.00 paid by Bob on 2014-02-03",
		},
		{
			name: "bill without payment date",
			entry: models.Bill{
				Description: "Water",
				PaidBy:      "Alice",
				ForDates:    daterange.New(jan(1), jan(16)),
				Amount:      decimal.RequireFromString("12.3"),
			},
			want: "Bill for 'Water' from 2014-01-01 until 2014-01-16 totalling $12.30 paid by Alice",
		},
		{
			name:  "cost shared by everyone",
			entry: models.SharedCost{Description: "Soap", PaidBy: "Alice", OnDate: jan(5), Amount: decimal.RequireFromString("4.99")},
			want:  "Cost of 'Soap' totalling $4.99 shared amongst everyone paid by Alice on 2014-01-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.entry))
		})
	}
}

func TestWriteSettlement(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSettlement(&buf, []calculator.Transfer{
		{From: "Alice", To: "Bob", Amount: decimal.RequireFromString("18.75")},
		{From: "Carol", To: "Dan", Amount: decimal.NewFromInt(15)},
	}))
	assert.Equal(t, "Settle up:\n  Alice pays Bob $18.75\n  Carol pays Dan $15.00\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteSettlement(&buf, nil))
	assert.Equal(t, "Settle up:\n  nothing to settle\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteLedgerPropagatesWriteError(t *testing.T) {
	steps := []calculator.Step{{
		Entry:   models.Payment{Payer: "A", Payee: "B", OnDate: daterange.Date(2014, time.January, 1), Amount: decimal.NewFromInt(1)},
		Dues:    models.Dues{},
		Running: models.Dues{},
	}}
	assert.EqualError(t, WriteLedger(failingWriter{}, steps), "disk full")
}
