package calculator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
)

type unknownEntry struct{ models.Payment }

func TestDuesForBill(t *testing.T) {
	bill := models.Bill{Description: "PG&E", PaidBy: "Bob", ForDates: janDR, Amount: money("100.00")}

	tests := []struct {
		name      string
		minPeople int
		people    []models.Person
		want      map[string]string
		wantErr   error
	}{
		{
			name:      "single person",
			minPeople: 1,
			people:    []models.Person{person("Bob", janDR)},
			want:      map[string]string{"Bob": "0"},
		},
		{
			name:      "two people",
			minPeople: 1,
			people:    []models.Person{person("Bob", janDR), person("Alice", janDR)},
			want:      map[string]string{"Bob": "-50", "Alice": "50"},
		},
		{
			name:      "half and half",
			minPeople: 1,
			people:    []models.Person{person("Bob", firstHalfJanDR), person("Alice", secondHalfJan)},
			want:      map[string]string{"Bob": "-50", "Alice": "50"},
		},
		{
			name:      "one and a half",
			minPeople: 1,
			people:    []models.Person{person("Bob", janDR), person("Alice", firstHalfJanDR)},
			want:      map[string]string{"Bob": "-25", "Alice": "25"},
		},
		{
			name:      "ongoing residencies",
			minPeople: 2,
			people:    []models.Person{person("Bob", daterange.From(janStart)), person("Alice", daterange.From(janStart))},
			want:      map[string]string{"Bob": "-50", "Alice": "50"},
		},
		{
			name:      "under-rented",
			minPeople: 2,
			people:    []models.Person{person("Bob", janDR), person("Alice", firstHalfJanDR)},
			wantErr:   ErrUnderOccupancy,
		},
		{
			name:      "nobody home",
			minPeople: 0,
			people:    []models.Person{person("Bob", firstHalfJanDR)},
			wantErr:   ErrUnderOccupancy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDues(bill, house(t, tt.minPeople, tt.people...))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			requireDues(t, tt.want, got)
			require.True(t, got.Sum().IsZero())
		})
	}
}

func TestDuesForBillPayerNotResident(t *testing.T) {
	bill := models.Bill{Description: "Comcast", PaidBy: "Landlord", ForDates: janDR, Amount: money("120.80")}
	h := house(t, 1, person("Bob", janDR), person("Alice", janDR), person("Dan", janDR))

	got, err := ComputeDues(bill, h)
	require.NoError(t, err)
	requireDues(t, map[string]string{
		"Landlord": "-120.80",
		"Alice":    "40.27",
		"Bob":      "40.27",
		"Dan":      "40.26",
	}, got)
}

func TestDuesForBillUnbounded(t *testing.T) {
	bill := models.Bill{PaidBy: "Bob", ForDates: daterange.From(janStart), Amount: money("100")}
	_, err := ComputeDues(bill, house(t, 1, person("Bob", janDR)))
	require.ErrorIs(t, err, daterange.ErrUnboundedRange)
}

func TestDuesForSharedCost(t *testing.T) {
	h := house(t, 1,
		person("Bob", janDR),
		person("Alice", firstHalfJanDR),
		person("Dan", secondHalfJan),
	)

	t.Run("explicit split", func(t *testing.T) {
		cost := models.SharedCost{
			PaidBy:        "Bob",
			OnDate:        janStart,
			SharedAmongst: []string{"Bob", "Alice"},
			Amount:        money("100.00"),
		}
		got, err := ComputeDues(cost, models.House{})
		require.NoError(t, err)
		requireDues(t, map[string]string{"Bob": "-50", "Alice": "50"}, got)
	})

	t.Run("residence split", func(t *testing.T) {
		cost := models.SharedCost{PaidBy: "Bob", OnDate: janStart, Amount: money("100.00")}
		got, err := ComputeDues(cost, h)
		require.NoError(t, err)
		requireDues(t, map[string]string{"Bob": "-50", "Alice": "50"}, got)
	})

	t.Run("nobody resident", func(t *testing.T) {
		cost := models.SharedCost{PaidBy: "Bob", OnDate: janEnd, Amount: money("10")}
		_, err := ComputeDues(cost, h)
		require.ErrorIs(t, err, ErrNoParticipants)
	})
}

func TestDuesForPayment(t *testing.T) {
	payment := models.Payment{Payer: "Bob", Payee: "Alice", OnDate: janStart, Amount: money("100.00")}

	got, err := ComputeDues(payment, models.House{})
	require.NoError(t, err)
	requireDues(t, map[string]string{"Bob": "-100", "Alice": "100"}, got)
}

func TestComputeDuesUnknownEntry(t *testing.T) {
	_, err := ComputeDues(unknownEntry{}, models.House{})
	require.ErrorIs(t, err, models.ErrMalformedEntry)
}
