package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
)

var (
	janStart = daterange.Date(2014, time.January, 1)
	janHalf  = daterange.Date(2014, time.January, 16)
	janEnd   = daterange.Date(2014, time.January, 31)

	janDR          = daterange.New(janStart, janEnd)
	firstHalfJanDR = daterange.New(janStart, janHalf)
	secondHalfJan  = daterange.New(janHalf, janEnd)
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func person(name string, residencies ...daterange.DateRange) models.Person {
	return models.Person{Name: name, Residencies: residencies}
}

func house(t *testing.T, minPeople int, people ...models.Person) models.House {
	t.Helper()
	h, err := models.NewHouse("Housetub", minPeople, people)
	require.NoError(t, err)
	return h
}

// requireDues compares amounts by value, ignoring decimal representation.
func requireDues(t *testing.T, want map[string]string, got models.Dues) {
	t.Helper()
	require.Len(t, got, len(want), "dues: %v", got)
	for name, amount := range want {
		v, ok := got[name]
		require.True(t, ok, "missing dues for %s in %v", name, got)
		require.True(t, money(amount).Equal(v), "%s: want %s, got %s", name, amount, v)
	}
}
