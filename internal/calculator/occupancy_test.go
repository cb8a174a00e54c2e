package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
)

func TestResidentParticipants(t *testing.T) {
	people := []models.Person{
		person("Bob", janDR),
		person("Alice", firstHalfJanDR),
		person("Dan", secondHalfJan),
		person("Eve", firstHalfJanDR, secondHalfJan),
	}

	tests := []struct {
		name    string
		dr      daterange.DateRange
		want    []string
		wantErr error
	}{
		{name: "first half", dr: firstHalfJanDR, want: []string{"Alice", "Bob", "Eve"}},
		{name: "second half", dr: secondHalfJan, want: []string{"Bob", "Dan", "Eve"}},
		{name: "first day", dr: daterange.Day(janStart), want: []string{"Alice", "Bob", "Eve"}},
		{name: "day after everyone left", dr: daterange.Day(janEnd), want: nil},
		{name: "unsliced month", dr: janDR, wantErr: ErrPartialResidency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResidentParticipants(tt.dr, people)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
