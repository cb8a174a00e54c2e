package notify

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addresses = Addresses{
	House:  "Housetub",
	Pay:    "housetub@gmail.com",
	PayCc:  "cash@square.com",
	Notify: "housetub@googlegroups.com",
}

var april = time.Date(2014, time.April, 1, 0, 0, 0, 0, time.UTC)

func TestBuildSummary(t *testing.T) {
	items := []Item{
		{Service: "PG&E", Cost: decimal.RequireFromString("355.30")},
		{Service: "Comcast", Cost: decimal.RequireFromString("120.80")},
	}

	n, err := BuildSummary(addresses, items, 7, april)
	require.NoError(t, err)

	subject := "Housetub Bills for April 2014: $68.01 / person"
	assert.Equal(t, "housetub@googlegroups.com", n.To)
	assert.Empty(t, n.Cc)
	assert.Equal(t, subject, n.Subject)

	want := subject + "\n" + strings.Repeat("=", len(subject)) + "\n" +
		"* PG&E: $355.30\n" +
		"* Comcast: $120.80\n" +
		"Total: $476.10\n" +
		"Per Person for 7 People: $68.01\n" +
		"\n" +
		"Pay Link mailto:housetub@gmail.com?cc=cash%40square.com&subject=I+paid+my+Housetub+bills+for+April+2014%21+%2468.01\n"
	assert.Equal(t, want, n.Body)
}

func TestBuildSummaryInvalid(t *testing.T) {
	items := []Item{{Service: "Water", Cost: decimal.NewFromInt(10)}}

	_, err := BuildSummary(addresses, items, 0, april)
	assert.ErrorIs(t, err, ErrInvalidSummary)

	_, err = BuildSummary(addresses, nil, 3, april)
	assert.ErrorIs(t, err, ErrInvalidSummary)
}

func TestNoticeMailto(t *testing.T) {
	n := Notice{To: "a@example.com", Subject: "Bills & stuff", Body: "line one\nline two"}
	link := n.Mailto()

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "mailto", u.Scheme)
	assert.Equal(t, "a@example.com", u.Opaque)
	assert.Equal(t, "Bills & stuff", u.Query().Get("subject"))
	assert.Equal(t, "line one\nline two", u.Query().Get("body"))
	assert.False(t, u.Query().Has("cc"))
}

func TestNoticeString(t *testing.T) {
	n := PayNotice(addresses, decimal.RequireFromString("68.01"), april)
	assert.Equal(t, "To: housetub@gmail.com\nCc: cash@square.com\nSubject: I paid my Housetub bills for April 2014! $68.01\n\n", n.String())
}

func TestParseItem(t *testing.T) {
	tests := []struct {
		arg     string
		want    Item
		wantErr bool
	}{
		{arg: "PG&E=355.30", want: Item{Service: "PG&E", Cost: decimal.RequireFromString("355.30")}},
		{arg: " Comcast = 120.8 ", want: Item{Service: "Comcast", Cost: decimal.RequireFromString("120.8")}},
		{arg: "Water", wantErr: true},
		{arg: "=10", wantErr: true},
		{arg: "Water=ten", wantErr: true},
		{arg: "Water=-5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseItem(tt.arg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSummary)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Service, got.Service)
			assert.True(t, tt.want.Cost.Equal(got.Cost), "cost = %s", got.Cost)
		})
	}
}
