// Package notify builds the monthly house bills e-mail and its pay link.
package notify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidSummary is returned when a summary cannot be built.
var ErrInvalidSummary = errors.New("invalid summary")

// Addresses are the mailboxes a summary is sent to.
type Addresses struct {
	House  string // Name used in subjects, e.g. "Housetub"
	Pay    string // Account the pay link is addressed to
	PayCc  string // Copied on the pay link, e.g. a payments service
	Notify string // Where the summary itself goes
}

// Item is one billed service for the month.
type Item struct {
	Service string
	Cost    decimal.Decimal
}

// Notice is an e-mail ready to send or open as a mailto link.
type Notice struct {
	To      string
	Cc      string
	Subject string
	Body    string
}

// Mailto encodes the notice as a mailto URL. Empty fields are left out.
func (n Notice) Mailto() string {
	params := url.Values{}
	if n.Cc != "" {
		params.Set("cc", n.Cc)
	}
	if n.Subject != "" {
		params.Set("subject", n.Subject)
	}
	if n.Body != "" {
		params.Set("body", n.Body)
	}
	return "mailto:" + n.To + "?" + params.Encode()
}

// String renders the notice with mail-style headers.
func (n Notice) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\n", n.To)
	if n.Cc != "" {
		fmt.Fprintf(&b, "Cc: %s\n", n.Cc)
	}
	if n.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", n.Subject)
	}
	b.WriteString("\n")
	if n.Body != "" {
		b.WriteString(n.Body)
		b.WriteString("\n")
	}
	return b.String()
}

// ParseItem reads a "service=amount" argument.
func ParseItem(arg string) (Item, error) {
	service, amount, ok := strings.Cut(arg, "=")
	if !ok || strings.TrimSpace(service) == "" {
		return Item{}, fmt.Errorf("%w: expected service=amount, got %q", ErrInvalidSummary, arg)
	}
	cost, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Item{}, fmt.Errorf("%w: invalid amount for %s: %q", ErrInvalidSummary, service, amount)
	}
	if cost.IsNegative() {
		return Item{}, fmt.Errorf("%w: negative amount for %s", ErrInvalidSummary, service)
	}
	return Item{Service: strings.TrimSpace(service), Cost: cost}, nil
}

// PayNotice is the message a housemate sends once they have paid their share.
func PayNotice(addr Addresses, amount decimal.Decimal, month time.Time) Notice {
	return Notice{
		To:      addr.Pay,
		Cc:      addr.PayCc,
		Subject: fmt.Sprintf("I paid my %s bills for %s! $%s", addr.House, month.Format("January 2006"), amount.StringFixed(2)),
	}
}

// BuildSummary itemises the month's services and splits the total evenly
// between people, linking to a prefilled pay notice.
func BuildSummary(addr Addresses, items []Item, people int, month time.Time) (Notice, error) {
	if people < 1 {
		return Notice{}, fmt.Errorf("%w: need at least one person, got %d", ErrInvalidSummary, people)
	}
	if len(items) == 0 {
		return Notice{}, fmt.Errorf("%w: no services billed", ErrInvalidSummary)
	}

	total := decimal.Zero
	lines := make([]string, 0, len(items))
	for _, item := range items {
		total = total.Add(item.Cost)
		lines = append(lines, fmt.Sprintf("* %s: $%s", item.Service, item.Cost.StringFixed(2)))
	}
	perPerson := total.DivRound(decimal.NewFromInt(int64(people)), 2)

	subject := fmt.Sprintf("%s Bills for %s: $%s / person",
		addr.House, month.Format("January 2006"), perPerson.StringFixed(2))

	var body strings.Builder
	fmt.Fprintf(&body, "%s\n%s\n", subject, strings.Repeat("=", len(subject)))
	fmt.Fprintf(&body, "%s\n", strings.Join(lines, "\n"))
	fmt.Fprintf(&body, "Total: $%s\n", total.StringFixed(2))
	fmt.Fprintf(&body, "Per Person for %d People: $%s\n", people, perPerson.StringFixed(2))
	fmt.Fprintf(&body, "\nPay Link %s\n", PayNotice(addr, perPerson, month).Mailto())

	return Notice{
		To:      addr.Notify,
		Subject: subject,
		Body:    body.String(),
	}, nil
}
