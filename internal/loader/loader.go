// Package loader reads a house and its ledger from a YAML document.
//
// Document shape:
//
//	house:
//	  name: Housetub
//	  min_people: 2
//	  people:
//	    - name: Bob
//	      residencies:
//	        - start: 2014-01-01
//	          end: 2014-06-30        # inclusive; or end_exclusive, or neither
//	ledger:
//	  - bill:
//	      description: PG&E
//	      paid_by: Bob
//	      for_dates: {start: 2014-01-01, end_exclusive: 2014-02-01}
//	      paid_on: 2014-02-03      # optional
//	      amount: 120.80
//	  - shared_cost:
//	      description: Groceries
//	      paid_by: Alice
//	      on_date: 2014-01-05
//	      shared_amongst: [Alice, Bob] # optional, default everyone resident
//	      amount: 30
//	  - payment:
//	      payer: Alice
//	      to: Bob
//	      on_date: 2014-02-01
//	      amount: 50
package loader

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
)

// Document is a parsed input file.
type Document struct {
	House   models.House
	Entries []models.Entry
}

type rawDocument struct {
	House  rawHouse               `yaml:"house"`
	Ledger []map[string]yaml.Node `yaml:"ledger"`
}

type rawHouse struct {
	Name      string      `yaml:"name"`
	MinPeople int         `yaml:"min_people"`
	People    []rawPerson `yaml:"people"`
}

type rawPerson struct {
	Name        string         `yaml:"name"`
	Residencies []rawDateRange `yaml:"residencies"`
}

type rawDateRange struct {
	Start        string  `yaml:"start"`
	End          *string `yaml:"end"`
	EndExclusive *string `yaml:"end_exclusive"`
}

type rawBill struct {
	Description string        `yaml:"description"`
	PaidBy      string        `yaml:"paid_by"`
	ForDates    *rawDateRange `yaml:"for_dates"`
	PaidOn      string        `yaml:"paid_on"`
	OnDate      string        `yaml:"on_date"`
	Amount      string        `yaml:"amount"`
}

type rawSharedCost struct {
	Description   string   `yaml:"description"`
	PaidBy        string   `yaml:"paid_by"`
	OnDate        string   `yaml:"on_date"`
	SharedAmongst []string `yaml:"shared_amongst"`
	Amount        string   `yaml:"amount"`
}

type rawPayment struct {
	Payer  string `yaml:"payer"`
	To     string `yaml:"to"`
	OnDate string `yaml:"on_date"`
	Amount string `yaml:"amount"`
}

// LoadFile parses the YAML document at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Load parses a YAML document. Entries are returned in input order.
func Load(r io.Reader) (*Document, error) {
	var raw rawDocument
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode ledger document: %w", err)
	}

	house, err := typeHouse(raw.House)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(raw.Ledger))
	for i, item := range raw.Ledger {
		entry, err := typeEntry(item)
		if err != nil {
			return nil, fmt.Errorf("ledger item %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}

	return &Document{House: house, Entries: entries}, nil
}

func typeHouse(raw rawHouse) (models.House, error) {
	people := make([]models.Person, 0, len(raw.People))
	for _, p := range raw.People {
		person := models.Person{Name: p.Name}
		for _, r := range p.Residencies {
			dr, err := typeDateRange(r)
			if err != nil {
				return models.House{}, fmt.Errorf("residency of %s: %w", p.Name, err)
			}
			person.Residencies = append(person.Residencies, dr)
		}
		people = append(people, person)
	}
	return models.NewHouse(raw.Name, raw.MinPeople, people)
}

func typeEntry(item map[string]yaml.Node) (models.Entry, error) {
	if len(item) != 1 {
		keys := make([]string, 0, len(item))
		for k := range item {
			keys = append(keys, k)
		}
		return nil, fmt.Errorf("%w: item has %d types %v", models.ErrMalformedEntry, len(item), keys)
	}

	var kind string
	var node yaml.Node
	for k, v := range item {
		kind, node = k, v
	}

	switch models.EntryKind(kind) {
	case models.KindBill:
		var raw rawBill
		if err := node.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode bill: %w", err)
		}
		return typeBill(raw)
	case models.KindSharedCost:
		var raw rawSharedCost
		if err := node.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode shared cost: %w", err)
		}
		return typeSharedCost(raw)
	case models.KindPayment:
		var raw rawPayment
		if err := node.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode payment: %w", err)
		}
		return typePayment(raw)
	default:
		return nil, fmt.Errorf("%w: unknown ledger item type %q", models.ErrMalformedEntry, kind)
	}
}

func typeBill(raw rawBill) (models.Bill, error) {
	if raw.ForDates == nil {
		return models.Bill{}, fmt.Errorf("%w: bill %q has no for_dates", models.ErrMalformedEntry, raw.Description)
	}
	if raw.OnDate != "" {
		return models.Bill{}, fmt.Errorf("%w: bill %q has both for_dates and on_date", models.ErrMalformedEntry, raw.Description)
	}
	forDates, err := typeDateRange(*raw.ForDates)
	if err != nil {
		return models.Bill{}, fmt.Errorf("bill %q: %w", raw.Description, err)
	}
	if forDates.Start.Compare(forDates.EndExclusive) > 0 {
		return models.Bill{}, fmt.Errorf("%w: bill %q covers %s, which ends before it starts",
			models.ErrMalformedEntry, raw.Description, forDates)
	}

	var paidOn time.Time
	if raw.PaidOn != "" {
		if paidOn, err = typeDate(raw.PaidOn); err != nil {
			return models.Bill{}, fmt.Errorf("bill %q: %w", raw.Description, err)
		}
	}

	amount, err := typeAmount(raw.Amount)
	if err != nil {
		return models.Bill{}, fmt.Errorf("bill %q: %w", raw.Description, err)
	}

	if raw.PaidBy == "" {
		return models.Bill{}, fmt.Errorf("%w: bill %q has no paid_by", models.ErrMalformedEntry, raw.Description)
	}

	return models.Bill{
		Description: raw.Description,
		PaidBy:      raw.PaidBy,
		ForDates:    forDates,
		PaidOn:      paidOn,
		Amount:      amount,
	}, nil
}

func typeSharedCost(raw rawSharedCost) (models.SharedCost, error) {
	onDate, err := typeDate(raw.OnDate)
	if err != nil {
		return models.SharedCost{}, fmt.Errorf("shared cost %q: %w", raw.Description, err)
	}
	amount, err := typeAmount(raw.Amount)
	if err != nil {
		return models.SharedCost{}, fmt.Errorf("shared cost %q: %w", raw.Description, err)
	}
	if raw.PaidBy == "" {
		return models.SharedCost{}, fmt.Errorf("%w: shared cost %q has no paid_by", models.ErrMalformedEntry, raw.Description)
	}

	return models.SharedCost{
		Description:   raw.Description,
		PaidBy:        raw.PaidBy,
		OnDate:        onDate,
		SharedAmongst: raw.SharedAmongst,
		Amount:        amount,
	}, nil
}

func typePayment(raw rawPayment) (models.Payment, error) {
	onDate, err := typeDate(raw.OnDate)
	if err != nil {
		return models.Payment{}, fmt.Errorf("payment: %w", err)
	}
	amount, err := typeAmount(raw.Amount)
	if err != nil {
		return models.Payment{}, fmt.Errorf("payment: %w", err)
	}
	if raw.Payer == "" || raw.To == "" {
		return models.Payment{}, fmt.Errorf("%w: payment needs both payer and to", models.ErrMalformedEntry)
	}

	return models.Payment{
		Payer:  raw.Payer,
		Payee:  raw.To,
		OnDate: onDate,
		Amount: amount,
	}, nil
}

// typeDateRange reads a range whose end is inclusive (end), exclusive
// (end_exclusive) or missing, which leaves it unbounded.
func typeDateRange(raw rawDateRange) (daterange.DateRange, error) {
	start, err := typeDate(raw.Start)
	if err != nil {
		return daterange.DateRange{}, err
	}

	switch {
	case raw.End != nil && raw.EndExclusive != nil:
		return daterange.DateRange{}, fmt.Errorf("%w: date range has both 'end' and 'end_exclusive'", models.ErrMalformedEntry)
	case raw.End != nil:
		end, err := typeDate(*raw.End)
		if err != nil {
			return daterange.DateRange{}, err
		}
		return daterange.Inclusive(start, end), nil
	case raw.EndExclusive != nil:
		end, err := typeDate(*raw.EndExclusive)
		if err != nil {
			return daterange.DateRange{}, err
		}
		return daterange.New(start, end), nil
	default:
		return daterange.From(start), nil
	}
}

func typeDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: missing date", models.ErrMalformedEntry)
	}
	d, err := daterange.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", models.ErrMalformedEntry, err)
	}
	return d, nil
}

// typeAmount parses the literal text of an amount so that no binary float
// ever touches it.
func typeAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: missing amount", models.ErrMalformedEntry)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", models.ErrMalformedEntry, s)
	}
	if !d.Shift(2).IsInteger() {
		return decimal.Zero, fmt.Errorf("%w: amount %s is not a whole number of cents", models.ErrMalformedEntry, s)
	}
	return d, nil
}
