package models

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mmynk/housesplit/internal/daterange"
)

// ErrInvalidHouse is returned when a house roster is inconsistent.
var ErrInvalidHouse = errors.New("invalid house")

// Person is an occupant of a house.
type Person struct {
	// Name uniquely identifies the person within a house.
	Name string

	// Residencies are the disjoint periods the person lived in the house.
	// An unbounded end means they still live there.
	Residencies []daterange.DateRange
}

// House is a shared dwelling and everyone who has lived in it.
type House struct {
	// Name is the display name of the house.
	Name string

	// MinPeople is the contractual minimum occupancy. A bill period with
	// fewer residents than this cannot be allocated.
	MinPeople int

	// People is the roster, in input order.
	People []Person
}

// NewHouse validates the roster and returns the house.
//
// Names must be unique and non-empty, every residency must start on a
// calendar date and not end before it starts, and one person's residencies
// must not overlap.
func NewHouse(name string, minPeople int, people []Person) (House, error) {
	if minPeople < 0 {
		return House{}, fmt.Errorf("%w: min_people %d is negative", ErrInvalidHouse, minPeople)
	}

	seen := make(map[string]bool, len(people))
	for _, p := range people {
		if p.Name == "" {
			return House{}, fmt.Errorf("%w: person with empty name", ErrInvalidHouse)
		}
		if seen[p.Name] {
			return House{}, fmt.Errorf("%w: duplicate person %q", ErrInvalidHouse, p.Name)
		}
		seen[p.Name] = true

		if err := validateResidencies(p); err != nil {
			return House{}, err
		}
	}

	return House{Name: name, MinPeople: minPeople, People: slices.Clone(people)}, nil
}

func validateResidencies(p Person) error {
	for _, r := range p.Residencies {
		if r.Start.IsUnbounded() {
			return fmt.Errorf("%w: %s has a residency with no start", ErrInvalidHouse, p.Name)
		}
		if r.Start.Compare(r.EndExclusive) > 0 {
			return fmt.Errorf("%w: %s has residency %s ending before it starts", ErrInvalidHouse, p.Name, r)
		}
	}

	sorted := slices.Clone(p.Residencies)
	slices.SortFunc(sorted, daterange.DateRange.Compare)
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start.Compare(sorted[i-1].EndExclusive) < 0 {
			return fmt.Errorf("%w: %s has overlapping residencies %s and %s",
				ErrInvalidHouse, p.Name, sorted[i-1], sorted[i])
		}
	}
	return nil
}

// Person returns the roster entry with the given name.
func (h House) Person(name string) (Person, bool) {
	for _, p := range h.People {
		if p.Name == name {
			return p, true
		}
	}
	return Person{}, false
}
