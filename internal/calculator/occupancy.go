package calculator

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
)

var (
	ratZero = new(big.Rat)
	ratOne  = big.NewRat(1, 1)
)

// ResidentParticipants returns the names of the people resident for the
// whole of dr, sorted.
//
// Someone resident for only part of dr makes the result meaningless, so it
// is reported as ErrPartialResidency: callers must cut dr at every move date
// first.
func ResidentParticipants(dr daterange.DateRange, people []models.Person) ([]string, error) {
	var residents []string
	for _, person := range people {
		covered := new(big.Rat)
		for _, r := range person.Residencies {
			f, err := daterange.OverlapRatio(dr, r)
			if err != nil {
				return nil, fmt.Errorf("resolving residency of %s: %w", person.Name, err)
			}
			covered.Add(covered, f)
		}

		switch {
		case covered.Cmp(ratOne) == 0:
			residents = append(residents, person.Name)
		case covered.Cmp(ratZero) != 0:
			return nil, fmt.Errorf("%w: %s is only in residence for %s of %s",
				ErrPartialResidency, person.Name, covered.RatString(), dr)
		}
	}
	slices.Sort(residents)
	return residents, nil
}
