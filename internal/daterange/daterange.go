// Package daterange implements half-open calendar date ranges and the
// interval algebra used to apportion costs over time.
//
// A range is [Start, EndExclusive). Either endpoint may be Unbounded, which
// sorts after every calendar date and stands for "still ongoing". Zero-length
// ranges are valid and represent a single day.
package daterange

import (
	"errors"
	"fmt"
	"math/big"
	"time"
)

const (
	// Layout is the textual form of a calendar date.
	Layout = "2006-01-02"

	secondsPerDay = 24 * 60 * 60
)

// ErrUnboundedRange is returned when a finite length is required of a range
// with exactly one unbounded endpoint.
var ErrUnboundedRange = errors.New("no length of an unbounded date range")

// Bound is a range endpoint: either a calendar date or Unbounded.
type Bound struct {
	date    time.Time
	bounded bool
}

// Unbounded is the endpoint that lies after every calendar date.
var Unbounded = Bound{}

// At returns a bounded endpoint on the calendar day of t.
func At(t time.Time) Bound {
	return Bound{date: Truncate(t), bounded: true}
}

// Truncate drops the time of day and location from t.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date returns the calendar date for year, month and day.
func Date(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// Parse reads a date in Layout form.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Time returns the endpoint date and whether the endpoint is bounded.
func (b Bound) Time() (time.Time, bool) {
	return b.date, b.bounded
}

// IsUnbounded reports whether b is the Unbounded endpoint.
func (b Bound) IsUnbounded() bool {
	return !b.bounded
}

// Compare returns -1, 0 or +1 ordering b against o.
func (b Bound) Compare(o Bound) int {
	switch {
	case !b.bounded && !o.bounded:
		return 0
	case !b.bounded:
		return 1
	case !o.bounded:
		return -1
	}
	return b.date.Compare(o.date)
}

// Equal reports whether b and o are the same endpoint.
func (b Bound) Equal(o Bound) bool {
	return b.Compare(o) == 0
}

func (b Bound) String() string {
	if !b.bounded {
		return "unbounded"
	}
	return b.date.Format(Layout)
}

func minBound(a, b Bound) Bound {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

// DateRange is the half-open range [Start, EndExclusive).
type DateRange struct {
	Start        Bound
	EndExclusive Bound
}

// Empty is the canonical result of intersecting disjoint ranges.
var Empty = DateRange{Start: Unbounded, EndExclusive: Unbounded}

// New returns [start, endExclusive).
func New(start, endExclusive time.Time) DateRange {
	return DateRange{Start: At(start), EndExclusive: At(endExclusive)}
}

// Inclusive returns the range covering start through end, both included.
func Inclusive(start, end time.Time) DateRange {
	return DateRange{Start: At(start), EndExclusive: At(Truncate(end).AddDate(0, 0, 1))}
}

// From returns the range beginning at start that has not ended yet.
func From(start time.Time) DateRange {
	return DateRange{Start: At(start), EndExclusive: Unbounded}
}

// Day returns the zero-length range of a single day.
func Day(d time.Time) DateRange {
	return DateRange{Start: At(d), EndExclusive: At(d)}
}

// IsEmpty reports whether r is the Empty sentinel. Zero-length ranges are
// not empty.
func (r DateRange) IsEmpty() bool {
	return r == Empty
}

// Equal reports whether r and o have the same endpoints.
func (r DateRange) Equal(o DateRange) bool {
	return r.Start.Equal(o.Start) && r.EndExclusive.Equal(o.EndExclusive)
}

// Compare orders ranges by start, then by end.
func (r DateRange) Compare(o DateRange) int {
	if c := r.Start.Compare(o.Start); c != 0 {
		return c
	}
	return r.EndExclusive.Compare(o.EndExclusive)
}

// Contains reports whether d lies in [Start, EndExclusive).
func (r DateRange) Contains(d time.Time) bool {
	at := At(d)
	return r.Start.Compare(at) <= 0 && at.Compare(r.EndExclusive) < 0
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.EndExclusive)
}

// Length returns the duration of r. A range with both endpoints unbounded
// has length zero. Like time.Time.Sub, it saturates for ranges longer than
// about 292 years; Days does not.
func (r DateRange) Length() (time.Duration, error) {
	if err := r.checkFinite(); err != nil {
		return 0, err
	}
	if r.Start.IsUnbounded() {
		return 0, nil
	}
	return r.EndExclusive.date.Sub(r.Start.date), nil
}

// Days returns the length of r in whole calendar days.
func (r DateRange) Days() (int64, error) {
	if err := r.checkFinite(); err != nil {
		return 0, err
	}
	if r.Start.IsUnbounded() {
		return 0, nil
	}
	// Endpoints are UTC midnights, so the difference is a whole number of days.
	return (r.EndExclusive.date.Unix() - r.Start.date.Unix()) / secondsPerDay, nil
}

// checkFinite rejects ranges with exactly one unbounded endpoint.
func (r DateRange) checkFinite() error {
	if r.Start.IsUnbounded() != r.EndExclusive.IsUnbounded() {
		return fmt.Errorf("%w: %s", ErrUnboundedRange, r)
	}
	return nil
}

// Intersect returns the range common to a and b, or Empty if they are
// disjoint. A zero-length range intersects a range that contains its day.
func Intersect(a, b DateRange) DateRange {
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	if !b.Start.Equal(a.Start) && b.Start.Compare(a.EndExclusive) >= 0 {
		return Empty
	}
	return DateRange{Start: b.Start, EndExclusive: minBound(a.EndExclusive, b.EndExclusive)}
}

// OverlapRatio returns the exact fraction of a that is also in b.
func OverlapRatio(a, b DateRange) (*big.Rat, error) {
	i := Intersect(a, b)
	if i.Equal(a) {
		return big.NewRat(1, 1), nil
	}
	if i.IsEmpty() {
		return new(big.Rat), nil
	}
	num, err := i.Length()
	if err != nil {
		return nil, err
	}
	den, err := a.Length()
	if err != nil {
		return nil, err
	}
	if den == 0 {
		return new(big.Rat), nil
	}
	return big.NewRat(int64(num), int64(den)), nil
}

// OverlapFraction returns the fraction of a that is also in b, in [0, 1].
func OverlapFraction(a, b DateRange) (float64, error) {
	r, err := OverlapRatio(a, b)
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

// SplitAt cuts r in two at d when d falls strictly inside r. Otherwise r is
// returned unchanged.
func SplitAt(r DateRange, d time.Time) []DateRange {
	at := At(d)
	if r.Start.Compare(at) < 0 && at.Compare(r.EndExclusive) < 0 {
		return []DateRange{
			{Start: r.Start, EndExclusive: at},
			{Start: at, EndExclusive: r.EndExclusive},
		}
	}
	return []DateRange{r}
}

// SliceAt cuts r at every date in ds, in chronological order of fragments.
func SliceAt(r DateRange, ds []time.Time) []DateRange {
	frags := []DateRange{r}
	for _, d := range ds {
		next := make([]DateRange, 0, len(frags)+1)
		for _, f := range frags {
			next = append(next, SplitAt(f, d)...)
		}
		frags = next
	}
	return frags
}
