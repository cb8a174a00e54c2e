package calculator

import "errors"

var (
	// ErrUnderOccupancy is returned when fewer people than the house
	// minimum are resident during part of a bill.
	ErrUnderOccupancy = errors.New("house is under-rented")

	// ErrPartialResidency is returned when someone moves in or out inside
	// an interval that should have been cut at every move date.
	ErrPartialResidency = errors.New("partial residency")

	// ErrReconciliation is returned when an allocation does not add up to
	// the amount it was made from.
	ErrReconciliation = errors.New("allocation does not reconcile")

	// ErrNoParticipants is returned when an amount has to be split among
	// nobody.
	ErrNoParticipants = errors.New("must have at least one participant")
)
