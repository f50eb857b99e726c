package domain

import "errors"

// Sentinel errors shared by the scheduler and its adapters.
var (
	// ErrInvalidBounds is returned when lowerFloor > higherFloor.
	ErrInvalidBounds = errors.New("lower floor must not exceed higher floor")

	// ErrInvalidCapacity is returned when a cabin capacity is below one.
	ErrInvalidCapacity = errors.New("cabin capacity must be positive")

	// ErrInvalidCabinCount is returned when a fleet would have no cabins.
	ErrInvalidCabinCount = errors.New("cabin count must be positive")

	// ErrUnknownDirection is returned when a direction string is neither UP nor DOWN.
	ErrUnknownDirection = errors.New("unknown direction")

	// ErrUnknownCabin is returned when a cabin index is outside the fleet.
	ErrUnknownCabin = errors.New("unknown cabin")

	// ErrFloorOutOfRange is returned when a floor lies outside the served range.
	ErrFloorOutOfRange = errors.New("floor out of range")

	// ErrCabinFull is returned when boarding would exceed capacity.
	ErrCabinFull = errors.New("cabin is at full capacity")

	// ErrCabinEmpty is returned when alighting from an empty cabin.
	ErrCabinEmpty = errors.New("cabin is empty")

	// ErrDoorsClosed is returned for boarding events while doors are closed.
	ErrDoorsClosed = errors.New("cabin doors are closed")

	// ErrNoBoardingRider is returned when a destination arrives with no rider awaiting one.
	ErrNoBoardingRider = errors.New("no rider awaiting a destination")
)
