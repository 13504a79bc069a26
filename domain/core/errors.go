package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Dataset errors
	ErrEmptyDataset         = errors.New("empty dataset")
	ErrDuplicateObservation = errors.New("duplicate (country, year) observation")
	ErrInsufficientData     = errors.New("insufficient data for analysis")

	// Model errors
	ErrSingularDesign = errors.New("singular design matrix")
	ErrNoVariation    = errors.New("regressor has no variation after demeaning")

	// Determinism errors
	ErrHashMismatch = errors.New("hash mismatch")
)

// Error constructors with context
func NewDuplicateObservationError(country CountryCode, year Year) error {
	return fmt.Errorf("%w: %s/%d", ErrDuplicateObservation, country, year)
}

func NewInsufficientDataError(have, need int) error {
	return fmt.Errorf("%w: %d observations, need at least %d", ErrInsufficientData, have, need)
}

// IsModelError reports whether err is a model estimation failure.
func IsModelError(err error) bool {
	return errors.Is(err, ErrSingularDesign) ||
		errors.Is(err, ErrNoVariation) ||
		errors.Is(err, ErrInsufficientData)
}
