package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific identifier types
type (
	// RunID identifies a single pipeline execution.
	RunID ID
	// CountryCode is a three-letter ISO 3166-1 alpha-3 country code.
	CountryCode string
	// IndicatorCode is a World Bank indicator series code (e.g. NY.GDP.MKTP.KD.ZG).
	IndicatorCode string
	// FieldKey is the stable semantic name of an analysis variable (e.g. gdp_growth).
	FieldKey string
)

func (id RunID) String() string        { return ID(id).String() }
func (c CountryCode) String() string   { return string(c) }
func (c IndicatorCode) String() string { return string(c) }
func (k FieldKey) String() string      { return string(k) }

// NewRunID creates a fresh run identifier.
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseCountryCode parses and normalizes an ISO3 country code.
func ParseCountryCode(s string) (CountryCode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 {
		return "", fmt.Errorf("country code must be 3 letters, got %q", s)
	}
	return CountryCode(s), nil
}

// ParseIndicatorCode parses a World Bank indicator code.
func ParseIndicatorCode(s string) (IndicatorCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("indicator code cannot be empty")
	}
	return IndicatorCode(s), nil
}
