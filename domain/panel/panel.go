package panel

import (
	"fmt"
	"sort"

	"macropanel/domain/core"
)

// Panel is the full derived dataset indexed by (country, year). Uniqueness on
// that pair is a construction invariant; NewPanel rejects violations.
type Panel struct {
	Rows []DerivedObservation `json:"rows"`
}

// NewPanel builds a panel from derived rows, validating completeness and
// (country, year) uniqueness. Row order is normalized to country, then year,
// so identical inputs always yield an identical panel.
func NewPanel(rows []DerivedObservation) (Panel, error) {
	if len(rows) == 0 {
		return Panel{}, core.ErrEmptyDataset
	}

	sorted := make([]DerivedObservation, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Country != sorted[j].Country {
			return sorted[i].Country < sorted[j].Country
		}
		return sorted[i].Year < sorted[j].Year
	})

	type key struct {
		country core.CountryCode
		year    core.Year
	}
	seen := make(map[key]bool, len(sorted))
	for _, r := range sorted {
		if !r.Complete() {
			return Panel{}, fmt.Errorf("incomplete row %s/%d reached panel construction", r.Country, r.Year)
		}
		k := key{r.Country, r.Year}
		if seen[k] {
			return Panel{}, core.NewDuplicateObservationError(r.Country, r.Year)
		}
		seen[k] = true
	}

	return Panel{Rows: sorted}, nil
}

// LatestYear returns the most recent observation year in the panel.
func (p Panel) LatestYear() core.Year {
	var latest core.Year
	for _, r := range p.Rows {
		if r.Year > latest {
			latest = r.Year
		}
	}
	return latest
}

// Countries returns the distinct country codes in panel order.
func (p Panel) Countries() []core.CountryCode {
	var out []core.CountryCode
	seen := make(map[core.CountryCode]bool)
	for _, r := range p.Rows {
		if !seen[r.Country] {
			seen[r.Country] = true
			out = append(out, r.Country)
		}
	}
	return out
}

// Years returns the distinct observation years in ascending order.
func (p Panel) Years() []core.Year {
	seen := make(map[core.Year]bool)
	var out []core.Year
	for _, r := range p.Rows {
		if !seen[r.Year] {
			seen[r.Year] = true
			out = append(out, r.Year)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Column extracts one variable across all rows, in row order.
func (p Panel) Column(key core.FieldKey) []float64 {
	out := make([]float64, len(p.Rows))
	for i, r := range p.Rows {
		out[i] = r.Value(key)
	}
	return out
}

// CrossSection restricts the panel to its latest year, one row per country.
func (p Panel) CrossSection() (CrossSection, error) {
	if len(p.Rows) == 0 {
		return CrossSection{}, core.ErrEmptyDataset
	}
	latest := p.LatestYear()

	var rows []DerivedObservation
	seen := make(map[core.CountryCode]bool)
	for _, r := range p.Rows {
		if r.Year != latest {
			continue
		}
		if seen[r.Country] {
			return CrossSection{}, core.NewDuplicateObservationError(r.Country, r.Year)
		}
		seen[r.Country] = true
		rows = append(rows, r)
	}

	return CrossSection{Year: latest, Rows: rows}, nil
}

// CrossSection is the derived dataset restricted to a single year.
type CrossSection struct {
	Year core.Year            `json:"year"`
	Rows []DerivedObservation `json:"rows"`
}

// Column extracts one variable across the cross section, in row order.
func (c CrossSection) Column(key core.FieldKey) []float64 {
	out := make([]float64, len(c.Rows))
	for i, r := range c.Rows {
		out[i] = r.Value(key)
	}
	return out
}
