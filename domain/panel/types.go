package panel

import (
	"math"

	"macropanel/domain/core"
)

// Stable semantic field keys for the analysis variables. Raw World Bank
// indicator codes are renamed to these during cleaning and never used
// downstream of acquisition.
const (
	KeyGDPGrowth        core.FieldKey = "gdp_growth"
	KeyGNIPerCapita     core.FieldKey = "gni_per_capita"
	KeyExportsGDP       core.FieldKey = "exports_gdp"
	KeyCapitalFormation core.FieldKey = "capital_formation"
	KeyCPI              core.FieldKey = "cpi"
	KeyUnemployment     core.FieldKey = "unemployment"
	KeyLogGNIPerCapita  core.FieldKey = "log_gni_per_capita"
	KeyInflationRate    core.FieldKey = "inflation_rate"
)

// BaseIndicators lists the six raw indicator fields every complete row carries.
func BaseIndicators() []core.FieldKey {
	return []core.FieldKey{
		KeyGDPGrowth,
		KeyGNIPerCapita,
		KeyExportsGDP,
		KeyCapitalFormation,
		KeyCPI,
		KeyUnemployment,
	}
}

// RegressionVars lists the six variables entering the models and the
// correlation matrix, response first.
func RegressionVars() []core.FieldKey {
	return []core.FieldKey{
		KeyGDPGrowth,
		KeyLogGNIPerCapita,
		KeyExportsGDP,
		KeyCapitalFormation,
		KeyUnemployment,
		KeyInflationRate,
	}
}

// Predictors lists the model right-hand side in specification order.
func Predictors() []core.FieldKey {
	return []core.FieldKey{
		KeyLogGNIPerCapita,
		KeyExportsGDP,
		KeyCapitalFormation,
		KeyUnemployment,
		KeyInflationRate,
	}
}

// Observation is one raw (country, year) row as acquired. Missing indicator
// values are NaN. Immutable once read from source.
type Observation struct {
	Country     core.CountryCode `json:"country"`
	CountryName string           `json:"country_name"`
	Region      string           `json:"region"`
	IncomeGroup string           `json:"income_group"`
	Year        core.Year        `json:"year"`

	GDPGrowth        float64 `json:"gdp_growth"`
	GNIPerCapita     float64 `json:"gni_per_capita"`
	ExportsGDP       float64 `json:"exports_gdp"`
	CapitalFormation float64 `json:"capital_formation"`
	CPI              float64 `json:"cpi"`
	Unemployment     float64 `json:"unemployment"`
}

// HasClassification reports whether region and income group are both present.
func (o Observation) HasClassification() bool {
	return o.Region != "" && o.IncomeGroup != ""
}

// DerivedObservation is an Observation plus the two computed fields. Rows in
// the analysis dataset are complete: every base indicator and both derived
// fields are present and finite.
type DerivedObservation struct {
	Observation

	LogGNIPerCapita float64 `json:"log_gni_per_capita"`
	InflationRate   float64 `json:"inflation_rate"`
}

// Value returns the named analysis variable. Unknown keys return NaN rather
// than panicking; callers iterate fixed key lists.
func (d DerivedObservation) Value(key core.FieldKey) float64 {
	switch key {
	case KeyGDPGrowth:
		return d.GDPGrowth
	case KeyGNIPerCapita:
		return d.GNIPerCapita
	case KeyExportsGDP:
		return d.ExportsGDP
	case KeyCapitalFormation:
		return d.CapitalFormation
	case KeyCPI:
		return d.CPI
	case KeyUnemployment:
		return d.Unemployment
	case KeyLogGNIPerCapita:
		return d.LogGNIPerCapita
	case KeyInflationRate:
		return d.InflationRate
	}
	return math.NaN()
}

// Complete reports whether all six base indicators and both derived fields
// are present and finite.
func (d DerivedObservation) Complete() bool {
	vals := []float64{
		d.GDPGrowth, d.GNIPerCapita, d.ExportsGDP,
		d.CapitalFormation, d.CPI, d.Unemployment,
		d.LogGNIPerCapita, d.InflationRate,
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
