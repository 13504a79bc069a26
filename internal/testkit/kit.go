// Package testkit generates deterministic synthetic datasets for tests:
// derived panels with known regression coefficients, and raw observation
// sets that exercise the full cleaning path.
package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"macropanel/domain/core"
	"macropanel/domain/panel"
)

// PanelSpec describes a synthetic derived panel with known data-generating
// coefficients, so estimator tests can check recovery.
type PanelSpec struct {
	Countries int
	Years     int
	StartYear core.Year
	Seed      int64

	// Intercept and Betas define the growth equation; Betas follow
	// panel.Predictors() order: log_gni, exports, capital formation,
	// unemployment, inflation.
	Intercept float64
	Betas     [5]float64

	// CountryEffects and YearEffects are constant additive offsets on growth
	// (length Countries and Years respectively); nil means all zero.
	CountryEffects []float64
	YearEffects    []float64

	// NoiseStdDev adds Gaussian noise to growth; zero means an exact fit.
	NoiseStdDev float64
}

// CountryCodes returns the synthetic ISO3 codes C01..Cnn used by generators.
func CountryCodes(n int) []core.CountryCode {
	out := make([]core.CountryCode, n)
	for i := range out {
		out[i] = core.CountryCode(fmt.Sprintf("C%02d", i+1))
	}
	return out
}

// regions cycles synthetic countries through a fixed region list.
var regions = []string{
	"East Asia & Pacific",
	"Europe & Central Asia",
	"Latin America & Caribbean",
	"Sub-Saharan Africa",
}

var incomeGroups = []string{"High income", "Upper middle income", "Lower middle income"}

// DerivedPanel generates a complete derived panel obeying the spec's growth
// equation. All rows are complete and finite by construction.
func DerivedPanel(spec PanelSpec) (panel.Panel, error) {
	if spec.StartYear == 0 {
		spec.StartYear = 2019
	}
	rng := rand.New(rand.NewSource(spec.Seed))
	codes := CountryCodes(spec.Countries)

	rows := make([]panel.DerivedObservation, 0, spec.Countries*spec.Years)
	for i, code := range codes {
		for t := 0; t < spec.Years; t++ {
			logGNI := 6.0 + 3.0*rng.Float64()
			exports := 15.0 + 50.0*rng.Float64()
			capForm := 15.0 + 20.0*rng.Float64()
			unemp := 2.0 + 12.0*rng.Float64()
			inflation := -1.0 + 8.0*rng.Float64()

			growth := spec.Intercept +
				spec.Betas[0]*logGNI +
				spec.Betas[1]*exports +
				spec.Betas[2]*capForm +
				spec.Betas[3]*unemp +
				spec.Betas[4]*inflation
			if spec.CountryEffects != nil {
				growth += spec.CountryEffects[i]
			}
			if spec.YearEffects != nil {
				growth += spec.YearEffects[t]
			}
			if spec.NoiseStdDev > 0 {
				growth += rng.NormFloat64() * spec.NoiseStdDev
			}

			rows = append(rows, panel.DerivedObservation{
				Observation: panel.Observation{
					Country:          code,
					CountryName:      "Country " + string(code),
					Region:           regions[i%len(regions)],
					IncomeGroup:      incomeGroups[i%len(incomeGroups)],
					Year:             spec.StartYear + core.Year(t),
					GDPGrowth:        growth,
					GNIPerCapita:     math.Exp(logGNI) - 1,
					ExportsGDP:       exports,
					CapitalFormation: capForm,
					CPI:              100 * math.Pow(1+inflation/100, float64(t+1)),
					Unemployment:     unemp,
				},
				LogGNIPerCapita: logGNI,
				InflationRate:   inflation,
			})
		}
	}

	return panel.NewPanel(rows)
}

// RawObservations generates a raw acquisition-shaped dataset: per-country CPI
// series compound year over year, so the cleaning stage can derive inflation
// for every year after the first. Values are deterministic per seed.
func RawObservations(countries, years int, startYear core.Year, seed int64) []panel.Observation {
	rng := rand.New(rand.NewSource(seed))
	codes := CountryCodes(countries)

	var rows []panel.Observation
	for i, code := range codes {
		cpi := 80.0 + 40.0*rng.Float64()
		for t := 0; t < years; t++ {
			if t > 0 {
				cpi *= 1 + (0.5+5.0*rng.Float64())/100
			}
			rows = append(rows, panel.Observation{
				Country:          code,
				CountryName:      "Country " + string(code),
				Region:           regions[i%len(regions)],
				IncomeGroup:      incomeGroups[i%len(incomeGroups)],
				Year:             startYear + core.Year(t),
				GDPGrowth:        -3.0 + 10.0*rng.Float64(),
				GNIPerCapita:     500 + 60000*rng.Float64(),
				ExportsGDP:       10.0 + 70.0*rng.Float64(),
				CapitalFormation: 12.0 + 25.0*rng.Float64(),
				CPI:              cpi,
				Unemployment:     1.5 + 15.0*rng.Float64(),
			})
		}
	}
	return rows
}
