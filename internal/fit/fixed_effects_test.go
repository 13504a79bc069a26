package fit

import (
	"testing"

	"macropanel/domain/core"
	"macropanel/domain/panel"
	"macropanel/domain/regress"
	"macropanel/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPanelTwoWayFERecoversCoefficients is the round-trip check on the within
// transform: 3 countries x 5 years with constant country and year offsets on
// growth, known slopes, no noise. Demeaning must absorb the offsets entirely
// and the regression must recover the slopes.
func TestPanelTwoWayFERecoversCoefficients(t *testing.T) {
	betas := [5]float64{1.8, -0.4, 0.35, -0.7, 0.15}
	p, err := testkit.DerivedPanel(testkit.PanelSpec{
		Countries:      3,
		Years:          5,
		Seed:           21,
		Intercept:      2.0,
		Betas:          betas,
		CountryEffects: []float64{4.0, -2.5, 1.0},
		YearEffects:    []float64{0.5, -1.0, 2.0, 0.0, -0.5},
	})
	require.NoError(t, err)

	summary, demeaned, err := PanelTwoWayFE(p)
	require.NoError(t, err)

	assert.Equal(t, regress.ModelPanelTwoWayFE, summary.Kind)
	assert.Equal(t, 3, summary.AbsorbedCountries)
	assert.Equal(t, 5, summary.AbsorbedYears)
	require.Len(t, summary.Terms, 5)

	for j, want := range betas {
		assert.InDeltaf(t, want, summary.Terms[j].Estimate, 1e-8,
			"coefficient for %s", summary.Terms[j].Name)
		// No intercept term anywhere in the output.
		assert.NotEqual(t, regress.InterceptKey, summary.Terms[j].Name)
	}

	assert.InDelta(t, 1.0, summary.Fit.RSquared, 1e-9)
	assert.Equal(t, 15, summary.Fit.Observations)
	// n - k - C - T + 1 = 15 - 5 - 3 - 5 + 1
	assert.Equal(t, 3, summary.Fit.DegreesFreedom)
	require.Len(t, demeaned.Rows, 15)
}

// TestWithinTransformZeroGroupMeans verifies the demeaned panel has zero
// country and year means in every column (balanced panel).
func TestWithinTransformZeroGroupMeans(t *testing.T) {
	p, err := testkit.DerivedPanel(testkit.PanelSpec{
		Countries:   4,
		Years:       6,
		Seed:        5,
		Intercept:   1.0,
		Betas:       [5]float64{1, -1, 0.5, -0.5, 0.2},
		NoiseStdDev: 2.0,
	})
	require.NoError(t, err)

	demeaned := WithinTransform(p)
	require.Len(t, demeaned.Fields, 6)

	for f := range demeaned.Fields {
		countrySums := make(map[core.CountryCode]float64)
		countryCounts := make(map[core.CountryCode]int)
		yearSums := make(map[core.Year]float64)
		yearCounts := make(map[core.Year]int)

		for _, row := range demeaned.Rows {
			countrySums[row.Country] += row.Values[f]
			countryCounts[row.Country]++
			yearSums[row.Year] += row.Values[f]
			yearCounts[row.Year]++
		}

		for c, sum := range countrySums {
			assert.InDeltaf(t, 0, sum/float64(countryCounts[c]), 1e-9,
				"country mean for %s field %s", c, demeaned.Fields[f])
		}
		for y, sum := range yearSums {
			assert.InDeltaf(t, 0, sum/float64(yearCounts[y]), 1e-9,
				"year mean for %d field %s", y, demeaned.Fields[f])
		}
	}
}

func TestPanelTwoWayFEInsufficientData(t *testing.T) {
	// 2 countries x 3 years: n=6 < k + C + T - 1 = 9.
	p, err := testkit.DerivedPanel(testkit.PanelSpec{
		Countries: 2,
		Years:     3,
		Seed:      9,
		Betas:     [5]float64{1, 0, 0, 0, 0},
	})
	require.NoError(t, err)

	_, _, err = PanelTwoWayFE(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestPanelTwoWayFENoWithinVariation(t *testing.T) {
	p, err := testkit.DerivedPanel(testkit.PanelSpec{
		Countries:   3,
		Years:       6,
		Seed:        13,
		Betas:       [5]float64{1, -1, 0.5, -0.5, 0.2},
		NoiseStdDev: 1.0,
	})
	require.NoError(t, err)

	// Freeze unemployment per country: absorbed entirely by country effects.
	perCountry := map[core.CountryCode]float64{}
	rows := make([]panel.DerivedObservation, len(p.Rows))
	copy(rows, p.Rows)
	for i, r := range rows {
		if _, ok := perCountry[r.Country]; !ok {
			perCountry[r.Country] = 3.0 + float64(len(perCountry))
		}
		rows[i].Unemployment = perCountry[r.Country]
	}
	frozen, err := panel.NewPanel(rows)
	require.NoError(t, err)

	_, _, err = PanelTwoWayFE(frozen)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoVariation)
}
