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

func crossSection(t *testing.T, spec testkit.PanelSpec) panel.CrossSection {
	t.Helper()
	spec.Years = 1
	p, err := testkit.DerivedPanel(spec)
	require.NoError(t, err)
	cs, err := p.CrossSection()
	require.NoError(t, err)
	return cs
}

func TestCrossSectionOLSRecoversExactCoefficients(t *testing.T) {
	betas := [5]float64{2.0, -0.5, 0.3, -0.8, 0.1}
	cs := crossSection(t, testkit.PanelSpec{
		Countries: 40,
		Seed:      7,
		Intercept: 1.5,
		Betas:     betas,
	})

	summary, err := CrossSectionOLS(cs)
	require.NoError(t, err)

	require.Len(t, summary.Terms, 6)
	assert.Equal(t, regress.ModelCrossSectionOLS, summary.Kind)
	assert.Equal(t, regress.InterceptKey, summary.Terms[0].Name)

	assert.InDelta(t, 1.5, summary.Terms[0].Estimate, 1e-8)
	for j, want := range betas {
		assert.InDeltaf(t, want, summary.Terms[j+1].Estimate, 1e-8,
			"coefficient for %s", summary.Terms[j+1].Name)
	}

	// Exact data generating process: the fit is perfect.
	assert.InDelta(t, 1.0, summary.Fit.RSquared, 1e-9)
	assert.Equal(t, 40, summary.Fit.Observations)
	assert.Equal(t, 40-6, summary.Fit.DegreesFreedom)
}

func TestCrossSectionOLSWithNoise(t *testing.T) {
	cs := crossSection(t, testkit.PanelSpec{
		Countries:   120,
		Seed:        11,
		Intercept:   1.0,
		Betas:       [5]float64{1.2, -0.3, 0.25, -0.6, 0.05},
		NoiseStdDev: 1.0,
	})

	summary, err := CrossSectionOLS(cs)
	require.NoError(t, err)

	assert.Greater(t, summary.Fit.RSquared, 0.0)
	assert.Less(t, summary.Fit.RSquared, 1.0)
	assert.Greater(t, summary.Fit.ResidualStdErr, 0.0)
	assert.Greater(t, summary.Fit.FStat, 0.0)

	for _, term := range summary.Terms {
		assert.GreaterOrEqual(t, term.PValue, 0.0)
		assert.LessOrEqual(t, term.PValue, 1.0)
		assert.Greater(t, term.StdErr, 0.0)
		assert.Equal(t, regress.Stars(term.PValue), term.Stars)
	}

	// Noisy but well-identified: slopes stay near truth.
	assert.InDelta(t, 1.2, summary.Terms[1].Estimate, 0.5)
}

func TestCrossSectionOLSSingularDesign(t *testing.T) {
	cs := crossSection(t, testkit.PanelSpec{
		Countries: 30,
		Seed:      3,
		Intercept: 1.0,
		Betas:     [5]float64{1, 1, 1, 1, 1},
	})

	// Make exports an exact linear function of capital formation.
	for i := range cs.Rows {
		cs.Rows[i].ExportsGDP = 2*cs.Rows[i].CapitalFormation + 3
	}

	_, err := CrossSectionOLS(cs)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSingularDesign)
}

func TestCrossSectionOLSInsufficientObservations(t *testing.T) {
	cs := crossSection(t, testkit.PanelSpec{
		Countries: 5,
		Seed:      1,
		Betas:     [5]float64{1, 0, 0, 0, 0},
	})

	_, err := CrossSectionOLS(cs)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}
