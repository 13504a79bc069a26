// Package regress defines the fitted-model result types shared by the
// cross-sectional OLS and panel fixed-effects estimators.
package regress

import (
	"macropanel/domain/core"
)

// ModelKind distinguishes the two fitted models in a run.
type ModelKind string

const (
	ModelCrossSectionOLS ModelKind = "cross_section_ols"
	ModelPanelTwoWayFE   ModelKind = "panel_twoway_fe"
)

// Term is one estimated coefficient row.
type Term struct {
	Name     core.FieldKey `json:"name"`
	Estimate float64       `json:"estimate"`
	StdErr   float64       `json:"std_err"`
	TStat    float64       `json:"t_stat"`
	PValue   float64       `json:"p_value"`
	Stars    string        `json:"stars"`
}

// FitQuality summarizes goodness of fit. For the fixed-effects model RSquared
// holds the within-R² (fit of the demeaned regression); FStat and FPValue are
// zero when the statistic is undefined.
type FitQuality struct {
	RSquared       float64 `json:"r_squared"`
	AdjRSquared    float64 `json:"adj_r_squared"`
	ResidualStdErr float64 `json:"residual_std_err"`
	FStat          float64 `json:"f_stat"`
	FPValue        float64 `json:"f_p_value"`
	Observations   int     `json:"observations"`
	DegreesFreedom int     `json:"degrees_freedom"`
}

// ModelSummary is a complete fitted model: one Term per predictor (plus
// intercept for the cross-sectional model; the fixed-effects model has none,
// the intercept being absorbed).
type ModelSummary struct {
	Kind     ModelKind     `json:"kind"`
	Response core.FieldKey `json:"response"`
	Terms    []Term        `json:"terms"`
	Fit      FitQuality    `json:"fit"`

	// AbsorbedCountries/AbsorbedYears are the fixed-effect group counts,
	// zero for the cross-sectional model.
	AbsorbedCountries int `json:"absorbed_countries,omitempty"`
	AbsorbedYears     int `json:"absorbed_years,omitempty"`
}

// InterceptKey names the intercept term in the cross-sectional summary.
const InterceptKey core.FieldKey = "(intercept)"

// Stars returns the significance marker for a p-value using the conventional
// 0.001 / 0.01 / 0.05 / 0.1 thresholds.
func Stars(p float64) string {
	switch {
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	case p < 0.1:
		return "."
	}
	return ""
}
