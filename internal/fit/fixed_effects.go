package fit

import (
	"fmt"
	"math"

	"macropanel/domain/core"
	"macropanel/domain/panel"
	"macropanel/domain/regress"
	"macropanel/domain/report"

	"gonum.org/v1/gonum/mat"
)

// WithinTransform applies the two-way fixed-effects demeaning to every
// regression variable: value − country mean − year mean + grand mean. The
// result is the model-panel snapshot that also feeds PanelTwoWayFE.
func WithinTransform(p panel.Panel) report.TransformedPanel {
	fields := panel.RegressionVars()
	n := len(p.Rows)

	type acc struct {
		sum   float64
		count int
	}

	out := report.TransformedPanel{
		Fields: fields,
		Rows:   make([]report.TransformedRow, n),
	}
	for i, r := range p.Rows {
		out.Rows[i] = report.TransformedRow{
			Country: r.Country,
			Year:    r.Year,
			Values:  make([]float64, len(fields)),
		}
	}

	for f, key := range fields {
		countryAcc := make(map[core.CountryCode]*acc)
		yearAcc := make(map[core.Year]*acc)
		grand := 0.0

		for _, r := range p.Rows {
			v := r.Value(key)
			grand += v
			if a := countryAcc[r.Country]; a != nil {
				a.sum += v
				a.count++
			} else {
				countryAcc[r.Country] = &acc{sum: v, count: 1}
			}
			if a := yearAcc[r.Year]; a != nil {
				a.sum += v
				a.count++
			} else {
				yearAcc[r.Year] = &acc{sum: v, count: 1}
			}
		}
		grand /= float64(n)

		for i, r := range p.Rows {
			c := countryAcc[r.Country]
			y := yearAcc[r.Year]
			out.Rows[i].Values[f] = r.Value(key) - c.sum/float64(c.count) - y.sum/float64(y.count) + grand
		}
	}

	return out
}

// PanelTwoWayFE fits the two-way fixed-effects model on the full panel:
// the same right-hand side as the cross-sectional model, country and year
// effects absorbed by the within transform, no intercept reported. The
// returned TransformedPanel is the demeaned model panel for the bundle.
func PanelTwoWayFE(p panel.Panel) (regress.ModelSummary, report.TransformedPanel, error) {
	preds := panel.Predictors()
	n := len(p.Rows)
	k := len(preds)

	countries := len(p.Countries())
	years := len(p.Years())

	// Absorbed parameters: C country effects plus T-1 year effects (one year
	// is collinear with the grand mean).
	dfResid := n - k - countries - years + 1
	if dfResid <= 0 {
		return regress.ModelSummary{}, report.TransformedPanel{}, core.NewInsufficientDataError(n, k+countries+years)
	}

	demeaned := WithinTransform(p)

	// Column layout of the transformed panel: response first, then predictors
	// in specification order (panel.RegressionVars).
	X := mat.NewDense(n, k, nil)
	y := make([]float64, n)
	for i, row := range demeaned.Rows {
		y[i] = row.Values[0]
		for j := 0; j < k; j++ {
			X.Set(i, j, row.Values[j+1])
		}
	}

	// A predictor absorbed entirely by the fixed effects has no within
	// variation left; name it instead of surfacing a bare singular design.
	for j := 0; j < k; j++ {
		ss := 0.0
		for i := 0; i < n; i++ {
			v := X.At(i, j)
			ss += v * v
		}
		if ss < 1e-12 {
			return regress.ModelSummary{}, report.TransformedPanel{},
				fmt.Errorf("%w: %s", core.ErrNoVariation, preds[j])
		}
	}

	est, err := solve(X, y, dfResid)
	if err != nil {
		return regress.ModelSummary{}, report.TransformedPanel{}, err
	}

	terms := make([]regress.Term, k)
	for j := 0; j < k; j++ {
		terms[j] = regress.Term{
			Name:     preds[j],
			Estimate: est.beta[j],
			StdErr:   est.stdErr[j],
			TStat:    est.tStat[j],
			PValue:   est.pValue[j],
			Stars:    regress.Stars(est.pValue[j]),
		}
	}

	// Within-R²: fit of the demeaned regression. The demeaned response has
	// zero mean, so the centered and uncentered versions coincide.
	r2 := rSquared(y, est.rss)
	fStat, fP := fTest(r2, k, est.dfResid)

	return regress.ModelSummary{
		Kind:     regress.ModelPanelTwoWayFE,
		Response: panel.KeyGDPGrowth,
		Terms:    terms,
		Fit: regress.FitQuality{
			RSquared:       r2,
			AdjRSquared:    adjRSquared(r2, n, est.dfResid),
			ResidualStdErr: math.Sqrt(est.sigma2),
			FStat:          fStat,
			FPValue:        fP,
			Observations:   n,
			DegreesFreedom: est.dfResid,
		},
		AbsorbedCountries: countries,
		AbsorbedYears:     years,
	}, demeaned, nil
}
