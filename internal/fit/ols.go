package fit

import (
	"math"

	"macropanel/domain/core"
	"macropanel/domain/panel"
	"macropanel/domain/regress"

	"gonum.org/v1/gonum/mat"
)

// CrossSectionOLS fits gdp_growth on the five predictors with an intercept,
// over the latest-year cross section. Estimation failure (singular design,
// too few observations) is fatal and propagated untouched.
func CrossSectionOLS(cs panel.CrossSection) (regress.ModelSummary, error) {
	preds := panel.Predictors()
	n := len(cs.Rows)
	k := len(preds) + 1 // intercept column

	if n <= k {
		return regress.ModelSummary{}, core.NewInsufficientDataError(n, k+1)
	}

	X := mat.NewDense(n, k, nil)
	y := make([]float64, n)
	for i, r := range cs.Rows {
		X.Set(i, 0, 1)
		for j, p := range preds {
			X.Set(i, j+1, r.Value(p))
		}
		y[i] = r.GDPGrowth
	}

	est, err := solve(X, y, n-k)
	if err != nil {
		return regress.ModelSummary{}, err
	}

	names := append([]core.FieldKey{regress.InterceptKey}, preds...)
	terms := make([]regress.Term, k)
	for j := 0; j < k; j++ {
		terms[j] = regress.Term{
			Name:     names[j],
			Estimate: est.beta[j],
			StdErr:   est.stdErr[j],
			TStat:    est.tStat[j],
			PValue:   est.pValue[j],
			Stars:    regress.Stars(est.pValue[j]),
		}
	}

	r2 := rSquared(y, est.rss)
	fStat, fP := fTest(r2, k-1, est.dfResid)

	return regress.ModelSummary{
		Kind:     regress.ModelCrossSectionOLS,
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
	}, nil
}
