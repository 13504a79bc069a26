// Package fit implements the two estimators: cross-sectional OLS and the
// two-way fixed-effects within estimator. Both share one least-squares core.
package fit

import (
	"errors"
	"math"

	"macropanel/domain/core"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// estimate holds the raw output of a least-squares solve.
type estimate struct {
	beta    []float64
	stdErr  []float64
	tStat   []float64
	pValue  []float64
	resid   []float64
	rss     float64
	sigma2  float64
	dfResid int
}

// solve runs ordinary least squares of y on the columns of X. dfResid is the
// residual degrees of freedom used for the error variance; the two-way
// estimator passes a value corrected for absorbed fixed effects, so it is a
// parameter rather than n-k. A singular or rank-deficient design is an error.
func solve(X *mat.Dense, y []float64, dfResid int) (estimate, error) {
	n, k := X.Dims()
	if n != len(y) {
		return estimate{}, errors.New("design matrix and response length mismatch")
	}
	if dfResid <= 0 {
		return estimate{}, core.NewInsufficientDataError(n, n-dfResid+1)
	}

	var xtx mat.Dense
	xtx.Mul(X.T(), X)

	// Collinear predictors push the normal-equations condition number far
	// beyond anything a real cross-country design produces.
	const maxCondition = 1e12

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		// gonum reports ill-conditioned but solvable systems via mat.Condition.
		var cond mat.Condition
		if !errors.As(err, &cond) || float64(cond) > maxCondition {
			return estimate{}, core.ErrSingularDesign
		}
	}

	yVec := mat.NewVecDense(n, y)
	var xty mat.VecDense
	xty.MulVec(X.T(), yVec)

	var betaVec mat.VecDense
	betaVec.MulVec(&xtxInv, &xty)

	beta := make([]float64, k)
	for j := 0; j < k; j++ {
		beta[j] = betaVec.AtVec(j)
		if math.IsNaN(beta[j]) || math.IsInf(beta[j], 0) {
			return estimate{}, core.ErrSingularDesign
		}
	}

	resid := make([]float64, n)
	rss := 0.0
	for i := 0; i < n; i++ {
		fitted := 0.0
		for j := 0; j < k; j++ {
			fitted += X.At(i, j) * beta[j]
		}
		resid[i] = y[i] - fitted
		rss += resid[i] * resid[i]
	}

	sigma2 := rss / float64(dfResid)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dfResid)}

	stdErr := make([]float64, k)
	tStat := make([]float64, k)
	pValue := make([]float64, k)
	for j := 0; j < k; j++ {
		v := sigma2 * xtxInv.At(j, j)
		if v < 0 || math.IsNaN(v) {
			return estimate{}, core.ErrSingularDesign
		}
		stdErr[j] = math.Sqrt(v)
		if stdErr[j] == 0 {
			// Perfect fit: t is undefined, the coefficient is exact.
			tStat[j] = 0
			pValue[j] = 0
			continue
		}
		tStat[j] = beta[j] / stdErr[j]
		pValue[j] = 2 * (1 - tDist.CDF(math.Abs(tStat[j])))
	}

	return estimate{
		beta:    beta,
		stdErr:  stdErr,
		tStat:   tStat,
		pValue:  pValue,
		resid:   resid,
		rss:     rss,
		sigma2:  sigma2,
		dfResid: dfResid,
	}, nil
}

// rSquared computes the centered coefficient of determination.
func rSquared(y []float64, rss float64) float64 {
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	tss := 0.0
	for _, v := range y {
		d := v - mean
		tss += d * d
	}
	if tss == 0 {
		return 0
	}
	return 1 - rss/tss
}

// adjRSquared applies the degrees-of-freedom correction.
func adjRSquared(r2 float64, n, dfResid int) float64 {
	if dfResid <= 0 {
		return r2
	}
	return 1 - (1-r2)*float64(n-1)/float64(dfResid)
}

// fTest computes the model F statistic and its p-value for df1 restrictions
// and dfResid residual degrees of freedom. Returns zeros when undefined.
func fTest(r2 float64, df1, dfResid int) (fStat, pValue float64) {
	if df1 <= 0 || dfResid <= 0 || r2 >= 1 {
		return 0, 0
	}
	fStat = (r2 / float64(df1)) / ((1 - r2) / float64(dfResid))
	fDist := distuv.F{D1: float64(df1), D2: float64(dfResid)}
	pValue = 1 - fDist.CDF(fStat)
	return fStat, pValue
}
