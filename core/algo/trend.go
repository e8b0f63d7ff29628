package algo

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/snowline/s1snow/schema"
)

// minTrendRows is the smallest sample that determines intercept and both slopes.
const minTrendRows = 3

// trendColumns are intercept, elevation and heating index.
const trendColumns = 3

// machineEpsilon is the float64 spacing at 1, used to truncate tiny singular values.
const machineEpsilon = 0x1p-52

// FitTrend fits target day-of-year = intercept + b1*elevation + b2*heating_index by
// ordinary least squares over rows. Rank deficient designs get the minimum norm solution.
func FitTrend(rows []schema.OnsetRow, target schema.TrendTarget) (schema.TrendFit, error) {
	n := len(rows)
	if n < minTrendRows {
		return schema.TrendFit{}, fmt.Errorf("%s trend over %d rows: %w", target, n, schema.ErrDegenerateInput)
	}

	design := mat.NewDense(n, trendColumns, nil)
	observed := make([]float64, n)
	for i, r := range rows {
		design.Set(i, 0, 1)
		design.Set(i, 1, r.Elevation)
		design.Set(i, 2, r.HeatingIndex)
		observed[i] = targetValue(r, target)
	}

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return schema.TrendFit{}, fmt.Errorf("%s trend: SVD factorization failed", target)
	}
	rcond := machineEpsilon * float64(max(n, trendColumns))
	rank := svd.Rank(rcond)
	if rank == 0 {
		return schema.TrendFit{}, fmt.Errorf("%s trend: design matrix has rank 0: %w", target, schema.ErrDegenerateInput)
	}

	var beta mat.VecDense
	svd.SolveVecTo(&beta, mat.NewVecDense(n, observed), rank)

	fit := schema.TrendFit{
		Target:           target,
		Intercept:        beta.AtVec(0),
		BetaElevation:    beta.AtVec(1),
		BetaHeatingIndex: beta.AtVec(2),
		Rank:             rank,
		N:                n,
	}

	predicted := make([]float64, n)
	for i, r := range rows {
		predicted[i] = fit.Predict(r.Elevation, r.HeatingIndex)
	}
	fit.RMSE = floats.Distance(predicted, observed, 2) / math.Sqrt(float64(n))
	fit.RSquared = rSquared(predicted, observed)
	return fit, nil
}

// FitTrends fits the runoff and ripening models concurrently and returns a copy of rows
// carrying the in-sample predictions of both.
func FitTrends(rows []schema.OnsetRow) ([]schema.OnsetRow, schema.TrendFit, schema.TrendFit, error) {
	var runoff, ripening schema.TrendFit
	var runoffErr, ripeningErr error

	var wg sync.WaitGroup
	wg.Go(func() { runoff, runoffErr = FitTrend(rows, schema.RunoffTarget) })
	wg.Go(func() { ripening, ripeningErr = FitTrend(rows, schema.RipeningTarget) })
	wg.Wait()

	if runoffErr != nil {
		return nil, schema.TrendFit{}, schema.TrendFit{}, runoffErr
	}
	if ripeningErr != nil {
		return nil, schema.TrendFit{}, schema.TrendFit{}, ripeningErr
	}

	out := make([]schema.OnsetRow, len(rows))
	for i, r := range rows {
		r.RunoffPrediction = runoff.Predict(r.Elevation, r.HeatingIndex)
		r.RipeningPrediction = ripening.Predict(r.Elevation, r.HeatingIndex)
		out[i] = r
	}
	return out, runoff, ripening, nil
}

func targetValue(r schema.OnsetRow, target schema.TrendTarget) float64 {
	if target == schema.RipeningTarget {
		return float64(r.RipeningDayOfYear)
	}
	return float64(r.RunoffDayOfYear)
}

// rSquared is the coefficient of determination. A constant target is explained
// perfectly by the intercept, so it scores 1 when the residuals vanish and 0 otherwise.
func rSquared(predicted, observed []float64) float64 {
	r2 := stat.RSquaredFrom(predicted, observed, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		if floats.EqualApprox(predicted, observed, 1e-9) {
			return 1
		}
		return 0
	}
	return r2
}
