// regression.go
package processor

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// LinearModel is a single-feature ordinary least squares fit
// y = Alpha + Beta*x.
type LinearModel struct {
	Alpha float64
	Beta  float64
}

// Fit estimates the intercept and slope from the training data.
func (m *LinearModel) Fit(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("feature and target lengths differ: %d vs %d", len(x), len(y))
	}
	if len(x) < 2 {
		return fmt.Errorf("need at least 2 samples to fit, got %d", len(x))
	}

	m.Alpha, m.Beta = stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(m.Alpha) || math.IsNaN(m.Beta) {
		return fmt.Errorf("regression produced NaN coefficients")
	}
	return nil
}

// Predict returns the fitted value for one feature value.
func (m LinearModel) Predict(x float64) float64 {
	return m.Alpha + m.Beta*x
}

// PredictAll returns fitted values for a feature slice.
func (m LinearModel) PredictAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = m.Predict(x)
	}
	return out
}

// TrainTestSplit shuffles the samples with a seeded generator and splits
// them into train and test sets. The same seed always yields the same
// split.
func TrainTestSplit(x, y []float64, testSize float64, seed int64) (xTrain, xTest, yTrain, yTest []float64, err error) {
	if len(x) != len(y) {
		return nil, nil, nil, nil, fmt.Errorf("feature and target lengths differ: %d vs %d", len(x), len(y))
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, fmt.Errorf("test size %v out of (0,1)", testSize)
	}

	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest == 0 || nTest == n {
		return nil, nil, nil, nil, fmt.Errorf("split leaves an empty set (n=%d, test size=%v)", n, testSize)
	}

	nTrain := n - nTest
	xTrain = make([]float64, nTrain)
	yTrain = make([]float64, nTrain)
	xTest = make([]float64, nTest)
	yTest = make([]float64, nTest)

	for i := 0; i < nTrain; i++ {
		xTrain[i] = x[idx[i]]
		yTrain[i] = y[idx[i]]
	}
	for i := nTrain; i < n; i++ {
		xTest[i-nTrain] = x[idx[i]]
		yTest[i-nTrain] = y[idx[i]]
	}
	return xTrain, xTest, yTrain, yTest, nil
}

// MeanSquaredError is the average squared difference between actual and
// predicted values.
func MeanSquaredError(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("actual and predicted lengths differ: %d vs %d", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("no samples to evaluate")
	}

	var sum float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return sum / float64(len(yTrue)), nil
}
