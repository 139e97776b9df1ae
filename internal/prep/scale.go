package prep

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Stats holds the scaling statistics of a numeric column.
type Stats struct {
	Mean   float64
	StdDev float64
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("mean: %w", ErrEmptyInput)
	}
	return stat.Mean(values, nil), nil
}

// StdDev returns the population standard deviation of values around mean
// (divisor N). Zero or one value yields 0.
func StdDev(values []float64, mean float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// Fit computes mean and population standard deviation of values.
func Fit(values []float64) (Stats, error) {
	mean, err := Mean(values)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Mean: mean, StdDev: StdDev(values, mean)}, nil
}

// Standardize maps each value to (v - mean) / stdDev.
// A zero stdDev is rejected instead of producing NaN or Inf.
func Standardize(values []float64, mean, stdDev float64) ([]float64, error) {
	if stdDev == 0 {
		return nil, ErrDivisionByZero
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - mean) / stdDev
	}
	return out, nil
}

// Standardize applies the statistics to values.
func (s Stats) Standardize(values []float64) ([]float64, error) {
	return Standardize(values, s.Mean, s.StdDev)
}
