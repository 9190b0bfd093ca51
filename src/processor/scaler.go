// scaler.go
package processor

import (
	"fmt"
	"math"

	"CallQualityAnalysis/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// MinMaxScaler rescales columns to [0,1]. Bounds are kept per column so a
// single raw value can be transformed later without rebuilding a full row.
type MinMaxScaler struct {
	Columns []string
	mins    map[string]float64
	maxs    map[string]float64
}

func NewMinMaxScaler(columns []string) *MinMaxScaler {
	return &MinMaxScaler{Columns: columns}
}

// Fit records the observed min and max of every scaled column.
func (s *MinMaxScaler) Fit(df dataframe.DataFrame) error {
	mins := make(map[string]float64, len(s.Columns))
	maxs := make(map[string]float64, len(s.Columns))

	for _, col := range s.Columns {
		if !utils.HasColumn(df, col) {
			return fmt.Errorf("missing column %s", col)
		}

		vals := df.Col(col).Float()
		if len(vals) == 0 {
			return fmt.Errorf("column %s is empty", col)
		}

		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range vals {
			if math.IsNaN(v) {
				return fmt.Errorf("column %s still has missing values", col)
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		mins[col] = lo
		maxs[col] = hi
	}

	s.mins = mins
	s.maxs = maxs
	return nil
}

// Transform rescales the fitted columns in place and returns the frame.
func (s *MinMaxScaler) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if s.mins == nil {
		return df, fmt.Errorf("scaler is not fitted")
	}

	for _, col := range s.Columns {
		vals := df.Col(col).Float()
		for i, v := range vals {
			vals[i] = s.scale(col, v)
		}

		df = df.Mutate(series.New(vals, series.Float, col))
		if df.Err != nil {
			return df, fmt.Errorf("failed to scale %s: %w", col, df.Err)
		}
	}
	return df, nil
}

// FitTransform fits the scaler and rescales in one step.
func (s *MinMaxScaler) FitTransform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := s.Fit(df); err != nil {
		return df, err
	}
	return s.Transform(df)
}

// TransformValue rescales one raw value using the named column's bounds.
func (s *MinMaxScaler) TransformValue(col string, v float64) (float64, error) {
	if s.mins == nil {
		return 0, fmt.Errorf("scaler is not fitted")
	}
	if _, ok := s.mins[col]; !ok {
		return 0, fmt.Errorf("scaler was not fitted on column %s", col)
	}
	return s.scale(col, v), nil
}

// InverseValue maps a normalized value back to the raw range.
func (s *MinMaxScaler) InverseValue(col string, v float64) (float64, error) {
	if s.mins == nil {
		return 0, fmt.Errorf("scaler is not fitted")
	}
	lo, ok := s.mins[col]
	if !ok {
		return 0, fmt.Errorf("scaler was not fitted on column %s", col)
	}
	return lo + v*(s.maxs[col]-lo), nil
}

// scale maps v into [0,1]; a constant column maps to 0, as scikit-learn
// does when the observed range collapses.
func (s *MinMaxScaler) scale(col string, v float64) float64 {
	lo, hi := s.mins[col], s.maxs[col]
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
