// cleaner.go
package processor

import (
	"fmt"
	"math"
	"strings"

	"CallQualityAnalysis/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/stat"
)

// Cleaner normalizes a raw survey table: sentinel coordinates become
// missing values, missing coordinates are mean-imputed, rows without a
// state are dropped and categorical strings are tidied.
type Cleaner struct {
	Sentinel      float64  // raw marker for a missing coordinate
	CoordColumns  []string // columns carrying the sentinel
	StringColumns []string // columns to trim and title-case
	RequiredCol   string   // rows missing this column are dropped
}

func NewCleaner(sentinel float64, stringColumns []string) *Cleaner {
	return &Cleaner{
		Sentinel:      sentinel,
		CoordColumns:  []string{"latitude", "longitude"},
		StringColumns: stringColumns,
		RequiredCol:   "state_name",
	}
}

// Clean runs the full cleaning sequence and returns the cleaned table
// together with the imputation means per coordinate column. afterReplace,
// when non-nil, is invoked once sentinels have been converted and before
// imputation, so a caller can report the raw missing counts.
func (c *Cleaner) Clean(df dataframe.DataFrame, afterReplace func(dataframe.DataFrame)) (dataframe.DataFrame, map[string]float64, error) {
	df, err := c.ReplaceSentinel(df)
	if err != nil {
		return df, nil, err
	}
	if afterReplace != nil {
		afterReplace(df)
	}

	df, means, err := c.ImputeMean(df)
	if err != nil {
		return df, nil, err
	}

	df, err = c.DropMissing(df)
	if err != nil {
		return df, means, err
	}

	df, err = c.TidyStrings(df)
	return df, means, err
}

// ReplaceSentinel converts sentinel coordinates to NaN so they do not
// pollute later statistics.
func (c *Cleaner) ReplaceSentinel(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for _, col := range c.CoordColumns {
		if !utils.HasColumn(df, col) {
			return df, fmt.Errorf("missing column %s", col)
		}

		vals := df.Col(col).Float()
		for i, v := range vals {
			if v == c.Sentinel {
				vals[i] = math.NaN()
			}
		}

		df = df.Mutate(series.New(vals, series.Float, col))
		if df.Err != nil {
			return df, fmt.Errorf("failed to replace sentinel in %s: %w", col, df.Err)
		}
	}
	return df, nil
}

// ImputeMean fills missing coordinates with the column mean computed
// over the non-missing values, i.e. after sentinel replacement and
// before any fill.
func (c *Cleaner) ImputeMean(df dataframe.DataFrame) (dataframe.DataFrame, map[string]float64, error) {
	means := make(map[string]float64, len(c.CoordColumns))

	for _, col := range c.CoordColumns {
		if !utils.HasColumn(df, col) {
			return df, nil, fmt.Errorf("missing column %s", col)
		}

		present := utils.DropNaN(df.Col(col))
		if len(present) == 0 {
			return df, nil, fmt.Errorf("column %s has no usable values", col)
		}
		mean := stat.Mean(present, nil)
		means[col] = mean

		vals := df.Col(col).Float()
		for i, v := range vals {
			if math.IsNaN(v) {
				vals[i] = mean
			}
		}

		df = df.Mutate(series.New(vals, series.Float, col))
		if df.Err != nil {
			return df, nil, fmt.Errorf("failed to impute %s: %w", col, df.Err)
		}
	}
	return df, means, nil
}

// DropMissing removes all rows whose required column is empty.
func (c *Cleaner) DropMissing(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !utils.HasColumn(df, c.RequiredCol) {
		return df, fmt.Errorf("missing column %s", c.RequiredCol)
	}

	col := df.Col(c.RequiredCol)
	keep := make([]int, 0, df.Nrow())
	for i := 0; i < col.Len(); i++ {
		el := col.Elem(i)
		if el.IsNA() || strings.TrimSpace(el.String()) == "" {
			continue
		}
		keep = append(keep, i)
	}

	out := df.Subset(keep)
	if out.Err != nil {
		return df, fmt.Errorf("failed to drop rows without %s: %w", c.RequiredCol, out.Err)
	}
	return out, nil
}

// TidyStrings trims whitespace and title-cases the categorical columns.
// Missing elements are left untouched so they still count as missing.
func (c *Cleaner) TidyStrings(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	caser := cases.Title(language.English)

	for _, col := range c.StringColumns {
		if !utils.HasColumn(df, col) {
			return df, fmt.Errorf("missing column %s", col)
		}

		s := df.Col(col).Copy()
		for i := 0; i < s.Len(); i++ {
			el := s.Elem(i)
			if el.IsNA() {
				continue
			}
			el.Set(caser.String(strings.TrimSpace(el.String())))
		}

		df = df.Mutate(s)
		if df.Err != nil {
			return df, fmt.Errorf("failed to tidy %s: %w", col, df.Err)
		}
	}
	return df, nil
}
