// stats.go
package processor

import (
	"fmt"
	"sort"
	"strings"

	"CallQualityAnalysis/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// ColumnCount pairs a column name with its missing-value count.
type ColumnCount struct {
	Column  string
	Missing int
}

// GroupStat is one aggregated value for one category key.
type GroupStat struct {
	Key   string
	Value float64
	Count int
}

// TrendPoint is one month's mean value within a year.
type TrendPoint struct {
	Month float64
	Mean  float64
}

// MissingCounts reports missing entries per column in frame order.
// Empty strings in categorical columns count as missing.
func MissingCounts(df dataframe.DataFrame) []ColumnCount {
	out := make([]ColumnCount, 0, df.Ncol())
	for _, name := range df.Names() {
		col := df.Col(name)
		n := 0
		for i := 0; i < col.Len(); i++ {
			el := col.Elem(i)
			if el.IsNA() {
				n++
				continue
			}
			if col.Type() == series.String && strings.TrimSpace(el.String()) == "" {
				n++
			}
		}
		out = append(out, ColumnCount{Column: name, Missing: n})
	}
	return out
}

// GroupMeans returns the mean of valueCol per category of groupCol,
// sorted by key.
func GroupMeans(df dataframe.DataFrame, groupCol, valueCol string) ([]GroupStat, error) {
	if !utils.HasColumn(df, groupCol) || !utils.HasColumn(df, valueCol) {
		return nil, fmt.Errorf("missing column %s or %s", groupCol, valueCol)
	}

	keys := df.Col(groupCol).Records()
	vals := df.Col(valueCol).Float()

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, k := range keys {
		sums[k] += vals[i]
		counts[k]++
	}

	out := make([]GroupStat, 0, len(sums))
	for k, sum := range sums {
		out = append(out, GroupStat{Key: k, Value: sum / float64(counts[k]), Count: counts[k]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// CategoryCounts returns category frequencies sorted descending by count,
// ties broken by key.
func CategoryCounts(df dataframe.DataFrame, col string) ([]GroupStat, error) {
	if !utils.HasColumn(df, col) {
		return nil, fmt.Errorf("missing column %s", col)
	}

	counts := make(map[string]int)
	for _, k := range df.Col(col).Records() {
		counts[k]++
	}

	out := make([]GroupStat, 0, len(counts))
	for k, n := range counts {
		out = append(out, GroupStat{Key: k, Value: float64(n), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// CrossCounts counts rows per (hueCol, col) pair. The outer keys and the
// category list come back sorted so chart output is stable.
func CrossCounts(df dataframe.DataFrame, col, hueCol string) (map[string]map[string]int, []string, []string, error) {
	if !utils.HasColumn(df, col) || !utils.HasColumn(df, hueCol) {
		return nil, nil, nil, fmt.Errorf("missing column %s or %s", col, hueCol)
	}

	cats := df.Col(col).Records()
	hues := df.Col(hueCol).Records()

	counts := make(map[string]map[string]int)
	catSet := make(map[string]bool)
	for i := range cats {
		if counts[hues[i]] == nil {
			counts[hues[i]] = make(map[string]int)
		}
		counts[hues[i]][cats[i]]++
		catSet[cats[i]] = true
	}

	hueKeys := make([]string, 0, len(counts))
	for k := range counts {
		hueKeys = append(hueKeys, k)
	}
	sort.Strings(hueKeys)

	catKeys := make([]string, 0, len(catSet))
	for k := range catSet {
		catKeys = append(catKeys, k)
	}
	sort.Strings(catKeys)

	return counts, hueKeys, catKeys, nil
}

// MonthlyTrend returns, per year, the monthly means of valueCol sorted by
// month, plus the sorted list of years.
func MonthlyTrend(df dataframe.DataFrame, monthCol, yearCol, valueCol string) (map[int][]TrendPoint, []int, error) {
	for _, c := range []string{monthCol, yearCol, valueCol} {
		if !utils.HasColumn(df, c) {
			return nil, nil, fmt.Errorf("missing column %s", c)
		}
	}

	months := df.Col(monthCol).Float()
	years := df.Col(yearCol).Float()
	vals := df.Col(valueCol).Float()

	type cell struct{ year, month int }
	sums := make(map[cell]float64)
	counts := make(map[cell]int)
	for i := range vals {
		c := cell{year: int(years[i]), month: int(months[i])}
		sums[c] += vals[i]
		counts[c]++
	}

	trend := make(map[int][]TrendPoint)
	for c, sum := range sums {
		trend[c.year] = append(trend[c.year], TrendPoint{
			Month: float64(c.month),
			Mean:  sum / float64(counts[c]),
		})
	}

	yearKeys := make([]int, 0, len(trend))
	for y, pts := range trend {
		sort.Slice(pts, func(i, j int) bool { return pts[i].Month < pts[j].Month })
		trend[y] = pts
		yearKeys = append(yearKeys, y)
	}
	sort.Ints(yearKeys)

	return trend, yearKeys, nil
}

// CorrelationMatrix computes pairwise Pearson correlations of the given
// numeric columns.
func CorrelationMatrix(df dataframe.DataFrame, cols []string) ([][]float64, error) {
	data := make([][]float64, len(cols))
	for i, c := range cols {
		if !utils.HasColumn(df, c) {
			return nil, fmt.Errorf("missing column %s", c)
		}
		data[i] = df.Col(c).Float()
	}

	m := make([][]float64, len(cols))
	for i := range cols {
		m[i] = make([]float64, len(cols))
		for j := range cols {
			if i == j {
				m[i][j] = 1
				continue
			}
			m[i][j] = stat.Correlation(data[i], data[j], nil)
		}
	}
	return m, nil
}
