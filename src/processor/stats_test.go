package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingCounts(t *testing.T) {
	df := surveyFrame([][]string{
		{"rating", "latitude", "state_name"},
		{"3", "", "Delhi"},
		{"4", "12.0", ""},
		{"", "13.0", "Karnataka"},
	})
	require.NoError(t, df.Err)

	counts := MissingCounts(df)
	byCol := make(map[string]int)
	for _, c := range counts {
		byCol[c.Column] = c.Missing
	}

	assert.Equal(t, 1, byCol["rating"])
	assert.Equal(t, 1, byCol["latitude"])
	assert.Equal(t, 1, byCol["state_name"])
}

func TestGroupMeans(t *testing.T) {
	df := surveyFrame([][]string{
		{"rating", "operator", "state_name"},
		{"2", "Airtel", "Delhi"},
		{"4", "Airtel", "Delhi"},
		{"5", "Jio", "Delhi"},
	})
	require.NoError(t, df.Err)

	means, err := GroupMeans(df, "operator", "rating")
	require.NoError(t, err)
	require.Len(t, means, 2)

	assert.Equal(t, "Airtel", means[0].Key)
	assert.InDelta(t, 3.0, means[0].Value, 1e-12)
	assert.Equal(t, 2, means[0].Count)
	assert.Equal(t, "Jio", means[1].Key)
	assert.InDelta(t, 5.0, means[1].Value, 1e-12)

	_, err = GroupMeans(df, "nope", "rating")
	assert.Error(t, err)
}

func TestCategoryCountsSortedDescending(t *testing.T) {
	df := surveyFrame([][]string{
		{"calldrop_category", "state_name"},
		{"Satisfactory", "Delhi"},
		{"Call Dropped", "Delhi"},
		{"Satisfactory", "Delhi"},
		{"Poor Network", "Delhi"},
		{"Satisfactory", "Delhi"},
		{"Call Dropped", "Delhi"},
	})
	require.NoError(t, df.Err)

	counts, err := CategoryCounts(df, "calldrop_category")
	require.NoError(t, err)
	require.Len(t, counts, 3)

	assert.Equal(t, "Satisfactory", counts[0].Key)
	assert.Equal(t, 3, counts[0].Count)
	assert.Equal(t, "Call Dropped", counts[1].Key)
	assert.Equal(t, 2, counts[1].Count)
	assert.Equal(t, "Poor Network", counts[2].Key)
	assert.Equal(t, 1, counts[2].Count)
}

func TestCrossCounts(t *testing.T) {
	df := surveyFrame([][]string{
		{"calldrop_category", "operator"},
		{"Satisfactory", "Airtel"},
		{"Call Dropped", "Airtel"},
		{"Satisfactory", "Jio"},
		{"Satisfactory", "Jio"},
	})
	require.NoError(t, df.Err)

	counts, operators, categories, err := CrossCounts(df, "calldrop_category", "operator")
	require.NoError(t, err)

	assert.Equal(t, []string{"Airtel", "Jio"}, operators)
	assert.Equal(t, []string{"Call Dropped", "Satisfactory"}, categories)
	assert.Equal(t, 1, counts["Airtel"]["Satisfactory"])
	assert.Equal(t, 1, counts["Airtel"]["Call Dropped"])
	assert.Equal(t, 2, counts["Jio"]["Satisfactory"])
	assert.Equal(t, 0, counts["Jio"]["Call Dropped"])
}

func TestMonthlyTrend(t *testing.T) {
	df := surveyFrame([][]string{
		{"rating", "month", "year", "state_name"},
		{"2", "1", "2022", "Delhi"},
		{"4", "1", "2022", "Delhi"},
		{"5", "2", "2022", "Delhi"},
		{"1", "1", "2023", "Delhi"},
	})
	require.NoError(t, df.Err)

	trend, years, err := MonthlyTrend(df, "month", "year", "rating")
	require.NoError(t, err)

	assert.Equal(t, []int{2022, 2023}, years)
	require.Len(t, trend[2022], 2)
	assert.Equal(t, 1.0, trend[2022][0].Month)
	assert.InDelta(t, 3.0, trend[2022][0].Mean, 1e-12)
	assert.Equal(t, 2.0, trend[2022][1].Month)
	assert.InDelta(t, 5.0, trend[2022][1].Mean, 1e-12)
	require.Len(t, trend[2023], 1)
	assert.InDelta(t, 1.0, trend[2023][0].Mean, 1e-12)
}

func TestCorrelationMatrix(t *testing.T) {
	df := surveyFrame([][]string{
		{"rating", "latitude", "longitude", "state_name"},
		{"1", "10.0", "30.0", "Delhi"},
		{"2", "20.0", "20.0", "Delhi"},
		{"3", "30.0", "10.0", "Delhi"},
	})
	require.NoError(t, df.Err)

	m, err := CorrelationMatrix(df, []string{"rating", "latitude", "longitude"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, m[i][i])
	}
	assert.InDelta(t, 1.0, m[0][1], 1e-12)  // rating rises with latitude
	assert.InDelta(t, -1.0, m[0][2], 1e-12) // rating falls with longitude
	assert.InDelta(t, m[1][2], m[2][1], 1e-12)
}
