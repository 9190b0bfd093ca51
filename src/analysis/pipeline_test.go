package analysis

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"CallQualityAnalysis/src/config"
	"CallQualityAnalysis/src/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

var surveyRows = [][]string{
	{"rating", "latitude", "longitude", "inout_travelling", "operator", "network_type", "calldrop_category", "state_name", "month", "year"},
	{"3", "-1.0", "77.2", " indoor ", " airtel ", "4g", "satisfactory", " delhi ", "1", "2022"},
	{"4", "19.0", "72.8", "Outdoor", "Jio", "4G", "Satisfactory", "Maharashtra", "2", "2022"},
	{"5", "12.9", "77.6", "Indoor", "Airtel", "4G", "Satisfactory", "Karnataka", "3", "2022"},
	{"2", "13.0", "80.2", "Travelling", "Vi", "3G", "Call Dropped", "Tamil Nadu", "4", "2022"},
	{"1", "22.5", "88.3", "Indoor", "Jio", "4G", "Poor Network", "West Bengal", "5", "2022"},
	{"4", "26.8", "-1.0", "Outdoor", "Airtel", "4G", "Satisfactory", "Uttar Pradesh", "6", "2022"},
	{"3", "23.0", "72.5", "Indoor", "Vi", "4G", "Satisfactory", "Gujarat", "1", "2023"},
	{"5", "26.9", "75.8", "Outdoor", "Jio", "5G", "Satisfactory", "Rajasthan", "2", "2023"},
	{"2", "28.6", "77.2", "Indoor", "Airtel", "4G", "Call Dropped", "Delhi", "3", "2023"},
	{"4", "19.1", "72.9", "Travelling", "Vi", "4G", "Satisfactory", "Maharashtra", "4", "2023"},
	{"1", "12.8", "77.5", "Indoor", "Jio", "3G", "Poor Network", "", "5", "2023"},
	{"5", "13.1", "80.3", "Outdoor", "Airtel", "4G", "Satisfactory", "Tamil Nadu", "6", "2023"},
}

func writeSurveyWorkbook(t *testing.T, path string) {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	for _, rec := range surveyRows {
		row := sheet.AddRow()
		for _, v := range rec {
			cell := row.AddCell()
			cell.Value = v
		}
	}
	require.NoError(t, f.Save(path))
}

func testPipeline(t *testing.T, dir string) (*Pipeline, *bytes.Buffer) {
	t.Helper()

	dataFile := filepath.Join(dir, "rawData.xlsx")
	if _, err := os.Stat(dataFile); os.IsNotExist(err) {
		writeSurveyWorkbook(t, dataFile)
	}

	cfg := config.DefaultConfig()
	cfg.DataFile = dataFile
	cfg.SheetName = "Sheet1"
	cfg.ChartDir = filepath.Join(dir, "charts")
	cfg.ExportFile = filepath.Join(dir, "cleanData.xlsx")
	cfg.LogName = filepath.Join(dir, "app.log")

	dcfg := config.DefaultDataConfig()

	logger, err := storage.NewLogger(cfg.LogName)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	p := New(cfg, dcfg, logger)
	out := &bytes.Buffer{}
	p.SetOutput(out)
	return p, out
}

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	p, out := testPipeline(t, dir)

	require.NoError(t, p.Run())

	report := out.String()
	assert.Contains(t, report, "Missing values before cleaning:")
	assert.Contains(t, report, "Missing values after cleaning:")
	assert.Contains(t, report, "Cleaned DataFrame preview:")
	assert.Contains(t, report, "After Normalisation")
	assert.Contains(t, report, "Predicted Rating for Longitude 20.5:")
	assert.Contains(t, report, "Mean Squared Error (MSE):")

	for _, name := range []string{
		"rating_distribution.png",
		"calldrop_frequency.png",
		"operator_avg_rating.png",
		"monthly_trend.png",
		"state_avg_rating.png",
		"correlation_heatmap.png",
		"calldrop_by_operator.png",
		"longitude_rating_scatter.png",
		"regression_fit.png",
	} {
		info, err := os.Stat(filepath.Join(dir, "charts", name))
		require.NoError(t, err, "chart %s was not written", name)
		assert.Greater(t, info.Size(), int64(0))
	}

	_, err := os.Stat(filepath.Join(dir, "cleanData.xlsx"))
	assert.NoError(t, err, "cleaned data export was not written")
}

func TestPipelineDeterministic(t *testing.T) {
	dir := t.TempDir()

	p1, out1 := testPipeline(t, dir)
	require.NoError(t, p1.Run())

	p2, out2 := testPipeline(t, dir)
	require.NoError(t, p2.Run())

	// Same file, same seed: the whole report reproduces bit for bit.
	assert.Equal(t, out1.String(), out2.String())
}

func TestPipelineChartFailureDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	p, out := testPipeline(t, dir)

	// No survey row matches this state, so the state chart cannot render.
	p.dcfg.FocusStates = []string{"Atlantis"}

	require.NoError(t, p.Run())

	_, err := os.Stat(filepath.Join(dir, "charts", "state_avg_rating.png"))
	assert.True(t, os.IsNotExist(err), "failed chart should not be written")

	// The remaining charts and the regression report still come out.
	_, err = os.Stat(filepath.Join(dir, "charts", "regression_fit.png"))
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Mean Squared Error (MSE):")

	logData, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "failed to render state avg rating")
}

func TestPipelineMissingDataFile(t *testing.T) {
	dir := t.TempDir()
	p, _ := testPipeline(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "rawData.xlsx")))

	err := p.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load stage")
}
