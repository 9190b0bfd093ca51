package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigsDefaults(t *testing.T) {
	// No files on disk: both configs come back with defaults.
	cfg, dcfg, err := loadConfigs(t.TempDir(), "config.json", "dataconfig.json")
	require.NoError(t, err)

	assert.Equal(t, "data/rawData.xlsx", cfg.DataFile)
	assert.Equal(t, "charts", cfg.ChartDir)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, 5*time.Minute, time.Duration(cfg.Watch.CheckInterval))

	assert.Equal(t, -1.0, dcfg.Sentinel)
	assert.Len(t, dcfg.StringColumns, 5)
	assert.Len(t, dcfg.FocusStates, 8)
	assert.Equal(t, 0.2, dcfg.TestSize)
	assert.Equal(t, int64(42), dcfg.Seed)
	assert.Equal(t, 20.5, dcfg.PredictLongitude)
}

func TestLoadConfigsFromFiles(t *testing.T) {
	dir := t.TempDir()

	cfgJSON := `{
		"data_file": "survey.xlsx",
		"sheet_name": "Data",
		"watch": {"enabled": true, "check_interval": "90s"}
	}`
	dcfgJSON := `{
		"sentinel": -99,
		"test_size": 0.3,
		"seed": 7
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(cfgJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dataconfig.json"), []byte(dcfgJSON), 0644))

	cfg, dcfg, err := loadConfigs(dir, "config.json", "dataconfig.json")
	require.NoError(t, err)

	assert.Equal(t, "survey.xlsx", cfg.DataFile)
	assert.Equal(t, "Data", cfg.SheetName)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 90*time.Second, time.Duration(cfg.Watch.CheckInterval))
	// Untouched fields keep their defaults.
	assert.Equal(t, "charts", cfg.ChartDir)

	assert.Equal(t, -99.0, dcfg.Sentinel)
	assert.Equal(t, 0.3, dcfg.TestSize)
	assert.Equal(t, int64(7), dcfg.Seed)
	assert.Len(t, dcfg.StringColumns, 5)
}

func TestLoadConfigsBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{broken"), 0644))

	_, _, err := loadConfigs(dir, "config.json", "dataconfig.json")
	assert.Error(t, err)
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"2m30s"`), &d))
	assert.Equal(t, 150*time.Second, time.Duration(d))

	out, err := json.Marshal(Duration(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, `"1m0s"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"not a duration"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`42`), &d))
}
