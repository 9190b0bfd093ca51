package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds the runtime configuration of the analysis tool.
type Config struct {
	DataFile   string `json:"data_file"`   // survey spreadsheet path
	SheetName  string `json:"sheet_name"`  // worksheet to load
	ChartDir   string `json:"chart_dir"`   // chart output directory
	ExportFile string `json:"export_file"` // cleaned data export path
	LogName    string `json:"log_name"`
	LogMaxSize string `json:"log_max_size"`

	Watch struct {
		Enabled       bool     `json:"enabled"`
		CheckInterval Duration `json:"check_interval"` // periodic re-run interval
	} `json:"watch"`
}

// DataConfig holds the analysis parameters.
type DataConfig struct {
	Sentinel         float64  `json:"sentinel"`          // raw-data marker for missing coordinates
	StringColumns    []string `json:"string_columns"`    // columns to trim and title-case
	ScaleColumns     []string `json:"scale_columns"`     // columns to min-max normalize
	FocusStates      []string `json:"focus_states"`      // states shown in the state-wise chart
	TestSize         float64  `json:"test_size"`         // test split fraction
	Seed             int64    `json:"seed"`              // split shuffle seed
	PredictLongitude float64  `json:"predict_longitude"` // raw longitude for the prediction example
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFileOrNil(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dataConfigData, err := readFileOrNil(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read data config file: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

// readFileOrNil returns nil data when the file is absent so the caller
// falls back to the built-in defaults.
func readFileOrNil(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	cfg := DefaultConfig()
	if data != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			errChan <- fmt.Errorf("failed to parse Config: %w", err)
			return
		}
	}
	resultChan <- cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	dcfg := DefaultDataConfig()
	if data != nil {
		if err := json.Unmarshal(data, dcfg); err != nil {
			errChan <- fmt.Errorf("failed to parse DataConfig: %w", err)
			return
		}
	}
	resultChan <- dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("some configs did not load")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "config loading hit multiple errors:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// DefaultConfig returns the configuration used when config.json is absent.
func DefaultConfig() *Config {
	cfg := &Config{
		DataFile:   "data/rawData.xlsx",
		SheetName:  "Sheet1",
		ChartDir:   "charts",
		ExportFile: "data/cleanData.xlsx",
		LogName:    "app.log",
		LogMaxSize: "10 * 1024 * 1024",
	}
	cfg.Watch.Enabled = false
	cfg.Watch.CheckInterval = Duration(5 * time.Minute)
	return cfg
}

// DefaultDataConfig returns the analysis parameters used when
// dataconfig.json is absent.
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		Sentinel: -1.0,
		StringColumns: []string{
			"inout_travelling", "operator", "network_type",
			"calldrop_category", "state_name",
		},
		ScaleColumns: []string{"rating", "latitude", "longitude"},
		FocusStates: []string{
			"Delhi", "Maharashtra", "Karnataka", "Tamil Nadu",
			"West Bengal", "Uttar Pradesh", "Gujarat", "Rajasthan",
		},
		TestSize:         0.2,
		Seed:             42,
		PredictLongitude: 20.5,
	}
}

// Duration wraps time.Duration so intervals can be written as "5m" in JSON.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
