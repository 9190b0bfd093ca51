// pipeline.go
package analysis

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"CallQualityAnalysis/src/config"
	"CallQualityAnalysis/src/datasource/file"
	"CallQualityAnalysis/src/processor"
	"CallQualityAnalysis/src/storage"
	"CallQualityAnalysis/src/visualizer"

	"github.com/go-gota/gota/dataframe"
)

// Pipeline runs the full survey analysis:
// load -> clean -> visualize -> normalize -> fit -> evaluate -> report.
// Every run reloads the spreadsheet, so runs are independent.
type Pipeline struct {
	cfg    *config.Config
	dcfg   *config.DataConfig
	logger *storage.Logger
	out    io.Writer
}

func New(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, dcfg: dcfg, logger: logger, out: os.Stdout}
}

// SetOutput redirects the console report, mainly for tests.
func (p *Pipeline) SetOutput(w io.Writer) {
	p.out = w
}

func (p *Pipeline) Run() error {
	p.logger.Info("analysis run started: " + p.cfg.DataFile)

	df, err := file.ReadXLSXToDataFrame(p.cfg.DataFile, p.cfg.SheetName)
	if err != nil {
		return fmt.Errorf("load stage: %w", err)
	}

	p.printInfo(df)
	fmt.Fprintln(p.out, df.Describe())

	df, err = p.clean(df)
	if err != nil {
		return fmt.Errorf("clean stage: %w", err)
	}

	if err := p.export(df); err != nil {
		return fmt.Errorf("export stage: %w", err)
	}

	viz, err := visualizer.NewVisualizer(p.cfg.ChartDir)
	if err != nil {
		return fmt.Errorf("visualize stage: %w", err)
	}

	p.render("rating distribution", func() error { return viz.RatingDistribution(df) })
	p.render("calldrop frequency", func() error { return viz.CallDropFrequency(df) })
	p.render("operator avg rating", func() error { return viz.OperatorAvgRating(df) })
	p.render("monthly trend", func() error { return viz.MonthlyTrend(df) })
	p.render("state avg rating", func() error { return viz.StateAvgRating(df, p.dcfg.FocusStates) })
	p.render("correlation heatmap", func() error { return viz.CorrelationHeatmap(df, p.dcfg.ScaleColumns) })
	p.render("calldrop by operator", func() error { return viz.CallDropByOperator(df) })

	scaler := processor.NewMinMaxScaler(p.dcfg.ScaleColumns)
	df, err = scaler.FitTransform(df)
	if err != nil {
		return fmt.Errorf("normalize stage: %w", err)
	}

	fmt.Fprintln(p.out, "\nAfter Normalisation")
	fmt.Fprintln(p.out, df.Select(p.dcfg.ScaleColumns).Describe())

	p.render("longitude/rating scatter", func() error { return viz.LongitudeRatingScatter(df) })

	model, err := p.fitAndEvaluate(df, scaler)
	if err != nil {
		return err
	}

	p.render("regression fit", func() error { return viz.RegressionFit(df, model) })

	p.logger.Info("analysis run finished")
	return nil
}

// render runs one chart; a failure is logged and later charts still run.
func (p *Pipeline) render(name string, fn func() error) {
	if err := fn(); err != nil {
		p.logger.Error(fmt.Sprintf("failed to render %s: %v", name, err))
	}
}

// clean runs the cleaning sequence and prints the before/after missing
// counts plus a preview of the cleaned rows.
func (p *Pipeline) clean(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	cleaner := processor.NewCleaner(p.dcfg.Sentinel, p.dcfg.StringColumns)

	df, means, err := cleaner.Clean(df, func(replaced dataframe.DataFrame) {
		fmt.Fprintln(p.out, "\nMissing values before cleaning:")
		p.printMissing(replaced)
	})
	if err != nil {
		return df, err
	}
	for col, mean := range means {
		p.logger.Info(fmt.Sprintf("imputed missing %s with mean %.6f", col, mean))
	}

	fmt.Fprintln(p.out, "\nMissing values after cleaning:")
	p.printMissing(df)

	fmt.Fprintln(p.out, "\nCleaned DataFrame preview:")
	fmt.Fprintln(p.out, head(df, 5))

	return df, nil
}

func (p *Pipeline) export(df dataframe.DataFrame) error {
	if p.cfg.ExportFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.cfg.ExportFile), 0755); err != nil {
		return err
	}
	if err := file.SaveToExcel(df, p.cfg.ExportFile); err != nil {
		return err
	}
	p.logger.Info("cleaned data exported to " + p.cfg.ExportFile)
	return nil
}

// fitAndEvaluate splits the normalized data, fits the longitude->rating
// model, prints the sample prediction and reports the test MSE.
func (p *Pipeline) fitAndEvaluate(df dataframe.DataFrame, scaler *processor.MinMaxScaler) (processor.LinearModel, error) {
	var model processor.LinearModel

	x := df.Col("longitude").Float()
	y := df.Col("rating").Float()

	xTrain, xTest, yTrain, yTest, err := processor.TrainTestSplit(x, y, p.dcfg.TestSize, p.dcfg.Seed)
	if err != nil {
		return model, fmt.Errorf("split stage: %w", err)
	}

	if err := model.Fit(xTrain, yTrain); err != nil {
		return model, fmt.Errorf("fit stage: %w", err)
	}

	lonNorm, err := scaler.TransformValue("longitude", p.dcfg.PredictLongitude)
	if err != nil {
		return model, fmt.Errorf("predict stage: %w", err)
	}
	fmt.Fprintf(p.out, "Predicted Rating for Longitude %v: %v\n",
		p.dcfg.PredictLongitude, model.Predict(lonNorm))

	mse, err := processor.MeanSquaredError(yTest, model.PredictAll(xTest))
	if err != nil {
		return model, fmt.Errorf("evaluate stage: %w", err)
	}
	fmt.Fprintf(p.out, "Mean Squared Error (MSE): %.4f\n", mse)

	return model, nil
}

// printInfo is a compact df.info(): dimensions plus non-null counts and
// type per column.
func (p *Pipeline) printInfo(df dataframe.DataFrame) {
	fmt.Fprintf(p.out, "%d rows x %d columns\n", df.Nrow(), df.Ncol())
	missing := processor.MissingCounts(df)
	types := df.Types()
	for i, name := range df.Names() {
		fmt.Fprintf(p.out, "  %-20s %d non-null  %v\n", name, df.Nrow()-missing[i].Missing, types[i])
	}
}

func (p *Pipeline) printMissing(df dataframe.DataFrame) {
	for _, c := range processor.MissingCounts(df) {
		fmt.Fprintf(p.out, "  %-20s %d\n", c.Column, c.Missing)
	}
}

func head(df dataframe.DataFrame, n int) dataframe.DataFrame {
	if df.Nrow() < n {
		n = df.Nrow()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return df.Subset(idx)
}
