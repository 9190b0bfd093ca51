// reader.go
package file

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// Numeric survey columns; everything else stays a string.
var columnTypes = map[string]series.Type{
	"rating":    series.Float,
	"latitude":  series.Float,
	"longitude": series.Float,
	"month":     series.Float,
	"year":      series.Float,
}

// ReadXLSXToDataFrame loads one worksheet of a survey workbook into a
// typed DataFrame. The first row is the header, the rest is data.
func ReadXLSXToDataFrame(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open xlsx file: %w", err)
	}

	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("workbook %s has no sheets", filePath)
	}

	sheet, ok := xlFile.Sheet[sheetName]
	if !ok {
		return dataframe.DataFrame{}, fmt.Errorf("sheet %s not found in %s", sheetName, filePath)
	}

	return convertSheetToDataFrame(sheet)
}

// convertSheetToDataFrame turns an xlsx.Sheet into a gota DataFrame.
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) < 2 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet has no data rows")
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	records := make([][]string, 0, len(sheet.Rows))
	records = append(records, headers)

	for _, row := range sheet.Rows[1:] {
		record := make([]string, len(headers))
		for i, cell := range row.Cells {
			if i < len(headers) {
				record[i] = cell.Value
			}
		}
		records = append(records, record)
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build dataframe: %w", df.Err)
	}

	return df, nil
}
