package report

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx/v3"
)

var rowHeader = []string{"Date", "Time", "Blood Sugar (mg/dL)", "Status", "Insulin", "Units", "Notes"}

// WriteXLSX writes the report as a one-sheet spreadsheet: the summary block,
// a blank row, then one row per entry.
func WriteXLSX(w io.Writer, r MonthlyReport) error {
	name := "Report"
	if !r.Month.IsZero() {
		name = r.Month.String()
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(name)
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	addRow(sheet, "Monthly Report", name)
	addRow(sheet, "Target Range (mg/dL)", r.Band.String())
	addRow(sheet, "Avg Blood Sugar (mg/dL)", r.AvgBloodSugar)
	addRow(sheet, "Total Insulin (units)", r.TotalInsulin)
	addRow(sheet, "Range (mg/dL)", r.Range)
	addRow(sheet, "Total Entries", fmt.Sprint(r.TotalEntries))
	sheet.AddRow()

	addRow(sheet, rowHeader...)
	for _, row := range r.Rows {
		addRow(sheet, row.Date, row.Time, row.BloodSugar, string(row.Status), row.Insulin, row.Units, row.Notes)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
