package reporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"api-test-planner/internal/types"
)

// Sheet names of the xlsx report
const (
	SheetSummary      = "Summary"
	SheetRequirements = "Requirements"
	SheetFailures     = "Failures"
)

func writeExcel(path string, report *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeSummarySheet(f, header, report); err != nil {
		return err
	}
	if err := writeRequirementsSheet(f, header, report); err != nil {
		return err
	}
	if len(report.Failures) > 0 {
		if err := writeFailuresSheet(f, header, report); err != nil {
			return err
		}
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, header int, report *Report) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}

	title := cases.Title(language.English)
	rows := [][]interface{}{
		{"Run ID", report.RunID},
		{"Generated", report.Timestamp.Format("2006-01-02 15:04:05")},
		{"Source", report.Source},
		{"Endpoints", report.Totals.Endpoints},
		{"Failed Endpoints", report.Totals.Failed},
		{"Requirements", report.Totals.Requirements},
		{"Estimated Cases", report.Totals.EstimatedCases},
	}
	for _, p := range types.Priorities {
		rows = append(rows, []interface{}{fmt.Sprintf("%s Requirements", title.String(string(p))), report.Totals.ByPriority[p]})
	}

	if err := writeRow(f, SheetSummary, 1, []interface{}{"Metric", "Value"}, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, SheetSummary, i+2, row, 0); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "B", 40)
}

func writeRequirementsSheet(f *excelize.File, header int, report *Report) error {
	if _, err := f.NewSheet(SheetRequirements); err != nil {
		return err
	}

	headers := []interface{}{"Endpoint", "Method", "Path", "Complexity", "Order", "Strategy", "Priority", "Estimated Cases", "Test Cases"}
	if err := writeRow(f, SheetRequirements, 1, headers, header); err != nil {
		return err
	}

	row := 2
	for _, plan := range report.Plans {
		endpoint := plan.Configuration.Endpoint
		for i, req := range plan.Requirements {
			values := []interface{}{
				plan.EndpointID,
				endpoint.Method,
				endpoint.Path,
				string(plan.Complexity),
				i + 1,
				string(req.Strategy),
				string(req.Priority),
				req.EstimatedCases,
				strings.Join(req.TestCases, ", "),
			}
			if err := writeRow(f, SheetRequirements, row, values, 0); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(SheetRequirements, "A", "C", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetRequirements, "F", "F", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetRequirements, "I", "I", 80); err != nil {
		return err
	}
	return f.SetPanes(SheetRequirements, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeFailuresSheet(f *excelize.File, header int, report *Report) error {
	if _, err := f.NewSheet(SheetFailures); err != nil {
		return err
	}
	if err := writeRow(f, SheetFailures, 1, []interface{}{"Endpoint", "Error"}, header); err != nil {
		return err
	}
	for i, failure := range report.Failures {
		if err := writeRow(f, SheetFailures, i+2, []interface{}{failure.EndpointID, failure.Error}, 0); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetFailures, "A", "B", 50)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
		if style != 0 {
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}
