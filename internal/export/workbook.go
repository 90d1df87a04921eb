package export

import (
	"fmt"
	"io"

	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the summary workbook.
const (
	SheetWorkload = "Workload"
	SheetLeaves   = "Leaves"
	SheetPeriods  = "Periods"
)

// WriteWorkbook writes an xlsx workbook with the workload summary, the
// leave summary and the period list of p.
func WriteWorkbook(w io.Writer, p *domain.Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetWorkload); err != nil {
		return fmt.Errorf("naming workload sheet: %w", err)
	}
	for _, name := range []string{SheetLeaves, SheetPeriods} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	if err := writeSummarySheet(f, SheetWorkload, WorkloadSummary(p)); err != nil {
		return err
	}
	if err := writeSummarySheet(f, SheetLeaves, LeavesSummary(p)); err != nil {
		return err
	}
	if err := writePeriodsSheet(f, p.Periods); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, s Summary) error {
	if err := setRow(f, sheet, 1, toCells(s.Header)); err != nil {
		return err
	}
	for i, r := range s.Rows {
		cells := make([]any, 0, len(r.Hours)+2)
		cells = append(cells, r.Label, r.Member)
		for _, h := range r.Hours {
			cells = append(cells, h.InexactFloat64())
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writePeriodsSheet(f *excelize.File, periods []domain.Period) error {
	if err := setRow(f, SheetPeriods, 1, []any{"name", "startDate", "endDate", "workingDays"}); err != nil {
		return err
	}
	for i, per := range periods {
		row := []any{per.Name, per.StartDate.String(), per.EndDate.String(), per.WorkingDays}
		if err := setRow(f, SheetPeriods, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func toCells(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
