package payroll

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

var workbookColumns = []string{
	"Employee", "Role", "Branch", "Base Salary", "Commission", "Bonus", "Penalty", "Net Salary",
}

// WriteWorkbook renders salary lines and their totals as a single-sheet XLSX file.
func WriteWorkbook(w io.Writer, period payroll.Period, lines []payroll.SalaryLine, totals payroll.PeriodTotals) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payroll " + period.String()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(workbookColumns))
	for i, c := range workbookColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, l := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			l.EmployeeName,
			l.Role,
			l.BranchID,
			l.BaseSalary.InexactFloat64(),
			l.Commission.InexactFloat64(),
			l.Bonus.InexactFloat64(),
			l.Penalty.InexactFloat64(),
			l.NetSalary.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", l.EmployeeID, err)
		}
	}

	totalRow := len(lines) + 2
	cell, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return err
	}
	row := []interface{}{
		"TOTAL",
		fmt.Sprintf("%d employees", totals.EmployeeCount),
		"",
		totals.TotalBaseSalary.InexactFloat64(),
		totals.TotalCommission.InexactFloat64(),
		totals.TotalBonus.InexactFloat64(),
		totals.TotalPenalty.InexactFloat64(),
		totals.TotalNetPayroll.InexactFloat64(),
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}
	if err := f.SetRowStyle(sheet, totalRow, totalRow, bold); err != nil {
		return fmt.Errorf("failed to style totals: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "D", "H", 16); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
