package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	// Payslip builds the payslip of one employee for a period
	Payslip(ctx context.Context, employeeID string, period Period) (PayslipResponse, error)

	// Summary lists salary lines and totals for the filtered employee set
	Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)

	// ExportWorkbook writes the period summary as an XLSX sheet
	ExportWorkbook(ctx context.Context, req SummaryRequest, w io.Writer) error

	AddPoint(ctx context.Context, req AddPointRequest) (PointResponse, error)
	ListPoints(ctx context.Context, employeeID string, period Period) ([]PointResponse, error)
	DeletePoint(ctx context.Context, id string) error
}
