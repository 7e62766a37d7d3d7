package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/report"
	commissionService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/commission"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	itemRepo commission.LineItemRepository
}

func NewReportService(itemRepo commission.LineItemRepository) report.ReportService {
	return &ReportServiceImpl{
		itemRepo: itemRepo,
	}
}

// ExportLineItemsCSV writes the filtered line items, one row each, under report.LineItemColumns.
func (s *ReportServiceImpl) ExportLineItemsCSV(ctx context.Context, req report.LineItemExportRequest, w io.Writer) (int, error) {
	from, to, err := req.Validate()
	if err != nil {
		return 0, err
	}

	items, err := s.itemRepo.List(ctx, commission.LineItemFilter{
		EmployeeID: req.EmployeeID,
		Kind:       req.Kind,
		From:       from,
		To:         to,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get line items: %w", err)
	}
	items = commissionService.FilterByStatus(items, req.Status)

	writer := csv.NewWriter(w)
	if err := writer.Write(report.LineItemColumns); err != nil {
		return 0, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}
	for _, item := range items {
		if err := writer.Write(LineItemRow(item)); err != nil {
			return 0, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}

	return len(items), nil
}

// LineItemRow renders item in LineItemColumns order.
func LineItemRow(item commission.LineItem) []string {
	employeeName := item.EmployeeID
	if item.EmployeeName != nil {
		employeeName = *item.EmployeeName
	}

	ruleType := ""
	if item.CommissionType != nil {
		ruleType = string(*item.CommissionType)
	}

	return []string{
		item.TransactionNumber,
		item.TransactionDate.Format("2006-01-02"),
		item.ServiceName,
		string(item.Kind),
		employeeName,
		item.CustomerName,
		strconv.Itoa(item.Quantity),
		item.UnitPrice.String(),
		item.LineTotal().String(),
		string(commissionService.Classify(item)),
		ruleType,
		optionalDecimal(item.CommissionValue),
		optionalDecimal(item.CommissionAmount),
	}
}

func optionalDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
