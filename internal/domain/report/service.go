package report

import (
	"context"
	"io"
)

type ReportService interface {
	// ExportLineItemsCSV writes one row per filtered line item and returns the row count
	ExportLineItemsCSV(ctx context.Context, req LineItemExportRequest, w io.Writer) (int, error)
}
