package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/handler/http/response"
)

type ReportHandler interface {
	ExportLineItemsCSV(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// ExportLineItemsCSV downloads the filtered line items as CSV
func (h *reportHandlerImpl) ExportLineItemsCSV(w http.ResponseWriter, r *http.Request) {
	req := report.LineItemExportRequest{
		EmployeeID: getOptionalQueryParam(r, "employee_id"),
		Status:     getOptionalQueryParam(r, "status"),
		Kind:       getOptionalQueryParam(r, "kind"),
		From:       getOptionalQueryParam(r, "from"),
		To:         getOptionalQueryParam(r, "to"),
	}

	var buf bytes.Buffer
	count, err := h.reportService.ExportLineItemsCSV(r.Context(), req, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("line-items-%s.csv", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("X-Row-Count", strconv.Itoa(count))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
