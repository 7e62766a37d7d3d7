package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PayrollHandler interface {
	// Payslips and summary
	GetPayslip(w http.ResponseWriter, r *http.Request)
	GetPayrollSummary(w http.ResponseWriter, r *http.Request)
	ExportPayrollSummary(w http.ResponseWriter, r *http.Request)

	// Bonus and penalty points
	AddPoint(w http.ResponseWriter, r *http.Request)
	ListPoints(w http.ResponseWriter, r *http.Request)
	DeletePoint(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func summaryRequestFrom(r *http.Request) (payroll.SummaryRequest, error) {
	period, err := parsePeriod(r, time.Now())
	if err != nil {
		return payroll.SummaryRequest{}, err
	}
	return payroll.SummaryRequest{
		Period:   period,
		BranchID: getOptionalQueryParam(r, "branch_id"),
		Status:   getOptionalQueryParam(r, "status"),
	}, nil
}

// ========== PAYSLIPS ==========

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Payslip(r.Context(), chi.URLParam(r, "employeeID"), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SUMMARY ==========

func (h *payrollHandlerImpl) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	req, err := summaryRequestFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportPayrollSummary streams the period summary as an XLSX download. The workbook is
// rendered into memory first so a failure can still be reported as JSON.
func (h *payrollHandlerImpl) ExportPayrollSummary(w http.ResponseWriter, r *http.Request) {
	req, err := summaryRequestFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.payrollService.ExportWorkbook(r.Context(), req, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%s.xlsx"`, req.Period))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ========== POINTS ==========

func (h *payrollHandlerImpl) AddPoint(w http.ResponseWriter, r *http.Request) {
	var req payroll.AddPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")

	result, err := h.payrollService.AddPoint(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Point entry recorded", result)
}

func (h *payrollHandlerImpl) ListPoints(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.payrollService.ListPoints(r.Context(), chi.URLParam(r, "employeeID"), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *payrollHandlerImpl) DeletePoint(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.DeletePoint(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Point entry deleted", nil)
}
