package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CommissionHandler interface {
	ListLineItems(w http.ResponseWriter, r *http.Request)
	SetCommission(w http.ResponseWriter, r *http.Request)
	ApplyBatch(w http.ResponseWriter, r *http.Request)
	ListRules(w http.ResponseWriter, r *http.Request)
	GetRule(w http.ResponseWriter, r *http.Request)
	DeleteRule(w http.ResponseWriter, r *http.Request)
}

type commissionHandlerImpl struct {
	commissionService commission.CommissionService
}

func NewCommissionHandler(commissionService commission.CommissionService) CommissionHandler {
	return &commissionHandlerImpl{commissionService: commissionService}
}

// ListLineItems implements CommissionHandler
func (h *commissionHandlerImpl) ListLineItems(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseOptionalDates(r, time.Local)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := commission.LineItemFilter{
		EmployeeID: getOptionalQueryParam(r, "employee_id"),
		Status:     getOptionalQueryParam(r, "status"),
		Kind:       getOptionalQueryParam(r, "kind"),
		From:       from,
		To:         to,
	}

	results, err := h.commissionService.ListLineItems(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{Count: len(results)})
}

// SetCommission implements CommissionHandler
func (h *commissionHandlerImpl) SetCommission(w http.ResponseWriter, r *http.Request) {
	var req commission.SetCommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.LineItemID = chi.URLParam(r, "id")

	result, err := h.commissionService.SetCommission(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission credited", result)
}

// ApplyBatch implements CommissionHandler. A partial failure answers 207 with the credited
// items alongside the failures.
func (h *commissionHandlerImpl) ApplyBatch(w http.ResponseWriter, r *http.Request) {
	var req commission.BatchCommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.commissionService.ApplyBatch(r.Context(), req)
	if err != nil {
		var batchErr *commission.PartialBatchFailure
		if errors.As(err, &batchErr) {
			details := make(map[string]string, len(batchErr.Failed))
			for _, f := range batchErr.Failed {
				details[f.LineItemID] = f.Err.Error()
			}
			response.MultiStatus(w, batchErr.Error(), result, details)
			return
		}
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission batch applied", result)
}

// ListRules implements CommissionHandler
func (h *commissionHandlerImpl) ListRules(w http.ResponseWriter, r *http.Request) {
	results, err := h.commissionService.ListRules(r.Context(), r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetRule implements CommissionHandler
func (h *commissionHandlerImpl) GetRule(w http.ResponseWriter, r *http.Request) {
	result, err := h.commissionService.GetRule(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "serviceID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DeleteRule implements CommissionHandler
func (h *commissionHandlerImpl) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := h.commissionService.DeleteRule(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission rule deleted", nil)
}
