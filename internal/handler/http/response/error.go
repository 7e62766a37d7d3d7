package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Partial batches wrap per-item errors, so they are matched before anything they contain
	var batchErr *commission.PartialBatchFailure
	if errors.As(err, &batchErr) {
		details := make(map[string]string, len(batchErr.Failed))
		for _, f := range batchErr.Failed {
			details[f.LineItemID] = f.Err.Error()
		}
		MultiStatus(w, batchErr.Error(), nil, details)
		return
	}

	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrNothingToUpdate):
		BadRequest(w, "No fields to update", nil)
	case errors.Is(err, employee.ErrInvalidPIN):
		Unauthorized(w, "Invalid PIN")
	case errors.Is(err, employee.ErrPINNotSet):
		UnprocessableEntity(w, "PIN_NOT_SET", "Employee has no PIN set")

	// Commission domain errors
	case errors.Is(err, commission.ErrLineItemNotFound):
		NotFound(w, "Line item not found")
	case errors.Is(err, commission.ErrRuleNotFound):
		NotFound(w, "Commission rule not found")
	case errors.Is(err, commission.ErrCommissionIneligible):
		UnprocessableEntity(w, "COMMISSION_INELIGIBLE", "Line item does not earn commission")
	case errors.Is(err, commission.ErrAlreadyCredited):
		Conflict(w, "Line item is already credited under a different rule")
	case errors.Is(err, commission.ErrEmptyBatch):
		BadRequest(w, "No line items selected", nil)
	case errors.Is(err, commission.ErrLineItemAlreadyExists):
		Conflict(w, "Line item already exists")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period, expected YYYY-MM", nil)
	case errors.Is(err, payroll.ErrPointNotFound):
		NotFound(w, "Bonus/penalty entry not found")
	case errors.Is(err, payroll.ErrInvalidPointType):
		BadRequest(w, "Invalid point type", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Employee has already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Employee has already checked out")
	case errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, "Attendance already recorded for this date")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "Employee has not checked in yet", nil)
	case errors.Is(err, attendance.ErrInvalidWindow):
		BadRequest(w, "Attendance window end must not be before start", nil)

	// Report errors
	case errors.Is(err, report.ErrExportFailed):
		slog.Error("Export failed", "error", err)
		InternalServerError(w, "Export failed")

	default:
		var storeErr *database.StoreError
		if errors.As(err, &storeErr) {
			slog.Error("Record store error", "op", storeErr.Op, "code", storeErr.Code, "error", err)
			details := map[string]string{"op": storeErr.Op}
			if storeErr.Code != "" {
				details["code"] = storeErr.Code
			}
			if storeErr.Detail != "" {
				details["detail"] = storeErr.Detail
			}
			BadGateway(w, storeErr.Error(), details)
			return
		}
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
