package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

const dateLayout = "2006-01-02"

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getOptionalQueryParam returns nil for an absent or empty parameter
func getOptionalQueryParam(r *http.Request, key string) *string {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil
	}
	return &val
}

// parsePeriod reads ?period=YYYY-MM, defaulting to the month of now
func parsePeriod(r *http.Request, now time.Time) (payroll.Period, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return payroll.PeriodOf(now), nil
	}
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return payroll.Period{}, payroll.ErrInvalidPeriod
	}
	return payroll.PeriodOf(t), nil
}

// parseDateWindow reads ?from=YYYY-MM-DD&to=YYYY-MM-DD in loc. to is inclusive in the query
// and returned exclusive. Missing bounds default to the month of now.
func parseDateWindow(r *http.Request, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	period := payroll.PeriodOf(now.In(loc))
	from, to := period.Start(loc), period.End(loc)

	var errs validator.ValidationErrors
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "must be in YYYY-MM-DD format"})
		}
		from = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "must be in YYYY-MM-DD format"})
		}
		to = t.AddDate(0, 0, 1)
	}
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return from, to, nil
}

// parseOptionalDates is parseDateWindow without defaults; absent bounds stay nil
func parseOptionalDates(r *http.Request, loc *time.Location) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	var errs validator.ValidationErrors
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "must be in YYYY-MM-DD format"})
		}
		from = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "must be in YYYY-MM-DD format"})
		}
		end := t.AddDate(0, 0, 1)
		to = &end
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}
	return from, to, nil
}
