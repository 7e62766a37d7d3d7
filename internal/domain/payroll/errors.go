package payroll

import "errors"

var (
	ErrInvalidPeriod    = errors.New("invalid payroll period")
	ErrPointNotFound    = errors.New("bonus/penalty entry not found")
	ErrInvalidPointType = errors.New("invalid point type")
)
