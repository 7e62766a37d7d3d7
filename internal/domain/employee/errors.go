package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrNothingToUpdate  = errors.New("no fields to update")
	ErrInvalidPIN       = errors.New("invalid PIN")
	ErrPINNotSet        = errors.New("employee has no PIN set")
)
