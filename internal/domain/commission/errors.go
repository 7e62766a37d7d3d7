package commission

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLineItemNotFound      = errors.New("line item not found")
	ErrRuleNotFound          = errors.New("commission rule not found")
	ErrCommissionIneligible  = errors.New("line item does not earn commission")
	ErrAlreadyCredited       = errors.New("line item is already credited under a different rule")
	ErrEmptyBatch            = errors.New("no line items selected")
	ErrLineItemAlreadyExists = errors.New("line item already exists")
)

// ItemFailure records why one line item in a batch could not be credited.
type ItemFailure struct {
	LineItemID string
	Err        error
}

// PartialBatchFailure is returned when a batch credited some items but not all.
type PartialBatchFailure struct {
	Succeeded int
	Failed    []ItemFailure
}

func (e *PartialBatchFailure) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		ids = append(ids, f.LineItemID)
	}
	return fmt.Sprintf("commission batch partially applied: %d succeeded, %d failed (%s)",
		e.Succeeded, len(e.Failed), strings.Join(ids, ", "))
}

// FailedIDs returns the ids of the items that failed, in batch order.
func (e *PartialBatchFailure) FailedIDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		ids = append(ids, f.LineItemID)
	}
	return ids
}

// Unwrap exposes the per-item errors to errors.Is / errors.As.
func (e *PartialBatchFailure) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}
