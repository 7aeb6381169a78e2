package service

import (
	"fmt"
	"strings"
)

// ValidationError rejected input, detected before any write
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidSelectionError a selection pair does not reference a quote of
// the line it claims, or the referenced record does not exist.
type InvalidSelectionError struct {
	RFQLineID string
	QuoteID   string
	Reason    string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection for line %s (quote %s): %s", e.RFQLineID, e.QuoteID, e.Reason)
}

// InvalidStateError the entity is not in a status that permits the
// requested operation.
type InvalidStateError struct {
	Entity string
	ID     string
	Status string
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s in status %s does not allow %s", e.Entity, e.ID, e.Status, e.Op)
}

// VendorCommit a vendor partition that committed during finalize
type VendorCommit struct {
	VendorID string `json:"vendor_id"`
	OrderID  string `json:"order_id"`
	PONumber string `json:"po_number"`
}

// VendorFailure a vendor partition that failed during finalize
type VendorFailure struct {
	VendorID string `json:"vendor_id"`
	Reason   string `json:"reason"`
}

// PartialCommitError finalize committed some vendor partitions and not
// others. Committed orders are never rolled back; the replenishment
// stays DRAFT so finalize can be retried for the failed vendors.
type PartialCommitError struct {
	ReplenishmentID string          `json:"replenishment_id"`
	Succeeded       []VendorCommit  `json:"succeeded"`
	Failed          []VendorFailure `json:"failed"`
}

func (e *PartialCommitError) Error() string {
	failed := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		failed = append(failed, f.VendorID)
	}
	return fmt.Sprintf("finalize of %s committed %d of %d vendor orders (failed vendors: %s)",
		e.ReplenishmentID, len(e.Succeeded), len(e.Succeeded)+len(e.Failed), strings.Join(failed, ", "))
}

// DownstreamError a persistence or infrastructure failure outside the
// business rules
type DownstreamError struct {
	Op  string
	Err error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}
