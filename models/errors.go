package models

import "errors"

// Error taxonomy for the core. All three are recoverable at the caller
// level; controllers map them onto HTTP status codes.
var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrValidation indicates input outside the contract (bad rating,
	// missing fields). Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a conditional write lost a race (version
	// mismatch, capacity filled in the interim). The caller may retry the
	// whole action; the services never retry on their own.
	ErrConflict = errors.New("conditional write failed")
)

// IneligibleError reports a failed operation precondition: event full or
// expired, user already a member, organizer attempting to leave. It is a
// decision outcome, not an infrastructure failure.
type IneligibleError struct {
	Reason string
}

func (e *IneligibleError) Error() string { return e.Reason }

// Ineligible wraps a reason into an IneligibleError.
func Ineligible(reason string) error {
	return &IneligibleError{Reason: reason}
}

// IsIneligible reports whether err is an IneligibleError.
func IsIneligible(err error) bool {
	var ie *IneligibleError
	return errors.As(err, &ie)
}
