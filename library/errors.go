package library

// Domain error taxonomy. Every operation returns one of these types for
// expected failures so callers can branch with errors.As; collaborator
// faults are downgraded to ProcessingFault at the boundary instead of
// propagating.

// ValidationError reports malformed input: patron id, ISBN, amount or
// over-long text fields.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports an absent book or borrow record.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

// ConflictError reports a state conflict: duplicate ISBN, borrowing limit
// reached, no available copy, or a book that is not currently borrowed.
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

// StorageError reports a failed persistence operation.
type StorageError struct {
	Msg string
	Err error
}

func (e *StorageError) Error() string { return e.Msg }
func (e *StorageError) Unwrap() error { return e.Err }

// GatewayError reports a business-level payment failure: a declined charge
// or a rejected refund. It is not a fault.
type GatewayError struct{ Msg string }

func (e *GatewayError) Error() string { return e.Msg }

// ProcessingFault reports an unexpected collaborator error that was caught
// at the boundary and converted to a reported failure.
type ProcessingFault struct {
	Msg string
	Err error
}

func (e *ProcessingFault) Error() string { return e.Msg }
func (e *ProcessingFault) Unwrap() error { return e.Err }
