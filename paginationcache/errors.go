package paginationcache

import "errors"

// Failure kinds. Compare with errors.Is; every error the core or the REST
// layer produces matches exactly one of these.
var (
	// ErrUnauthenticated indicates the remote rejected the call for lack of
	// an active session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidationRejected indicates a remote-side constraint violation,
	// e.g. a missing required foreign key.
	ErrValidationRejected = errors.New("validation rejected")

	// ErrNetworkFailure indicates a transport-level failure.
	ErrNetworkFailure = errors.New("network failure")

	// ErrFetchFailed indicates a listing query failed; the coordinator keeps
	// serving its previous snapshot when one exists.
	ErrFetchFailed = errors.New("fetch failed")
)

// Error carries a failure kind, a human-readable message, and the underlying
// cause. The core never lets errors escape without a kind attached.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Kind.Error() + ": " + e.Message
	}
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// Is matches against the failure kind sentinels.
func (e *Error) Is(target error) bool { return target == e.Kind }

// NewError builds a kinded error. kind must be one of the sentinels above.
func NewError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// ensureKind wraps err as a kinded error unless it already carries a kind.
func ensureKind(kind error, err error) error {
	if err == nil {
		return nil
	}
	var kinded *Error
	if errors.As(err, &kinded) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}
