package errs

import "errors"

// Kind is the caller-facing error category.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindInvalidState
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindInvalidState:
		return "invalid_state"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	case KindInternal:
		return "internal"
	}
	return "internal"
}

// Classify maps err onto the error taxonomy. Unknown errors are KindInternal.
// Version conflicts classify as KindConflict: once retries are exhausted they
// are indistinguishable from a lost race to the caller.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrConflict), errors.Is(err, ErrVersionConflict):
		return KindConflict
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange),
		errors.Is(err, ErrValueIsRequired):
		return KindInvalidInput
	}
	return KindInternal
}

// IsRetryable reports whether a fresh attempt may succeed without caller action.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsTransient reports whether err came from an unreachable dependency and the
// same call may succeed later.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
