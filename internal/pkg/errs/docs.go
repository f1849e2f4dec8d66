// Package errs provides standardized error types for the assetsync service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its allowed bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - InvalidStateError: For when a transition is not permitted from the current state
//   - ConflictError: For when a concurrent writer won the race for a resource
//   - VersionConflictError: For when an optimistic version check fails on write
//   - UnavailableError: For when the backing store or feed transport is unreachable
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Classify maps any error onto the caller-facing taxonomy (Kind) so transports
// can tell "already taken" apart from "not found" or "invalid state".
package errs
