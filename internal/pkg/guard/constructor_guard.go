// Package guard provides ConstructorGuard, a marker embedded in domain types
// and commands to detect zero-value structs that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard. A zero value fails Validate.
//
// Example usage:
//
//	var ErrSampleNotConstructed = errors.New("Sample must be created via NewSample")
//
//	type Sample struct {
//	    containerID kernel.ID
//	    guard       guard.ConstructorGuard
//	}
//
//	func (s Sample) Validate() error {
//	    return s.guard.Validate(ErrSampleNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
