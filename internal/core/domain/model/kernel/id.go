package kernel

import (
	"strconv"

	"assetsync/internal/pkg/errs"
)

// ID identifies orders, containers, vehicles, operators and customers.
// Valid identifiers are strictly positive; the zero value means "unset".
type ID int64

// NewID validates raw and returns it as an ID.
func NewID(paramName string, raw int64) (ID, error) {
	id := ID(raw)
	if err := id.ValidateAs(paramName); err != nil {
		return 0, err
	}
	return id, nil
}

// ParseID parses a decimal identifier, as found in URL paths and scopes.
func ParseID(paramName string, s string) (ID, error) {
	raw, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(paramName, err)
	}
	return NewID(paramName, raw)
}

// Validate reports whether the identifier is set.
func (id ID) Validate() error {
	return id.ValidateAs("id")
}

// ValidateAs is Validate with a caller supplied parameter name in the error.
func (id ID) ValidateAs(paramName string) error {
	if id == 0 {
		return errs.NewValueIsRequiredError(paramName)
	}
	if id < 0 {
		return errs.NewValueIsOutOfRangeError(paramName, int64(id), 1, "max int64")
	}
	return nil
}

func (id ID) Int64() int64 {
	return int64(id)
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Ptr returns a pointer to a copy of id, for nullable columns.
func (id ID) Ptr() *ID {
	return &id
}

// EqualPtr compares two nullable identifiers.
func EqualPtr(a, b *ID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
