package container

import (
	"fmt"

	"assetsync/internal/pkg/errs"
)

// Status is the operational state of a container.
type Status string

const (
	Active   Status = "active"
	Inactive Status = "inactive"
	Warning  Status = "warning"
)

func (s Status) Validate() error {
	switch s {
	case Active, Inactive, Warning:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("container_status", fmt.Errorf("%q is not a valid status", string(s)))
}

func (s Status) String() string {
	return string(s)
}
