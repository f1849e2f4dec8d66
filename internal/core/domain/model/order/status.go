package order

import (
	"fmt"

	"assetsync/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. Values are ordered: a
// larger value is further along the lifecycle, with Cancelled placed last.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Processing ──> Shipped ──> Delivered ──> Completed
//	   │            │              │            │            │
//	   └────────────┴──────────────┴────────────┴────────────┴──> Cancelled
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status; the order waits for an operator to take it.
	Pending

	// Confirmed means an operator and vehicle took the order and the container is assigned.
	Confirmed

	// Processing means the operator is preparing the pickup.
	Processing

	// Shipped means the container has been picked up and is in transit.
	Shipped

	// Delivered means the container reached the drop point but the order is not closed yet.
	Delivered

	// Completed is terminal; the container has been released.
	Completed

	// Cancelled is terminal; any assignment has been released.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Confirmed:  "confirmed",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// ParseStatus converts the persisted/wire representation into a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the known lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsActive reports whether an operator and vehicle hold the order.
func (s Status) IsActive() bool {
	return s >= Confirmed && s <= Delivered
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsIntermediate reports whether s is a target of Advance.
func (s Status) IsIntermediate() bool {
	return s == Processing || s == Shipped || s == Delivered
}

// ValidateCanHaveAssignment enforces that vehicle and transporter are present
// exactly while the order is active.
func (s Status) ValidateCanHaveAssignment(assigned bool) error {
	if assigned && !s.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have an assignment", s),
		)
	}
	if !assigned && s.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have no assignment", s),
		)
	}
	return nil
}

// TransitionError describes a lifecycle step that the state machine forbids.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s -> %s is not a permitted transition", e.From, e.To)
}

// Advance returns target if moving from s to target is a forward step between
// active statuses. Skipping intermediate statuses is allowed.
func (s Status) Advance(target Status) (Status, error) {
	if !target.IsIntermediate() {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not an intermediate status", target),
		)
	}
	if !s.IsActive() {
		return Unknown, &TransitionError{From: s, To: target}
	}
	if target <= s {
		return Unknown, &TransitionError{From: s, To: target}
	}
	return target, nil
}
