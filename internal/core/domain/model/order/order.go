package order

import (
	"errors"
	"fmt"
	"time"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/errs"
	"assetsync/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Stop is a pickup or drop point: coordinates plus a free-form address.
type Stop struct {
	Point   kernel.GeoPoint
	Address string
}

func (s Stop) validate(name string) error {
	if err := s.Point.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}

// State is the complete persisted form of an Order, used by repositories to
// rebuild the aggregate through RestoreOrder.
type State struct {
	ID            kernel.ID
	CustomerID    kernel.ID
	ContainerID   kernel.ID
	VehicleID     *kernel.ID
	TransporterID *kernel.ID
	Status        Status
	Price         float64
	PaymentStatus PaymentStatus
	Pickup        Stop
	Drop          Stop
	AssignedAt    *time.Time
	PickupTime    *time.Time
	DeliveryTime  *time.Time
	Position      *kernel.GeoPoint
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
}

// Order is the aggregate root for a transport job.
//
// Order follows these invariants:
//   - Must have valid order, customer and container identifiers
//   - Vehicle and transporter are both set exactly while the status is active
//   - Status transitions follow the state machine in Status
//   - Version increases by one on every persisted write
type Order struct {
	state State
	guard guard.ConstructorGuard
}

// NewOrder creates a pending order. Orders are created by an upstream
// collaborator; this constructor exists for provisioning and tests.
func NewOrder(
	id, customerID, containerID kernel.ID,
	price float64,
	pickup, drop Stop,
	now time.Time,
) (*Order, error) {
	return RestoreOrder(State{
		ID:            id,
		CustomerID:    customerID,
		ContainerID:   containerID,
		Status:        Pending,
		Price:         price,
		PaymentStatus: PaymentPending,
		Pickup:        pickup,
		Drop:          drop,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

// RestoreOrder rebuilds an order from persisted state, re-checking every invariant.
func RestoreOrder(state State) (*Order, error) {
	assigned := state.VehicleID != nil || state.TransporterID != nil

	if err := errors.Join(
		state.ID.ValidateAs("order_id"),
		state.CustomerID.ValidateAs("customer_id"),
		state.ContainerID.ValidateAs("container_id"),
		state.Status.Validate(),
		state.PaymentStatus.Validate(),
		state.Pickup.validate("pickup"),
		state.Drop.validate("drop"),
		validatePrice(state.Price),
		validateAssignmentPair(state.VehicleID, state.TransporterID),
		state.Status.ValidateCanHaveAssignment(assigned),
	); err != nil {
		return nil, err
	}

	return &Order{state: state, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() kernel.ID                { return o.state.ID }
func (o *Order) CustomerID() kernel.ID        { return o.state.CustomerID }
func (o *Order) ContainerID() kernel.ID       { return o.state.ContainerID }
func (o *Order) VehicleID() *kernel.ID        { return o.state.VehicleID }
func (o *Order) TransporterID() *kernel.ID    { return o.state.TransporterID }
func (o *Order) Status() Status               { return o.state.Status }
func (o *Order) Price() float64               { return o.state.Price }
func (o *Order) PaymentStatus() PaymentStatus { return o.state.PaymentStatus }
func (o *Order) Pickup() Stop                 { return o.state.Pickup }
func (o *Order) Drop() Stop                   { return o.state.Drop }
func (o *Order) AssignedAt() *time.Time       { return o.state.AssignedAt }
func (o *Order) PickupTime() *time.Time       { return o.state.PickupTime }
func (o *Order) DeliveryTime() *time.Time     { return o.state.DeliveryTime }
func (o *Order) Position() *kernel.GeoPoint   { return o.state.Position }
func (o *Order) CreatedAt() time.Time         { return o.state.CreatedAt }
func (o *Order) UpdatedAt() time.Time         { return o.state.UpdatedAt }
func (o *Order) Version() int64               { return o.state.Version }

// State returns a copy of the persisted form.
func (o *Order) State() State {
	return o.state
}

// MarkPersisted records that the current state was written with version+1.
func (o *Order) MarkPersisted() {
	o.state.Version++
}

// Take claims a pending order for operator/vehicle.
//
// An order that is already active was taken by someone else and yields a
// ConflictError so callers can report "already taken"; a terminal order yields
// an InvalidStateError.
func (o *Order) Take(operatorID, vehicleID kernel.ID, now time.Time) error {
	if err := errors.Join(operatorID.ValidateAs("operator_id"), vehicleID.ValidateAs("vehicle_id")); err != nil {
		return err
	}

	switch {
	case o.state.Status.IsActive():
		return errs.NewConflictError("order", o.state.ID, "already taken")
	case o.state.Status != Pending:
		return errs.NewInvalidStateError("order", o.state.ID,
			fmt.Sprintf("%s is not a valid status to take", o.state.Status))
	}

	o.state.Status = Confirmed
	o.state.TransporterID = operatorID.Ptr()
	o.state.VehicleID = vehicleID.Ptr()
	o.state.AssignedAt = &now
	o.state.UpdatedAt = now
	return nil
}

// Advance moves an active order forward to processing, shipped or delivered.
// Reaching shipped stamps the pickup time once.
func (o *Order) Advance(target Status, now time.Time) error {
	next, err := o.state.Status.Advance(target)
	if err != nil {
		var transitionErr *TransitionError
		if errors.As(err, &transitionErr) {
			return errs.NewInvalidStateError("order", o.state.ID, transitionErr.Error())
		}
		return err
	}

	if next >= Shipped && o.state.PickupTime == nil {
		o.state.PickupTime = &now
	}
	o.state.Status = next
	o.state.UpdatedAt = now
	return nil
}

// Complete closes an active order and drops its assignment.
func (o *Order) Complete(now time.Time) error {
	if !o.state.Status.IsActive() {
		return errs.NewInvalidStateError("order", o.state.ID,
			fmt.Sprintf("%s is not a valid status to complete", o.state.Status))
	}

	o.state.Status = Completed
	o.state.DeliveryTime = &now
	o.clearAssignment(now)
	return nil
}

// Cancel closes a pending or active order and drops any assignment.
func (o *Order) Cancel(now time.Time) error {
	if o.state.Status.IsTerminal() {
		return errs.NewInvalidStateError("order", o.state.ID,
			fmt.Sprintf("%s is not a valid status to cancel", o.state.Status))
	}

	o.state.Status = Cancelled
	o.clearAssignment(now)
	return nil
}

// MirrorPosition projects the container's live position onto the order.
func (o *Order) MirrorPosition(p kernel.GeoPoint, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.state.Position = &p
	o.state.UpdatedAt = now
	return nil
}

func (o *Order) clearAssignment(now time.Time) {
	o.state.TransporterID = nil
	o.state.VehicleID = nil
	o.state.UpdatedAt = now
}

func validatePrice(price float64) error {
	if price < 0 {
		return errs.NewValueIsOutOfRangeError("price", price, 0, "unbounded")
	}
	return nil
}

func validateAssignmentPair(vehicleID, transporterID *kernel.ID) error {
	if (vehicleID == nil) != (transporterID == nil) {
		return errs.NewValueIsInvalidErrorWithCause("assignment",
			errors.New("vehicle_id and transporter_id must be set together"))
	}
	if vehicleID != nil {
		return errors.Join(vehicleID.ValidateAs("vehicle_id"), transporterID.ValidateAs("transporter_id"))
	}
	return nil
}
