package container

import (
	"errors"
	"time"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/errs"
	"assetsync/internal/pkg/guard"
)

var ErrContainerIsNotConstructed = errors.New("Container must be created via NewContainer or RestoreContainer constructor")

// Telemetry is the last physical reading reported by the container's sensors.
type Telemetry struct {
	Temperature  float64
	Humidity     float64
	BatteryLevel int
}

// State is the complete persisted form of a Container.
type State struct {
	ID            kernel.ID
	Name          string
	Telemetry     Telemetry
	Status        Status
	AssignedTo    *kernel.ID
	VehicleID     *kernel.ID
	CompleteOrder *kernel.ID
	Location      *kernel.GeoPoint
	Position      *kernel.GeoPoint
	LastUpdated   time.Time
	Version       int64
}

// Container is the aggregate root for a physical asset.
type Container struct {
	state State
	guard guard.ConstructorGuard
}

// NewContainer provisions an unassigned, inactive container.
func NewContainer(id kernel.ID, name string, location *kernel.GeoPoint, now time.Time) (*Container, error) {
	return RestoreContainer(State{
		ID:          id,
		Name:        name,
		Status:      Inactive,
		Location:    location,
		LastUpdated: now,
	})
}

// RestoreContainer rebuilds a container from persisted state.
func RestoreContainer(state State) (*Container, error) {
	if err := errors.Join(
		state.ID.ValidateAs("container_id"),
		validateName(state.Name),
		state.Status.Validate(),
		validateAssignment(state.AssignedTo, state.VehicleID),
		validateBattery(state.Telemetry.BatteryLevel),
	); err != nil {
		return nil, err
	}

	return &Container{state: state, guard: guard.NewConstructorGuard()}, nil
}

func (c *Container) Validate() error {
	if c == nil {
		return ErrContainerIsNotConstructed
	}
	return c.guard.Validate(ErrContainerIsNotConstructed)
}

func (c *Container) ID() kernel.ID              { return c.state.ID }
func (c *Container) Name() string               { return c.state.Name }
func (c *Container) Telemetry() Telemetry       { return c.state.Telemetry }
func (c *Container) Status() Status             { return c.state.Status }
func (c *Container) AssignedTo() *kernel.ID     { return c.state.AssignedTo }
func (c *Container) VehicleID() *kernel.ID      { return c.state.VehicleID }
func (c *Container) CompleteOrder() *kernel.ID  { return c.state.CompleteOrder }
func (c *Container) Location() *kernel.GeoPoint { return c.state.Location }
func (c *Container) Position() *kernel.GeoPoint { return c.state.Position }
func (c *Container) LastUpdated() time.Time     { return c.state.LastUpdated }
func (c *Container) Version() int64             { return c.state.Version }
func (c *Container) State() State               { return c.state }
func (c *Container) IsAssigned() bool           { return c.state.AssignedTo != nil }
func (c *Container) MarkPersisted()             { c.state.Version++ }

// IsAssignedTo reports whether the container is held by exactly this operator and vehicle.
func (c *Container) IsAssignedTo(operatorID, vehicleID kernel.ID) bool {
	return kernel.EqualPtr(c.state.AssignedTo, operatorID.Ptr()) &&
		kernel.EqualPtr(c.state.VehicleID, vehicleID.Ptr())
}

// Assign hands the container to operator/vehicle. An already assigned
// container yields a ConflictError: another order claimed it first.
func (c *Container) Assign(operatorID, vehicleID kernel.ID, now time.Time) error {
	if err := errors.Join(operatorID.ValidateAs("operator_id"), vehicleID.ValidateAs("vehicle_id")); err != nil {
		return err
	}
	if c.IsAssigned() {
		return errs.NewConflictError("container", c.state.ID, "already assigned")
	}

	c.state.AssignedTo = operatorID.Ptr()
	c.state.VehicleID = vehicleID.Ptr()
	c.state.Status = Active
	c.state.LastUpdated = now
	return nil
}

// Release drops the assignment. When completed is true the releasing order is
// recorded in complete_order.
func (c *Container) Release(orderID kernel.ID, completed bool, now time.Time) error {
	if !c.IsAssigned() {
		return errs.NewInvalidStateError("container", c.state.ID, "not assigned")
	}

	c.state.AssignedTo = nil
	c.state.VehicleID = nil
	c.state.Status = Inactive
	if completed {
		c.state.CompleteOrder = orderID.Ptr()
	}
	c.state.LastUpdated = now
	return nil
}

// MovePosition records the live position.
func (c *Container) MovePosition(p kernel.GeoPoint, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.state.Position = &p
	c.state.LastUpdated = now
	return nil
}

func validateName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	return nil
}

func validateBattery(level int) error {
	if level < 0 || level > 100 {
		return errs.NewValueIsOutOfRangeError("battery_level", level, 0, 100)
	}
	return nil
}

func validateAssignment(assignedTo, vehicleID *kernel.ID) error {
	if (assignedTo == nil) != (vehicleID == nil) {
		return errs.NewValueIsInvalidErrorWithCause("assignment",
			errors.New("assigned_to and vehicle_id must be both null or both set"))
	}
	if assignedTo != nil {
		return errors.Join(assignedTo.ValidateAs("assigned_to"), vehicleID.ValidateAs("vehicle_id"))
	}
	return nil
}
