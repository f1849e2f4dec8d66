package services

import (
	"errors"
	"fmt"
	"time"

	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/core/domain/model/vehicle"
	"assetsync/internal/pkg/errs"
)

// AssignmentPolicy couples order transitions with the matching container
// assignment changes.
type AssignmentPolicy struct{}

func NewAssignmentPolicy() AssignmentPolicy {
	return AssignmentPolicy{}
}

// Take confirms o for operatorID/v and assigns c to the same pair.
//
// Errors:
//   - ConflictError when the order is already taken or the container is already assigned
//   - InvalidStateError when the order is terminal or does not reference c
//   - ValueIsInvalidError when v does not belong to operatorID
func (p AssignmentPolicy) Take(
	o *order.Order,
	c *container.Container,
	v *vehicle.Vehicle,
	operatorID kernel.ID,
	now time.Time,
) error {
	if err := errors.Join(o.Validate(), c.Validate(), v.Validate()); err != nil {
		return err
	}
	if err := p.checkContainer(o, c); err != nil {
		return err
	}
	if !v.BelongsTo(operatorID) {
		return errs.NewValueIsInvalidErrorWithCause("vehicle_id",
			fmt.Errorf("vehicle %s does not belong to operator %s", v.ID(), operatorID))
	}

	if err := o.Take(operatorID, v.ID(), now); err != nil {
		return err
	}

	return c.Assign(operatorID, v.ID(), now)
}

// Complete closes o and releases c, recording o as the container's complete_order.
func (p AssignmentPolicy) Complete(o *order.Order, c *container.Container, now time.Time) error {
	if err := errors.Join(o.Validate(), c.Validate()); err != nil {
		return err
	}
	if err := p.checkHeld(o, c); err != nil {
		return err
	}

	if err := o.Complete(now); err != nil {
		return err
	}

	return c.Release(o.ID(), true, now)
}

// Cancel closes o. A pending order has nothing to release and c may be nil;
// an active order releases c under the same guard as Complete.
func (p AssignmentPolicy) Cancel(o *order.Order, c *container.Container, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if !o.Status().IsActive() {
		return o.Cancel(now)
	}

	if err := c.Validate(); err != nil {
		return err
	}
	if err := p.checkHeld(o, c); err != nil {
		return err
	}

	if err := o.Cancel(now); err != nil {
		return err
	}

	return c.Release(o.ID(), false, now)
}

func (p AssignmentPolicy) checkContainer(o *order.Order, c *container.Container) error {
	if o.ContainerID() != c.ID() {
		return errs.NewInvalidStateError("order", o.ID(),
			fmt.Sprintf("references container %s, not %s", o.ContainerID(), c.ID()))
	}
	return nil
}

// checkHeld is the stale-state guard: the container must still be assigned to
// exactly the order's transporter and vehicle. A mismatch means an update was
// lost elsewhere and must be surfaced rather than overwritten.
func (p AssignmentPolicy) checkHeld(o *order.Order, c *container.Container) error {
	if !o.Status().IsActive() {
		return errs.NewInvalidStateError("order", o.ID(),
			fmt.Sprintf("%s is not a valid status to release", o.Status()))
	}
	if err := p.checkContainer(o, c); err != nil {
		return err
	}
	if !c.IsAssignedTo(*o.TransporterID(), *o.VehicleID()) {
		return errs.NewInvalidStateError("container", c.ID(),
			fmt.Sprintf("assignment does not match order %s", o.ID()))
	}
	return nil
}
