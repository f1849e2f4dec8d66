// Package vehicle provides the read-only Vehicle entity owned by an operator.
package vehicle

import (
	"errors"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/errs"
	"assetsync/internal/pkg/guard"
)

var ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")

// Vehicle is registered outside this service; the engine only reads it to
// check ownership when an operator takes an order.
type Vehicle struct {
	id       kernel.ID
	ownerID  kernel.ID
	plate    string
	capacity int
	guard    guard.ConstructorGuard
}

func NewVehicle(id, ownerID kernel.ID, plate string, capacity int) (*Vehicle, error) {
	var plateErr, capacityErr error
	if plate == "" {
		plateErr = errs.NewValueIsRequiredError("plate")
	}
	if capacity < 0 {
		capacityErr = errs.NewValueIsOutOfRangeError("capacity", capacity, 0, "unbounded")
	}

	if err := errors.Join(
		id.ValidateAs("vehicle_id"),
		ownerID.ValidateAs("operator_id"),
		plateErr,
		capacityErr,
	); err != nil {
		return nil, err
	}

	return &Vehicle{
		id:       id,
		ownerID:  ownerID,
		plate:    plate,
		capacity: capacity,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

func (v *Vehicle) ID() kernel.ID      { return v.id }
func (v *Vehicle) OwnerID() kernel.ID { return v.ownerID }
func (v *Vehicle) Plate() string      { return v.plate }
func (v *Vehicle) Capacity() int      { return v.capacity }

// BelongsTo reports whether operatorID owns the vehicle.
func (v *Vehicle) BelongsTo(operatorID kernel.ID) bool {
	return v.ownerID == operatorID
}
