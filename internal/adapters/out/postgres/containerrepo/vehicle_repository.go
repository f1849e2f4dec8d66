package containerrepo

import (
	"context"
	"errors"

	"assetsync/internal/adapters/out/postgres/pgerr"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/vehicle"
	"assetsync/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormVehicleRepository implements VehicleRepository using GORM.
type GormVehicleRepository struct {
	db *gorm.DB
}

func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

func (r *GormVehicleRepository) Add(ctx context.Context, v *vehicle.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}

	dto := vehicleFromDomain(v)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Map(err, "vehicles", v.ID(), 0)
	}
	return nil
}

func (r *GormVehicleRepository) Get(ctx context.Context, id kernel.ID) (*vehicle.Vehicle, error) {
	if err := id.ValidateAs("vehicle_id"); err != nil {
		return nil, err
	}

	var dto VehicleDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Int64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vehicle", id)
		}
		return nil, pgerr.Map(err, "vehicles", id, 0)
	}

	return vehicleToDomain(dto)
}
