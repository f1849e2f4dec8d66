// Package containerrepo provides data transfer objects and mapping functions for
// container and vehicle persistence.
package containerrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/vehicle"
)

// ContainerDTO represents the database structure for persisting container aggregates.
// The json tags match the column names so a row_to_json image from the change
// trigger decodes into the same struct.
type ContainerDTO struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Temperature   float64   `gorm:"not null;default:0" json:"temperature"`
	Humidity      float64   `gorm:"not null;default:0" json:"humidity"`
	BatteryLevel  int       `gorm:"not null;default:0" json:"battery_level"`
	Status        string    `gorm:"type:varchar(16);not null" json:"status"`
	AssignedTo    *int64    `gorm:"index" json:"assigned_to"`
	VehicleID     *int64    `json:"vehicle_id"`
	CompleteOrder *int64    `json:"complete_order"`
	LocationLat   *float64  `json:"location_lat"`
	LocationLng   *float64  `json:"location_lng"`
	CurrentLat    *float64  `json:"current_lat"`
	CurrentLng    *float64  `json:"current_lng"`
	LastUpdated   time.Time `gorm:"not null" json:"last_updated"`
	Version       int64     `gorm:"not null" json:"version"`
}

// TableName specifies the database table name for container entities.
func (ContainerDTO) TableName() string {
	return "containers"
}

// VehicleDTO represents the database structure for vehicles owned by operators.
type VehicleDTO struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false"`
	OwnerID  int64  `gorm:"not null;index"`
	Plate    string `gorm:"type:varchar(32);not null"`
	Capacity int    `gorm:"not null"`
}

// TableName specifies the database table name for vehicle entities.
func (VehicleDTO) TableName() string {
	return "vehicles"
}

// fromDomain maps the aggregate to a row. version is the value written to the row.
func fromDomain(c *container.Container, version int64) ContainerDTO {
	st := c.State()
	dto := ContainerDTO{
		ID:            st.ID.Int64(),
		Name:          st.Name,
		Temperature:   st.Telemetry.Temperature,
		Humidity:      st.Telemetry.Humidity,
		BatteryLevel:  st.Telemetry.BatteryLevel,
		Status:        st.Status.String(),
		AssignedTo:    idPtr(st.AssignedTo),
		VehicleID:     idPtr(st.VehicleID),
		CompleteOrder: idPtr(st.CompleteOrder),
		LastUpdated:   st.LastUpdated,
		Version:       version,
	}
	dto.LocationLat, dto.LocationLng = coords(st.Location)
	dto.CurrentLat, dto.CurrentLng = coords(st.Position)
	return dto
}

// toDomain rebuilds the aggregate through RestoreContainer.
func toDomain(dto ContainerDTO) (*container.Container, error) {
	loc, err := point(dto.LocationLat, dto.LocationLng)
	if err != nil {
		return nil, err
	}
	pos, err := point(dto.CurrentLat, dto.CurrentLng)
	if err != nil {
		return nil, err
	}

	return container.RestoreContainer(container.State{
		ID:   kernel.ID(dto.ID),
		Name: dto.Name,
		Telemetry: container.Telemetry{
			Temperature:  dto.Temperature,
			Humidity:     dto.Humidity,
			BatteryLevel: dto.BatteryLevel,
		},
		Status:        container.Status(dto.Status),
		AssignedTo:    kernelID(dto.AssignedTo),
		VehicleID:     kernelID(dto.VehicleID),
		CompleteOrder: kernelID(dto.CompleteOrder),
		Location:      loc,
		Position:      pos,
		LastUpdated:   dto.LastUpdated.UTC(),
		Version:       dto.Version,
	})
}

func vehicleFromDomain(v *vehicle.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:       v.ID().Int64(),
		OwnerID:  v.OwnerID().Int64(),
		Plate:    v.Plate(),
		Capacity: v.Capacity(),
	}
}

func vehicleToDomain(dto VehicleDTO) (*vehicle.Vehicle, error) {
	return vehicle.NewVehicle(kernel.ID(dto.ID), kernel.ID(dto.OwnerID), dto.Plate, dto.Capacity)
}

// coords splits an optional point into nullable columns.
func coords(p *kernel.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	lat, lng := p.Lat(), p.Lng()
	return &lat, &lng
}

func point(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func idPtr(id *kernel.ID) *int64 {
	if id == nil {
		return nil
	}
	v := id.Int64()
	return &v
}

func kernelID(v *int64) *kernel.ID {
	if v == nil {
		return nil
	}
	id := kernel.ID(*v)
	return &id
}

// DecodeRow rebuilds a container from a row_to_json image of the containers table.
func DecodeRow(raw json.RawMessage) (*container.Container, error) {
	var dto ContainerDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode containers row: %w", err)
	}
	return toDomain(dto)
}
