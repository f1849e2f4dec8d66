// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Timestamps are owned by the domain, so gorm's automatic time tracking is off.
// The json tags match the column names so a row_to_json image from the change
// trigger decodes into the same struct.
type OrderDTO struct {
	ID            int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CustomerID    int64      `gorm:"not null;index" json:"customer_id"`
	ContainerID   int64      `gorm:"not null;index" json:"container_id"`
	VehicleID     *int64     `gorm:"index" json:"vehicle_id"`
	TransporterID *int64     `gorm:"index" json:"transporter_id"`
	Status        string     `gorm:"type:varchar(16);not null;index" json:"status"`
	Price         float64    `gorm:"type:numeric(12,2);not null" json:"price"`
	PaymentStatus string     `gorm:"type:varchar(16);not null" json:"payment_status"`
	PickupLat     float64    `gorm:"not null" json:"pickup_lat"`
	PickupLng     float64    `gorm:"not null" json:"pickup_lng"`
	PickupAddress string     `gorm:"type:varchar(255)" json:"pickup_address"`
	DropLat       float64    `gorm:"not null" json:"drop_lat"`
	DropLng       float64    `gorm:"not null" json:"drop_lng"`
	DropAddress   string     `gorm:"type:varchar(255)" json:"drop_address"`
	AssignedAt    *time.Time `json:"assigned_at"`
	PickupTime    *time.Time `json:"pickup_time"`
	DeliveryTime  *time.Time `json:"delivery_time"`
	CurrentLat    *float64   `json:"current_lat"`
	CurrentLng    *float64   `json:"current_lng"`
	CreatedAt     time.Time  `gorm:"autoCreateTime:false;not null;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime:false;not null" json:"updated_at"`
	Version       int64      `gorm:"not null" json:"version"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// activeStatuses are the persisted names of order.Status values for which IsActive holds.
func activeStatuses() []string {
	return []string{
		order.Confirmed.String(),
		order.Processing.String(),
		order.Shipped.String(),
		order.Delivered.String(),
	}
}

// fromDomain maps the aggregate to a row. version is the value written to the row.
func fromDomain(o *order.Order, version int64) OrderDTO {
	st := o.State()
	dto := OrderDTO{
		ID:            st.ID.Int64(),
		CustomerID:    st.CustomerID.Int64(),
		ContainerID:   st.ContainerID.Int64(),
		VehicleID:     idPtr(st.VehicleID),
		TransporterID: idPtr(st.TransporterID),
		Status:        st.Status.String(),
		Price:         st.Price,
		PaymentStatus: string(st.PaymentStatus),
		PickupLat:     st.Pickup.Point.Lat(),
		PickupLng:     st.Pickup.Point.Lng(),
		PickupAddress: st.Pickup.Address,
		DropLat:       st.Drop.Point.Lat(),
		DropLng:       st.Drop.Point.Lng(),
		DropAddress:   st.Drop.Address,
		AssignedAt:    st.AssignedAt,
		PickupTime:    st.PickupTime,
		DeliveryTime:  st.DeliveryTime,
		CreatedAt:     st.CreatedAt,
		UpdatedAt:     st.UpdatedAt,
		Version:       version,
	}
	if st.Position != nil {
		lat, lng := st.Position.Lat(), st.Position.Lng()
		dto.CurrentLat, dto.CurrentLng = &lat, &lng
	}
	return dto
}

// toDomain rebuilds the aggregate through RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	pickup, err := stop(dto.PickupLat, dto.PickupLng, dto.PickupAddress)
	if err != nil {
		return nil, err
	}
	drop, err := stop(dto.DropLat, dto.DropLng, dto.DropAddress)
	if err != nil {
		return nil, err
	}

	var position *kernel.GeoPoint
	if dto.CurrentLat != nil && dto.CurrentLng != nil {
		p, pointErr := kernel.NewGeoPoint(*dto.CurrentLat, *dto.CurrentLng)
		if pointErr != nil {
			return nil, pointErr
		}
		position = &p
	}

	return order.RestoreOrder(order.State{
		ID:            kernel.ID(dto.ID),
		CustomerID:    kernel.ID(dto.CustomerID),
		ContainerID:   kernel.ID(dto.ContainerID),
		VehicleID:     kernelID(dto.VehicleID),
		TransporterID: kernelID(dto.TransporterID),
		Status:        status,
		Price:         dto.Price,
		PaymentStatus: order.PaymentStatus(dto.PaymentStatus),
		Pickup:        pickup,
		Drop:          drop,
		AssignedAt:    utc(dto.AssignedAt),
		PickupTime:    utc(dto.PickupTime),
		DeliveryTime:  utc(dto.DeliveryTime),
		Position:      position,
		CreatedAt:     dto.CreatedAt.UTC(),
		UpdatedAt:     dto.UpdatedAt.UTC(),
		Version:       dto.Version,
	})
}

func stop(lat, lng float64, address string) (order.Stop, error) {
	p, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return order.Stop{}, err
	}
	return order.Stop{Point: p, Address: address}, nil
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

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// DecodeRow rebuilds an order from a row_to_json image of the orders table.
func DecodeRow(raw json.RawMessage) (*order.Order, error) {
	var dto OrderDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode orders row: %w", err)
	}
	return toDomain(dto)
}
