package change

import (
	"time"

	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/location"
	"assetsync/internal/core/domain/model/order"
)

// OrderSnapshot is the subscriber-visible projection of an order row.
type OrderSnapshot struct {
	ID            kernel.ID  `json:"id"`
	CustomerID    kernel.ID  `json:"customer_id"`
	ContainerID   kernel.ID  `json:"container_id"`
	VehicleID     *kernel.ID `json:"vehicle_id"`
	TransporterID *kernel.ID `json:"transporter_id"`
	Status        string     `json:"status"`
	Price         float64    `json:"price"`
	PaymentStatus string     `json:"payment_status"`
	AssignedAt    *time.Time `json:"assigned_at"`
	PickupTime    *time.Time `json:"pickup_time"`
	DeliveryTime  *time.Time `json:"delivery_time"`
	CurrentLat    *float64   `json:"current_lat"`
	CurrentLng    *float64   `json:"current_lng"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Version       int64      `json:"version"`
}

// ContainerSnapshot is the subscriber-visible projection of a container row.
type ContainerSnapshot struct {
	ID            kernel.ID  `json:"id"`
	Name          string     `json:"name"`
	Temperature   float64    `json:"temperature"`
	Humidity      float64    `json:"humidity"`
	BatteryLevel  int        `json:"battery_level"`
	Status        string     `json:"status"`
	AssignedTo    *kernel.ID `json:"assigned_to"`
	VehicleID     *kernel.ID `json:"vehicle_id"`
	CompleteOrder *kernel.ID `json:"complete_order"`
	CurrentLat    *float64   `json:"current_lat"`
	CurrentLng    *float64   `json:"current_lng"`
	LastUpdated   time.Time  `json:"last_updated"`
	Version       int64      `json:"version"`
}

// LocationSnapshot is a single position sample.
type LocationSnapshot struct {
	ContainerID kernel.ID `json:"container_id"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Timestamp   time.Time `json:"timestamp"`
}

func SnapshotOrder(o *order.Order) OrderSnapshot {
	s := OrderSnapshot{
		ID:            o.ID(),
		CustomerID:    o.CustomerID(),
		ContainerID:   o.ContainerID(),
		VehicleID:     o.VehicleID(),
		TransporterID: o.TransporterID(),
		Status:        o.Status().String(),
		Price:         o.Price(),
		PaymentStatus: string(o.PaymentStatus()),
		AssignedAt:    o.AssignedAt(),
		PickupTime:    o.PickupTime(),
		DeliveryTime:  o.DeliveryTime(),
		UpdatedAt:     o.UpdatedAt(),
		Version:       o.Version(),
	}
	if p := o.Position(); p != nil {
		s.CurrentLat, s.CurrentLng = coords(*p)
	}
	return s
}

func SnapshotContainer(c *container.Container) ContainerSnapshot {
	t := c.Telemetry()
	s := ContainerSnapshot{
		ID:            c.ID(),
		Name:          c.Name(),
		Temperature:   t.Temperature,
		Humidity:      t.Humidity,
		BatteryLevel:  t.BatteryLevel,
		Status:        c.Status().String(),
		AssignedTo:    c.AssignedTo(),
		VehicleID:     c.VehicleID(),
		CompleteOrder: c.CompleteOrder(),
		LastUpdated:   c.LastUpdated(),
		Version:       c.Version(),
	}
	if p := c.Position(); p != nil {
		s.CurrentLat, s.CurrentLng = coords(*p)
	}
	return s
}

func SnapshotSample(s location.Sample) LocationSnapshot {
	return LocationSnapshot{
		ContainerID: s.ContainerID(),
		Lat:         s.Point().Lat(),
		Lng:         s.Point().Lng(),
		Timestamp:   s.At(),
	}
}

func coords(p kernel.GeoPoint) (*float64, *float64) {
	lat, lng := p.Lat(), p.Lng()
	return &lat, &lng
}
