package change

import (
	"time"

	"assetsync/internal/core/domain/model/kernel"
)

// Kind discriminates Event payloads.
type Kind string

const (
	OrderChanged     Kind = "order_changed"
	ContainerChanged Kind = "container_changed"
	LocationUpdated  Kind = "location_updated"
)

// Event is what subscribers receive. Exactly one of Order, Container or
// Location is set, according to Kind.
type Event struct {
	Kind            Kind               `json:"kind"`
	Sequence        uint64             `json:"sequence"`
	OccurredAt      time.Time          `json:"occurred_at"`
	Order           *OrderSnapshot     `json:"order,omitempty"`
	OrderBefore     *OrderSnapshot     `json:"order_before,omitempty"`
	Container       *ContainerSnapshot `json:"container,omitempty"`
	ContainerBefore *ContainerSnapshot `json:"container_before,omitempty"`
	Location        *LocationSnapshot  `json:"location,omitempty"`
}

// ContainerID returns the container the event concerns. Order events report
// the order's container.
func (e Event) ContainerID() kernel.ID {
	switch {
	case e.Container != nil:
		return e.Container.ID
	case e.Location != nil:
		return e.Location.ContainerID
	case e.Order != nil:
		return e.Order.ContainerID
	}
	return 0
}

// OrderID returns the order id for order events, zero otherwise.
func (e Event) OrderID() kernel.ID {
	if e.Order != nil {
		return e.Order.ID
	}
	return 0
}
