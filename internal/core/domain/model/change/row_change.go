package change

import (
	"encoding/json"
	"fmt"

	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/location"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/pkg/errs"
)

// Table names the source of a row notification.
type Table string

const (
	TableOrders     Table = "orders"
	TableContainers Table = "containers"
	// TableLocations is a virtual table: location samples travel through the
	// same pipeline keyed by container id, with the sample time as version.
	TableLocations Table = "locations"
)

// RowChange is a raw notification as produced by the store's change stream.
type RowChange struct {
	Table   Table           `json:"table"`
	Op      string          `json:"op"`
	RowID   kernel.ID       `json:"row_id"`
	Version int64           `json:"version"`
	Before  json.RawMessage `json:"before,omitempty"`
	After   json.RawMessage `json:"after"`
}

// DedupeKey identifies one logical write.
type DedupeKey struct {
	Table   Table
	RowID   kernel.ID
	Version int64
}

func (c RowChange) DedupeKey() DedupeKey {
	return DedupeKey{Table: c.Table, RowID: c.RowID, Version: c.Version}
}

// OrderRowChange builds the notification for a committed order write.
func OrderRowChange(before *order.Order, after *order.Order) (RowChange, error) {
	var beforeSnap *OrderSnapshot
	if before != nil {
		s := SnapshotOrder(before)
		beforeSnap = &s
	}
	return newRowChange(TableOrders, after.ID(), after.Version(), beforeSnap, SnapshotOrder(after))
}

// ContainerRowChange builds the notification for a committed container write.
func ContainerRowChange(before *container.Container, after *container.Container) (RowChange, error) {
	var beforeSnap *ContainerSnapshot
	if before != nil {
		s := SnapshotContainer(before)
		beforeSnap = &s
	}
	return newRowChange(TableContainers, after.ID(), after.Version(), beforeSnap, SnapshotContainer(after))
}

// LocationRowChange wraps a sample for transports that only carry RowChange.
func LocationRowChange(s location.Sample) (RowChange, error) {
	return newRowChange[LocationSnapshot](TableLocations, s.ContainerID(), s.At().UnixNano(), nil, SnapshotSample(s))
}

func newRowChange[T any](table Table, id kernel.ID, version int64, before *T, after T) (RowChange, error) {
	rc := RowChange{Table: table, Op: "UPDATE", RowID: id, Version: version}
	if before == nil {
		rc.Op = "INSERT"
	} else {
		raw, err := json.Marshal(before)
		if err != nil {
			return RowChange{}, err
		}
		rc.Before = raw
	}

	raw, err := json.Marshal(after)
	if err != nil {
		return RowChange{}, err
	}
	rc.After = raw
	return rc, nil
}

// Decode turns a raw notification into a typed Event without sequence or time.
func Decode(rc RowChange) (Event, error) {
	switch rc.Table {
	case TableOrders:
		var after OrderSnapshot
		before, err := decodePair(rc, &after)
		if err != nil {
			return Event{}, err
		}
		e := Event{Kind: OrderChanged, Order: &after}
		if before != nil {
			var b OrderSnapshot
			if err = json.Unmarshal(before, &b); err != nil {
				return Event{}, fmt.Errorf("decode orders before image: %w", err)
			}
			e.OrderBefore = &b
		}
		return e, nil
	case TableContainers:
		var after ContainerSnapshot
		before, err := decodePair(rc, &after)
		if err != nil {
			return Event{}, err
		}
		e := Event{Kind: ContainerChanged, Container: &after}
		if before != nil {
			var b ContainerSnapshot
			if err = json.Unmarshal(before, &b); err != nil {
				return Event{}, fmt.Errorf("decode containers before image: %w", err)
			}
			e.ContainerBefore = &b
		}
		return e, nil
	case TableLocations:
		var loc LocationSnapshot
		if _, err := decodePair(rc, &loc); err != nil {
			return Event{}, err
		}
		return Event{Kind: LocationUpdated, Location: &loc}, nil
	}
	return Event{}, errs.NewValueIsInvalidErrorWithCause("table", fmt.Errorf("unsupported table %q", rc.Table))
}

func decodePair(rc RowChange, after any) (json.RawMessage, error) {
	if len(rc.After) == 0 {
		return nil, errs.NewValueIsRequiredError("after")
	}
	if err := json.Unmarshal(rc.After, after); err != nil {
		return nil, fmt.Errorf("decode %s after image: %w", rc.Table, err)
	}
	if len(rc.Before) == 0 || string(rc.Before) == "null" {
		return nil, nil
	}
	return rc.Before, nil
}
