package http

import (
	"time"
)

// Error is the body of every non-2xx JSON response.
type Error struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type TakeOrderRequest struct {
	OperatorID int64 `json:"operator_id"`
	VehicleID  int64 `json:"vehicle_id"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status"`
}

// LocationReport is one GPS sample. ContainerID is ignored on the
// single-container endpoint, where the path names the container.
type LocationReport struct {
	ContainerID int64     `json:"container_id,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Timestamp   time.Time `json:"timestamp"`
}

type BatchError struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type BatchResponse struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Errors    []BatchError `json:"errors"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// StreamFeedParams defines parameters for StreamFeed.
type StreamFeedParams struct {
	// Scope is "all", "order:{id}" or "container:{id}". Defaults to all.
	Scope *string `form:"scope,omitempty" json:"scope,omitempty"`
}
