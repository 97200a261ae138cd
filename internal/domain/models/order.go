package models

import (
	"github.com/google/uuid"

	"github.com/quickeats/courier-client/internal/domain/types"
)

// Place is an order endpoint. Location may be the backend's (0,0)
// sentinel, so callers must check Location.Valid() before use.
type Place struct {
	Name     string   `json:"name,omitempty"`
	Address  string   `json:"address"`
	Location Location `json:"location"`
}

// OrderOffer is a proposed order awaiting accept/reject within the
// countdown deadline. It lives only in memory until resolved.
type OrderOffer struct {
	ID            uuid.UUID           `json:"order_id"`
	NetEarning    float64             `json:"net_earning"`
	OrderValue    float64             `json:"order_value"`
	DistanceKm    float64             `json:"distance_km"`
	Pickup        Place               `json:"pickup"`
	Dropoff       Place               `json:"dropoff"`
	PaymentMethod types.PaymentMethod `json:"payment_method"`
}

type Earnings struct {
	NetEarning float64 `json:"net_earning"`
	Subtotal   float64 `json:"subtotal"`
}

// ActiveOrder is the single mutable snapshot of the accepted order.
// Only the stage tracker writes it, everything else reads copies.
type ActiveOrder struct {
	ID             uuid.UUID   `json:"order_id"`
	Stage          types.Stage `json:"stage"`
	DriverLocation *Location   `json:"driver_location,omitempty"`
	Pickup         Place       `json:"pickup"`
	Dropoff        Place       `json:"dropoff"`
	Earnings       Earnings    `json:"earnings"`
}

// RouteLeg is one routed segment (courier→pickup or pickup→dropoff).
// A nil leg means the routing provider gave nothing and rendering falls
// back to the straight line between the logical endpoints.
type RouteLeg struct {
	Geometry        []Location `json:"geometry"`
	DistanceMeters  float64    `json:"distance_meters"`
	DurationSeconds float64    `json:"duration_seconds"`
}

// Notice is a transient, dismissible message surfaced to the courier.
type Notice struct {
	Kind    types.NoticeKind `json:"kind"`
	Message string           `json:"message"`
}
