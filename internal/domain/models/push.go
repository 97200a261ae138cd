package models

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/quickeats/courier-client/internal/domain/types"
)

/* ======================= push channel ======================= */

// PushMessage is the envelope delivered on the per-courier channel.
// Data is decoded by the router based on Type.
type PushMessage struct {
	Type types.PushEventType `json:"type"`
	Data json.RawMessage     `json:"data"`
}

// OrderAssignedMessage is the ORDER_ASSIGNED payload: a pre-computed
// assignment the courier may accept or reject.
type OrderAssignedMessage struct {
	OrderID       uuid.UUID           `json:"order_id"`
	NetEarning    float64             `json:"net_earning"`
	OrderValue    float64             `json:"order_value"`
	DistanceKm    float64             `json:"distance_km"`
	Pickup        Place               `json:"pickup"`
	Dropoff       Place               `json:"dropoff"`
	PaymentMethod types.PaymentMethod `json:"payment_method"`
}

// Offer converts the payload into the in-memory offer model.
func (m OrderAssignedMessage) Offer() OrderOffer {
	return OrderOffer{
		ID:            m.OrderID,
		NetEarning:    m.NetEarning,
		OrderValue:    m.OrderValue,
		DistanceKm:    m.DistanceKm,
		Pickup:        m.Pickup,
		Dropoff:       m.Dropoff,
		PaymentMethod: m.PaymentMethod,
	}
}

// OrderStatusMessage is the ORDER_STATUS_CHANGED payload. The server is
// authoritative: the whole local snapshot is replaced with these values.
type OrderStatusMessage struct {
	OrderID        uuid.UUID   `json:"order_id"`
	Stage          types.Stage `json:"stage"`
	DriverLocation *Location   `json:"driver_location,omitempty"`
	Pickup         *Place      `json:"pickup,omitempty"`
	Dropoff        *Place      `json:"dropoff,omitempty"`
	Earnings       *Earnings   `json:"earnings,omitempty"`
}
