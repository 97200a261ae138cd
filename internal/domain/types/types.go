package types

// Enum для типов push-событий
type PushEventType string

func (t PushEventType) String() string {
	return string(t)
}

const (
	EventOrderAssigned      PushEventType = "ORDER_ASSIGNED"
	EventOrderStatusChanged PushEventType = "ORDER_STATUS_CHANGED"
)

// Enum для способа оплаты
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentWallet PaymentMethod = "WALLET"
)

// Enum для статуса курьера
type CourierStatus string

const (
	CourierOffline CourierStatus = "OFFLINE"
	CourierOnline  CourierStatus = "ONLINE"
	CourierBusy    CourierStatus = "BUSY"
)

// NoticeKind classifies transient user-facing notices. Notices are
// dismissible hints, they never block the delivery flow.
type NoticeKind string

const (
	NoticeOfferConflict  NoticeKind = "OFFER_CONFLICT"
	NoticeAdvanceFailed  NoticeKind = "ADVANCE_FAILED"
	NoticeOrderRecovered NoticeKind = "ORDER_RECOVERED"
)
