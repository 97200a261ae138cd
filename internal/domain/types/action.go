package types

const (
	ActionPushConnected    = "push_connected"
	ActionPushDisconnected = "push_disconnected"
	ActionPushReconnected  = "push_reconnection_success"
	ActionPushDropped      = "push_message_dropped"

	ActionOfferReceived = "offer_received"
	ActionOfferAccepted = "offer_accepted"
	ActionOfferRejected = "offer_rejected"
	ActionOfferExpired  = "offer_expired"
	ActionOfferConflict = "offer_conflict"

	ActionStageAdvanced  = "stage_advanced"
	ActionStageOverwrite = "stage_push_overwrite"
	ActionOrderCleared   = "order_cleared"
	ActionReconciliation = "active_order_reconciliation"

	ActionRouteFetch    = "route_fetch"
	ActionRouteStale    = "route_fetch_stale_discarded"
	ActionRouteFallback = "route_fallback_straight_line"

	ActionExternalServiceFailed = "external_service_failed"
)
