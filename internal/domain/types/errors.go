package types

import "errors"

var (
	ErrOfferConflict   = errors.New("order already taken by another courier")
	ErrOfferNotPending = errors.New("no offer is pending")
	ErrStatusAdvance   = errors.New("status advance rejected")
	ErrNoActiveOrder   = errors.New("no active order")
	ErrOrderFinished   = errors.New("order already in terminal stage")

	ErrProtocolViolation = errors.New("push protocol violation")
	ErrRouteUnavailable  = errors.New("route unavailable")
	ErrInvalidLocation   = errors.New("invalid location")
	ErrReconciliation    = errors.New("active order reconciliation failed")

	ErrPushChannelClosed = errors.New("push channel closed")
)
