// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// ReservationConfirmedEvent is published when a booking is admitted. It
// carries enough information for downstream consumers to log, notify, or
// feed analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	TableID       uint64 `json:"table_id"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	Guests        int    `json:"guests"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// ReservationCanceledEvent is published when an owner cancels a
// reservation before it starts.
type ReservationCanceledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	TableID       uint64 `json:"table_id"`
	TableFreed    bool   `json:"table_freed"`
	CanceledAt    string `json:"canceled_at"`
}
