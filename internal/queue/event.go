// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingAuditEvent is published on every successful status move of a
// booking.  It carries enough information for the audit collaborator
// to persist a full trail without querying the primary database.
// ActorRole is SYSTEM for the payment-driven transition.
type BookingAuditEvent struct {
	BookingID      uint64 `json:"booking_id"`
	ActorID        uint64 `json:"actor_id"`
	ActorRole      string `json:"actor_role"`
	Decision       string `json:"decision"`
	PreviousStatus string `json:"previous_status"`
	NextStatus     string `json:"next_status"`
	Comment        string `json:"comment"`
	OccurredAt     string `json:"occurred_at"`
}
