// Package queue defines message payloads exchanged over the message broker.
package queue

// SequenceComputedEvent is published after a manifest is sequenced
// successfully.  It carries enough context for downstream consumers
// (gate displays, audit logging) without querying the primary database.
type SequenceComputedEvent struct {
	ManifestID     uint64 `json:"manifest_id,omitempty"`
	UploadedBy     uint64 `json:"uploaded_by"`
	Filename       string `json:"filename"`
	BookingCount   int    `json:"booking_count"`
	FirstBookingID int    `json:"first_booking_id"`
	LastBookingID  int    `json:"last_booking_id"`
	ComputedAt     string `json:"computed_at"`
}
