package model

import "time"

// ReservationLock is an advisory lock keyed by calendar day, held while a
// reservation's overlap check and insert run. It closes the
// time-of-check/time-of-use gap between two concurrent requests for the same
// slot. Locks auto-expire via a TTL index on expires_at.
type ReservationLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
