package models

import "time"

// ReservationStatus enumerates the reservation state machine.
type ReservationStatus string

const (
	ReservationHeld      ReservationStatus = "held"
	ReservationCommitted ReservationStatus = "committed"
	ReservationReleased  ReservationStatus = "released"
	ReservationExpired   ReservationStatus = "expired"
)

// Reservation represents a student's hold or commit against an offering's seats.
type Reservation struct {
	ID         string            `db:"id" json:"id"`
	OfferingID string            `db:"offering_id" json:"offering_id"`
	UserID     string            `db:"user_id" json:"user_id"`
	Status     ReservationStatus `db:"status" json:"status"`
	Seats      int               `db:"seats" json:"seats"`
	Notes      string            `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	ExpiresAt  *time.Time        `db:"expires_at" json:"expires_at,omitempty"`
}
