package dto

import "github.com/noah-isme/pathway-planner-api/internal/models"

// CreateReservationRequest is the body of POST /reservations. HoldMinutes
// is a pointer so an explicit 0 (commit window closes immediately) can be
// distinguished from an omitted field (use the service default).
type CreateReservationRequest struct {
	OfferingID    string `json:"offeringId" validate:"required"`
	Seats         int    `json:"seats" validate:"omitempty,min=1"`
	HoldMinutes   *int   `json:"holdMinutes" validate:"omitempty,min=0,max=1440"`
	Notes         string `json:"notes" validate:"omitempty,max=500"`
	AllowOverfull bool   `json:"allowOverfull"`
}

// ReservationResponse wraps models.Reservation for API responses.
type ReservationResponse struct {
	models.Reservation
}
