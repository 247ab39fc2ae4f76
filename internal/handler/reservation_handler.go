package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pathway-planner-api/internal/dto"
	"github.com/noah-isme/pathway-planner-api/internal/service"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
	"github.com/noah-isme/pathway-planner-api/pkg/response"
)

// ReservationHandler wires HTTP endpoints to the reservation state machine.
type ReservationHandler struct {
	service *service.ReservationService
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: svc}
}

// Create godoc
// @Summary Hold a reservation
// @Description Place a time-limited hold on an offering's seats
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body dto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reservation request"))
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	seats := req.Seats
	if seats <= 0 {
		seats = 1
	}
	holdMinutes := -1
	if req.HoldMinutes != nil {
		holdMinutes = *req.HoldMinutes
	}
	reservation, err := h.service.Create(c.Request.Context(), req.OfferingID, claims.UserID, seats, holdMinutes, req.Notes, req.AllowOverfull)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reservation)
}

// Get godoc
// @Summary Get a reservation
// @Description Get a reservation by ID
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	reservation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// Commit godoc
// @Summary Commit a reservation
// @Description Convert a held reservation into a committed enrollment
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reservations/{id}/commit [post]
func (h *ReservationHandler) Commit(c *gin.Context) {
	allowOverfull := c.Query("allowOverfull") == "true"
	reservation, err := h.service.Commit(c.Request.Context(), c.Param("id"), allowOverfull)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// Release godoc
// @Summary Release a reservation
// @Description Cancel a held reservation, freeing its seats
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 204 {object} nil
// @Failure 409 {object} response.Envelope
// @Router /reservations/{id}/release [post]
func (h *ReservationHandler) Release(c *gin.Context) {
	if err := h.service.Release(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
