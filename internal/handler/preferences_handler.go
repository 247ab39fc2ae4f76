package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pathway-planner-api/internal/dto"
	"github.com/noah-isme/pathway-planner-api/internal/service"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
	"github.com/noah-isme/pathway-planner-api/pkg/response"
)

// PreferencesHandler wires HTTP endpoints to a student's scheduling preferences.
type PreferencesHandler struct {
	service *service.PreferencesService
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(svc *service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{service: svc}
}

// Get godoc
// @Summary Get scheduling preferences
// @Description Get a student's stored scheduling preferences
// @Tags Preferences
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /preferences/{id} [get]
func (h *PreferencesHandler) Get(c *gin.Context) {
	prefs, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, nil)
}

// Update godoc
// @Summary Update scheduling preferences
// @Description Create or replace a student's scheduling preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body dto.UpdatePreferencesRequest true "Preferences payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /preferences/{id} [put]
func (h *PreferencesHandler) Update(c *gin.Context) {
	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preferences payload"))
		return
	}
	prefs, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, nil)
}
