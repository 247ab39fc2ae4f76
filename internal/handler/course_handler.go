package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/internal/service"
	"github.com/noah-isme/pathway-planner-api/pkg/response"
)

// CourseHandler exposes the pathway/course/offering catalog.
type CourseHandler struct {
	service *service.CatalogService
}

// NewCourseHandler creates a new catalog handler.
func NewCourseHandler(svc *service.CatalogService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// ListPathways godoc
// @Summary List pathways
// @Description List every defined course pathway
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /pathways [get]
func (h *CourseHandler) ListPathways(c *gin.Context) {
	pathways, err := h.service.ListPathways(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pathways, nil)
}

// GetPathway godoc
// @Summary Get pathway
// @Description Get a pathway's requirements
// @Tags Catalog
// @Produce json
// @Param id path string true "Pathway ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pathways/{id} [get]
func (h *CourseHandler) GetPathway(c *gin.Context) {
	pathway, err := h.service.GetPathway(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pathway, nil)
}

// ListOfferings godoc
// @Summary List offerings
// @Description List course offerings, optionally filtered by course code or term
// @Tags Catalog
// @Produce json
// @Param course_code query string false "Course code"
// @Param term_label query string false "Term label"
// @Success 200 {object} response.Envelope
// @Router /offerings [get]
func (h *CourseHandler) ListOfferings(c *gin.Context) {
	filter := models.OfferingFilter{
		CourseCode: strings.ToUpper(strings.TrimSpace(c.Query("course_code"))),
		TermLabel:  strings.TrimSpace(c.Query("term_label")),
	}
	offerings, err := h.service.ListOfferings(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offerings, nil)
}

// CheckEligibility godoc
// @Summary Check course eligibility
// @Description Check whether the given completed courses satisfy a course's prerequisites
// @Tags Catalog
// @Produce json
// @Param code path string true "Course code"
// @Param completed query string false "Comma-separated completed course codes"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{code}/eligibility [get]
func (h *CourseHandler) CheckEligibility(c *gin.Context) {
	completed := splitQueryList(c.Query("completed"))
	result, err := h.service.CheckEligibility(c.Request.Context(), c.Param("code"), completed)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func splitQueryList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
