package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pathway-planner-api/internal/dto"
	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/internal/service"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
	"github.com/noah-isme/pathway-planner-api/pkg/response"
)

// PlanHandler wires HTTP endpoints to the planning and export services.
type PlanHandler struct {
	plans  *service.PlanService
	export *service.ExportService
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(plans *service.PlanService, export *service.ExportService) *PlanHandler {
	return &PlanHandler{plans: plans, export: export}
}

// Generate godoc
// @Summary Generate a pathway plan
// @Description Run a planning strategy (greedy, loadbalance, exact) against a pathway's requirements
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Pathway ID"
// @Param payload body dto.PlanRequest true "Plan request"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /pathways/{id}/plan [post]
func (h *PlanHandler) Generate(c *gin.Context) {
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan request"))
		return
	}
	claims := claimsFromContext(c)
	userID := ""
	if claims != nil {
		userID = claims.UserID
	}

	result, err := h.plans.Generate(c.Request.Context(), userID, c.Param("id"), req, req.Exact)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Async {
		response.JSON(c, http.StatusAccepted, result, nil)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GetProposal godoc
// @Summary Get a plan proposal
// @Description Poll for the result of a previously requested plan, including async exact-strategy solves
// @Tags Plans
// @Produce json
// @Param proposalId path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{proposalId} [get]
func (h *PlanHandler) GetProposal(c *gin.Context) {
	result, err := h.plans.GetProposal(c.Param("proposalId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Async {
		response.JSON(c, http.StatusAccepted, result, nil)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Score godoc
// @Summary Score a plan
// @Description Re-score a cached proposal, or a plan supplied directly in the request body
// @Tags Plans
// @Accept json
// @Produce json
// @Param proposalId path string true "Proposal ID"
// @Param payload body dto.ScorePlanRequest false "Plan to score (optional; defaults to the cached proposal)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{proposalId}/score [post]
func (h *PlanHandler) Score(c *gin.Context) {
	var req dto.ScorePlanRequest
	_ = c.ShouldBindJSON(&req)

	claims := claimsFromContext(c)
	userID := ""
	if claims != nil {
		userID = claims.UserID
	}

	result, err := h.plans.Score(c.Request.Context(), userID, c.Param("proposalId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Export a plan
// @Description Render a cached plan proposal to CSV or PDF and return a signed download URL
// @Tags Plans
// @Produce json
// @Param proposalId path string true "Proposal ID"
// @Param format query string true "Export format (csv or pdf)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{proposalId}/export [get]
func (h *PlanHandler) Export(c *gin.Context) {
	format := models.PlanExportFormat(c.DefaultQuery("format", "csv"))
	if format != models.PlanExportFormatCSV && format != models.PlanExportFormatPDF {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}

	proposalID := c.Param("proposalId")
	proposal, err := h.plans.GetProposal(proposalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if proposal.Async {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "proposal is still being computed"))
		return
	}

	claims := claimsFromContext(c)
	createdBy := ""
	if claims != nil {
		createdBy = claims.UserID
	}

	job := &models.PlanExportJob{
		ID:         proposalID,
		ProposalID: proposalID,
		Plan:       proposal.Plan,
		Format:     format,
		CreatedBy:  createdBy,
	}
	result, err := h.export.Generate(job)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export plan"))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download an exported plan via signed token
// @Tags Plans
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/export/{token} [get]
func (h *PlanHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}
	_, relPath, _, err := h.export.ParseToken(token, false)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid or expired download token"))
		return
	}
	file, err := h.export.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export no longer available"))
		return
	}
	defer file.Close() //nolint:errcheck
	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export metadata"))
		return
	}
	contentType := "text/csv"
	if strings.HasSuffix(relPath, ".pdf") {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(relPath)))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
