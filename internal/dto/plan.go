package dto

import (
	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/internal/scorer"
)

// PlanRequest is the body of POST /pathways/:id/plan.
type PlanRequest struct {
	Strategy          string   `json:"strategy" validate:"required,oneof=greedy loadbalance exact"`
	CompletedCourses  []string `json:"completedCourses"`
	MaxCreditsPerTerm int      `json:"maxCreditsPerTerm" validate:"omitempty,min=1,max=30"`
	StartTerm         string   `json:"startTerm" validate:"required"`
	MaxTerms          int      `json:"maxTerms" validate:"omitempty,min=1,max=24"`
	AllowOverfull     bool     `json:"allowOverfull"`
	ReserveSeats      bool     `json:"reserveSeats"`

	// Exact carries branch-and-bound bounds; ignored unless strategy=exact.
	Exact ExactOptions `json:"exact"`
}

// ExactOptions carries the branch-and-bound bounds when strategy=exact.
type ExactOptions struct {
	TimeoutSeconds int `json:"timeoutSeconds" validate:"omitempty,min=1,max=120"`
	MaxNodes       int `json:"maxNodes" validate:"omitempty,min=1"`
}

// PlanResponse returns a generated proposal.
type PlanResponse struct {
	ProposalID string              `json:"proposalId"`
	Plan       models.Plan         `json:"plan"`
	Stats      *models.SolverStats `json:"stats,omitempty"`
	Async      bool                `json:"async,omitempty"`
}

// ScorePlanRequest re-scores a cached (or supplied) plan. Weights entries
// override individual scoring coefficients by their snake_case name.
type ScorePlanRequest struct {
	Plan    *models.Plan       `json:"plan,omitempty"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// TermScore pairs a term label with its full scoring result.
type TermScore struct {
	TermLabel string        `json:"term_label"`
	Result    scorer.Result `json:"result"`
}

// ScorePlanResponse returns the per-term score breakdown.
type ScorePlanResponse struct {
	ProposalID string              `json:"proposalId"`
	Terms      []TermScore         `json:"terms"`
	Total      float64             `json:"total"`
	Weights    scorer.ScoreWeights `json:"weights"`
}

// EligibilityResponse answers GET /courses/:code/eligibility. Corequisites
// lists the course's declared same-term partners for the caller's benefit;
// the planner does not enforce the pairing.
type EligibilityResponse struct {
	CourseCode   string   `json:"course_code"`
	Eligible     bool     `json:"eligible"`
	Missing      []string `json:"missing,omitempty"`
	Corequisites []string `json:"corequisites,omitempty"`
}
