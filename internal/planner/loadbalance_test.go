package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

func TestPlanLoadBalanceSmoothsFrontLoadedPathway(t *testing.T) {
	offerings := make([]models.Offering, 0, 8)
	terms := []string{"Fall 2026", "Spring 2027", "Summer 2027", "Fall 2027"}
	codes := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for i, code := range codes {
		for _, term := range terms {
			offerings = append(offerings, models.Offering{
				ID: code + "-" + term, CourseCode: code, TermLabel: term, Capacity: 30,
				Days: "MWF", StartTime: "09:00", EndTime: "10:00",
			})
			_ = i
		}
	}

	req := PlanRequest{
		PathwayCourses:   codes,
		CompletedCourses: map[string]bool{},
		Offerings:        offerings,
		Prereqs:          map[string][]string{},
		CourseCredits: map[string]int{
			"A": 3, "B": 3, "C": 3, "D": 3, "E": 3, "F": 3, "G": 3, "H": 3,
		},
		StartTerm:         "Fall 2026",
		MaxTerms:          4,
		MaxCreditsPerTerm: 18,
	}

	plan, err := PlanLoadBalance(req)
	require.NoError(t, err)
	require.Len(t, plan.Terms, 4)

	// Load should be smoothed: no single term should carry dramatically more
	// than an even split of the 24 total credits across 4 terms (6/term).
	for _, term := range plan.Terms {
		assert.LessOrEqual(t, term.TotalCredits, 9, "load balancing should smooth credits across the horizon")
	}
}

func TestPlanLoadBalanceRequiresStartTerm(t *testing.T) {
	_, err := PlanLoadBalance(PlanRequest{})
	require.Error(t, err)
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 4, ceilDiv(10, 3))
	assert.Equal(t, 0, ceilDiv(0, 3))
	assert.Equal(t, 5, ceilDiv(5, 0))
}
