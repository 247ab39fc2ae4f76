package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

func TestPlanExactStraightLinePathway(t *testing.T) {
	plan, stats, err := PlanExact(straightLinePathwayRequest(), ExactOptions{Timeout: 5, MaxNodes: 10000})
	require.NoError(t, err)
	assert.False(t, plan.Unsatisfiable)
	assert.False(t, stats.TimedOut)
	assert.Greater(t, stats.Explored, 0)

	scheduled := map[string]bool{}
	for _, term := range plan.Terms {
		for _, e := range term.Entries {
			scheduled[e.CourseCode] = true
		}
	}
	assert.True(t, scheduled["CS101"])
	assert.True(t, scheduled["CS201"])
	assert.True(t, scheduled["CS301"])
}

func TestPlanExactNeverWorseThanGreedyInTermCount(t *testing.T) {
	req := straightLinePathwayRequest()

	greedyPlan, err := PlanGreedy(req)
	require.NoError(t, err)

	exactPlan, _, err := PlanExact(req, ExactOptions{Timeout: 5, MaxNodes: 50000})
	require.NoError(t, err)

	greedyLastTerm := lastScheduledTermIndex(greedyPlan)
	exactLastTerm := lastScheduledTermIndex(exactPlan)
	assert.LessOrEqual(t, exactLastTerm, greedyLastTerm)
}

func TestPlanExactBoundedByMaxNodes(t *testing.T) {
	req := straightLinePathwayRequest()
	_, stats, err := PlanExact(req, ExactOptions{Timeout: 5, MaxNodes: 1})
	require.NoError(t, err)
	assert.True(t, stats.TimedOut)
}

func lastScheduledTermIndex(plan models.Plan) int {
	last := -1
	for i, term := range plan.Terms {
		if len(term.Entries) > 0 {
			last = i
		}
	}
	return last
}
