package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

func straightLinePathwayRequest() PlanRequest {
	return PlanRequest{
		PathwayCourses:   []string{"CS101", "CS201", "CS301"},
		CompletedCourses: map[string]bool{},
		Offerings: []models.Offering{
			{ID: "o1", CourseCode: "CS101", TermLabel: "Fall 2026", Capacity: 30, Days: "MWF", StartTime: "09:00", EndTime: "10:00"},
			{ID: "o2", CourseCode: "CS201", TermLabel: "Spring 2027", Capacity: 30, Days: "MWF", StartTime: "09:00", EndTime: "10:00"},
			{ID: "o3", CourseCode: "CS301", TermLabel: "Summer 2027", Capacity: 30, Days: "MWF", StartTime: "09:00", EndTime: "10:00"},
		},
		Prereqs: map[string][]string{
			"CS201": {"CS101"},
			"CS301": {"CS201"},
		},
		CourseCredits:     map[string]int{"CS101": 3, "CS201": 3, "CS301": 3},
		StartTerm:         "Fall 2026",
		MaxTerms:          6,
		MaxCreditsPerTerm: 15,
	}
}

func TestPlanGreedyStraightLinePathway(t *testing.T) {
	plan, err := PlanGreedy(straightLinePathwayRequest())
	require.NoError(t, err)
	assert.False(t, plan.Unsatisfiable)
	assert.Len(t, plan.Terms, 3)
	assert.Equal(t, "Fall 2026", plan.Terms[0].TermLabel)
	assert.Equal(t, "CS101", plan.Terms[0].Entries[0].CourseCode)
	assert.Equal(t, "Spring 2027", plan.Terms[1].TermLabel)
	assert.Equal(t, "CS201", plan.Terms[1].Entries[0].CourseCode)
}

func TestPlanGreedyUnsatisfiableWhenPrereqCycle(t *testing.T) {
	req := PlanRequest{
		PathwayCourses:   []string{"A", "B"},
		CompletedCourses: map[string]bool{},
		Offerings: []models.Offering{
			{ID: "oa", CourseCode: "A", TermLabel: "Fall 2026", Capacity: 10},
			{ID: "ob", CourseCode: "B", TermLabel: "Fall 2026", Capacity: 10},
		},
		Prereqs: map[string][]string{
			"A": {"B"},
			"B": {"A"},
		},
		CourseCredits:     map[string]int{"A": 3, "B": 3},
		StartTerm:         "Fall 2026",
		MaxTerms:          3,
		MaxCreditsPerTerm: 15,
	}

	plan, err := PlanGreedy(req)
	require.NoError(t, err)
	assert.True(t, plan.Unsatisfiable)
	assert.ElementsMatch(t, []string{"A", "B"}, plan.UnmetCourses)
}

func TestPlanGreedyCompetingElectivesPicksAvailableSeat(t *testing.T) {
	req := PlanRequest{
		PathwayCourses:   []string{"ELEC1"},
		CompletedCourses: map[string]bool{},
		Offerings: []models.Offering{
			{ID: "full", CourseCode: "ELEC1", TermLabel: "Fall 2026", Capacity: 5, Enrolled: 5, InstructorRating: 4.8},
			{ID: "open", CourseCode: "ELEC1", TermLabel: "Fall 2026", Capacity: 5, Enrolled: 1, InstructorRating: 3.9},
		},
		Prereqs:           map[string][]string{},
		CourseCredits:     map[string]int{"ELEC1": 3},
		StartTerm:         "Fall 2026",
		MaxTerms:          1,
		MaxCreditsPerTerm: 15,
	}

	plan, err := PlanGreedy(req)
	require.NoError(t, err)
	require.Len(t, plan.Terms, 1)
	require.Len(t, plan.Terms[0].Entries, 1)
	assert.Equal(t, "open", plan.Terms[0].Entries[0].OfferingID)
}

func TestPlanGreedyRequiresStartTerm(t *testing.T) {
	_, err := PlanGreedy(PlanRequest{})
	require.Error(t, err)
}

func TestPlanGreedyDropsMorningOfferingWhenAvoidingMornings(t *testing.T) {
	req := PlanRequest{
		PathwayCourses:   []string{"CS101"},
		CompletedCourses: map[string]bool{},
		Offerings: []models.Offering{
			{ID: "morning", CourseCode: "CS101", TermLabel: "Fall 2026", Capacity: 30, Days: "MWF", StartTime: "08:30", EndTime: "09:20"},
		},
		Prereqs:           map[string][]string{},
		CourseCredits:     map[string]int{"CS101": 3},
		Preferences:       models.StudentPreferences{AvoidMornings: true},
		StartTerm:         "Fall 2026",
		MaxTerms:          2,
		MaxCreditsPerTerm: 15,
	}

	plan, err := PlanGreedy(req)
	require.NoError(t, err)
	assert.True(t, plan.Unsatisfiable)
	assert.ElementsMatch(t, []string{"CS101"}, plan.UnmetCourses)
}

func TestDefaultMaxCreditsTakesTheSmallerCap(t *testing.T) {
	assert.Equal(t, 15, defaultMaxCredits(PlanRequest{}))
	assert.Equal(t, 12, defaultMaxCredits(PlanRequest{MaxCreditsPerTerm: 18, Preferences: models.StudentPreferences{MaxCreditsPerTerm: 12}}))
	assert.Equal(t, 18, defaultMaxCredits(PlanRequest{MaxCreditsPerTerm: 18, Preferences: models.StudentPreferences{MaxCreditsPerTerm: 20}}))
	assert.Equal(t, 15, defaultMaxCredits(PlanRequest{Preferences: models.StudentPreferences{MaxCreditsPerTerm: 20}}))
}

func TestPlanGreedyStampsEntryStatus(t *testing.T) {
	req := PlanRequest{
		PathwayCourses:   []string{"CS101", "CS102"},
		CompletedCourses: map[string]bool{},
		Offerings: []models.Offering{
			{ID: "open", CourseCode: "CS101", TermLabel: "Fall 2026", Capacity: 30, Enrolled: 1},
			{ID: "packed", CourseCode: "CS102", TermLabel: "Fall 2026", Capacity: 5, Enrolled: 5},
		},
		Prereqs:           map[string][]string{},
		CourseCredits:     map[string]int{"CS101": 3, "CS102": 3},
		StartTerm:         "Fall 2026",
		MaxTerms:          1,
		MaxCreditsPerTerm: 15,
		AllowOverfull:     true,
	}

	plan, err := PlanGreedy(req)
	require.NoError(t, err)
	require.Len(t, plan.Terms, 1)

	statuses := map[string]string{}
	for _, entry := range plan.Terms[0].Entries {
		statuses[entry.CourseCode] = entry.Status
	}
	assert.Equal(t, models.PlanEntryConfirmed, statuses["CS101"])
	assert.Equal(t, models.PlanEntryFull, statuses["CS102"])
}

func TestPlanGreedyReserveSeatsDoesNotMutateCallerOfferings(t *testing.T) {
	req := PlanRequest{
		PathwayCourses:   []string{"CS101", "CS201"},
		CompletedCourses: map[string]bool{},
		Offerings: []models.Offering{
			{ID: "seat1", CourseCode: "CS101", TermLabel: "Fall", Capacity: 1, Enrolled: 0},
			{ID: "seat1b", CourseCode: "CS201", TermLabel: "Fall", Capacity: 1, Enrolled: 0},
		},
		Prereqs:           map[string][]string{"CS201": {"CS101"}},
		CourseCredits:     map[string]int{"CS101": 3, "CS201": 3},
		StartTerm:         "Fall 2026",
		MaxTerms:          6,
		MaxCreditsPerTerm: 15,
		ReserveSeats:      true,
	}

	plan, err := PlanGreedy(req)
	require.NoError(t, err)
	assert.False(t, plan.Unsatisfiable)

	// The caller's offering slice is untouched; bookkeeping is per request.
	assert.Equal(t, 0, req.Offerings[0].Enrolled)
}
