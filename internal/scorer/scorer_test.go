package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

func TestScoreConflictFreeBeatsConflicting(t *testing.T) {
	offerings := map[string]models.Offering{
		"o1": {ID: "o1", CourseCode: "CS101", Days: "MWF", StartTime: "09:00", EndTime: "10:00", Instructor: "A"},
		"o2": {ID: "o2", CourseCode: "CS201", Days: "MWF", StartTime: "10:00", EndTime: "11:00", Instructor: "B"},
		"o3": {ID: "o3", CourseCode: "CS301", Days: "MWF", StartTime: "09:30", EndTime: "10:30", Instructor: "C"},
	}

	conflictFree := models.PlanTerm{Entries: []models.PlanEntry{{OfferingID: "o1"}, {OfferingID: "o2"}}}
	conflicting := models.PlanTerm{Entries: []models.PlanEntry{{OfferingID: "o1"}, {OfferingID: "o3"}}}

	weights := DefaultWeights()
	freeResult := Score(conflictFree, offerings, nil, models.StudentPreferences{}, weights)
	conflictResult := Score(conflicting, offerings, nil, models.StudentPreferences{}, weights)

	assert.Equal(t, 0, freeResult.Breakdown.ConflictCount)
	assert.Equal(t, 1, conflictResult.Breakdown.ConflictCount)
	assert.Greater(t, freeResult.Score, conflictResult.Score)
}

func TestScorePreferencePenaltiesChangeOutcome(t *testing.T) {
	offerings := map[string]models.Offering{
		"morning": {ID: "morning", CourseCode: "CS101", Days: "MWF", StartTime: "08:00", EndTime: "09:00"},
	}
	term := models.PlanTerm{Entries: []models.PlanEntry{{OfferingID: "morning"}}}

	weights := DefaultWeights()
	plain := Score(term, offerings, nil, models.StudentPreferences{}, weights)
	avoidMornings := Score(term, offerings, nil, models.StudentPreferences{AvoidMornings: true}, weights)

	assert.Greater(t, plain.Score, avoidMornings.Score)

	found := false
	for _, adj := range avoidMornings.Breakdown.PreferenceAdjustments {
		if adj.Reason == "avoid_morning" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScorePreferredInstructorBonus(t *testing.T) {
	offerings := map[string]models.Offering{
		"o1": {ID: "o1", CourseCode: "CS101", Days: "MWF", StartTime: "10:00", EndTime: "11:00", Instructor: "Ada Lovelace"},
	}
	term := models.PlanTerm{Entries: []models.PlanEntry{{OfferingID: "o1"}}}

	weights := DefaultWeights()
	plain := Score(term, offerings, nil, models.StudentPreferences{}, weights)
	preferred := Score(term, offerings, nil, models.StudentPreferences{PreferredInstructors: []string{"Ada Lovelace"}}, weights)

	assert.Greater(t, preferred.Score, plain.Score)
}

func TestScoreAverageRatingContributes(t *testing.T) {
	offerings := map[string]models.Offering{
		"o1": {ID: "o1", CourseCode: "CS101", Days: "MWF", StartTime: "10:00", EndTime: "11:00", Instructor: "Ada"},
	}
	term := models.PlanTerm{Entries: []models.PlanEntry{{OfferingID: "o1"}}}
	ratings := map[string]float64{"Ada": 4.5}

	withRating := Score(term, offerings, ratings, models.StudentPreferences{}, DefaultWeights())
	require := withRating.Breakdown.AverageRating
	assert.NotNil(t, require)
	assert.Equal(t, 4.5, *require)
}

func TestScoreMaxGapsPerDayIsPerDayNotWeekly(t *testing.T) {
	// Two courses on Monday with a 50-minute gap; two more on Wednesday with
	// a 15-minute gap. The weekly total (65) exceeds a 60-minute cap, but no
	// single day does, so a per-day check must not penalize this.
	offerings := map[string]models.Offering{
		"mon1": {ID: "mon1", CourseCode: "CS101", Days: "M", StartTime: "09:00", EndTime: "10:00"},
		"mon2": {ID: "mon2", CourseCode: "CS102", Days: "M", StartTime: "10:50", EndTime: "11:50"},
		"wed1": {ID: "wed1", CourseCode: "CS201", Days: "W", StartTime: "09:00", EndTime: "10:00"},
		"wed2": {ID: "wed2", CourseCode: "CS202", Days: "W", StartTime: "10:15", EndTime: "11:00"},
	}
	term := models.PlanTerm{Entries: []models.PlanEntry{
		{OfferingID: "mon1"}, {OfferingID: "mon2"}, {OfferingID: "wed1"}, {OfferingID: "wed2"},
	}}
	maxGap := 60
	prefs := models.StudentPreferences{MaxGapMinutesPerDay: &maxGap}

	result := Score(term, offerings, nil, prefs, DefaultWeights())
	for _, adj := range result.Breakdown.PreferenceAdjustments {
		assert.False(t, strings.HasPrefix(adj.Reason, "max_gaps_exceeded"), "no day individually exceeds the cap, got %q", adj.Reason)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	offerings := map[string]models.Offering{
		"o1": {ID: "o1", CourseCode: "CS101", Days: "MWF", StartTime: "10:00", EndTime: "11:00"},
	}
	term := models.PlanTerm{Entries: []models.PlanEntry{{OfferingID: "o1"}}}

	first := Score(term, offerings, nil, models.StudentPreferences{}, DefaultWeights())
	second := Score(term, offerings, nil, models.StudentPreferences{}, DefaultWeights())
	assert.Equal(t, first.Score, second.Score)
}

func TestScoreAvoidMorningDeltaIsExactlyThePenalty(t *testing.T) {
	offerings := map[string]models.Offering{
		"morning":   {ID: "morning", CourseCode: "CS101", Days: "MWF", StartTime: "08:30", EndTime: "09:30"},
		"afternoon": {ID: "afternoon", CourseCode: "CS102", Days: "MWF", StartTime: "13:00", EndTime: "14:00"},
	}
	prefs := models.StudentPreferences{AvoidMornings: true}
	weights := DefaultWeights()

	morning := Score(models.PlanTerm{Entries: []models.PlanEntry{{OfferingID: "morning"}}}, offerings, nil, prefs, weights)
	afternoon := Score(models.PlanTerm{Entries: []models.PlanEntry{{OfferingID: "afternoon"}}}, offerings, nil, prefs, weights)

	assert.InDelta(t, weights.AvoidMorningPenalty, afternoon.Score-morning.Score, 1e-9)
}

func TestScoreContiguousBonusRequiresPreference(t *testing.T) {
	offerings := map[string]models.Offering{
		"o1": {ID: "o1", CourseCode: "CS101", Days: "MWF", StartTime: "09:00", EndTime: "10:00"},
		"o2": {ID: "o2", CourseCode: "CS201", Days: "MWF", StartTime: "10:00", EndTime: "11:00"},
	}
	term := models.PlanTerm{Entries: []models.PlanEntry{{OfferingID: "o1"}, {OfferingID: "o2"}}}
	weights := DefaultWeights()

	plain := Score(term, offerings, nil, models.StudentPreferences{}, weights)
	contiguous := Score(term, offerings, nil, models.StudentPreferences{ContiguousClasses: true}, weights)

	for _, adj := range plain.Breakdown.PreferenceAdjustments {
		assert.NotEqual(t, "contiguous_bonus", adj.Reason)
	}
	// Back-to-back classes with no gaps earn the full bonus.
	assert.InDelta(t, weights.ContiguousBonus, contiguous.Score-plain.Score, 1e-9)
}
