package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

func TestPackMaximizesCreditsUnderCap(t *testing.T) {
	candidates := []models.Offering{
		{CourseCode: "CS201", Days: "MWF", StartTime: "09:00", EndTime: "10:00"},
		{CourseCode: "MATH201", Days: "MWF", StartTime: "09:30", EndTime: "10:30"}, // conflicts with CS201
		{CourseCode: "HIST101", Days: "TR", StartTime: "09:00", EndTime: "10:15"},
	}
	credits := map[string]int{"CS201": 4, "MATH201": 4, "HIST101": 3}

	picked, total := Pack(candidates, 12, credits, nil, models.StudentPreferences{})
	assert.Equal(t, 7, total)
	codes := courseCodes(picked)
	assert.ElementsMatch(t, []string{"CS201", "HIST101"}, codes)
}

func TestPackRespectsCreditCap(t *testing.T) {
	candidates := []models.Offering{
		{CourseCode: "A", Days: "M", StartTime: "09:00", EndTime: "10:00"},
		{CourseCode: "B", Days: "T", StartTime: "09:00", EndTime: "10:00"},
		{CourseCode: "C", Days: "W", StartTime: "09:00", EndTime: "10:00"},
	}
	credits := map[string]int{"A": 5, "B": 5, "C": 5}

	_, total := Pack(candidates, 10, credits, nil, models.StudentPreferences{})
	assert.LessOrEqual(t, total, 10)
}

func TestPackNeverOverlapsInResult(t *testing.T) {
	candidates := []models.Offering{
		{CourseCode: "A", Days: "MWF", StartTime: "09:00", EndTime: "10:00"},
		{CourseCode: "B", Days: "MWF", StartTime: "09:30", EndTime: "10:30"},
		{CourseCode: "C", Days: "MWF", StartTime: "10:00", EndTime: "11:00"},
	}
	credits := map[string]int{"A": 3, "B": 3, "C": 3}

	picked, _ := Pack(candidates, 20, credits, nil, models.StudentPreferences{})
	for i := 0; i < len(picked); i++ {
		for j := i + 1; j < len(picked); j++ {
			assert.False(t, Overlap(picked[i], picked[j]), "packer must never return an overlapping pair")
		}
	}
}

func TestPackCorequisitesTakenTogetherOrNotAtAll(t *testing.T) {
	candidates := []models.Offering{
		{CourseCode: "CHEM101", Days: "MWF", StartTime: "09:00", EndTime: "10:00"},
		{CourseCode: "CHEM101L", Days: "T", StartTime: "13:00", EndTime: "15:00"},
	}
	credits := map[string]int{"CHEM101": 3, "CHEM101L": 1}
	coreqs := map[string]string{"CHEM101": "CHEM101L", "CHEM101L": "CHEM101"}

	picked, total := Pack(candidates, 10, credits, coreqs, models.StudentPreferences{})
	assert.Equal(t, 4, total)
	assert.ElementsMatch(t, []string{"CHEM101", "CHEM101L"}, courseCodes(picked))
}

func TestPackDropsCourseWhenCoreqPartnerMissing(t *testing.T) {
	candidates := []models.Offering{
		{CourseCode: "CHEM101", Days: "MWF", StartTime: "09:00", EndTime: "10:00"},
	}
	credits := map[string]int{"CHEM101": 3}
	coreqs := map[string]string{"CHEM101": "CHEM101L", "CHEM101L": "CHEM101"}

	picked, total := Pack(candidates, 10, credits, coreqs, models.StudentPreferences{})
	assert.Empty(t, picked)
	assert.Equal(t, 0, total)
}

func TestPackPrefersPreferredInstructorOnCreditTie(t *testing.T) {
	// A and B conflict, carry equal credits, and both fit under the cap; only
	// the preferred-instructor weight separates them.
	candidates := []models.Offering{
		{CourseCode: "A", Instructor: "Prof. Adams", Days: "MWF", StartTime: "09:00", EndTime: "10:00"},
		{CourseCode: "B", Instructor: "Prof. Brown", Days: "MWF", StartTime: "09:30", EndTime: "10:30"},
	}
	credits := map[string]int{"A": 3, "B": 3}
	prefs := models.StudentPreferences{PreferredInstructors: []string{"Prof. Brown"}}

	picked, total := Pack(candidates, 3, credits, nil, prefs)
	assert.Equal(t, 3, total, "instructor bonus must not count toward the credit cap")
	assert.ElementsMatch(t, []string{"B"}, courseCodes(picked))
}

func courseCodes(offerings []models.Offering) []string {
	codes := make([]string, 0, len(offerings))
	for _, o := range offerings {
		codes = append(codes, o.CourseCode)
	}
	return codes
}
