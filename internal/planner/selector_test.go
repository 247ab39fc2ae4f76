package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

func TestSelectOfferingsPrefersSeatsThenRating(t *testing.T) {
	offerings := []models.Offering{
		{ID: "full", CourseCode: "CS201", TermLabel: "Fall 2026", Capacity: 10, Enrolled: 10, InstructorRating: 4.9},
		{ID: "open-low-rating", CourseCode: "CS201", TermLabel: "Fall 2026", Capacity: 10, Enrolled: 2, InstructorRating: 3.5},
		{ID: "open-high-rating", CourseCode: "CS201", TermLabel: "Fall 2026", Capacity: 10, Enrolled: 2, InstructorRating: 4.2},
		{ID: "other-term", CourseCode: "CS201", TermLabel: "Spring 2027", Capacity: 10, Enrolled: 0, InstructorRating: 5.0},
	}

	got := SelectOfferings("Fall 2026", []string{"CS201"}, offerings, models.StudentPreferences{}, false)
	assert.Len(t, got, 1)
	assert.Equal(t, "open-high-rating", got[0].ID)
}

func TestSelectOfferingsSkipsCoursesWithNoTermOffering(t *testing.T) {
	offerings := []models.Offering{
		{ID: "a", CourseCode: "CS201", TermLabel: "Fall 2026", Capacity: 10, Enrolled: 0},
	}

	got := SelectOfferings("Fall 2026", []string{"CS201", "MATH201"}, offerings, models.StudentPreferences{}, false)
	assert.Len(t, got, 1)
	assert.Equal(t, "CS201", got[0].CourseCode)
}

func TestSelectOfferingsAllowOverfull(t *testing.T) {
	offerings := []models.Offering{
		{ID: "full", CourseCode: "CS201", TermLabel: "Fall 2026", Capacity: 10, Enrolled: 10},
	}

	withoutOverfull := SelectOfferings("Fall 2026", []string{"CS201"}, offerings, models.StudentPreferences{}, false)
	assert.Empty(t, withoutOverfull)

	withOverfull := SelectOfferings("Fall 2026", []string{"CS201"}, offerings, models.StudentPreferences{}, true)
	assert.Len(t, withOverfull, 1)
}

func TestSelectOfferingsPreferredInstructorBreaksRatingTie(t *testing.T) {
	offerings := []models.Offering{
		{ID: "a", CourseCode: "CS201", TermLabel: "Fall 2026", Capacity: 10, Enrolled: 0, InstructorRating: 4.0, Instructor: "Ada Lovelace"},
		{ID: "b", CourseCode: "CS201", TermLabel: "Fall 2026", Capacity: 10, Enrolled: 0, InstructorRating: 4.0, Instructor: "Grace Hopper"},
	}

	prefs := models.StudentPreferences{PreferredInstructors: []string{"Grace Hopper"}}
	got := SelectOfferings("Fall 2026", []string{"CS201"}, offerings, prefs, false)
	assert.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestSelectOfferingsMatchesRecurringSeasonLabel(t *testing.T) {
	offerings := []models.Offering{
		{ID: "recurring", CourseCode: "CS201", TermLabel: "Fall", Capacity: 10, Enrolled: 0},
	}

	for _, term := range []string{"Fall 2026", "Fall 2027"} {
		got := SelectOfferings(term, []string{"CS201"}, offerings, models.StudentPreferences{}, false)
		assert.Len(t, got, 1, "season-only offerings recur every year")
	}

	got := SelectOfferings("Spring 2027", []string{"CS201"}, offerings, models.StudentPreferences{}, false)
	assert.Empty(t, got)
}
