package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

func TestBuildPrereqMap(t *testing.T) {
	edges := []models.PrerequisiteEdge{
		{CourseCode: "CS201", RequiresCode: "CS101"},
		{CourseCode: "CS201", RequiresCode: "MATH101"},
		{CourseCode: "CS301", RequiresCode: "CS201"},
	}

	got := BuildPrereqMap(edges)
	assert.ElementsMatch(t, []string{"CS101", "MATH101"}, got["CS201"])
	assert.ElementsMatch(t, []string{"CS201"}, got["CS301"])
	assert.Nil(t, got["CS101"])
}

func TestEligible(t *testing.T) {
	prereqs := map[string][]string{
		"CS201": {"CS101", "MATH101"},
	}

	assert.True(t, Eligible("CS101", map[string]bool{}, prereqs), "course with no prereqs is always eligible")
	assert.False(t, Eligible("CS201", map[string]bool{"CS101": true}, prereqs), "missing prereq blocks eligibility")
	assert.True(t, Eligible("CS201", map[string]bool{"CS101": true, "MATH101": true}, prereqs))
}

func TestBuildCoreqMap(t *testing.T) {
	edges := []models.CorequisiteEdge{
		{CourseCode: "CHEM101", WithCode: "CHEM101L"},
	}

	got := BuildCoreqMap(edges)
	assert.Equal(t, "CHEM101L", got["CHEM101"])
	assert.Equal(t, "CHEM101", got["CHEM101L"])
}
