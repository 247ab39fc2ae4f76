package planner

import "github.com/noah-isme/pathway-planner-api/internal/models"

// BuildPrereqMap collapses the prerequisite edge list into a course_code ->
// list-of-prerequisite-codes lookup.
func BuildPrereqMap(edges []models.PrerequisiteEdge) map[string][]string {
	prereqs := make(map[string][]string)
	for _, e := range edges {
		prereqs[e.CourseCode] = append(prereqs[e.CourseCode], e.RequiresCode)
	}
	return prereqs
}

// Eligible reports whether every prerequisite of code has already been
// completed. A course with no recorded prerequisites is always eligible.
func Eligible(code string, completed map[string]bool, prereqs map[string][]string) bool {
	for _, req := range prereqs[code] {
		if !completed[req] {
			return false
		}
	}
	return true
}

// BuildCoreqMap collapses the corequisite edge list into a course_code ->
// required-partner-code lookup used by the packer to enforce pairing.
func BuildCoreqMap(edges []models.CorequisiteEdge) map[string]string {
	coreqs := make(map[string]string)
	for _, e := range edges {
		coreqs[e.CourseCode] = e.WithCode
		coreqs[e.WithCode] = e.CourseCode
	}
	return coreqs
}
