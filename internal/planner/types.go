package planner

import "github.com/noah-isme/pathway-planner-api/internal/models"

// PlanRequest bundles everything a planning strategy needs: the pathway's
// remaining required courses, what has already been completed, the term
// offering catalog, the prerequisite/corequisite graphs, and the student's
// preferences and constraints.
type PlanRequest struct {
	PathwayCourses   []string
	CompletedCourses map[string]bool
	Offerings        []models.Offering
	Prereqs          map[string][]string
	// Coreqs is an optional same-term pairing constraint honored by the
	// packer. The planning service leaves it empty: the corequisite relation
	// is exposed to callers through the eligibility endpoint but is not
	// enforced when scheduling.
	Coreqs            map[string]string
	CourseCredits     map[string]int
	Preferences       models.StudentPreferences
	StartTerm         string
	MaxTerms          int
	MaxCreditsPerTerm int
	AllowOverfull     bool
	ReserveSeats      bool
}

// entryStatus snapshots an offering's enrollment state at plan emission.
func entryStatus(o models.Offering) string {
	if o.HasSpace() {
		return models.PlanEntryConfirmed
	}
	return models.PlanEntryFull
}

// ExactOptions bounds the branch-and-bound search run by PlanExact.
type ExactOptions struct {
	Timeout  int // seconds; zero means no deadline beyond MaxNodes
	MaxNodes int
}

func defaultMaxTerms(req PlanRequest) int {
	if req.MaxTerms > 0 {
		return req.MaxTerms
	}
	return 12
}

// defaultMaxCredits computes the effective cap: the request's
// max_credits_per_semester (default 15), overridden by the student's
// preference cap when that preference is smaller.
func defaultMaxCredits(req PlanRequest) int {
	effective := req.MaxCreditsPerTerm
	if effective <= 0 {
		effective = 15
	}
	if req.Preferences.MaxCreditsPerTerm > 0 && req.Preferences.MaxCreditsPerTerm < effective {
		effective = req.Preferences.MaxCreditsPerTerm
	}
	return effective
}

// remainingCourses returns the pathway courses not yet in completed.
func remainingCourses(req PlanRequest, completed map[string]bool) []string {
	remaining := make([]string, 0, len(req.PathwayCourses))
	for _, code := range req.PathwayCourses {
		if !completed[code] {
			remaining = append(remaining, code)
		}
	}
	return remaining
}

func cloneCompleted(src map[string]bool) map[string]bool {
	dst := make(map[string]bool, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func totalCredits(codes []string, courseCredits map[string]int) int {
	total := 0
	for _, c := range codes {
		total += courseCredits[c]
	}
	return total
}
