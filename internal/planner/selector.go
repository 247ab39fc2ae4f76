package planner

import "github.com/noah-isme/pathway-planner-api/internal/models"

// SelectOfferings picks the best term-matching offering for each candidate
// course, sorted by (has space desc, instructor rating desc). Courses with
// no offering that term are always skipped. When the best section is full,
// the course is skipped unless allowOverfull, in which case that full
// section is selected.
func SelectOfferings(term string, courses []string, offerings []models.Offering, prefs models.StudentPreferences, allowOverfull bool) []models.Offering {
	// An offering labelled with a bare season ("Fall") recurs in that season
	// every year and matches any "<Season> <Year>" request.
	season, _, _ := ParseTerm(term)

	byCourse := make(map[string][]models.Offering)
	for _, o := range offerings {
		if o.TermLabel != term && o.TermLabel != season {
			continue
		}
		byCourse[o.CourseCode] = append(byCourse[o.CourseCode], o)
	}

	preferred := make(map[string]bool, len(prefs.PreferredInstructors))
	for _, name := range prefs.PreferredInstructors {
		preferred[name] = true
	}

	selected := make([]models.Offering, 0, len(courses))
	for _, code := range courses {
		candidates := byCourse[code]
		if len(candidates) == 0 {
			continue
		}
		best := rankOfferings(candidates, preferred)
		if best.HasSpace() || allowOverfull {
			selected = append(selected, best)
		}
	}
	return selected
}

// rankOfferings returns the top offering sorted by (has space desc,
// instructor rating desc), with a preferred-instructor match breaking ties.
func rankOfferings(candidates []models.Offering, preferred map[string]bool) models.Offering {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if betterOffering(c, best, preferred) {
			best = c
		}
	}
	return best
}

func betterOffering(a, b models.Offering, preferred map[string]bool) bool {
	if a.HasSpace() != b.HasSpace() {
		return a.HasSpace()
	}
	if a.InstructorRating != b.InstructorRating {
		return a.InstructorRating > b.InstructorRating
	}
	return preferred[a.Instructor] && !preferred[b.Instructor]
}
