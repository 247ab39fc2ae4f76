package planner

import (
	"sort"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

// preferredInstructorBonus biases selection toward preferred-instructor
// sections without counting toward the credit cap.
const preferredInstructorBonus = 0.1

// bundle is the atomic selection unit the packer searches over: either a
// single offering, or a corequisite pair that must be taken together. weight
// is credits plus the preferred-instructor bonus; the cap is always checked
// against credits, never weight.
type bundle struct {
	offerings []models.Offering
	credits   int
	weight    float64
}

// packerState carries the working set and best-so-far solution through the
// backtracking search.
type packerState struct {
	bundles    []bundle
	maxCredits int
	best       []models.Offering
	bestCredit int
	bestWeight float64
}

// Pack searches candidates (already filtered to a single term) for the
// conflict-free subset with the highest total weighted credits that does not
// exceed maxCredits. Corequisite pairs in coreqs are only selected together;
// if a course's corequisite partner isn't among the candidates, that course
// is dropped from consideration entirely. The search sorts bundles by weight
// descending so heavy courses are considered first, pruning branches that
// already exceed the cap or introduce a day/time conflict with the current
// selection.
func Pack(candidates []models.Offering, maxCredits int, courseCredits map[string]int, coreqs map[string]string, prefs models.StudentPreferences) (picked []models.Offering, totalCredits int) {
	preferred := make(map[string]bool, len(prefs.PreferredInstructors))
	for _, name := range prefs.PreferredInstructors {
		preferred[name] = true
	}

	bundles := buildBundles(candidates, courseCredits, coreqs, preferred)
	sort.SliceStable(bundles, func(i, j int) bool {
		return bundles[i].weight > bundles[j].weight
	})

	state := &packerState{bundles: bundles, maxCredits: maxCredits}
	state.dfs(0, nil, 0, 0)
	return state.best, state.bestCredit
}

// buildBundles groups candidates into corequisite pairs where both halves
// are present, and drops any candidate whose declared partner is absent.
func buildBundles(candidates []models.Offering, courseCredits map[string]int, coreqs map[string]string, preferred map[string]bool) []bundle {
	byCourse := make(map[string]models.Offering, len(candidates))
	for _, o := range candidates {
		byCourse[o.CourseCode] = o
	}

	weightOf := func(o models.Offering) float64 {
		w := float64(courseCredits[o.CourseCode])
		if preferred[o.Instructor] {
			w += preferredInstructorBonus
		}
		return w
	}

	bundles := make([]bundle, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, o := range candidates {
		if seen[o.CourseCode] {
			continue
		}
		partnerCode, hasCoreq := coreqs[o.CourseCode]
		if !hasCoreq {
			bundles = append(bundles, bundle{
				offerings: []models.Offering{o},
				credits:   courseCredits[o.CourseCode],
				weight:    weightOf(o),
			})
			seen[o.CourseCode] = true
			continue
		}
		partner, ok := byCourse[partnerCode]
		if !ok {
			// Partner not offered this term; the pair cannot be satisfied.
			seen[o.CourseCode] = true
			continue
		}
		if seen[partner.CourseCode] {
			continue
		}
		bundles = append(bundles, bundle{
			offerings: []models.Offering{o, partner},
			credits:   courseCredits[o.CourseCode] + courseCredits[partner.CourseCode],
			weight:    weightOf(o) + weightOf(partner),
		})
		seen[o.CourseCode] = true
		seen[partner.CourseCode] = true
	}
	return bundles
}

func (s *packerState) dfs(idx int, current []models.Offering, currentCredit int, currentWeight float64) {
	if currentWeight > s.bestWeight {
		s.bestWeight = currentWeight
		s.bestCredit = currentCredit
		s.best = append([]models.Offering(nil), current...)
	}
	if idx >= len(s.bundles) {
		return
	}

	b := s.bundles[idx]

	if currentCredit+b.credits <= s.maxCredits && canPlaceAll(b.offerings, current) {
		placed := append(append([]models.Offering(nil), current...), b.offerings...)
		s.dfs(idx+1, placed, currentCredit+b.credits, currentWeight+b.weight)
	}

	// Skip this bundle.
	s.dfs(idx+1, current, currentCredit, currentWeight)
}

func canPlaceAll(candidates []models.Offering, current []models.Offering) bool {
	for _, candidate := range candidates {
		for _, picked := range current {
			if picked.CourseCode == candidate.CourseCode {
				return false
			}
			if Overlap(picked, candidate) {
				return false
			}
		}
	}
	return true
}
