package planner

import (
	"github.com/noah-isme/pathway-planner-api/internal/models"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
)

// PlanLoadBalance runs the same term-by-term loop as PlanGreedy, but caps
// every term's packer at min(effectiveMaxCredits, ceil(totalRemainingCredits
// / maxTerms)), computed once up front, so the plan's workload is smoothed
// across the horizon instead of front-loading every term to the hard cap.
func PlanLoadBalance(input PlanRequest) (models.Plan, error) {
	if input.StartTerm == "" {
		return models.Plan{}, appErrors.Clone(appErrors.ErrValidation, "start term is required")
	}

	maxTerms := defaultMaxTerms(input)
	effectiveMaxCredits := defaultMaxCredits(input)
	completed := cloneCompleted(input.CompletedCourses)
	offerings := offeringPool(input)

	targetCredits := ceilDiv(totalCredits(remainingCourses(input, completed), input.CourseCredits), maxTerms)
	termCap := effectiveMaxCredits
	if targetCredits > 0 && targetCredits < termCap {
		termCap = targetCredits
	}

	plan := models.Plan{}
	term := input.StartTerm

	for t := 0; t < maxTerms; t++ {
		remaining := remainingCourses(input, completed)
		if len(remaining) == 0 {
			break
		}

		eligible := make([]string, 0, len(remaining))
		for _, code := range remaining {
			if Eligible(code, completed, input.Prereqs) {
				eligible = append(eligible, code)
			}
		}
		if len(eligible) == 0 {
			break
		}

		candidates := SelectOfferings(term, eligible, offerings, input.Preferences, input.AllowOverfull)
		candidates = filterHardPreferences(candidates, input.Preferences)

		picked, credits := Pack(candidates, termCap, input.CourseCredits, input.Coreqs, input.Preferences)

		planTerm := models.PlanTerm{TermLabel: term, TotalCredits: credits}
		for _, o := range picked {
			planTerm.Entries = append(planTerm.Entries, models.PlanEntry{
				CourseCode: o.CourseCode,
				OfferingID: o.ID,
				Credits:    input.CourseCredits[o.CourseCode],
				Status:     entryStatus(o),
			})
			completed[o.CourseCode] = true
		}
		if input.ReserveSeats {
			reserveSeats(offerings, picked)
		}
		plan.Terms = append(plan.Terms, planTerm)

		next, err := NextTerm(term)
		if err != nil {
			return models.Plan{}, err
		}
		term = next
	}

	unmet := remainingCourses(input, completed)
	if len(unmet) > 0 {
		plan.Unsatisfiable = true
		plan.UnmetCourses = unmet
	}

	return plan, nil
}

func ceilDiv(numerator, denominator int) int {
	if denominator <= 0 {
		return numerator
	}
	if numerator <= 0 {
		return 0
	}
	return (numerator + denominator - 1) / denominator
}
