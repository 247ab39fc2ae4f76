package planner

import (
	"github.com/noah-isme/pathway-planner-api/internal/models"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
)

// PlanGreedy walks the pathway term by term: each iteration computes the
// eligible-and-not-completed courses, asks the selector for the best
// offering of each, hands the candidates to the packer, then advances the
// term and marks whatever was picked as completed.
func PlanGreedy(input PlanRequest) (models.Plan, error) {
	if input.StartTerm == "" {
		return models.Plan{}, appErrors.Clone(appErrors.ErrValidation, "start term is required")
	}

	maxTerms := defaultMaxTerms(input)
	maxCredits := defaultMaxCredits(input)
	completed := cloneCompleted(input.CompletedCourses)
	offerings := offeringPool(input)

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
			// Unmet prerequisites; no later term can make progress either.
			break
		}

		candidates := SelectOfferings(term, eligible, offerings, input.Preferences, input.AllowOverfull)
		candidates = filterHardPreferences(candidates, input.Preferences)

		picked, credits := Pack(candidates, maxCredits, input.CourseCredits, input.Coreqs, input.Preferences)

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

// offeringPool returns the request's offerings, copied when reserve-seats
// bookkeeping will mutate enrollment counts during planning.
func offeringPool(input PlanRequest) []models.Offering {
	if !input.ReserveSeats {
		return input.Offerings
	}
	return append([]models.Offering(nil), input.Offerings...)
}

// reserveSeats marks one seat taken on each picked offering so later terms
// (and the full/confirmed snapshot) see the reduced capacity. Persistence of
// the hold happens through the reservation service, not here.
func reserveSeats(pool []models.Offering, picked []models.Offering) {
	for _, p := range picked {
		for i := range pool {
			if pool[i].ID == p.ID {
				pool[i].Enrolled++
				break
			}
		}
	}
}

// filterHardPreferences drops offerings that violate a student's hard
// constraints before packing: offerings meeting on an unavailable day,
// starting before 10:00 when avoiding mornings, or starting at/after 18:00
// when avoiding evenings. These are hard exclusions, distinct from the
// scorer's soft penalties for the same preferences.
func filterHardPreferences(offerings []models.Offering, prefs models.StudentPreferences) []models.Offering {
	unavailable := make(map[rune]bool, len(prefs.UnavailableDays))
	for _, d := range prefs.UnavailableDays {
		for _, r := range d {
			unavailable[r] = true
		}
	}

	filtered := make([]models.Offering, 0, len(offerings))
	for _, o := range offerings {
		if len(unavailable) > 0 {
			days, err := ParseDays(o.Days)
			if err != nil {
				continue
			}
			blocked := false
			for d := range days {
				if unavailable[d] {
					blocked = true
					break
				}
			}
			if blocked {
				continue
			}
		}

		if prefs.AvoidMornings || prefs.AvoidEvenings {
			start, err := ParseClock(o.StartTime)
			if err == nil {
				if prefs.AvoidMornings && start < 10*60 {
					continue
				}
				if prefs.AvoidEvenings && start >= 18*60 {
					continue
				}
			}
		}

		filtered = append(filtered, o)
	}
	return filtered
}
