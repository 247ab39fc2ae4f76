// Package scorer scores a single term's selected offerings against conflict,
// gap, day-spread and preference criteria. The scorer is pure: given the
// same plan term, ratings and preferences it always returns the same score
// and breakdown.
package scorer

import (
	"sort"
	"strings"

	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/internal/planner"
)

// ScoreWeights holds every tunable coefficient in the scoring formula. All
// fields are overridable.
type ScoreWeights struct {
	Base                     float64
	ConflictPenalty          float64
	GapPenaltyPerMinute      float64
	DayPenaltyPerDay         float64
	CompactnessReward        float64
	RatingWeight             float64
	UnavailableDayPenalty    float64
	AvoidMorningPenalty      float64
	AvoidEveningPenalty      float64
	PreferredInstructorBonus float64
	OutsideWindowPenalty     float64
	MaxDaysPenalty           float64
	PreferredDayReward       float64
	PreferredLocationReward  float64
	PreferredTimeReward      float64
	MaxGapsPenaltyPerMinute  float64
	ContiguousBonus          float64
}

// DefaultWeights returns the tuned default coefficients.
func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		Base:                     500,
		ConflictPenalty:          1000,
		GapPenaltyPerMinute:      0.5,
		DayPenaltyPerDay:         75,
		CompactnessReward:        50,
		RatingWeight:             20,
		UnavailableDayPenalty:    500,
		AvoidMorningPenalty:      150,
		AvoidEveningPenalty:      150,
		PreferredInstructorBonus: 75,
		OutsideWindowPenalty:     200,
		MaxDaysPenalty:           100,
		PreferredDayReward:       50,
		PreferredLocationReward:  50,
		PreferredTimeReward:      50,
		MaxGapsPenaltyPerMinute:  1.0,
		ContiguousBonus:          100,
	}
}

// Conflict records a pair of entries that share a day and overlapping time.
type Conflict struct {
	Course1 string `json:"course1"`
	Course2 string `json:"course2"`
	Days    string `json:"days"`
}

// PreferenceAdjustment records a single preference-driven penalty or reward
// applied to one entry's offering.
type PreferenceAdjustment struct {
	CourseCode string  `json:"course"`
	Reason     string  `json:"reason"`
	Amount     float64 `json:"amount"`
}

// Breakdown exposes every intermediate quantity behind the final score, for
// display and debugging.
type Breakdown struct {
	Base                  float64                `json:"base"`
	ConflictCount         int                    `json:"conflict_count"`
	Conflicts             []Conflict             `json:"conflicts"`
	TotalGapsMinutes      int                    `json:"total_gaps_minutes"`
	DistinctDays          int                    `json:"distinct_days"`
	CompactnessBonus      float64                `json:"compactness_bonus"`
	AverageRating         *float64               `json:"avg_rating,omitempty"`
	PreferenceAdjustments []PreferenceAdjustment `json:"preference_adjustments"`
}

// Result is the full output of Score: the numeric score plus its breakdown
// and the weights that produced it.
type Result struct {
	Score     float64      `json:"score"`
	Breakdown Breakdown    `json:"breakdown"`
	Weights   ScoreWeights `json:"weights"`
}

var weekdayLetters = []rune{'M', 'T', 'W', 'R', 'F', 'S'}
var validDays = map[rune]bool{'M': true, 'T': true, 'W': true, 'R': true, 'F': true}

// Score evaluates a single planned term's offerings. offerings must be keyed
// by the term entries' OfferingID so the scorer can read days/times;
// callers typically pass the offerings the planner actually selected.
func Score(term models.PlanTerm, offerings map[string]models.Offering, ratings map[string]float64, prefs models.StudentPreferences, weights ScoreWeights) Result {
	entries := term.Entries
	resolved := make([]models.Offering, 0, len(entries))
	for _, e := range entries {
		if o, ok := offerings[e.OfferingID]; ok {
			resolved = append(resolved, o)
		}
	}

	conflicts := detectConflicts(resolved)
	totalGaps := totalGapMinutes(resolved)
	distinctDays := countDistinctDays(resolved)

	score := weights.Base
	score -= float64(len(conflicts)) * weights.ConflictPenalty
	score -= float64(totalGaps) * weights.GapPenaltyPerMinute
	score -= float64(distinctDays) * weights.DayPenaltyPerDay

	compactnessBonus := 0.0
	if maxDays := 5 - distinctDays; maxDays > 0 {
		compactnessBonus = float64(maxDays) * weights.CompactnessReward
	}
	score += compactnessBonus

	var avgRating *float64
	if len(resolved) > 0 && len(ratings) > 0 {
		sum, count := 0.0, 0
		for _, o := range resolved {
			if r, ok := ratings[o.Instructor]; ok {
				sum += r
				count++
			}
		}
		if count > 0 {
			avg := sum / float64(count)
			avgRating = &avg
			score += avg * weights.RatingWeight * float64(len(resolved))
		}
	}

	adjustments := preferenceAdjustments(resolved, prefs, weights, totalGaps)
	for _, adj := range adjustments {
		score += adj.Amount
	}

	return Result{
		Score: score,
		Breakdown: Breakdown{
			Base:                  weights.Base,
			ConflictCount:         len(conflicts),
			Conflicts:             conflicts,
			TotalGapsMinutes:      totalGaps,
			DistinctDays:          distinctDays,
			CompactnessBonus:      compactnessBonus,
			AverageRating:         avgRating,
			PreferenceAdjustments: adjustments,
		},
		Weights: weights,
	}
}

func detectConflicts(offerings []models.Offering) []Conflict {
	var conflicts []Conflict
	for i := 0; i < len(offerings); i++ {
		for j := i + 1; j < len(offerings); j++ {
			a, b := offerings[i], offerings[j]
			if !planner.Overlap(a, b) {
				continue
			}
			daysA, _ := planner.ParseDays(a.Days)
			daysB, _ := planner.ParseDays(b.Days)
			shared := make([]rune, 0)
			for d := range daysA {
				if daysB[d] {
					shared = append(shared, d)
				}
			}
			sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })
			sb := strings.Builder{}
			for _, r := range shared {
				sb.WriteRune(r)
			}
			conflicts = append(conflicts, Conflict{Course1: a.CourseCode, Course2: b.CourseCode, Days: sb.String()})
		}
	}
	return conflicts
}

func totalGapMinutes(offerings []models.Offering) int {
	total := 0
	for _, gaps := range gapMinutesByDay(offerings) {
		total += gaps
	}
	return total
}

// gapMinutesByDay sums the positive gaps between consecutive classes on
// each weekday, keyed by day letter, matching the scorer's per-day basis
// for both the aggregate gap penalty and the max_gaps_per_day preference.
func gapMinutesByDay(offerings []models.Offering) map[rune]int {
	perDay := make(map[rune]int, len(weekdayLetters))
	for _, day := range weekdayLetters {
		var dayOfferings []models.Offering
		for _, o := range offerings {
			days, err := planner.ParseDays(o.Days)
			if err != nil {
				continue
			}
			if days[day] {
				dayOfferings = append(dayOfferings, o)
			}
		}
		if len(dayOfferings) < 2 {
			continue
		}
		sort.Slice(dayOfferings, func(i, j int) bool {
			si, _ := planner.ParseClock(dayOfferings[i].StartTime)
			sj, _ := planner.ParseClock(dayOfferings[j].StartTime)
			return si < sj
		})
		for i := 1; i < len(dayOfferings); i++ {
			prevEnd, errA := planner.ParseClock(dayOfferings[i-1].EndTime)
			curStart, errB := planner.ParseClock(dayOfferings[i].StartTime)
			if errA != nil || errB != nil {
				continue
			}
			if gap := curStart - prevEnd; gap > 0 {
				perDay[day] += gap
			}
		}
	}
	return perDay
}

func countDistinctDays(offerings []models.Offering) int {
	seen := make(map[rune]bool)
	for _, o := range offerings {
		days, err := planner.ParseDays(o.Days)
		if err != nil {
			continue
		}
		for d := range days {
			if validDays[d] {
				seen[d] = true
			}
		}
	}
	return len(seen)
}

func preferenceAdjustments(offerings []models.Offering, prefs models.StudentPreferences, weights ScoreWeights, totalGaps int) []PreferenceAdjustment {
	var adjustments []PreferenceAdjustment

	unavailable := make(map[rune]bool, len(prefs.UnavailableDays))
	for _, d := range prefs.UnavailableDays {
		for _, r := range d {
			unavailable[r] = true
		}
	}
	preferredDays := make(map[rune]bool, len(prefs.PreferredDays))
	for _, d := range prefs.PreferredDays {
		for _, r := range d {
			preferredDays[r] = true
		}
	}
	preferredInstructors := make(map[string]bool, len(prefs.PreferredInstructors))
	for _, name := range prefs.PreferredInstructors {
		preferredInstructors[strings.ToLower(strings.TrimSpace(name))] = true
	}

	distinctDays := countDistinctDays(offerings)
	if prefs.MaxDaysPerWeek != nil && distinctDays > *prefs.MaxDaysPerWeek {
		adjustments = append(adjustments, PreferenceAdjustment{Reason: "max_days_exceeded", Amount: -weights.MaxDaysPenalty})
	}

	for _, o := range offerings {
		days, err := planner.ParseDays(o.Days)
		if err != nil {
			continue
		}
		start, startErr := planner.ParseClock(o.StartTime)
		end, endErr := planner.ParseClock(o.EndTime)

		for d := range days {
			if unavailable[d] {
				adjustments = append(adjustments, PreferenceAdjustment{CourseCode: o.CourseCode, Reason: "unavailable_day", Amount: -weights.UnavailableDayPenalty})
				break
			}
		}
		for d := range days {
			if preferredDays[d] {
				adjustments = append(adjustments, PreferenceAdjustment{CourseCode: o.CourseCode, Reason: "preferred_day", Amount: weights.PreferredDayReward})
				break
			}
		}

		if startErr == nil {
			if prefs.AvoidMornings && start < 10*60 {
				adjustments = append(adjustments, PreferenceAdjustment{CourseCode: o.CourseCode, Reason: "avoid_morning", Amount: -weights.AvoidMorningPenalty})
			}
			if prefs.EarliestStartMinute != nil && start < *prefs.EarliestStartMinute {
				adjustments = append(adjustments, PreferenceAdjustment{CourseCode: o.CourseCode, Reason: "before_earliest_start", Amount: -weights.OutsideWindowPenalty})
			}
			switch prefs.PreferredTimeOfDay {
			case "morning":
				if start < 12*60 {
					adjustments = append(adjustments, PreferenceAdjustment{CourseCode: o.CourseCode, Reason: "preferred_time_of_day", Amount: weights.PreferredTimeReward})
				}
			case "afternoon":
				if start >= 12*60 {
					adjustments = append(adjustments, PreferenceAdjustment{CourseCode: o.CourseCode, Reason: "preferred_time_of_day", Amount: weights.PreferredTimeReward})
				}
			}
		}
		if endErr == nil {
			if prefs.AvoidEvenings && end >= 18*60 {
				adjustments = append(adjustments, PreferenceAdjustment{CourseCode: o.CourseCode, Reason: "avoid_evening", Amount: -weights.AvoidEveningPenalty})
			}
			if prefs.LatestEndMinute != nil && end > *prefs.LatestEndMinute {
				adjustments = append(adjustments, PreferenceAdjustment{CourseCode: o.CourseCode, Reason: "after_latest_end", Amount: -weights.OutsideWindowPenalty})
			}
		}

		if o.Instructor != "" && preferredInstructors[strings.ToLower(strings.TrimSpace(o.Instructor))] {
			adjustments = append(adjustments, PreferenceAdjustment{CourseCode: o.CourseCode, Reason: "preferred_instructor", Amount: weights.PreferredInstructorBonus})
		}
		if prefs.PreferredLocation != "" && o.Room == prefs.PreferredLocation {
			adjustments = append(adjustments, PreferenceAdjustment{CourseCode: o.CourseCode, Reason: "preferred_location", Amount: weights.PreferredLocationReward})
		}
	}

	if prefs.MaxGapMinutesPerDay != nil {
		gapsByDay := gapMinutesByDay(offerings)
		for _, day := range weekdayLetters {
			gap := gapsByDay[day]
			if gap > *prefs.MaxGapMinutesPerDay {
				adjustments = append(adjustments, PreferenceAdjustment{Reason: "max_gaps_exceeded_" + string(day), Amount: -weights.MaxGapsPenaltyPerMinute * float64(gap-*prefs.MaxGapMinutesPerDay)})
			}
		}
	}

	if prefs.ContiguousClasses {
		contiguous := weights.ContiguousBonus - 0.2*float64(totalGaps)
		if contiguous > 0 {
			adjustments = append(adjustments, PreferenceAdjustment{Reason: "contiguous_bonus", Amount: contiguous})
		}
	}

	return adjustments
}

// ApplyOverrides copies weights with any recognized snake_case override
// applied. Unknown keys are ignored rather than rejected so callers can pass
// a raw client-supplied map.
func ApplyOverrides(weights ScoreWeights, overrides map[string]float64) ScoreWeights {
	for key, value := range overrides {
		switch key {
		case "base":
			weights.Base = value
		case "conflict_penalty":
			weights.ConflictPenalty = value
		case "gap_penalty_per_minute":
			weights.GapPenaltyPerMinute = value
		case "day_penalty_per_day":
			weights.DayPenaltyPerDay = value
		case "compactness_reward":
			weights.CompactnessReward = value
		case "rating_weight":
			weights.RatingWeight = value
		case "unavailable_day_penalty":
			weights.UnavailableDayPenalty = value
		case "avoid_morning_penalty":
			weights.AvoidMorningPenalty = value
		case "avoid_evening_penalty":
			weights.AvoidEveningPenalty = value
		case "preferred_instructor_reward":
			weights.PreferredInstructorBonus = value
		case "outside_window_penalty":
			weights.OutsideWindowPenalty = value
		case "max_days_penalty":
			weights.MaxDaysPenalty = value
		case "preferred_day_reward":
			weights.PreferredDayReward = value
		case "preferred_location_reward":
			weights.PreferredLocationReward = value
		case "preferred_time_reward":
			weights.PreferredTimeReward = value
		case "max_gaps_penalty_per_minute":
			weights.MaxGapsPenaltyPerMinute = value
		case "contiguous_bonus":
			weights.ContiguousBonus = value
		}
	}
	return weights
}
