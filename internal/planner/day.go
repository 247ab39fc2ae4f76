// Package planner implements the course-pathway scheduling strategies:
// day/time primitives, prerequisite eligibility, offering selection, the
// conflict-free packer, and the greedy, load-balancing and exact planners.
package planner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/pathway-planner-api/internal/models"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
)

// validDayLetters restricts day codes to the standard weekday set used by
// offerings: Monday, Tuesday, Wednesday, Thursday (R), Friday, Saturday,
// Sunday.
var validDayLetters = map[rune]bool{
	'M': true, 'T': true, 'W': true, 'R': true, 'F': true, 'S': true, 'U': true,
}

// ParseDays expands a compressed day code such as "MWF" or "TR" into the set
// of single-letter days it represents. "TR" means Tuesday+Thursday, not the
// two-letter literal "TR". Unknown letters return an error.
func ParseDays(code string) (map[rune]bool, error) {
	days := make(map[rune]bool)
	for _, r := range strings.ToUpper(code) {
		if r == ' ' {
			continue
		}
		if !validDayLetters[r] {
			return nil, appErrors.Wrap(fmt.Errorf("unknown day letter %q", r), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day code")
		}
		days[r] = true
	}
	return days, nil
}

// ParseClock converts a 12h or 24h clock string into minutes since midnight.
// Accepts "9:00", "09:00", "13:30" and "1:30 PM"/"1:30PM".
func ParseClock(s string) (int, error) {
	raw := strings.TrimSpace(strings.ToUpper(s))
	if raw == "" {
		return 0, appErrors.Wrap(fmt.Errorf("empty clock string"), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time")
	}

	meridiem := ""
	if strings.HasSuffix(raw, "AM") || strings.HasSuffix(raw, "PM") {
		meridiem = raw[len(raw)-2:]
		raw = strings.TrimSpace(raw[:len(raw)-2])
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return 0, appErrors.Wrap(fmt.Errorf("malformed time %q", s), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time hour")
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time minute")
	}

	if meridiem == "AM" {
		if hour == 12 {
			hour = 0
		}
	} else if meridiem == "PM" {
		if hour != 12 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, appErrors.Wrap(fmt.Errorf("time out of range %q", s), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time range")
	}

	return hour*60 + minute, nil
}

// Overlap reports whether two offerings share a day and an overlapping
// half-open time interval [start, end).
func Overlap(a, b models.Offering) bool {
	daysA, err := ParseDays(a.Days)
	if err != nil {
		return false
	}
	daysB, err := ParseDays(b.Days)
	if err != nil {
		return false
	}
	sharesDay := false
	for d := range daysA {
		if daysB[d] {
			sharesDay = true
			break
		}
	}
	if !sharesDay {
		return false
	}

	startA, errA1 := ParseClock(a.StartTime)
	endA, errA2 := ParseClock(a.EndTime)
	startB, errB1 := ParseClock(b.StartTime)
	endB, errB2 := ParseClock(b.EndTime)
	if errA1 != nil || errA2 != nil || errB1 != nil || errB2 != nil {
		return false
	}

	return startA < endB && startB < endA
}

// GapMinutes returns the sorted consecutive gaps, in minutes, between a set
// of start times occurring on the same day. Input need not be pre-sorted.
func GapMinutes(times []int) []int {
	if len(times) < 2 {
		return nil
	}
	sorted := append([]int(nil), times...)
	sort.Ints(sorted)
	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i] - sorted[i-1]
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}
