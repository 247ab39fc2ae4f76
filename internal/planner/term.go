package planner

import (
	"fmt"
	"strconv"
	"strings"

	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
)

// termOrder fixes the cyclical succession of terms within an academic year.
var termOrder = []string{"Fall", "Spring", "Summer"}

// ParseTerm validates a "<Season> <Year>" label and returns its season and
// year components. Unparseable years are a validation error; they are never
// inferred from the current date.
func ParseTerm(label string) (season string, year int, err error) {
	parts := strings.Fields(label)
	if len(parts) != 2 {
		return "", 0, appErrors.Wrap(fmt.Errorf("malformed term label %q", label), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term label")
	}
	season = parts[0]
	if !isValidSeason(season) {
		return "", 0, appErrors.Wrap(fmt.Errorf("unknown season %q", season), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term label")
	}
	year, convErr := strconv.Atoi(parts[1])
	if convErr != nil {
		return "", 0, appErrors.Wrap(convErr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term label")
	}
	return season, year, nil
}

func isValidSeason(season string) bool {
	for _, s := range termOrder {
		if s == season {
			return true
		}
	}
	return false
}

// NextTerm returns the canonical successor of a term label: Fall Y -> Spring
// Y+1 -> Summer Y+1 -> Fall Y+1.
func NextTerm(label string) (string, error) {
	season, year, err := ParseTerm(label)
	if err != nil {
		return "", err
	}

	idx := indexOf(termOrder, season)
	nextSeason := termOrder[(idx+1)%len(termOrder)]
	nextYear := year
	// Only the calendar-year boundary increments: Fall 2026 is followed by
	// Spring 2027; Summer 2027 stays within 2027 when rolling into Fall.
	if season == "Fall" {
		nextYear = year + 1
	}
	return fmt.Sprintf("%s %d", nextSeason, nextYear), nil
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}
