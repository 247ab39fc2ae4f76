package models

// StudentPreferences captures a student's scheduling constraints used by the
// selector, packer and scorer. Comma-separated *Raw columns store list-like
// fields as a single text column and expose the parsed slice to callers.
type StudentPreferences struct {
	UserID               string   `db:"user_id" json:"user_id"`
	UnavailableDays      []string `db:"-" json:"unavailable_days"`
	UnavailableDaysRaw   string   `db:"unavailable_days" json:"-"`
	AvoidMornings        bool     `db:"avoid_mornings" json:"avoid_mornings"`
	AvoidEvenings        bool     `db:"avoid_evenings" json:"avoid_evenings"`
	PreferredInstructors []string `db:"-" json:"preferred_instructors"`
	PreferredInstrRaw    string   `db:"preferred_instructors" json:"-"`
	PreferredDays        []string `db:"-" json:"preferred_days"`
	PreferredDaysRaw     string   `db:"preferred_days" json:"-"`
	PreferredLocation    string   `db:"preferred_location" json:"preferred_location,omitempty"`
	PreferredTimeOfDay   string   `db:"preferred_time_of_day" json:"preferred_time_of_day,omitempty"` // "morning" or "afternoon"
	EarliestStartMinute  *int     `db:"earliest_start_minute" json:"earliest_start_minute,omitempty"`
	LatestEndMinute      *int     `db:"latest_end_minute" json:"latest_end_minute,omitempty"`
	MaxDaysPerWeek       *int     `db:"max_days_per_week" json:"max_days_per_week,omitempty"`
	MaxGapMinutesPerDay  *int     `db:"max_gap_minutes_per_day" json:"max_gap_minutes_per_day,omitempty"`
	ContiguousClasses    bool     `db:"contiguous_classes" json:"contiguous_classes"`
	MaxCreditsPerTerm    int      `db:"max_credits_per_term" json:"max_credits_per_term"`
}
