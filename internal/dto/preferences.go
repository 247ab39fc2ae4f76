package dto

// UpdatePreferencesRequest is the body of PUT /preferences/:userId.
type UpdatePreferencesRequest struct {
	UnavailableDays      []string `json:"unavailable_days" validate:"omitempty,dive,len=1"`
	AvoidMornings        bool     `json:"avoid_mornings"`
	AvoidEvenings        bool     `json:"avoid_evenings"`
	PreferredInstructors []string `json:"preferred_instructors"`
	PreferredDays        []string `json:"preferred_days" validate:"omitempty,dive,len=1"`
	PreferredLocation    string   `json:"preferred_location" validate:"omitempty,max=100"`
	PreferredTimeOfDay   string   `json:"preferred_time_of_day" validate:"omitempty,oneof=morning afternoon"`
	EarliestStartMinute  *int     `json:"earliest_start_minute" validate:"omitempty,min=0,max=1439"`
	LatestEndMinute      *int     `json:"latest_end_minute" validate:"omitempty,min=0,max=1440"`
	MaxDaysPerWeek       *int     `json:"max_days_per_week" validate:"omitempty,min=1,max=7"`
	MaxGapMinutesPerDay  *int     `json:"max_gap_minutes_per_day" validate:"omitempty,min=0"`
	ContiguousClasses    bool     `json:"contiguous_classes"`
	MaxCreditsPerTerm    int      `json:"max_credits_per_term" validate:"omitempty,min=1,max=30"`
}
