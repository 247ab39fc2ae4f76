package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

// PreferencesRepository provides database access for student scheduling
// preferences. List-like fields are stored as comma-joined text columns and
// decoded on read.
type PreferencesRepository struct {
	db *sqlx.DB
}

// NewPreferencesRepository constructs a PreferencesRepository.
func NewPreferencesRepository(db *sqlx.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// FindByUserID returns a user's stored preferences, decoding the raw
// comma-joined columns into slices.
func (r *PreferencesRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentPreferences, error) {
	const query = `
SELECT user_id, unavailable_days, avoid_mornings, avoid_evenings, preferred_instructors,
	preferred_days, preferred_location, preferred_time_of_day,
	earliest_start_minute, latest_end_minute, max_days_per_week, max_gap_minutes_per_day,
	contiguous_classes, max_credits_per_term
FROM student_preferences WHERE user_id = $1`

	var prefs models.StudentPreferences
	if err := r.db.GetContext(ctx, &prefs, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find preferences by user id: %w", err)
	}
	decodeRaw(&prefs)
	return &prefs, nil
}

// Upsert creates or updates a user's preferences.
func (r *PreferencesRepository) Upsert(ctx context.Context, prefs *models.StudentPreferences) error {
	encodeRaw(prefs)

	const query = `
INSERT INTO student_preferences (
	user_id, unavailable_days, avoid_mornings, avoid_evenings, preferred_instructors,
	preferred_days, preferred_location, preferred_time_of_day,
	earliest_start_minute, latest_end_minute, max_days_per_week, max_gap_minutes_per_day,
	contiguous_classes, max_credits_per_term
) VALUES (
	:user_id, :unavailable_days, :avoid_mornings, :avoid_evenings, :preferred_instructors,
	:preferred_days, :preferred_location, :preferred_time_of_day,
	:earliest_start_minute, :latest_end_minute, :max_days_per_week, :max_gap_minutes_per_day,
	:contiguous_classes, :max_credits_per_term
)
ON CONFLICT (user_id) DO UPDATE SET
	unavailable_days = EXCLUDED.unavailable_days,
	avoid_mornings = EXCLUDED.avoid_mornings,
	avoid_evenings = EXCLUDED.avoid_evenings,
	preferred_instructors = EXCLUDED.preferred_instructors,
	preferred_days = EXCLUDED.preferred_days,
	preferred_location = EXCLUDED.preferred_location,
	preferred_time_of_day = EXCLUDED.preferred_time_of_day,
	earliest_start_minute = EXCLUDED.earliest_start_minute,
	latest_end_minute = EXCLUDED.latest_end_minute,
	max_days_per_week = EXCLUDED.max_days_per_week,
	max_gap_minutes_per_day = EXCLUDED.max_gap_minutes_per_day,
	contiguous_classes = EXCLUDED.contiguous_classes,
	max_credits_per_term = EXCLUDED.max_credits_per_term`

	if _, err := r.db.NamedExecContext(ctx, query, prefs); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

func decodeRaw(prefs *models.StudentPreferences) {
	prefs.UnavailableDays = splitNonEmpty(prefs.UnavailableDaysRaw)
	prefs.PreferredInstructors = splitNonEmpty(prefs.PreferredInstrRaw)
	prefs.PreferredDays = splitNonEmpty(prefs.PreferredDaysRaw)
}

func encodeRaw(prefs *models.StudentPreferences) {
	prefs.UnavailableDaysRaw = strings.Join(prefs.UnavailableDays, ",")
	prefs.PreferredInstrRaw = strings.Join(prefs.PreferredInstructors, ",")
	prefs.PreferredDaysRaw = strings.Join(prefs.PreferredDays, ",")
}

func splitNonEmpty(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
