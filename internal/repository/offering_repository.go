package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

// OfferingRepository provides database access for term course offerings.
type OfferingRepository struct {
	db *sqlx.DB
}

// NewOfferingRepository constructs an OfferingRepository.
func NewOfferingRepository(db *sqlx.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

// List returns offerings matching the given filter.
func (r *OfferingRepository) List(ctx context.Context, filter models.OfferingFilter) ([]models.Offering, error) {
	baseQuery := `SELECT id, course_code, term_label, instructor, instructor_rating, days, start_time, end_time, room, capacity, enrolled FROM course_offerings WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.CourseCode != "" {
		args = append(args, filter.CourseCode)
		conditions = append(conditions, fmt.Sprintf("course_code = $%d", len(args)))
	}
	if filter.TermLabel != "" {
		args = append(args, filter.TermLabel)
		conditions = append(conditions, fmt.Sprintf("term_label = $%d", len(args)))
	}
	for _, c := range conditions {
		baseQuery += " AND " + c
	}
	baseQuery += " ORDER BY course_code ASC, instructor_rating DESC"

	var offerings []models.Offering
	if err := r.db.SelectContext(ctx, &offerings, baseQuery, args...); err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}
	return offerings, nil
}

// FindByCodes loads every offering for a set of course codes, used to feed
// the planner's full term catalog.
func (r *OfferingRepository) FindByCodes(ctx context.Context, codes []string) ([]models.Offering, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, course_code, term_label, instructor, instructor_rating, days, start_time, end_time, room, capacity, enrolled FROM course_offerings WHERE course_code IN (?)`, codes)
	if err != nil {
		return nil, fmt.Errorf("build offering lookup query: %w", err)
	}
	query = r.db.Rebind(query)

	var offerings []models.Offering
	if err := r.db.SelectContext(ctx, &offerings, query, args...); err != nil {
		return nil, fmt.Errorf("find offerings by codes: %w", err)
	}
	return offerings, nil
}

// FindByID returns a single offering by identifier.
func (r *OfferingRepository) FindByID(ctx context.Context, id string) (*models.Offering, error) {
	const query = `SELECT id, course_code, term_label, instructor, instructor_rating, days, start_time, end_time, room, capacity, enrolled FROM course_offerings WHERE id = $1`
	var offering models.Offering
	if err := r.db.GetContext(ctx, &offering, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find offering by id: %w", err)
	}
	return &offering, nil
}

// LockForUpdate loads an offering row with FOR UPDATE inside an existing
// transaction.
func (r *OfferingRepository) LockForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Offering, error) {
	const query = `SELECT id, course_code, term_label, instructor, instructor_rating, days, start_time, end_time, room, capacity, enrolled FROM course_offerings WHERE id = $1 FOR UPDATE`
	var offering models.Offering
	if err := tx.GetContext(ctx, &offering, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock offering: %w", err)
	}
	return &offering, nil
}

// IncrementEnrolled adds delta seats to an offering's enrolled count inside
// an existing transaction.
func (r *OfferingRepository) IncrementEnrolled(ctx context.Context, tx *sqlx.Tx, id string, delta int) error {
	const query = `UPDATE course_offerings SET enrolled = enrolled + $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id, delta); err != nil {
		return fmt.Errorf("increment offering enrolled: %w", err)
	}
	return nil
}
