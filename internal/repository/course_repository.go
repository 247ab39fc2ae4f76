package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

// CourseRepository provides catalog access for courses and their
// prerequisite/corequisite graphs.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByCode returns a single course by its code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	const query = `SELECT code, title, credits, department, description FROM courses WHERE code = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by code: %w", err)
	}
	return &course, nil
}

// FindByCodes loads multiple courses at once, used to build a credit lookup
// for the planner.
func (r *CourseRepository) FindByCodes(ctx context.Context, codes []string) ([]models.Course, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT code, title, credits, department, description FROM courses WHERE code IN (?)`, codes)
	if err != nil {
		return nil, fmt.Errorf("build course lookup query: %w", err)
	}
	query = r.db.Rebind(query)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("find courses by codes: %w", err)
	}
	return courses, nil
}

// PrerequisitesFor returns the prerequisite edges for a set of course codes.
func (r *CourseRepository) PrerequisitesFor(ctx context.Context, codes []string) ([]models.PrerequisiteEdge, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT course_code, requires_code FROM prerequisites WHERE course_code IN (?)`, codes)
	if err != nil {
		return nil, fmt.Errorf("build prerequisite query: %w", err)
	}
	query = r.db.Rebind(query)

	var edges []models.PrerequisiteEdge
	if err := r.db.SelectContext(ctx, &edges, query, args...); err != nil {
		return nil, fmt.Errorf("list prerequisites: %w", err)
	}
	return edges, nil
}

// CorequisitesFor returns the corequisite edges for a set of course codes.
func (r *CourseRepository) CorequisitesFor(ctx context.Context, codes []string) ([]models.CorequisiteEdge, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT course_code, with_code FROM corequisites WHERE course_code IN (?)`, codes)
	if err != nil {
		return nil, fmt.Errorf("build corequisite query: %w", err)
	}
	query = r.db.Rebind(query)

	var edges []models.CorequisiteEdge
	if err := r.db.SelectContext(ctx, &edges, query, args...); err != nil {
		return nil, fmt.Errorf("list corequisites: %w", err)
	}
	return edges, nil
}
