package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

// PathwayRepository provides database access for pathways.
type PathwayRepository struct {
	db *sqlx.DB
}

// NewPathwayRepository constructs a PathwayRepository.
func NewPathwayRepository(db *sqlx.DB) *PathwayRepository {
	return &PathwayRepository{db: db}
}

// FindByID returns a pathway with its decoded requirements.
func (r *PathwayRepository) FindByID(ctx context.Context, id string) (*models.Pathway, error) {
	const query = `SELECT id, name, requirements FROM pathways WHERE id = $1`
	var pathway models.Pathway
	if err := r.db.GetContext(ctx, &pathway, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find pathway by id: %w", err)
	}
	return &pathway, nil
}

// List returns every defined pathway.
func (r *PathwayRepository) List(ctx context.Context) ([]models.Pathway, error) {
	const query = `SELECT id, name, requirements FROM pathways ORDER BY name ASC`
	var pathways []models.Pathway
	if err := r.db.SelectContext(ctx, &pathways, query); err != nil {
		return nil, fmt.Errorf("list pathways: %w", err)
	}
	return pathways, nil
}
