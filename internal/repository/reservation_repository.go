package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pathway-planner-api/internal/models"
)

// ReservationRepository persists reservation holds and enforces the
// capacity invariant under row-level locking.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository constructs a ReservationRepository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on any returned error.
func (r *ReservationRepository) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reservation transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit reservation transaction: %w", err)
	}
	return nil
}

// LockOffering locks the offering row FOR UPDATE within tx.
func (r *ReservationRepository) LockOffering(ctx context.Context, tx *sqlx.Tx, offeringID string) (*models.Offering, error) {
	const query = `SELECT id, course_code, term_label, instructor, instructor_rating, days, start_time, end_time, room, capacity, enrolled FROM course_offerings WHERE id = $1 FOR UPDATE`
	var offering models.Offering
	if err := tx.GetContext(ctx, &offering, query, offeringID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock offering: %w", err)
	}
	return &offering, nil
}

// LockReservation locks a reservation row FOR UPDATE within tx.
func (r *ReservationRepository) LockReservation(ctx context.Context, tx *sqlx.Tx, id string) (*models.Reservation, error) {
	const query = `SELECT id, offering_id, user_id, status, seats, notes, created_at, expires_at FROM reservations WHERE id = $1 FOR UPDATE`
	var reservation models.Reservation
	if err := tx.GetContext(ctx, &reservation, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock reservation: %w", err)
	}
	return &reservation, nil
}

// FindByID returns a reservation without locking.
func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	const query = `SELECT id, offering_id, user_id, status, seats, notes, created_at, expires_at FROM reservations WHERE id = $1`
	var reservation models.Reservation
	if err := r.db.GetContext(ctx, &reservation, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find reservation by id: %w", err)
	}
	return &reservation, nil
}

// ActiveReservedSeats sums seats held against offeringID with status 'held'
// and an unexpired hold, optionally excluding a reservation (used by Commit
// to exclude itself from the count). now is injected so the expiry horizon
// is caller-controlled rather than evaluated per-row.
func (r *ReservationRepository) ActiveReservedSeats(ctx context.Context, tx *sqlx.Tx, offeringID string, excludeID string, now time.Time) (int, error) {
	const query = `
SELECT COALESCE(SUM(seats), 0) FROM reservations
WHERE offering_id = $1 AND status = 'held' AND expires_at > $2 AND id != $3`
	var total int
	if err := tx.GetContext(ctx, &total, query, offeringID, now, excludeID); err != nil {
		return 0, fmt.Errorf("sum active reserved seats: %w", err)
	}
	return total, nil
}

// Insert persists a new held reservation within tx.
func (r *ReservationRepository) Insert(ctx context.Context, tx *sqlx.Tx, reservation *models.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO reservations (id, offering_id, user_id, status, seats, notes, created_at, expires_at)
VALUES (:id, :offering_id, :user_id, :status, :seats, :notes, :created_at, :expires_at)`
	if _, err := sqlx.NamedExecContext(ctx, tx, query, reservation); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// UpdateStatus transitions a reservation's status within tx.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id string, status models.ReservationStatus) error {
	const query = `UPDATE reservations SET status = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	return nil
}

// ExpireHeldPast transitions every 'held' reservation whose expires_at is
// at or before cutoff to 'expired', returning the number of rows updated.
func (r *ReservationRepository) ExpireHeldPast(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `UPDATE reservations SET status = 'expired' WHERE status = 'held' AND expires_at <= $1`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire held reservations: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire held reservations rows affected: %w", err)
	}
	return int(affected), nil
}

// CountActiveHolds returns how many reservations are currently in a held
// state with an unexpired hold window.
func (r *ReservationRepository) CountActiveHolds(ctx context.Context, now time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM reservations WHERE status = 'held' AND (expires_at IS NULL OR expires_at > $1)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, now); err != nil {
		return 0, fmt.Errorf("count active holds: %w", err)
	}
	return count, nil
}
