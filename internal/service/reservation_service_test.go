package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/internal/repository"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
)

func newReservationMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() { db.Close() }
}

func offeringRow(capacity, enrolled int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "course_code", "term_label", "instructor", "instructor_rating", "days", "start_time", "end_time", "room", "capacity", "enrolled"}).
		AddRow("off-1", "CS101", "Fall 2026", "Ada", 4.5, "MWF", "09:00", "10:00", "Hall 1", capacity, enrolled)
}

func TestReservationServiceCreateFailsWhenNoSeats(t *testing.T) {
	db, mock, cleanup := newReservationMock(t)
	defer cleanup()
	repo := repository.NewReservationRepository(db)
	offerings := repository.NewOfferingRepository(db)
	svc := NewReservationService(repo, offerings, 15*time.Minute, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_code, term_label, instructor, instructor_rating, days, start_time, end_time, room, capacity, enrolled FROM course_offerings WHERE id = $1 FOR UPDATE")).
		WithArgs("off-1").
		WillReturnRows(offeringRow(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(seats), 0) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), "off-1", "user-1", 1, -1, "", false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoSeats.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationServiceCreateSucceedsUnderCapacity(t *testing.T) {
	db, mock, cleanup := newReservationMock(t)
	defer cleanup()
	repo := repository.NewReservationRepository(db)
	offerings := repository.NewOfferingRepository(db)
	svc := NewReservationService(repo, offerings, 15*time.Minute, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_code, term_label, instructor, instructor_rating, days, start_time, end_time, room, capacity, enrolled FROM course_offerings WHERE id = $1 FOR UPDATE")).
		WithArgs("off-1").
		WillReturnRows(offeringRow(5, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(seats), 0) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	reservation, err := svc.Create(context.Background(), "off-1", "user-1", 1, -1, "", false)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationHeld, reservation.Status)
	assert.NotNil(t, reservation.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationServiceCreateZeroHoldExpiresImmediatelyOnCommit(t *testing.T) {
	db, mock, cleanup := newReservationMock(t)
	defer cleanup()
	repo := repository.NewReservationRepository(db)
	offerings := repository.NewOfferingRepository(db)
	svc := NewReservationService(repo, offerings, 15*time.Minute, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_code, term_label, instructor, instructor_rating, days, start_time, end_time, room, capacity, enrolled FROM course_offerings WHERE id = $1 FOR UPDATE")).
		WithArgs("off-1").
		WillReturnRows(offeringRow(5, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(seats), 0) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	reservation, err := svc.Create(context.Background(), "off-1", "user-1", 1, 0, "", false)
	require.NoError(t, err)
	require.NotNil(t, reservation.ExpiresAt)
	assert.True(t, !reservation.ExpiresAt.After(time.Now().UTC().Add(time.Millisecond)))
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectBegin()
	reservation.ID = "res-1"
	lockRows := sqlmock.NewRows([]string{"id", "offering_id", "user_id", "status", "seats", "notes", "created_at", "expires_at"}).
		AddRow(reservation.ID, "off-1", "user-1", string(models.ReservationHeld), 1, "", time.Now().UTC(), *reservation.ExpiresAt)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, offering_id, user_id, status, seats, notes, created_at, expires_at FROM reservations WHERE id = $1 FOR UPDATE")).
		WithArgs(reservation.ID).
		WillReturnRows(lockRows)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = $2 WHERE id = $1")).
		WithArgs(reservation.ID, models.ReservationExpired).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err = svc.Commit(context.Background(), reservation.ID, false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReservationExpired.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationServiceReleaseRejectsCommitted(t *testing.T) {
	db, mock, cleanup := newReservationMock(t)
	defer cleanup()
	repo := repository.NewReservationRepository(db)
	offerings := repository.NewOfferingRepository(db)
	svc := NewReservationService(repo, offerings, 15*time.Minute, nil)

	mock.ExpectBegin()
	lockRows := sqlmock.NewRows([]string{"id", "offering_id", "user_id", "status", "seats", "notes", "created_at", "expires_at"}).
		AddRow("res-1", "off-1", "user-1", string(models.ReservationCommitted), 1, "", time.Now().UTC(), time.Now().UTC())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, offering_id, user_id, status, seats, notes, created_at, expires_at FROM reservations WHERE id = $1 FOR UPDATE")).
		WithArgs("res-1").
		WillReturnRows(lockRows)
	mock.ExpectRollback()

	err := svc.Release(context.Background(), "res-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCannotRelease.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationServiceUncappedOfferingNeverRunsOut(t *testing.T) {
	db, mock, cleanup := newReservationMock(t)
	defer cleanup()
	repo := repository.NewReservationRepository(db)
	offerings := repository.NewOfferingRepository(db)
	svc := NewReservationService(repo, offerings, 15*time.Minute, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_code, term_label, instructor, instructor_rating, days, start_time, end_time, room, capacity, enrolled FROM course_offerings WHERE id = $1 FOR UPDATE")).
		WithArgs("off-1").
		WillReturnRows(offeringRow(0, 500))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(seats), 0) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(250))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	reservation, err := svc.Create(context.Background(), "off-1", "user-1", 1, -1, "", false)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationHeld, reservation.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
