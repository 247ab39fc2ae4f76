package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/internal/repository"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
)

// DefaultHoldDuration is used when a reservation request does not specify
// a hold window.
const DefaultHoldDuration = 15 * time.Minute

// ReservationService implements the held/committed/released/expired
// reservation state machine, guarding the offering capacity invariant
// with row-level locking.
type ReservationService struct {
	repo         *repository.ReservationRepository
	offerings    *repository.OfferingRepository
	logger       *zap.Logger
	holdDuration time.Duration
}

// NewReservationService constructs a ReservationService.
func NewReservationService(repo *repository.ReservationRepository, offerings *repository.OfferingRepository, holdDuration time.Duration, logger *zap.Logger) *ReservationService {
	if holdDuration <= 0 {
		holdDuration = DefaultHoldDuration
	}
	return &ReservationService{repo: repo, offerings: offerings, logger: logger, holdDuration: holdDuration}
}

// Create places a held reservation against an offering's seats, locking the
// offering row and rejecting the request when capacity is unavailable
// unless allowOverfull is set. holdMinutes < 0 means "unspecified", which
// falls back to the configured default; holdMinutes == 0 is a valid,
// immediately-expired hold (see ExpiresAt/Commit).
func (s *ReservationService) Create(ctx context.Context, offeringID, userID string, seats, holdMinutes int, notes string, allowOverfull bool) (*models.Reservation, error) {
	if seats <= 0 {
		seats = 1
	}
	hold := s.holdDuration
	if holdMinutes >= 0 {
		hold = time.Duration(holdMinutes) * time.Minute
	}

	var reservation *models.Reservation
	now := time.Now().UTC()
	expiresAt := now.Add(hold)

	err := s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		offering, err := s.repo.LockOffering(ctx, tx, offeringID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrNotFound
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock offering")
		}

		held, err := s.repo.ActiveReservedSeats(ctx, tx, offeringID, "", now)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active holds")
		}

		if offering.Capacity > 0 {
			available := offering.Capacity - offering.Enrolled - held
			if available < seats && !allowOverfull {
				return appErrors.Clone(appErrors.ErrNoSeats, "not enough seats available for this offering")
			}
		}

		reservation = &models.Reservation{
			OfferingID: offeringID,
			UserID:     userID,
			Status:     models.ReservationHeld,
			Seats:      seats,
			Notes:      notes,
			CreatedAt:  now,
			ExpiresAt:  &expiresAt,
		}
		return s.repo.Insert(ctx, tx, reservation)
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// Commit converts a held reservation into a committed enrollment, locking
// both the reservation and its offering. An expired hold is transitioned to
// 'expired' and rejected rather than committed.
func (s *ReservationService) Commit(ctx context.Context, id string, allowOverfull bool) (*models.Reservation, error) {
	var reservation *models.Reservation
	now := time.Now().UTC()
	expired := false

	err := s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.LockReservation(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrNotFound
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock reservation")
		}
		if current.Status == models.ReservationCommitted {
			return appErrors.Clone(appErrors.ErrConflict, "reservation already committed")
		}
		if current.Status != models.ReservationHeld {
			return appErrors.Clone(appErrors.ErrConflict, "reservation is not in a held state")
		}
		if current.ExpiresAt != nil && !current.ExpiresAt.After(now) {
			if err := s.repo.UpdateStatus(ctx, tx, id, models.ReservationExpired); err != nil {
				return err
			}
			// Return nil so the transaction commits the 'expired' transition;
			// the error is reported after WithTx returns.
			expired = true
			return nil
		}

		offering, err := s.repo.LockOffering(ctx, tx, current.OfferingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrNotFound
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock offering")
		}

		held, err := s.repo.ActiveReservedSeats(ctx, tx, current.OfferingID, current.ID, now)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active holds")
		}
		if offering.Capacity > 0 {
			available := offering.Capacity - offering.Enrolled - held
			if available < current.Seats && !allowOverfull {
				return appErrors.Clone(appErrors.ErrNoSeats, "seats no longer available to commit this reservation")
			}
		}

		if err := s.offerings.IncrementEnrolled(ctx, tx, current.OfferingID, current.Seats); err != nil {
			return err
		}
		if err := s.repo.UpdateStatus(ctx, tx, id, models.ReservationCommitted); err != nil {
			return err
		}
		current.Status = models.ReservationCommitted
		reservation = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, appErrors.Clone(appErrors.ErrReservationExpired, "reservation hold has expired")
	}
	return reservation, nil
}

// Release cancels a held reservation, freeing its seats. A committed
// reservation cannot be released.
func (s *ReservationService) Release(ctx context.Context, id string) error {
	return s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.LockReservation(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrNotFound
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock reservation")
		}
		if current.Status == models.ReservationCommitted {
			return appErrors.Clone(appErrors.ErrCannotRelease, "cannot release a committed reservation")
		}
		if current.Status != models.ReservationHeld {
			return nil
		}
		return s.repo.UpdateStatus(ctx, tx, id, models.ReservationReleased)
	})
}

// Get returns a reservation by ID without locking.
func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	return reservation, nil
}

// ExpireSweep transitions every held reservation past its expiry to
// 'expired', intended to be run periodically by a background worker.
func (s *ReservationService) ExpireSweep(ctx context.Context) (int, error) {
	count, err := s.repo.ExpireHeldPast(ctx, time.Now().UTC())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sweep expired reservations")
	}
	if count > 0 && s.logger != nil {
		s.logger.Info("expired stale reservation holds", zap.Int("count", count))
	}
	return count, nil
}

// ActiveHolds counts reservations currently holding seats, for the
// reservation gauge exported by the metrics service.
func (s *ReservationService) ActiveHolds(ctx context.Context) (int, error) {
	count, err := s.repo.CountActiveHolds(ctx, time.Now().UTC())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active holds")
	}
	return count, nil
}
