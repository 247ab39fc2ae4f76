package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/pathway-planner-api/internal/dto"
	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/internal/repository"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
)

// PreferencesService manages a student's scheduling preferences.
type PreferencesService struct {
	repo      *repository.PreferencesRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPreferencesService constructs a PreferencesService.
func NewPreferencesService(repo *repository.PreferencesRepository, validate *validator.Validate, logger *zap.Logger) *PreferencesService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferencesService{repo: repo, validator: validate, logger: logger}
}

// Get returns a user's stored preferences, or the zero value if none have
// been set yet.
func (s *PreferencesService) Get(ctx context.Context, userID string) (*models.StudentPreferences, error) {
	prefs, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.StudentPreferences{UserID: userID}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}
	return prefs, nil
}

// Update validates and persists a user's preferences.
func (s *PreferencesService) Update(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*models.StudentPreferences, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preferences payload")
	}

	prefs := &models.StudentPreferences{
		UserID:               userID,
		UnavailableDays:      req.UnavailableDays,
		AvoidMornings:        req.AvoidMornings,
		AvoidEvenings:        req.AvoidEvenings,
		PreferredInstructors: req.PreferredInstructors,
		PreferredDays:        req.PreferredDays,
		PreferredLocation:    req.PreferredLocation,
		PreferredTimeOfDay:   req.PreferredTimeOfDay,
		EarliestStartMinute:  req.EarliestStartMinute,
		LatestEndMinute:      req.LatestEndMinute,
		MaxDaysPerWeek:       req.MaxDaysPerWeek,
		MaxGapMinutesPerDay:  req.MaxGapMinutesPerDay,
		ContiguousClasses:    req.ContiguousClasses,
		MaxCreditsPerTerm:    req.MaxCreditsPerTerm,
	}

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save preferences")
	}
	return prefs, nil
}
