package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/pathway-planner-api/internal/dto"
	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/internal/planner"
	"github.com/noah-isme/pathway-planner-api/internal/repository"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
)

// CatalogService provides read access to pathways, courses and offerings,
// and answers prerequisite-eligibility questions. List reads go through the
// cache when one is configured; catalog rows change rarely.
type CatalogService struct {
	pathways  *repository.PathwayRepository
	courses   *repository.CourseRepository
	offerings *repository.OfferingRepository
	cache     *CacheService
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(pathways *repository.PathwayRepository, courses *repository.CourseRepository, offerings *repository.OfferingRepository, cache *CacheService) *CatalogService {
	return &CatalogService{pathways: pathways, courses: courses, offerings: offerings, cache: cache}
}

// ListPathways returns every defined pathway.
func (s *CatalogService) ListPathways(ctx context.Context) ([]models.Pathway, error) {
	const cacheKey = "catalog:pathways"
	var cached []models.Pathway
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}
	pathways, err := s.pathways.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pathways")
	}
	_ = s.cache.Set(ctx, cacheKey, pathways, 0)
	return pathways, nil
}

// GetPathway returns a single pathway by ID.
func (s *CatalogService) GetPathway(ctx context.Context, id string) (*models.Pathway, error) {
	pathway, err := s.pathways.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pathway not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pathway")
	}
	return pathway, nil
}

// ListOfferings returns offerings matching the given filter.
func (s *CatalogService) ListOfferings(ctx context.Context, filter models.OfferingFilter) ([]models.Offering, error) {
	cacheKey := fmt.Sprintf("catalog:offerings:%s:%s", filter.CourseCode, filter.TermLabel)
	var cached []models.Offering
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}
	offerings, err := s.offerings.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offerings")
	}
	_ = s.cache.Set(ctx, cacheKey, offerings, 0)
	return offerings, nil
}

// CheckEligibility reports whether a student who has completed
// completedCourses may enroll in courseCode, listing any missing
// prerequisites.
func (s *CatalogService) CheckEligibility(ctx context.Context, courseCode string, completedCourses []string) (*dto.EligibilityResponse, error) {
	course, err := s.courses.FindByCode(ctx, courseCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	edges, err := s.courses.PrerequisitesFor(ctx, []string{course.Code})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prerequisites")
	}
	prereqMap := planner.BuildPrereqMap(edges)

	coreqEdges, err := s.courses.CorequisitesFor(ctx, []string{course.Code})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load corequisites")
	}
	var corequisites []string
	for _, e := range coreqEdges {
		switch course.Code {
		case e.CourseCode:
			corequisites = append(corequisites, e.WithCode)
		case e.WithCode:
			corequisites = append(corequisites, e.CourseCode)
		}
	}

	completed := make(map[string]bool, len(completedCourses))
	for _, c := range completedCourses {
		completed[c] = true
	}

	eligible := planner.Eligible(course.Code, completed, prereqMap)
	var missing []string
	if !eligible {
		for _, req := range prereqMap[course.Code] {
			if !completed[req] {
				missing = append(missing, req)
			}
		}
	}

	return &dto.EligibilityResponse{CourseCode: course.Code, Eligible: eligible, Missing: missing, Corequisites: corequisites}, nil
}
