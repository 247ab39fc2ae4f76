package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/pathway-planner-api/internal/dto"
	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/internal/planner"
	"github.com/noah-isme/pathway-planner-api/internal/scorer"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
	"github.com/noah-isme/pathway-planner-api/pkg/jobs"
)

type pathwayReader interface {
	FindByID(ctx context.Context, id string) (*models.Pathway, error)
}

type courseReader interface {
	FindByCodes(ctx context.Context, codes []string) ([]models.Course, error)
	PrerequisitesFor(ctx context.Context, codes []string) ([]models.PrerequisiteEdge, error)
}

type offeringReader interface {
	FindByCodes(ctx context.Context, codes []string) ([]models.Offering, error)
	FindByID(ctx context.Context, id string) (*models.Offering, error)
}

type preferencesReader interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentPreferences, error)
}

// PlanServiceConfig governs proposal cache lifetime and the async dispatch
// threshold for the exact strategy.
type PlanServiceConfig struct {
	ProposalTTL        time.Duration
	ExactAsyncNodeHint int
}

// PlanService runs the pathway planning strategies, scores the result, and
// caches generated proposals for later retrieval or save.
type PlanService struct {
	pathways  pathwayReader
	courses   courseReader
	offerings offeringReader
	prefs     preferencesReader
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	store     *planProposalStore
	queue     *jobs.Queue
	cfg       PlanServiceConfig
}

// NewPlanService wires the planning dependencies.
func NewPlanService(
	pathways pathwayReader,
	courses courseReader,
	offerings offeringReader,
	prefs preferencesReader,
	validate *validator.Validate,
	queue *jobs.Queue,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg PlanServiceConfig,
) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	return &PlanService{
		pathways:  pathways,
		courses:   courses,
		offerings: offerings,
		prefs:     prefs,
		validator: validate,
		queue:     queue,
		metrics:   metrics,
		logger:    logger,
		store:     newPlanProposalStore(cfg.ProposalTTL),
		cfg:       cfg,
	}
}

// Generate builds a plan for pathwayID using the requested strategy and
// caches it under a proposal ID. When strategy is "exact" and the node
// budget (opts.MaxNodes, default 200000) exceeds the configured
// ExactAsyncNodeHint, the solve is dispatched to the background job queue
// and Generate returns immediately with Async=true; the caller polls
// GetProposal.
func (s *PlanService) Generate(ctx context.Context, userID, pathwayID string, req dto.PlanRequest, exactOpts dto.ExactOptions) (*dto.PlanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan request")
	}

	planReq, err := s.buildPlanRequest(ctx, userID, pathwayID, req)
	if err != nil {
		return nil, err
	}

	if req.Strategy == "exact" {
		opts := planner.ExactOptions{Timeout: exactOpts.TimeoutSeconds, MaxNodes: exactOpts.MaxNodes}
		if opts.MaxNodes == 0 {
			opts.MaxNodes = 200000
		}
		if s.queue != nil && opts.MaxNodes > s.cfg.ExactAsyncNodeHint && s.cfg.ExactAsyncNodeHint > 0 {
			proposalID := uuid.NewString()
			s.store.SaveStats(proposalID, models.SolverStats{}, true)
			job := jobs.Job{ID: proposalID, Type: "plan.exact", Payload: exactJobPayload{PlanRequest: planReq, Opts: opts, ProposalID: proposalID}}
			if err := s.queue.Enqueue(job); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue exact solve")
			}
			return &dto.PlanResponse{ProposalID: proposalID, Async: true}, nil
		}

		start := time.Now()
		plan, stats, err := planner.PlanExact(planReq, opts)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to compute exact plan")
		}
		s.metrics.ObservePlannerSolve("exact", time.Since(start), stats.Explored)
		s.scoreAllTerms(&plan, planReq)
		proposalID := s.store.Save(plan, &stats)
		return &dto.PlanResponse{ProposalID: proposalID, Plan: plan, Stats: &stats}, nil
	}

	var plan models.Plan
	start := time.Now()
	switch req.Strategy {
	case "loadbalance":
		plan, err = planner.PlanLoadBalance(planReq)
	default:
		plan, err = planner.PlanGreedy(planReq)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to compute plan")
	}
	s.metrics.ObservePlannerSolve(req.Strategy, time.Since(start), 0)
	s.scoreAllTerms(&plan, planReq)
	proposalID := s.store.Save(plan, nil)
	return &dto.PlanResponse{ProposalID: proposalID, Plan: plan}, nil
}

// HandleExactJob is the jobs.Handler invoked by the background queue for
// async exact-strategy solves.
func (s *PlanService) HandleExactJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exactJobPayload)
	if !ok {
		return errors.New("plan service: unexpected job payload type")
	}
	start := time.Now()
	plan, stats, err := planner.PlanExact(payload.PlanRequest, payload.Opts)
	if err != nil {
		s.logger.Error("async exact solve failed", zap.String("proposal_id", payload.ProposalID), zap.Error(err))
		return err
	}
	s.metrics.ObservePlannerSolve("exact", time.Since(start), stats.Explored)
	s.scoreAllTerms(&plan, payload.PlanRequest)
	s.store.SaveWithID(payload.ProposalID, plan, &stats)
	return nil
}

// GetProposal returns a previously generated (or in-flight) proposal.
func (s *PlanService) GetProposal(proposalID string) (*dto.PlanResponse, error) {
	proposal, ok := s.store.Get(proposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	if proposal.Pending {
		return &dto.PlanResponse{ProposalID: proposalID, Async: true}, nil
	}
	return &dto.PlanResponse{ProposalID: proposalID, Plan: proposal.Plan, Stats: proposal.Stats}, nil
}

// Score re-scores a cached or supplied plan, returning the per-term
// breakdown. A plan supplied directly bypasses the cache.
func (s *PlanService) Score(ctx context.Context, userID, proposalID string, req dto.ScorePlanRequest) (*dto.ScorePlanResponse, error) {
	var plan models.Plan
	if req.Plan != nil {
		plan = *req.Plan
	} else {
		proposal, ok := s.store.Get(proposalID)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
		}
		plan = proposal.Plan
	}

	offeringIDs := make([]string, 0)
	for _, term := range plan.Terms {
		for _, entry := range term.Entries {
			offeringIDs = append(offeringIDs, entry.OfferingID)
		}
	}
	offeringsMap, ratings, err := s.loadOfferingsAndRatings(ctx, offeringIDs)
	if err != nil {
		return nil, err
	}

	prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	weights := scorer.ApplyOverrides(scorer.DefaultWeights(), req.Weights)
	terms := make([]dto.TermScore, len(plan.Terms))
	total := 0.0
	for i, term := range plan.Terms {
		result := scorer.Score(term, offeringsMap, ratings, prefs, weights)
		terms[i] = dto.TermScore{TermLabel: term.TermLabel, Result: result}
		total += result.Score
	}

	return &dto.ScorePlanResponse{ProposalID: proposalID, Terms: terms, Total: total, Weights: weights}, nil
}

func (s *PlanService) scoreAllTerms(plan *models.Plan, planReq planner.PlanRequest) {
	offeringsByID := make(map[string]models.Offering, len(planReq.Offerings))
	ratings := make(map[string]float64, len(planReq.Offerings))
	for _, o := range planReq.Offerings {
		offeringsByID[o.ID] = o
		if o.Instructor != "" && o.InstructorRating > 0 {
			ratings[o.Instructor] = o.InstructorRating
		}
	}
	weights := scorer.DefaultWeights()
	for i := range plan.Terms {
		result := scorer.Score(plan.Terms[i], offeringsByID, ratings, planReq.Preferences, weights)
		plan.Terms[i].Score = result.Score
	}
}

func (s *PlanService) buildPlanRequest(ctx context.Context, userID, pathwayID string, req dto.PlanRequest) (planner.PlanRequest, error) {
	pathway, err := s.pathways.FindByID(ctx, pathwayID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return planner.PlanRequest{}, appErrors.Clone(appErrors.ErrNotFound, "pathway not found")
		}
		return planner.PlanRequest{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pathway")
	}
	courseCodes, err := pathway.RequirementCodes()
	if err != nil {
		return planner.PlanRequest{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode pathway requirements")
	}
	if len(courseCodes) == 0 {
		return planner.PlanRequest{}, appErrors.Clone(appErrors.ErrPreconditionFailed, "pathway has no requirements defined")
	}

	courses, err := s.courses.FindByCodes(ctx, courseCodes)
	if err != nil {
		return planner.PlanRequest{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	courseCredits := make(map[string]int, len(courses))
	for _, c := range courses {
		courseCredits[c.Code] = c.Credits
	}

	prereqEdges, err := s.courses.PrerequisitesFor(ctx, courseCodes)
	if err != nil {
		return planner.PlanRequest{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prerequisites")
	}

	offerings, err := s.offerings.FindByCodes(ctx, courseCodes)
	if err != nil {
		return planner.PlanRequest{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offerings")
	}

	prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		return planner.PlanRequest{}, err
	}

	completed := make(map[string]bool, len(req.CompletedCourses))
	for _, c := range req.CompletedCourses {
		completed[c] = true
	}

	return planner.PlanRequest{
		PathwayCourses:    courseCodes,
		CompletedCourses:  completed,
		Offerings:         offerings,
		Prereqs:           planner.BuildPrereqMap(prereqEdges),
		CourseCredits:     courseCredits,
		Preferences:       prefs,
		StartTerm:         req.StartTerm,
		MaxTerms:          req.MaxTerms,
		MaxCreditsPerTerm: req.MaxCreditsPerTerm,
		AllowOverfull:     req.AllowOverfull,
		ReserveSeats:      req.ReserveSeats,
	}, nil
}

func (s *PlanService) loadPreferences(ctx context.Context, userID string) (models.StudentPreferences, error) {
	if s.prefs == nil || userID == "" {
		return models.StudentPreferences{}, nil
	}
	prefs, err := s.prefs.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StudentPreferences{}, nil
		}
		return models.StudentPreferences{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student preferences")
	}
	return *prefs, nil
}

func (s *PlanService) loadOfferingsAndRatings(ctx context.Context, ids []string) (map[string]models.Offering, map[string]float64, error) {
	offeringsMap := make(map[string]models.Offering, len(ids))
	ratings := make(map[string]float64, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		offering, err := s.offerings.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offering")
		}
		offeringsMap[id] = *offering
		if offering.Instructor != "" && offering.InstructorRating > 0 {
			ratings[offering.Instructor] = offering.InstructorRating
		}
	}
	return offeringsMap, ratings, nil
}

type exactJobPayload struct {
	PlanRequest planner.PlanRequest
	Opts        planner.ExactOptions
	ProposalID  string
}

// --- Proposal cache ---

type planProposal struct {
	Plan        models.Plan
	Stats       *models.SolverStats
	Pending     bool
	RequestedAt time.Time
}

type planProposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]planProposal
}

func newPlanProposalStore(ttl time.Duration) *planProposalStore {
	return &planProposalStore{ttl: ttl, items: make(map[string]planProposal)}
}

func (s *planProposalStore) Save(plan models.Plan, stats *models.SolverStats) string {
	id := uuid.NewString()
	s.SaveWithID(id, plan, stats)
	return id
}

func (s *planProposalStore) SaveWithID(id string, plan models.Plan, stats *models.SolverStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = planProposal{Plan: plan, Stats: stats, RequestedAt: time.Now().UTC()}
}

func (s *planProposalStore) SaveStats(id string, stats models.SolverStats, pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = planProposal{Stats: &stats, Pending: pending, RequestedAt: time.Now().UTC()}
}

func (s *planProposalStore) Get(id string) (planProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return planProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.mu.Lock()
		delete(s.items, id)
		s.mu.Unlock()
		return planProposal{}, false
	}
	return proposal, true
}
