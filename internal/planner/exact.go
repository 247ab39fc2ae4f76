package planner

import (
	"sort"
	"time"

	"github.com/noah-isme/pathway-planner-api/internal/models"
	appErrors "github.com/noah-isme/pathway-planner-api/pkg/errors"
)

// exactSearch carries the branch-and-bound state: term labels, availability,
// and the best complete-or-partial assignment found so far.
type exactSearch struct {
	courses       []string
	terms         []string
	availability  map[string][]bool
	courseCredits map[string]int
	prereqs       map[string][]string
	completed     map[string]bool
	maxCredits    int

	deadline time.Time
	maxNodes int
	explored int
	timedOut bool

	bestAssignment map[string]int // course -> term index
	bestUnmet      int
	bestObjective  int
	haveBest       bool
}

// PlanExact assigns every remaining pathway course to at most one term,
// honoring prerequisite ordering and a per-term credit cap, searching by
// branch-and-bound to minimize sum(termIndex*credits). Bounded by
// opts.Timeout (seconds) and opts.MaxNodes; when the bound is hit before the
// search completes, the best assignment found so far is returned with
// SolverStats.TimedOut=true.
func PlanExact(input PlanRequest, opts ExactOptions) (models.Plan, models.SolverStats, error) {
	if input.StartTerm == "" {
		return models.Plan{}, models.SolverStats{}, appErrors.Clone(appErrors.ErrValidation, "start term is required")
	}

	maxTerms := defaultMaxTerms(input)
	maxCredits := defaultMaxCredits(input)
	completed := cloneCompleted(input.CompletedCourses)
	remaining := remainingCourses(input, completed)
	if len(remaining) == 0 {
		return models.Plan{}, models.SolverStats{}, nil
	}

	terms := make([]string, maxTerms)
	terms[0] = input.StartTerm
	for i := 1; i < maxTerms; i++ {
		next, err := NextTerm(terms[i-1])
		if err != nil {
			return models.Plan{}, models.SolverStats{}, err
		}
		terms[i] = next
	}

	availability := make(map[string][]bool, len(remaining))
	for _, code := range remaining {
		avail := make([]bool, maxTerms)
		for t, term := range terms {
			offered := SelectOfferings(term, []string{code}, input.Offerings, input.Preferences, input.AllowOverfull)
			avail[t] = len(offered) > 0
		}
		availability[code] = avail
	}

	sorted := append([]string(nil), remaining...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(input.Prereqs[sorted[i]]) < len(input.Prereqs[sorted[j]])
	})

	search := &exactSearch{
		courses:       sorted,
		terms:         terms,
		availability:  availability,
		courseCredits: input.CourseCredits,
		prereqs:       input.Prereqs,
		completed:     completed,
		maxCredits:    maxCredits,
		maxNodes:      opts.MaxNodes,
	}
	if opts.Timeout > 0 {
		search.deadline = time.Now().Add(time.Duration(opts.Timeout) * time.Second)
	}
	if search.maxNodes <= 0 {
		search.maxNodes = 200000
	}

	creditsPerTerm := make([]int, maxTerms)
	search.run(0, map[string]int{}, creditsPerTerm)

	plan := models.Plan{Terms: make([]models.PlanTerm, maxTerms)}
	for t, term := range terms {
		plan.Terms[t].TermLabel = term
	}
	for code, t := range search.bestAssignment {
		offered := SelectOfferings(terms[t], []string{code}, input.Offerings, input.Preferences, input.AllowOverfull)
		entry := models.PlanEntry{CourseCode: code, Credits: input.CourseCredits[code]}
		if len(offered) > 0 {
			entry.OfferingID = offered[0].ID
			entry.Status = entryStatus(offered[0])
		}
		plan.Terms[t].Entries = append(plan.Terms[t].Entries, entry)
		plan.Terms[t].TotalCredits += entry.Credits
	}

	unmet := make([]string, 0)
	for _, code := range remaining {
		if _, ok := search.bestAssignment[code]; !ok {
			unmet = append(unmet, code)
		}
	}
	if len(unmet) > 0 {
		plan.Unsatisfiable = true
		plan.UnmetCourses = unmet
	}

	stats := models.SolverStats{Explored: search.explored, TimedOut: search.timedOut}
	return plan, stats, nil
}

func (s *exactSearch) run(idx int, assignment map[string]int, creditsPerTerm []int) {
	if s.budgetExhausted() {
		s.timedOut = true
		return
	}
	s.explored++

	if idx >= len(s.courses) {
		s.considerSolution(assignment)
		return
	}

	// Branch: leave the course unscheduled.
	s.run(idx+1, assignment, creditsPerTerm)
	if s.budgetExhausted() {
		return
	}

	code := s.courses[idx]
	credit := s.courseCredits[code]

	for t := range s.terms {
		if s.budgetExhausted() {
			return
		}
		if !s.availability[code][t] {
			continue
		}
		if creditsPerTerm[t]+credit > s.maxCredits {
			continue
		}
		if !s.prereqsSatisfiedBefore(code, t, assignment) {
			continue
		}

		assignment[code] = t
		creditsPerTerm[t] += credit

		s.run(idx+1, assignment, creditsPerTerm)

		creditsPerTerm[t] -= credit
		delete(assignment, code)
	}
}

// prereqsSatisfiedBefore reports whether every prerequisite of code is
// already completed or assigned to a term strictly earlier than t.
func (s *exactSearch) prereqsSatisfiedBefore(code string, t int, assignment map[string]int) bool {
	for _, req := range s.prereqs[code] {
		if s.completed[req] {
			continue
		}
		assignedTerm, ok := assignment[req]
		if !ok || assignedTerm >= t {
			return false
		}
	}
	return true
}

func (s *exactSearch) considerSolution(assignment map[string]int) {
	unmet := len(s.courses) - len(assignment)
	objective := 0
	for code, t := range assignment {
		objective += t * s.courseCredits[code]
	}

	if !s.haveBest || unmet < s.bestUnmet || (unmet == s.bestUnmet && objective < s.bestObjective) {
		s.haveBest = true
		s.bestUnmet = unmet
		s.bestObjective = objective
		s.bestAssignment = make(map[string]int, len(assignment))
		for k, v := range assignment {
			s.bestAssignment[k] = v
		}
	}
}

func (s *exactSearch) budgetExhausted() bool {
	if s.explored >= s.maxNodes {
		return true
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return true
	}
	return false
}
