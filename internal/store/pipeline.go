package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"labtrack/internal/api"
	"labtrack/internal/domain/project"
)

// PersonAssignment links a person to the project under a role. The
// association replace sends the full desired list, not a delta.
type PersonAssignment struct {
	ID   int64        `json:"id"`
	Role project.Role `json:"role"`
}

// SaveRequest carries the project fields a save cycle persists. ID 0 means
// create.
type SaveRequest struct {
	ID          int64
	Title       string
	Description string
	Sponsor     string
	StartDate   api.Time
	FinishDate  api.Time
	IsFinished  bool
	Persons     []PersonAssignment
}

func (r SaveRequest) toProject() project.Project {
	members := make([]project.Member, 0, len(r.Persons))
	for _, pa := range r.Persons {
		members = append(members, project.Member{Role: pa.Role})
	}
	return project.Project{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Sponsor:     r.Sponsor,
		StartDate:   r.StartDate,
		FinishDate:  r.FinishDate,
		IsFinished:  r.IsFinished,
		Persons:     members,
	}
}

// stagePolicy declares what a stage failure does to the rest of the cycle.
type stagePolicy int

const (
	// stageAbort ends the cycle immediately; nothing after it runs.
	stageAbort stagePolicy = iota
	// stageContinue records the failure and lets the cycle proceed.
	stageContinue
)

type stage struct {
	name   string
	policy stagePolicy
	run    func(ctx context.Context, c *saveCycle) error
}

// saveCycle is the state threaded through the pipeline stages.
type saveCycle struct {
	req     SaveRequest
	drafts  *DraftSession
	project project.Project

	assocErr   error
	flushErr   error
	refreshErr error
}

// Wire bodies. Creates send the full payload with client-set timestamps;
// updates send only the mutable core fields.
type createProjectBody struct {
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Sponsor     string             `json:"sponsor,omitempty"`
	StartDate   api.Time           `json:"startDate"`
	FinishDate  api.Time           `json:"finishDate"`
	IsFinished  bool               `json:"isFinished"`
	Persons     []PersonAssignment `json:"persons"`
	CreatedAt   api.Time           `json:"created_at"`
	UpdatedAt   api.Time           `json:"updated_at"`
}

type updateProjectBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Sponsor     string   `json:"sponsor,omitempty"`
	StartDate   api.Time `json:"startDate"`
	FinishDate  api.Time `json:"finishDate"`
	UpdatedAt   api.Time `json:"updated_at"`
}

type replacePersonsBody struct {
	Persons []PersonAssignment `json:"persons"`
}

// Save runs the project save cycle: persist the core record, replace the
// person associations, flush the draft session against the resolved project
// ID, refresh the mirrored list, clear the drafts.
//
// Stage policies: a core-record failure aborts with *PersistenceError and
// leaves the draft session intact for retry. An association failure does not
// block the flush (already-entered result data would otherwise be lost).
// Flush requests fan out concurrently; any failure collapses into a single
// *FlushError. Refresh and draft clearing run unconditionally once the core
// record is persisted; a refresh failure leaves the mirror stale and is
// reported as a *FetchError. The returned error is the join of the
// association, flush, and refresh outcomes, nil on full success.
func (s *ProjectStore) Save(ctx context.Context, req SaveRequest, drafts *DraftSession) (project.Project, error) {
	if err := req.toProject().Validate(); err != nil {
		return project.Project{}, err
	}
	if req.ID != 0 {
		local, ok := s.find(req.ID)
		if !ok {
			// Cold mirror: look the record up before deciding, otherwise the
			// lock would only hold after a prior listing.
			if remote, err := s.Get(ctx, req.ID); err == nil {
				local, ok = remote, true
			}
		}
		if ok && local.IsFinished {
			return project.Project{}, project.ErrFinished
		}
	}
	if drafts == nil {
		drafts = NewDraftSession()
	}

	c := &saveCycle{req: req, drafts: drafts}
	pipeline := []stage{
		{name: "persist core record", policy: stageAbort, run: s.persistCore},
		{name: "persist associations", policy: stageContinue, run: s.persistAssociations},
		{name: "flush pending results", policy: stageContinue, run: s.flushDrafts},
		{name: "refresh", policy: stageContinue, run: s.refreshProjects},
	}

	for _, st := range pipeline {
		err := st.run(ctx, c)
		if err == nil {
			continue
		}
		if st.policy == stageAbort {
			return project.Project{}, err
		}
		s.logger.Warn("save stage failed", "stage", st.name, "session", drafts.ID(), "error", err)
	}

	// Whatever happened past the core persist, the cycle is over: stale
	// drafts must not leak into the next edit workflow.
	drafts.Clear()

	return c.project, errors.Join(c.assocErr, c.flushErr, c.refreshErr)
}

func (s *ProjectStore) persistCore(ctx context.Context, c *saveCycle) error {
	if c.req.ID != 0 {
		body := updateProjectBody{
			Title:       c.req.Title,
			Description: c.req.Description,
			Sponsor:     c.req.Sponsor,
			StartDate:   c.req.StartDate,
			FinishDate:  c.req.FinishDate,
			UpdatedAt:   api.Now(),
		}
		if err := s.client.Put(ctx, fmt.Sprintf("/projects/%d", c.req.ID), body, &c.project); err != nil {
			return &PersistenceError{Op: "updating project", Err: err}
		}
		return nil
	}

	now := api.Now()
	body := createProjectBody{
		Title:       c.req.Title,
		Description: c.req.Description,
		Sponsor:     c.req.Sponsor,
		StartDate:   c.req.StartDate,
		FinishDate:  c.req.FinishDate,
		IsFinished:  c.req.IsFinished,
		Persons:     c.req.Persons,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.client.Post(ctx, "/projects", body, &c.project); err != nil {
		return &PersistenceError{Op: "creating project", Err: err}
	}
	return nil
}

func (s *ProjectStore) persistAssociations(ctx context.Context, c *saveCycle) error {
	if len(c.req.Persons) == 0 {
		return nil
	}
	body := replacePersonsBody{Persons: c.req.Persons}
	if err := s.client.Put(ctx, fmt.Sprintf("/projects/persons/%d", c.project.ID), body, nil); err != nil {
		c.assocErr = &AssociationError{ProjectID: c.project.ID, Err: err}
		return c.assocErr
	}
	return nil
}

func (s *ProjectStore) flushDrafts(ctx context.Context, c *saveCycle) error {
	pending := c.drafts.Pending()
	if len(pending) == 0 {
		return nil
	}

	errs := make([]error, len(pending))
	var g errgroup.Group
	for i, d := range pending {
		g.Go(func() error {
			members := d.MemberIDs
			if members == nil {
				members = []int64{}
			}
			body := createResultBody{
				Description: d.Description,
				ProjectID:   c.project.ID,
				Members:     members,
			}
			errs[i] = s.client.Post(ctx, "/results", body, nil)
			return errs[i]
		})
	}
	if first := g.Wait(); first != nil {
		failed := 0
		for _, err := range errs {
			if err != nil {
				failed++
			}
		}
		c.flushErr = &FlushError{Failed: failed, Total: len(pending), Err: first}
		return c.flushErr
	}
	return nil
}

func (s *ProjectStore) refreshProjects(ctx context.Context, c *saveCycle) error {
	if _, err := s.FindAll(ctx); err != nil {
		c.refreshErr = err
		return err
	}
	return nil
}
