package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ecmaops/stagesync/internal/describe"
	"github.com/ecmaops/stagesync/internal/index"
	"github.com/ecmaops/stagesync/internal/jira"
	"github.com/ecmaops/stagesync/internal/proposal"
)

// Action is the planner's decision for one proposal.
type Action int

const (
	// ActionSkip means the proposal is not relevant; no call is made.
	ActionSkip Action = iota
	// ActionCreate means no tracked issue exists yet.
	ActionCreate
	// ActionUpdate means an existing tracked issue gets its description
	// and parent refreshed.
	ActionUpdate
)

// String returns a human-readable representation of the action.
func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Decision is the planned action for one proposal, before execution.
type Decision struct {
	Action Action

	// Reason explains a skip; empty for create/update.
	Reason string

	// Key is the existing tracked-issue key for updates.
	Key string

	// Summary is the issue summary for creates.
	Summary string

	// Description is the rendered canonical description.
	Description string

	// ParentKey is the stage-mapped parent grouping.
	ParentKey string
}

// Outcome is the executed result for one proposal.
type Outcome struct {
	Identifier string
	Name       string
	Action     Action
	Reason     string

	// Key is the tracked-issue key: the existing key for updates, the
	// newly returned key for successful creates.
	Key string

	// Err is the gateway failure, if any.
	Err error
}

// Result aggregates a full run so callers can signal overall success.
type Result struct {
	Outcomes []Outcome
	Created  int
	Updated  int
	Skipped  int
	Failed   int
}

// Planner maps proposals to tracking-service actions.
type Planner struct {
	cfg    Config
	idx    *index.Index
	gw     Gateway
	logger *log.Logger
}

// New creates a Planner. The index must be fully constructed; it is
// treated as read-only for the life of the planner. If logger is nil, a
// default logger writing to stderr is used.
func New(cfg Config, idx *index.Index, gw Gateway, logger *log.Logger) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sync config: %w", err)
	}
	if idx == nil {
		return nil, fmt.Errorf("identifier index is required")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Planner{
		cfg:    cfg,
		idx:    idx,
		gw:     gw,
		logger: logger,
	}, nil
}

// Plan decides the action for one proposal without executing it.
//
// The relevance filter short-circuits to a skip: stages below the
// minimum, stage-4 proposals from editions before the cutoff, and
// proposals with no identifier. A relevant stage with no configured
// parent grouping returns an error; that is a configuration defect, not
// a data condition to tolerate.
func (p *Planner) Plan(prop proposal.Proposal) (Decision, error) {
	if !prop.Stage.AtLeast(p.cfg.MinStage) {
		return Decision{Action: ActionSkip, Reason: fmt.Sprintf("stage %s below tracked range", prop.Stage)}, nil
	}
	if prop.Stage == proposal.Stage4 && prop.Edition < p.cfg.EditionCutoff {
		return Decision{Action: ActionSkip, Reason: fmt.Sprintf("shipped in %d edition, before cutoff", prop.Edition)}, nil
	}
	if prop.Identifier == "" {
		return Decision{Action: ActionSkip, Reason: "no identifier in dataset"}, nil
	}

	parent, err := p.cfg.parentFor(prop.Stage)
	if err != nil {
		return Decision{}, err
	}

	desc := describe.Render(prop.Identifier, prop.URL, prop.Notes)

	if key, ok := p.idx.Lookup(prop.Identifier); ok {
		return Decision{
			Action:      ActionUpdate,
			Key:         key,
			Description: desc,
			ParentKey:   parent,
		}, nil
	}

	return Decision{
		Action:      ActionCreate,
		Summary:     prop.Name,
		Description: desc,
		ParentKey:   parent,
	}, nil
}

// Sync plans and executes the action for one proposal.
func (p *Planner) Sync(ctx context.Context, prop proposal.Proposal) Outcome {
	out := Outcome{Identifier: prop.Identifier, Name: prop.Name}

	decision, err := p.Plan(prop)
	if err != nil {
		out.Err = err
		p.logger.Printf("WARNING: %s: %v", prop.Name, err)
		return out
	}

	out.Action = decision.Action
	out.Reason = decision.Reason

	switch decision.Action {
	case ActionSkip:
		p.logger.Printf("Skipped %s: %s", prop.Name, decision.Reason)

	case ActionCreate:
		key, err := p.gw.CreateIssue(ctx, jira.CreateRequest{
			ProjectKey:  p.cfg.ProjectKey,
			ParentKey:   decision.ParentKey,
			Summary:     decision.Summary,
			IssueTypeID: p.cfg.IssueTypeID,
			Description: decision.Description,
			Component:   p.cfg.Component,
		})
		if err != nil {
			out.Err = err
			p.logger.Printf("WARNING: failed to create issue for %s: %v", prop.Identifier, err)
			return out
		}
		out.Key = key
		p.logger.Printf("Created %s for %s (%s)", key, prop.Identifier, prop.Name)

	case ActionUpdate:
		out.Key = decision.Key
		err := p.gw.UpdateIssue(ctx, decision.Key, jira.UpdateRequest{
			ParentKey:   decision.ParentKey,
			Description: decision.Description,
		})
		if err != nil {
			out.Err = err
			p.logger.Printf("WARNING: failed to update %s for %s: %v", decision.Key, prop.Identifier, err)
			return out
		}
		p.logger.Printf("Updated %s for %s", decision.Key, prop.Identifier)
	}

	return out
}

// Run synchronizes every proposal in order, one blocking gateway call at
// a time. Individual failures are recorded and the run continues; the
// returned Result carries every outcome plus counters so the caller can
// decide the process exit status.
func (p *Planner) Run(ctx context.Context, proposals []proposal.Proposal) *Result {
	res := &Result{Outcomes: make([]Outcome, 0, len(proposals))}

	for _, prop := range proposals {
		out := p.Sync(ctx, prop)
		res.Outcomes = append(res.Outcomes, out)

		switch {
		case out.Err != nil:
			res.Failed++
		case out.Action == ActionCreate:
			res.Created++
		case out.Action == ActionUpdate:
			res.Updated++
		default:
			res.Skipped++
		}
	}

	p.logger.Printf("Run complete: created=%d updated=%d skipped=%d failed=%d",
		res.Created, res.Updated, res.Skipped, res.Failed)

	return res
}

// StatusOf extracts the gateway status code from an outcome error, or 0
// when the failure was not an API response.
func StatusOf(err error) int {
	var apiErr *jira.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
