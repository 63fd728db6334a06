// Package sync decides and executes the per-proposal synchronization
// action: skip, create a new tracked issue, or refresh an existing one.
//
// The planner performs no I/O of its own. The dataset and the identifier
// index are handed to it as plain values by the orchestrating command,
// and all tracking-service calls go through the Gateway interface, so
// the decision logic is unit-testable with in-memory fixtures.
//
// The planner is resilient: one proposal's gateway failure is recorded
// in the run result and the loop continues with the next proposal. Only
// index construction, which happens before the planner runs, is fatal.
package sync

import (
	"context"

	"github.com/ecmaops/stagesync/internal/jira"
)

// Gateway performs the create and update operations against the
// tracking service. Implemented by *jira.Client; tests substitute an
// in-memory fake.
type Gateway interface {
	// CreateIssue submits a new tracked issue and returns its key.
	CreateIssue(ctx context.Context, req jira.CreateRequest) (string, error)

	// UpdateIssue replaces the description and parent grouping of an
	// existing tracked issue. It never touches the summary.
	UpdateIssue(ctx context.Context, key string, req jira.UpdateRequest) error
}
