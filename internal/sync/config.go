package sync

import (
	"fmt"

	"github.com/ecmaops/stagesync/internal/proposal"
)

// Config carries the fixed tables the planner and gateway calls depend
// on. It is an explicit value, not package state, so tests can
// substitute alternate mappings.
type Config struct {
	// ProjectKey is the tracking-service project new issues go into.
	ProjectKey string

	// Component is the fixed component label applied to created issues.
	Component string

	// IssueTypeID is the tracking-service issue type for created issues.
	IssueTypeID string

	// StageParents maps each tracked stage to the parent grouping issue
	// its proposals are filed under. Every stage that can pass the
	// relevance filter must have an entry; a missing entry is a
	// configuration defect and is surfaced as a per-item error.
	StageParents map[proposal.Stage]string

	// MinStage is the lowest stage worth tracking. Proposals below it
	// are skipped.
	MinStage proposal.Stage

	// EditionCutoff is the first edition year stage-4 proposals are
	// still actionable for. Stage-4 proposals from earlier editions are
	// historical and skipped.
	EditionCutoff int
}

// Validate checks the config is complete enough to run.
func (c Config) Validate() error {
	if c.ProjectKey == "" {
		return fmt.Errorf("project key is required")
	}
	if c.IssueTypeID == "" {
		return fmt.Errorf("issue type id is required")
	}
	if len(c.StageParents) == 0 {
		return fmt.Errorf("stage parent mapping is required")
	}
	if !c.MinStage.Known() {
		return fmt.Errorf("minimum stage %q is not a known stage", c.MinStage)
	}
	return nil
}

// parentFor returns the parent grouping key for a stage.
func (c Config) parentFor(stage proposal.Stage) (string, error) {
	parent, ok := c.StageParents[stage]
	if !ok {
		return "", fmt.Errorf("no parent grouping configured for stage %s", stage)
	}
	return parent, nil
}
