package index

import (
	"context"
	"fmt"

	"github.com/ecmaops/stagesync/internal/jira"
)

// PageSize is the fixed page size for live index construction.
const PageSize = 100

// Pager fetches one page of existing tracked issues. The production
// implementation is a jira.Client search scoped to the sync project and
// component, requesting only the description field.
type Pager interface {
	SearchPage(ctx context.Context, startAt, maxResults int) (*jira.SearchPage, error)
}

// FromSearch constructs an index by paginating over all existing tracked
// issues and extracting each proposal identifier from the issue
// description's "id:" marker line.
//
// Pages are fetched sequentially, advancing the start offset by the page
// size until the cumulative retrieved count reaches the service-reported
// total. Any page failure aborts construction: a partial index would
// cause spurious duplicate creations, so no index is returned at all.
func FromSearch(ctx context.Context, pager Pager) (*Index, error) {
	byID := make(map[string]string)

	for startAt := 0; ; {
		page, err := pager.SearchPage(ctx, startAt, PageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch issue page at offset %d: %w", startAt, err)
		}

		for _, issue := range page.Issues {
			id := extractIdentifier(issue.Fields.Description)
			if id == "" {
				continue
			}
			byID[id] = issue.Key
		}

		startAt += PageSize
		if startAt >= page.Total || len(page.Issues) == 0 {
			break
		}
	}

	return New(byID), nil
}

// ComponentSearch adapts a jira.Client into a Pager scoped to one
// project and component.
type ComponentSearch struct {
	Client     *jira.Client
	ProjectKey string
	Component  string
}

// SearchPage implements Pager.
func (s *ComponentSearch) SearchPage(ctx context.Context, startAt, maxResults int) (*jira.SearchPage, error) {
	jql := fmt.Sprintf("project = %s AND component = %q", s.ProjectKey, s.Component)
	return s.Client.SearchPage(ctx, jql, startAt, maxResults, []string{"description"})
}
