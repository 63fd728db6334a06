package jira

import "fmt"

// SearchPage is one page of a paginated issue search.
type SearchPage struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Issue is the slice of an issue the sync cares about. Searches request
// only the description field, so Fields carries nothing else.
type Issue struct {
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

// Fields holds the requested issue fields.
type Fields struct {
	Description string `json:"description"`
}

// CreateRequest describes a new tracked issue.
type CreateRequest struct {
	ProjectKey  string
	ParentKey   string
	Summary     string
	IssueTypeID string
	Description string
	Component   string
}

// UpdateRequest replaces the managed fields of an existing issue. The
// summary is deliberately absent: it is written once at creation and
// never touched again.
type UpdateRequest struct {
	ParentKey   string
	Description string
}

// APIError is returned for any non-success response from the tracking
// service, carrying the status and raw error payload for the run log.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tracking service returned status %d: %s", e.StatusCode, e.Body)
}

// searchRequest is the wire shape of a paginated search call.
type searchRequest struct {
	JQL        string   `json:"jql"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

// createPayload is the wire shape of an issue-create call.
type createPayload struct {
	Fields createFields `json:"fields"`
}

type createFields struct {
	Project     keyRef    `json:"project"`
	Parent      *keyRef   `json:"parent,omitempty"`
	Summary     string    `json:"summary"`
	IssueType   idRef     `json:"issuetype"`
	Description string    `json:"description"`
	Components  []nameRef `json:"components,omitempty"`
}

// updatePayload is the wire shape of an issue-update call.
type updatePayload struct {
	Fields updateFields `json:"fields"`
}

type updateFields struct {
	Parent      *keyRef `json:"parent,omitempty"`
	Description string  `json:"description"`
}

type keyRef struct {
	Key string `json:"key"`
}

type idRef struct {
	ID string `json:"id"`
}

type nameRef struct {
	Name string `json:"name"`
}

// createResponse is the body returned by a successful create.
type createResponse struct {
	Key string `json:"key"`
}
