// Package index builds the identifier-to-issue-key lookup used to decide
// create versus update for each proposal.
//
// The index is built fresh at the start of every sync run, either from a
// bulk text export (bootstrap) or from a paginated live query against the
// tracking service. Once returned it is read-only: issues created during
// a run are not folded back in.
package index

import (
	"fmt"
	"regexp"
)

// idMarker extracts the proposal identifier embedded in an issue
// description or bulk-export line, e.g. "id: proposal-foo".
var idMarker = regexp.MustCompile(`id:\s*(\S+)`)

// placeholder is the literal identifier some historical issues carry
// instead of a real one; it never contributes an association.
const placeholder = "undefined"

// Index maps proposal identifiers to tracked-issue keys.
type Index struct {
	byID map[string]string
}

// New wraps an existing identifier-to-key mapping.
func New(mappings map[string]string) *Index {
	if mappings == nil {
		mappings = make(map[string]string)
	}
	return &Index{byID: mappings}
}

// Lookup returns the tracked-issue key for identifier, if one is known.
func (ix *Index) Lookup(identifier string) (string, bool) {
	key, ok := ix.byID[identifier]
	return key, ok
}

// Len returns the number of known associations.
func (ix *Index) Len() int {
	return len(ix.byID)
}

// Mappings returns a copy of the underlying identifier-to-key map.
func (ix *Index) Mappings() map[string]string {
	out := make(map[string]string, len(ix.byID))
	for id, key := range ix.byID {
		out[id] = key
	}
	return out
}

// keyPattern builds the regexp matching tracked-issue keys for a project,
// e.g. "STD" matches "STD-1234".
func keyPattern(projectKey string) (*regexp.Regexp, error) {
	if projectKey == "" {
		return nil, fmt.Errorf("project key is required")
	}
	return regexp.Compile(regexp.QuoteMeta(projectKey) + `-\d+`)
}

// extractIdentifier pulls the identifier out of text via the id: marker.
// Returns "" when the marker is missing or carries the placeholder.
func extractIdentifier(text string) string {
	m := idMarker.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	id := m[1]
	if id == placeholder {
		return ""
	}
	return id
}
