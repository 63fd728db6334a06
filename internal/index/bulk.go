package index

import (
	"bufio"
	"fmt"
	"io"
)

// FromBulkExport constructs an index from a line-oriented bulk export of
// the tracking service, the one-time bootstrap path used before live
// query access was available.
//
// A line contributes an association only if it contains both a tracked
// issue key for projectKey and an "id: <identifier>" marker; lines whose
// marker carries the literal "undefined" are excluded. When the same
// identifier appears on multiple lines the last occurrence wins.
func FromBulkExport(r io.Reader, projectKey string) (*Index, error) {
	keyRe, err := keyPattern(projectKey)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		key := keyRe.FindString(line)
		if key == "" {
			continue
		}

		id := extractIdentifier(line)
		if id == "" {
			continue
		}

		byID[id] = key
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan bulk export: %w", err)
	}

	return New(byID), nil
}
