// Package describe renders the canonical tracked-issue description for a
// proposal.
//
// The output is a pure function of (identifier, url, notes) and must be
// byte-identical across runs for identical input: the planner compares
// nothing, it simply resubmits the rendered text, and idempotence of the
// whole sync depends on unchanged proposals producing unchanged bytes.
package describe

import (
	"sort"
	"strings"
	"time"

	"github.com/ecmaops/stagesync/internal/proposal"
)

// Prefix is the marker line that links a tracked issue back to its
// proposal. Index construction extracts identifiers by this marker.
const Prefix = "id: "

// noteTimeLayouts are the accepted timestamp forms, tried in order.
// Anything else is a known upstream data-quality issue and the note is
// dropped silently.
var noteTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

type datedNote struct {
	at   time.Time
	url  string
	orig int
}

// Render produces the canonical description text:
//
//	id: <identifier>
//	url: <url>
//	notes:
//	  - <YYYY-MM-DD>: <note url>
//
// Notes with unparsable timestamps are discarded; the rest are listed in
// ascending timestamp order. Ties keep their original dataset order.
func Render(identifier, url string, notes []proposal.Note) string {
	dated := make([]datedNote, 0, len(notes))
	for i, n := range notes {
		at, ok := parseNoteTime(n.Date)
		if !ok {
			continue
		}
		dated = append(dated, datedNote{at: at, url: n.URL, orig: i})
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].at.Before(dated[j].at)
	})

	var b strings.Builder
	b.WriteString(Prefix)
	b.WriteString(identifier)
	b.WriteString("\nurl: ")
	b.WriteString(url)
	b.WriteString("\nnotes:\n")
	for _, n := range dated {
		b.WriteString("  - ")
		b.WriteString(n.at.UTC().Format("2006-01-02"))
		b.WriteString(": ")
		b.WriteString(n.url)
		b.WriteString("\n")
	}
	return b.String()
}

// parseNoteTime parses a note timestamp, returning ok=false for values
// that match no accepted layout.
func parseNoteTime(s string) (time.Time, bool) {
	for _, layout := range noteTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
