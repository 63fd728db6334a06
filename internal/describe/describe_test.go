package describe

import (
	"strings"
	"testing"

	"github.com/ecmaops/stagesync/internal/proposal"
)

func TestRenderOrdersNotesAscending(t *testing.T) {
	notes := []proposal.Note{
		{Date: "2024-06-01T10:00:00Z", URL: "https://notes.example/t3"},
		{Date: "2023-01-15T09:00:00Z", URL: "https://notes.example/t1"},
		{Date: "2023-11-20T12:00:00Z", URL: "https://notes.example/t2"},
		{Date: "not-a-timestamp", URL: "https://notes.example/bad"},
	}

	got := Render("proposal-foo", "https://proposals.example/foo", notes)

	want := "id: proposal-foo\n" +
		"url: https://proposals.example/foo\n" +
		"notes:\n" +
		"  - 2023-01-15: https://notes.example/t1\n" +
		"  - 2023-11-20: https://notes.example/t2\n" +
		"  - 2024-06-01: https://notes.example/t3\n"

	if got != want {
		t.Errorf("unexpected render output:\ngot:\n%s\nwant:\n%s", got, want)
	}

	if strings.Contains(got, "bad") {
		t.Error("note with invalid timestamp should be excluded")
	}
}

func TestRenderIsByteStable(t *testing.T) {
	notes := []proposal.Note{
		{Date: "2024-03-10T08:30:00Z", URL: "https://notes.example/a"},
		{Date: "2024-03-10T08:30:00Z", URL: "https://notes.example/b"},
	}

	first := Render("proposal-bar", "https://proposals.example/bar", notes)
	second := Render("proposal-bar", "https://proposals.example/bar", notes)

	if first != second {
		t.Errorf("render is not deterministic:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestRenderTiesKeepOriginalOrder(t *testing.T) {
	notes := []proposal.Note{
		{Date: "2024-03-10", URL: "https://notes.example/first"},
		{Date: "2024-03-10", URL: "https://notes.example/second"},
	}

	got := Render("p", "u", notes)

	firstIdx := strings.Index(got, "first")
	secondIdx := strings.Index(got, "second")
	if firstIdx < 0 || secondIdx < 0 || firstIdx > secondIdx {
		t.Errorf("tied notes reordered:\n%s", got)
	}
}

func TestRenderNoValidNotes(t *testing.T) {
	notes := []proposal.Note{
		{Date: "garbage", URL: "https://notes.example/x"},
	}

	got := Render("proposal-empty", "https://proposals.example/empty", notes)

	want := "id: proposal-empty\nurl: https://proposals.example/empty\nnotes:\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderFormatsDatesInUTC(t *testing.T) {
	// 23:30 on March 9th at -05:00 is March 10th in UTC.
	notes := []proposal.Note{
		{Date: "2024-03-09T23:30:00-05:00", URL: "https://notes.example/offset"},
	}

	got := Render("p", "u", notes)

	if !strings.Contains(got, "  - 2024-03-10: https://notes.example/offset\n") {
		t.Errorf("expected UTC calendar date 2024-03-10, got:\n%s", got)
	}
}

func TestRenderAcceptsDateOnlyTimestamps(t *testing.T) {
	notes := []proposal.Note{
		{Date: "2022-09-14", URL: "https://notes.example/plain"},
	}

	got := Render("p", "u", notes)

	if !strings.Contains(got, "  - 2022-09-14: https://notes.example/plain\n") {
		t.Errorf("date-only timestamp should be accepted, got:\n%s", got)
	}
}
