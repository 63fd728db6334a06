package index

import (
	"context"
	"fmt"
	"testing"

	"github.com/ecmaops/stagesync/internal/jira"
)

// fakePager serves canned pages and records the offsets requested.
type fakePager struct {
	total   int
	pages   map[int][]jira.Issue
	offsets []int
	failAt  int // offset that returns an error; -1 disables
}

func (f *fakePager) SearchPage(ctx context.Context, startAt, maxResults int) (*jira.SearchPage, error) {
	f.offsets = append(f.offsets, startAt)
	if f.failAt >= 0 && startAt == f.failAt {
		return nil, fmt.Errorf("boom")
	}
	return &jira.SearchPage{
		StartAt:    startAt,
		MaxResults: maxResults,
		Total:      f.total,
		Issues:     f.pages[startAt],
	}, nil
}

func issueWithID(key, id string) jira.Issue {
	return jira.Issue{
		Key: key,
		Fields: jira.Fields{
			Description: fmt.Sprintf("id: %s\nurl: https://proposals.example/%s\nnotes:\n", id, id),
		},
	}
}

func TestFromSearchPagination(t *testing.T) {
	pager := &fakePager{
		total:  250,
		failAt: -1,
		pages: map[int][]jira.Issue{
			0:   {issueWithID("STD-1", "p-one")},
			100: {issueWithID("STD-2", "p-two")},
			200: {issueWithID("STD-3", "p-three")},
		},
	}

	idx, err := FromSearch(context.Background(), pager)
	if err != nil {
		t.Fatalf("FromSearch failed: %v", err)
	}

	wantOffsets := []int{0, 100, 200}
	if len(pager.offsets) != len(wantOffsets) {
		t.Fatalf("expected %d pages, got %d (%v)", len(wantOffsets), len(pager.offsets), pager.offsets)
	}
	for i, want := range wantOffsets {
		if pager.offsets[i] != want {
			t.Errorf("page %d requested offset %d, want %d", i, pager.offsets[i], want)
		}
	}

	if idx.Len() != 3 {
		t.Errorf("expected 3 associations, got %d", idx.Len())
	}
	for id, key := range map[string]string{"p-one": "STD-1", "p-two": "STD-2", "p-three": "STD-3"} {
		got, ok := idx.Lookup(id)
		if !ok || got != key {
			t.Errorf("expected %s -> %s, got %q (found=%v)", id, key, got, ok)
		}
	}
}

func TestFromSearchAbortsOnPageFailure(t *testing.T) {
	pager := &fakePager{
		total:  250,
		failAt: 100,
		pages: map[int][]jira.Issue{
			0: {issueWithID("STD-1", "p-one")},
		},
	}

	idx, err := FromSearch(context.Background(), pager)
	if err == nil {
		t.Fatal("expected error when a page fails")
	}
	if idx != nil {
		t.Error("no partial index may be returned on failure")
	}
}

func TestFromSearchSkipsUnusableDescriptions(t *testing.T) {
	pager := &fakePager{
		total:  3,
		failAt: -1,
		pages: map[int][]jira.Issue{
			0: {
				issueWithID("STD-1", "good"),
				{Key: "STD-2", Fields: jira.Fields{Description: "no marker here"}},
				{Key: "STD-3", Fields: jira.Fields{Description: "id: undefined"}},
			},
		},
	}

	idx, err := FromSearch(context.Background(), pager)
	if err != nil {
		t.Fatalf("FromSearch failed: %v", err)
	}

	if idx.Len() != 1 {
		t.Errorf("expected 1 association, got %d", idx.Len())
	}
	if _, ok := idx.Lookup("good"); !ok {
		t.Error("expected identifier 'good' to be indexed")
	}
}

func TestFromSearchEmptyProject(t *testing.T) {
	pager := &fakePager{total: 0, failAt: -1, pages: map[int][]jira.Issue{}}

	idx, err := FromSearch(context.Background(), pager)
	if err != nil {
		t.Fatalf("FromSearch failed: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("expected empty index, got %d entries", idx.Len())
	}
	if len(pager.offsets) != 1 {
		t.Errorf("expected exactly 1 page for empty project, got %d", len(pager.offsets))
	}
}
