package proposal

import (
	"testing"
)

func TestParseDataset(t *testing.T) {
	data := []byte(`{
		"proposals": [
			{
				"id": "proposal-temporal",
				"name": "Temporal",
				"url": "https://proposals.example/temporal",
				"stage": 2.7,
				"notes": [
					{"date": "2024-02-06T00:00:00Z", "url": "https://notes.example/1"}
				]
			},
			{
				"name": "Unnamed Thing",
				"url": "https://proposals.example/unnamed",
				"stage": 1
			},
			{
				"id": "proposal-shipped",
				"name": "Shipped Feature",
				"url": "https://proposals.example/shipped",
				"stage": 4,
				"edition": 2023
			}
		]
	}`)

	proposals, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(proposals) != 3 {
		t.Fatalf("expected 3 proposals, got %d", len(proposals))
	}

	if proposals[0].Stage != Stage27 {
		t.Errorf("expected stage 2.7, got %q", proposals[0].Stage)
	}
	if proposals[0].Identifier != "proposal-temporal" {
		t.Errorf("unexpected identifier: %q", proposals[0].Identifier)
	}
	if len(proposals[0].Notes) != 1 {
		t.Errorf("expected 1 note, got %d", len(proposals[0].Notes))
	}

	if proposals[1].Identifier != "" {
		t.Errorf("expected empty identifier, got %q", proposals[1].Identifier)
	}
	if proposals[1].Stage != Stage1 {
		t.Errorf("expected stage 1, got %q", proposals[1].Stage)
	}

	if proposals[2].Edition != 2023 {
		t.Errorf("expected edition 2023, got %d", proposals[2].Edition)
	}
}

func TestParseRejectsMalformedDocument(t *testing.T) {
	if _, err := Parse([]byte(`{"proposals": "nope"}`)); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestStageOrdering(t *testing.T) {
	tests := []struct {
		stage Stage
		min   Stage
		want  bool
	}{
		{Stage1, Stage1, true},
		{Stage2, Stage1, true},
		{Stage27, Stage2, true},
		{Stage27, Stage3, false},
		{Stage3, Stage27, true},
		{Stage4, Stage1, true},
		{Stage("0"), Stage1, false},
		{Stage(""), Stage1, false},
		{Stage("weird"), Stage1, false},
	}

	for _, tt := range tests {
		if got := tt.stage.AtLeast(tt.min); got != tt.want {
			t.Errorf("Stage(%q).AtLeast(%q) = %v, want %v", tt.stage, tt.min, got, tt.want)
		}
	}
}

func TestStageKnown(t *testing.T) {
	for _, s := range []Stage{Stage1, Stage2, Stage27, Stage3, Stage4} {
		if !s.Known() {
			t.Errorf("stage %q should be known", s)
		}
	}
	if Stage("5").Known() {
		t.Error("stage 5 should not be known")
	}
}
