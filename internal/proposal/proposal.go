// Package proposal provides the data model and loaders for the public
// standardization-proposal dataset.
package proposal

import (
	"encoding/json"
	"fmt"
)

// Stage is the ordinal maturity level of a proposal.
//
// The dataset encodes stages as numbers (1, 2, 2.7, 3, 4). They are kept
// as canonical strings here because 2.7 does not round-trip cleanly as a
// float key in mapping tables.
type Stage string

const (
	// Stage1 is the earliest tracked stage.
	Stage1 Stage = "1"
	// Stage2 indicates the proposal has an initial spec text.
	Stage2 Stage = "2"
	// Stage27 is the intermediate "2.7" stage between draft and candidate.
	Stage27 Stage = "2.7"
	// Stage3 is the candidate stage.
	Stage3 Stage = "3"
	// Stage4 is terminal: the proposal has shipped in an edition.
	Stage4 Stage = "4"
)

// stageRank maps stages to their position in the fixed ordering.
// Unknown stages rank below Stage1.
var stageRank = map[Stage]int{
	Stage1:  1,
	Stage2:  2,
	Stage27: 3,
	Stage3:  4,
	Stage4:  5,
}

// AtLeast reports whether s is at or above other in the stage ordering.
// An unknown stage is never at least anything.
func (s Stage) AtLeast(other Stage) bool {
	return stageRank[s] >= stageRank[other] && stageRank[s] != 0
}

// Known reports whether s is one of the five fixed stage values.
func (s Stage) Known() bool {
	return stageRank[s] != 0
}

// Note is one timestamped link attached to a proposal. The timestamp is
// kept as the raw dataset string because upstream data contains entries
// that do not parse; those are filtered at render time, not load time.
type Note struct {
	Date string `json:"date"`
	URL  string `json:"url"`
}

// Proposal is one record in the dataset.
//
// Identifier is optional: proposals without one cannot be linked to a
// tracked issue and are skipped by the planner.
type Proposal struct {
	Identifier string `json:"id,omitempty"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Stage      Stage  `json:"stage"`
	Edition    int    `json:"edition,omitempty"`
	Notes      []Note `json:"notes,omitempty"`
}

// UnmarshalJSON accepts stage both as a JSON number (as published in the
// dataset) and as a string.
func (p *Proposal) UnmarshalJSON(data []byte) error {
	type alias struct {
		Identifier string      `json:"id"`
		Name       string      `json:"name"`
		URL        string      `json:"url"`
		Stage      json.Number `json:"stage"`
		Edition    int         `json:"edition"`
		Notes      []Note      `json:"notes"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	p.Identifier = a.Identifier
	p.Name = a.Name
	p.URL = a.URL
	p.Stage = Stage(a.Stage.String())
	p.Edition = a.Edition
	p.Notes = a.Notes
	return nil
}

// Document is the top-level shape of the dataset file.
type Document struct {
	Proposals []Proposal `json:"proposals"`
}

// Parse decodes a dataset document and returns its proposals.
func Parse(data []byte) ([]Proposal, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse proposal dataset: %w", err)
	}
	return doc.Proposals, nil
}
