package entity

import "time"

// Label is the machine/community judgment attached to a claim.
type Label string

const (
	LabelLikelyTrue  Label = "Likely True"
	LabelLikelyFalse Label = "Likely False"
	LabelUnclear     Label = "Unclear"
	LabelUnverified  Label = "Unverified"
)

// Claim is immutable after creation except for the AI fields, which the
// classifier gateway sets exactly once at creation time.
type Claim struct {
	ID           string
	AuthorID     string
	Text         string
	Link         string
	MediaURL     string
	AILabel      Label
	AISummary    string
	AIConfidence float64
	CreatedAt    time.Time
}
