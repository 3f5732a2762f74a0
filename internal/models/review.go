package models

import "time"

// Study modes distinguish scheduled reviews from cramming, which touches the
// session counters but never the scheduler.
const (
	ModeSpaced   = "spaced"
	ModeCramming = "cramming"
)

// ReviewOutcome is the input event produced when a user finishes a card.
type ReviewOutcome struct {
	UserID          string    `json:"-"`
	CardID          string    `json:"card_id"`
	DeckID          string    `json:"deck_id"`
	Quality         int       `json:"quality"`
	DurationSeconds float64   `json:"duration_seconds"`
	Mode            string    `json:"mode"`
	Timestamp       time.Time `json:"timestamp"`
}

// ReviewResult is returned to the caller after a review is applied.
type ReviewResult struct {
	Scheduling CardScheduling `json:"scheduling"`
	Streak     *StreakStatus  `json:"streak,omitempty"`
	FreezeUsed bool           `json:"freeze_used"`
}
