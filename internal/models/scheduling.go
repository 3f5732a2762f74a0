package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mpivetta/cardflow/internal/srs"
)

// CardScheduling is the per-user, per-card spaced-repetition record. User,
// card and deck identifiers are opaque; their lifecycle belongs to the auth
// and deck collaborators.
type CardScheduling struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	CardID        string     `json:"card_id"`
	DeckID        string     `json:"deck_id"`
	EaseFactor    float64    `json:"ease_factor"`
	IntervalDays  float64    `json:"interval_days"`
	Repetitions   int        `json:"repetitions"`
	LearningStep  int        `json:"learning_step"`
	NextReviewAt  time.Time  `json:"next_review_at"`
	LastReviewAt  *time.Time `json:"last_review_at"`
	TotalReviews  int        `json:"total_reviews"`
	CorrectStreak int        `json:"correct_streak"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewCardScheduling returns a default record for a card that has never been
// studied. The card is due immediately.
func NewCardScheduling(userID, cardID, deckID string, now time.Time) CardScheduling {
	return CardScheduling{
		ID:           uuid.NewString(),
		UserID:       userID,
		CardID:       cardID,
		DeckID:       deckID,
		EaseFactor:   srs.DefaultEaseFactor,
		IntervalDays: 0,
		Repetitions:  0,
		LearningStep: srs.Graduated,
		NextReviewAt: now,
		CreatedAt:    now,
	}
}

// SchedulingState extracts the scheduler's view of the record.
func (c CardScheduling) SchedulingState() srs.State {
	return srs.State{
		EaseFactor:   c.EaseFactor,
		Interval:     c.IntervalDays,
		Repetitions:  c.Repetitions,
		LearningStep: c.LearningStep,
	}
}

// ApplyResult folds a scheduling result and the review bookkeeping back into
// the record.
func (c *CardScheduling) ApplyResult(res srs.Result, quality int, now time.Time) {
	c.EaseFactor = res.EaseFactor
	c.IntervalDays = res.Interval
	c.Repetitions = res.Repetitions
	c.LearningStep = res.LearningStep
	c.NextReviewAt = res.NextReviewAt
	reviewedAt := now
	c.LastReviewAt = &reviewedAt
	c.TotalReviews++
	if quality >= srs.PassThreshold {
		c.CorrectStreak++
	} else {
		c.CorrectStreak = 0
	}
}

// DueFilter selects due cards for a user. A card is due when
// next_review_at <= Before, boundary included.
type DueFilter struct {
	UserID string
	DeckID string
	Before time.Time
	Limit  int
	Offset int
}

// ReviewHistory is one appended review event, kept for analytics.
type ReviewHistory struct {
	ID              int64     `json:"id"`
	SchedulingID    string    `json:"scheduling_id"`
	Quality         int       `json:"quality"`
	DurationSeconds float64   `json:"duration_seconds"`
	ReviewedAt      time.Time `json:"reviewed_at"`
}
