package models

import (
	"time"

	"github.com/mpivetta/cardflow/internal/srs"
)

// DailySession accumulates all study activity of one user on one local
// calendar day. At most one record exists per user per day.
type DailySession struct {
	UserID           string    `json:"user_id"`
	Date             srs.Date  `json:"date"`
	FirstSessionAt   time.Time `json:"first_session_at"`
	LastSessionAt    time.Time `json:"last_session_at"`
	MinutesStudied   float64   `json:"minutes_studied"`
	CardsReviewed    int       `json:"cards_reviewed"`
	CardsCorrect     int       `json:"cards_correct"`
	CrammingSessions int       `json:"cramming_sessions"`
	SpacedSessions   int       `json:"spaced_sessions"`
}

// NewDailySession opens the day's record at now.
func NewDailySession(userID string, now time.Time) DailySession {
	return DailySession{
		UserID:         userID,
		Date:           srs.DateOf(now),
		FirstSessionAt: now,
		LastSessionAt:  now,
	}
}

// Accumulate folds one review into the day's counters.
func (s *DailySession) Accumulate(correct bool, mode string, minutes float64, now time.Time) {
	if now.Before(s.FirstSessionAt) {
		s.FirstSessionAt = now
	}
	if now.After(s.LastSessionAt) {
		s.LastSessionAt = now
	}
	s.MinutesStudied += minutes
	s.CardsReviewed++
	if correct {
		s.CardsCorrect++
	}
	if mode == ModeCramming {
		s.CrammingSessions++
	} else {
		s.SpacedSessions++
	}
}
