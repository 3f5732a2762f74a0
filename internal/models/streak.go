package models

import (
	"time"

	"github.com/mpivetta/cardflow/internal/srs"
)

// UserStreak is the per-user streak state, stored alongside the profile.
type UserStreak struct {
	UserID           string     `json:"user_id"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastStudyAt      *time.Time `json:"last_study_at"`
	FreezesAvailable int        `json:"freezes_available"`
	LastFreezeWeek   string     `json:"last_freeze_week"`
	Premium          bool       `json:"premium"`
}

// StreakState extracts the tracker's view of the record.
func (u UserStreak) StreakState() srs.StreakState {
	return srs.StreakState{
		CurrentStreak:    u.CurrentStreak,
		LongestStreak:    u.LongestStreak,
		LastStudyAt:      u.LastStudyAt,
		FreezesAvailable: u.FreezesAvailable,
		LastFreezeWeek:   u.LastFreezeWeek,
	}
}

// ApplyState folds updated tracker state back into the record.
func (u *UserStreak) ApplyState(s srs.StreakState) {
	u.CurrentStreak = s.CurrentStreak
	u.LongestStreak = s.LongestStreak
	u.LastStudyAt = s.LastStudyAt
	u.FreezesAvailable = s.FreezesAvailable
	u.LastFreezeWeek = s.LastFreezeWeek
}

// StudyResult reports what one recorded study event did to the user's
// streak and daily session.
type StudyResult struct {
	Streak     StreakStatus `json:"streak"`
	FreezeUsed bool         `json:"freeze_used"`
	Session    DailySession `json:"session"`
}

// StreakStatus is the read-only streak snapshot served to clients.
type StreakStatus struct {
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	AtRisk           bool       `json:"at_risk"`
	FreezesAvailable int        `json:"freezes_available"`
	LastStudyAt      *time.Time `json:"last_study_at"`
}
