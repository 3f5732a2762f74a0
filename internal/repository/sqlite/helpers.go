package sqlite

import (
	"database/sql"
	"time"

	"github.com/mpivetta/cardflow/internal/models"
	"github.com/mpivetta/cardflow/internal/srs"
)

// Helper functions shared across repository implementations

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduling(row rowScanner) (*models.CardScheduling, error) {
	var s models.CardScheduling
	var lastReview sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.CardID, &s.DeckID, &s.EaseFactor, &s.IntervalDays,
		&s.Repetitions, &s.LearningStep, &s.NextReviewAt, &lastReview,
		&s.TotalReviews, &s.CorrectStreak, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lastReview.Valid {
		t := lastReview.Time
		s.LastReviewAt = &t
	}
	return &s, nil
}

func scanSession(row rowScanner) (*models.DailySession, error) {
	var s models.DailySession
	var date string
	err := row.Scan(&s.UserID, &date, &s.FirstSessionAt, &s.LastSessionAt, &s.MinutesStudied,
		&s.CardsReviewed, &s.CardsCorrect, &s.CrammingSessions, &s.SpacedSessions)
	if err != nil {
		return nil, err
	}
	parsed, err := srs.ParseDate(date)
	if err != nil {
		return nil, err
	}
	s.Date = parsed
	return &s, nil
}

func scanStreak(row rowScanner) (*models.UserStreak, error) {
	var u models.UserStreak
	var lastStudy sql.NullTime
	err := row.Scan(&u.UserID, &u.CurrentStreak, &u.LongestStreak, &lastStudy,
		&u.FreezesAvailable, &u.LastFreezeWeek, &u.Premium)
	if err != nil {
		return nil, err
	}
	if lastStudy.Valid {
		t := lastStudy.Time
		u.LastStudyAt = &t
	}
	return &u, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
