package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/mpivetta/cardflow/internal/db"
	"github.com/mpivetta/cardflow/internal/logger"
	"github.com/mpivetta/cardflow/internal/models"
	"github.com/mpivetta/cardflow/internal/repository"
	"github.com/mpivetta/cardflow/internal/srs"
)

const selectStreak = `
SELECT user_id, current_streak, longest_streak, last_study_at, freezes_available, last_freeze_week, premium
FROM user_streaks
WHERE user_id = ?
`

const selectSession = `
SELECT user_id, date, first_session_at, last_session_at, minutes_studied,
       cards_reviewed, cards_correct, cramming_sessions, spaced_sessions
FROM daily_sessions
WHERE user_id = ? AND date = ?
`

type studyRepository struct {
	db         *db.DB
	maxRetries int
}

// NewStudyRepository creates a new StudyRepository implementation. Streak and
// session writes retry up to maxRetries times on lock contention.
func NewStudyRepository(database *db.DB, maxRetries int) repository.StudyRepository {
	return &studyRepository{db: database, maxRetries: maxRetries}
}

func (r *studyRepository) GetStreak(ctx context.Context, userID string) (*models.UserStreak, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("getting streak: user_id=%s", userID)

	u, err := scanStreak(r.db.QueryRowContext(ctx, selectStreak, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get streak: %v", err)
		return nil, err
	}
	return u, nil
}

func (r *studyRepository) SetPremium(ctx context.Context, userID string, premium bool) error {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("setting premium: user_id=%s, premium=%v", userID, premium)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_streaks (user_id, premium) VALUES (?, ?)
ON CONFLICT(user_id) DO UPDATE SET premium = excluded.premium
`, userID, premium)
	if err != nil {
		log.Error("failed to set premium: %v", err)
	}
	return err
}

func (r *studyRepository) GetSession(ctx context.Context, userID string, date srs.Date) (*models.DailySession, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("getting session: user_id=%s, date=%s", userID, date)

	s, err := scanSession(r.db.QueryRowContext(ctx, selectSession, userID, date.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *studyRepository) SessionsInRange(ctx context.Context, userID string, from, to srs.Date) ([]models.DailySession, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("listing sessions: user_id=%s, from=%s, to=%s", userID, from, to)

	query, args, err := sqlBuilder.Select(
		"user_id", "date", "first_session_at", "last_session_at", "minutes_studied",
		"cards_reviewed", "cards_correct", "cramming_sessions", "spaced_sessions",
	).From("daily_sessions").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"date": from.String()}).
		Where(squirrel.LtOrEq{"date": to.String()}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build sessions query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.DailySession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *studyRepository) RecordStudy(ctx context.Context, userID string, now time.Time, apply func(streak *models.UserStreak, session *models.DailySession) error) error {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("recording study event: user_id=%s", userID)

	date := srs.DateOf(now)
	return r.db.WithRetryTx(ctx, r.maxRetries, func(tx *sql.Tx) error {
		// Read phase: both records are loaded (or defaulted) before any write.
		streak, streakExists, err := readStreak(ctx, tx, userID)
		if err != nil {
			return err
		}
		session, sessionExists, err := readSession(ctx, tx, userID, date, now)
		if err != nil {
			return err
		}

		if err := apply(streak, session); err != nil {
			return err
		}

		// Write phase.
		if err := writeStreak(ctx, tx, streak, streakExists); err != nil {
			return err
		}
		return writeSession(ctx, tx, session, sessionExists)
	})
}

func (r *studyRepository) AddStudyMinutes(ctx context.Context, userID string, minutes float64, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("adding study minutes: user_id=%s, minutes=%.2f", userID, minutes)

	return r.db.WithRetryTx(ctx, r.maxRetries, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO daily_sessions (user_id, date, first_session_at, last_session_at, minutes_studied)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id, date) DO UPDATE SET
    minutes_studied = daily_sessions.minutes_studied + excluded.minutes_studied,
    last_session_at = excluded.last_session_at
`, userID, srs.DateOf(now).String(), now, now, minutes)
		return err
	})
}

func readStreak(ctx context.Context, tx *sql.Tx, userID string) (*models.UserStreak, bool, error) {
	u, err := scanStreak(tx.QueryRowContext(ctx, selectStreak, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return &models.UserStreak{UserID: userID}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func readSession(ctx context.Context, tx *sql.Tx, userID string, date srs.Date, now time.Time) (*models.DailySession, bool, error) {
	s, err := scanSession(tx.QueryRowContext(ctx, selectSession, userID, date.String()))
	if errors.Is(err, sql.ErrNoRows) {
		session := models.NewDailySession(userID, now)
		return &session, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func writeStreak(ctx context.Context, tx *sql.Tx, u *models.UserStreak, exists bool) error {
	if exists {
		_, err := tx.ExecContext(ctx, `
UPDATE user_streaks
SET current_streak = ?, longest_streak = ?, last_study_at = ?, freezes_available = ?, last_freeze_week = ?
WHERE user_id = ?
`, u.CurrentStreak, u.LongestStreak, nullableTime(u.LastStudyAt), u.FreezesAvailable, u.LastFreezeWeek, u.UserID)
		return err
	}
	_, err := tx.ExecContext(ctx, `
INSERT INTO user_streaks (user_id, current_streak, longest_streak, last_study_at, freezes_available, last_freeze_week, premium)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, u.UserID, u.CurrentStreak, u.LongestStreak, nullableTime(u.LastStudyAt), u.FreezesAvailable, u.LastFreezeWeek, u.Premium)
	return err
}

func writeSession(ctx context.Context, tx *sql.Tx, s *models.DailySession, exists bool) error {
	if exists {
		_, err := tx.ExecContext(ctx, `
UPDATE daily_sessions
SET first_session_at = ?, last_session_at = ?, minutes_studied = ?,
    cards_reviewed = ?, cards_correct = ?, cramming_sessions = ?, spaced_sessions = ?
WHERE user_id = ? AND date = ?
`, s.FirstSessionAt, s.LastSessionAt, s.MinutesStudied,
			s.CardsReviewed, s.CardsCorrect, s.CrammingSessions, s.SpacedSessions,
			s.UserID, s.Date.String())
		return err
	}
	_, err := tx.ExecContext(ctx, `
INSERT INTO daily_sessions (user_id, date, first_session_at, last_session_at, minutes_studied,
                            cards_reviewed, cards_correct, cramming_sessions, spaced_sessions)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.UserID, s.Date.String(), s.FirstSessionAt, s.LastSessionAt, s.MinutesStudied,
		s.CardsReviewed, s.CardsCorrect, s.CrammingSessions, s.SpacedSessions)
	return err
}
