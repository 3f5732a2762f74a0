package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/mpivetta/cardflow/internal/db"
	"github.com/mpivetta/cardflow/internal/logger"
	"github.com/mpivetta/cardflow/internal/models"
	"github.com/mpivetta/cardflow/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var schedulingColumns = []string{
	"id", "user_id", "card_id", "deck_id", "ease_factor", "interval_days",
	"repetitions", "learning_step", "next_review_at", "last_review_at",
	"total_reviews", "correct_streak", "created_at",
}

type schedulingRepository struct {
	db       *db.DB
	dueLimit int
}

// NewSchedulingRepository creates a new SchedulingRepository implementation.
// dueLimit caps due-card queries that carry no explicit limit.
func NewSchedulingRepository(database *db.DB, dueLimit int) repository.SchedulingRepository {
	if dueLimit <= 0 {
		dueLimit = 200
	}
	return &schedulingRepository{db: database, dueLimit: dueLimit}
}

func (r *schedulingRepository) Get(ctx context.Context, userID, cardID string) (*models.CardScheduling, error) {
	log := logger.FromContext(ctx).WithPrefix("scheduling_repo")
	log.Debug("getting scheduling: user_id=%s, card_id=%s", userID, cardID)

	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, card_id, deck_id, ease_factor, interval_days, repetitions, learning_step,
       next_review_at, last_review_at, total_reviews, correct_streak, created_at
FROM card_schedulings
WHERE user_id = ? AND card_id = ?
`, userID, cardID)

	s, err := scanScheduling(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("scheduling not found: card_id=%s", cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get scheduling: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *schedulingRepository) Insert(ctx context.Context, s models.CardScheduling) error {
	log := logger.FromContext(ctx).WithPrefix("scheduling_repo")
	log.Debug("inserting scheduling: id=%s, card_id=%s", s.ID, s.CardID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO card_schedulings (id, user_id, card_id, deck_id, ease_factor, interval_days, repetitions,
                              learning_step, next_review_at, last_review_at, total_reviews, correct_streak, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.ID, s.UserID, s.CardID, s.DeckID, s.EaseFactor, s.IntervalDays, s.Repetitions,
		s.LearningStep, s.NextReviewAt, nullableTime(s.LastReviewAt), s.TotalReviews, s.CorrectStreak, s.CreatedAt)
	if err != nil {
		log.Error("failed to insert scheduling: %v", err)
	}
	return err
}

func (r *schedulingRepository) InsertBatch(ctx context.Context, records []models.CardScheduling) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("scheduling_repo")
	log.Debug("inserting scheduling batch: count=%d", len(records))

	created := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, s := range records {
			res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO card_schedulings (id, user_id, card_id, deck_id, ease_factor, interval_days, repetitions,
                                        learning_step, next_review_at, last_review_at, total_reviews, correct_streak, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.ID, s.UserID, s.CardID, s.DeckID, s.EaseFactor, s.IntervalDays, s.Repetitions,
				s.LearningStep, s.NextReviewAt, nullableTime(s.LastReviewAt), s.TotalReviews, s.CorrectStreak, s.CreatedAt)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			created += int(n)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert scheduling batch: %v", err)
		return 0, err
	}
	log.Debug("scheduling batch inserted: created=%d, skipped=%d", created, len(records)-created)
	return created, nil
}

func (r *schedulingRepository) Update(ctx context.Context, s models.CardScheduling) error {
	log := logger.FromContext(ctx).WithPrefix("scheduling_repo")
	log.Debug("updating scheduling: id=%s, interval=%.3f, ease=%.2f", s.ID, s.IntervalDays, s.EaseFactor)

	_, err := r.db.ExecContext(ctx, `
UPDATE card_schedulings
SET ease_factor = ?, interval_days = ?, repetitions = ?, learning_step = ?,
    next_review_at = ?, last_review_at = ?, total_reviews = ?, correct_streak = ?
WHERE id = ?
`, s.EaseFactor, s.IntervalDays, s.Repetitions, s.LearningStep,
		s.NextReviewAt, nullableTime(s.LastReviewAt), s.TotalReviews, s.CorrectStreak, s.ID)
	if err != nil {
		log.Error("failed to update scheduling: %v", err)
	}
	return err
}

func (r *schedulingRepository) DueCards(ctx context.Context, filter models.DueFilter) ([]models.CardScheduling, error) {
	log := logger.FromContext(ctx).WithPrefix("scheduling_repo")
	log.Debug("fetching due cards: user_id=%s, deck_id=%s, before=%v", filter.UserID, filter.DeckID, filter.Before)

	query, args, err := dueQuery(filter).
		Columns(schedulingColumns...).
		OrderBy("next_review_at ASC").
		Limit(uint64(r.limitFor(filter))).
		Offset(uint64(max(filter.Offset, 0))).
		ToSql()
	if err != nil {
		log.Error("failed to build due query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.CardScheduling
	for rows.Next() {
		s, err := scanScheduling(rows)
		if err != nil {
			log.Error("failed to scan scheduling row: %v", err)
			return nil, err
		}
		cards = append(cards, *s)
	}
	log.Debug("found %d due cards", len(cards))
	return cards, rows.Err()
}

func (r *schedulingRepository) CountDue(ctx context.Context, filter models.DueFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("scheduling_repo")

	query, args, err := dueQuery(filter).Columns("COUNT(*)").ToSql()
	if err != nil {
		log.Error("failed to build due count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count due cards: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *schedulingRepository) InsertReviewHistory(ctx context.Context, h models.ReviewHistory) error {
	log := logger.FromContext(ctx).WithPrefix("scheduling_repo")
	log.Debug("inserting review history: scheduling_id=%s, quality=%d", h.SchedulingID, h.Quality)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (scheduling_id, quality, duration_seconds, reviewed_at)
VALUES (?, ?, ?, ?)
`, h.SchedulingID, h.Quality, h.DurationSeconds, h.ReviewedAt)
	if err != nil {
		log.Error("failed to insert review history: %v", err)
	}
	return err
}

// dueQuery builds the shared WHERE clause of the due-card policy: a card is
// due when next_review_at <= the comparison timestamp, boundary included.
func dueQuery(filter models.DueFilter) squirrel.SelectBuilder {
	q := sqlBuilder.Select().From("card_schedulings").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		Where(squirrel.LtOrEq{"next_review_at": filter.Before})
	if filter.DeckID != "" {
		q = q.Where(squirrel.Eq{"deck_id": filter.DeckID})
	}
	return q
}

func (r *schedulingRepository) limitFor(filter models.DueFilter) int {
	if filter.Limit <= 0 {
		return r.dueLimit
	}
	return filter.Limit
}
