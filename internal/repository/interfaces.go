package repository

import (
	"context"
	"time"

	"github.com/mpivetta/cardflow/internal/models"
	"github.com/mpivetta/cardflow/internal/srs"
)

// SchedulingRepository handles card scheduling data access
type SchedulingRepository interface {
	// Get returns the scheduling record for a user and card, or nil when the
	// card has never been initialized.
	Get(ctx context.Context, userID, cardID string) (*models.CardScheduling, error)
	Insert(ctx context.Context, s models.CardScheduling) error
	// InsertBatch creates records for unseen cards, skipping ones that
	// already exist, and returns the number created.
	InsertBatch(ctx context.Context, records []models.CardScheduling) (int, error)
	Update(ctx context.Context, s models.CardScheduling) error
	DueCards(ctx context.Context, filter models.DueFilter) ([]models.CardScheduling, error)
	CountDue(ctx context.Context, filter models.DueFilter) (int, error)
	InsertReviewHistory(ctx context.Context, h models.ReviewHistory) error
}

// StudyRepository handles streak and daily-session data access
type StudyRepository interface {
	GetStreak(ctx context.Context, userID string) (*models.UserStreak, error)
	SetPremium(ctx context.Context, userID string, premium bool) error
	GetSession(ctx context.Context, userID string, date srs.Date) (*models.DailySession, error)
	SessionsInRange(ctx context.Context, userID string, from, to srs.Date) ([]models.DailySession, error)
	// RecordStudy runs apply against the user's streak and the day's session
	// inside one transaction: both records are read (or defaulted) before
	// apply runs, and written after it returns. The whole transaction is
	// retried on contention, so apply must be side-effect free.
	RecordStudy(ctx context.Context, userID string, now time.Time, apply func(streak *models.UserStreak, session *models.DailySession) error) error
	// AddStudyMinutes folds autosaved study time into the day's session.
	AddStudyMinutes(ctx context.Context, userID string, minutes float64, now time.Time) error
}
