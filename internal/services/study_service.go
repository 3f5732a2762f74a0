package services

import (
	"context"
	"sync"
	"time"

	"github.com/mpivetta/cardflow/internal/apperr"
	"github.com/mpivetta/cardflow/internal/db"
	"github.com/mpivetta/cardflow/internal/logger"
	"github.com/mpivetta/cardflow/internal/models"
	"github.com/mpivetta/cardflow/internal/repository"
	"github.com/mpivetta/cardflow/internal/srs"
)

// StudyService handles streak and daily-session bookkeeping
type StudyService interface {
	// RecordStudy folds one completed review into the user's streak and the
	// day's session record, atomically.
	RecordStudy(ctx context.Context, userID string, correct bool, mode string, durationSeconds float64, now time.Time) (*models.StudyResult, error)
	StreakStatus(ctx context.Context, userID string, now time.Time) (*models.StreakStatus, error)
	TodaySession(ctx context.Context, userID string, now time.Time) (*models.DailySession, error)
	SessionsInRange(ctx context.Context, userID string, from, to srs.Date) ([]models.DailySession, error)
	SetPremium(ctx context.Context, userID string, premium bool) error

	// AccumulateStudyTime buffers active study minutes in memory; a periodic
	// flush persists them. A crash loses at most one flush interval.
	AccumulateStudyTime(userID string, minutes float64)
	FlushStudyTime(ctx context.Context) error
}

type studyService struct {
	repo repository.StudyRepository

	mu      sync.Mutex
	pending map[string]float64
}

// NewStudyService creates a new StudyService
func NewStudyService(repo repository.StudyRepository) StudyService {
	return &studyService{repo: repo, pending: make(map[string]float64)}
}

func (s *studyService) RecordStudy(ctx context.Context, userID string, correct bool, mode string, durationSeconds float64, now time.Time) (*models.StudyResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording study: user_id=%s, correct=%v, mode=%s", userID, correct, mode)

	var result models.StudyResult
	err := s.repo.RecordStudy(ctx, userID, now, func(streak *models.UserStreak, session *models.DailySession) error {
		// Freeze refill is checked lazily at study time, never by a
		// background job.
		state, refilled := srs.ReplenishFreezes(streak.StreakState(), now, streak.Premium)
		if refilled {
			log.Debug("weekly freeze refilled: user_id=%s, week=%s", userID, state.LastFreezeWeek)
		}

		event := srs.RecordStudyEvent(state, now)
		streak.ApplyState(event.StreakState)
		session.Accumulate(correct, mode, durationSeconds/60, now)

		result = models.StudyResult{
			Streak: models.StreakStatus{
				CurrentStreak:    event.CurrentStreak,
				LongestStreak:    event.LongestStreak,
				FreezesAvailable: event.FreezesAvailable,
				LastStudyAt:      event.LastStudyAt,
			},
			FreezeUsed: event.FreezeUsed,
			Session:    *session,
		}
		return nil
	})
	if err != nil {
		log.Error("failed to record study event: %v", err)
		if db.IsBusy(err) {
			return nil, apperr.Conflict("study record contended, retries exhausted", err)
		}
		return nil, apperr.Internal(err)
	}
	return &result, nil
}

func (s *studyService) StreakStatus(ctx context.Context, userID string, now time.Time) (*models.StreakStatus, error) {
	log := logger.FromContext(ctx)

	streak, err := s.repo.GetStreak(ctx, userID)
	if err != nil {
		log.Error("failed to load streak: %v", err)
		return nil, apperr.Internal(err)
	}
	if streak == nil {
		return &models.StreakStatus{}, nil
	}
	return &models.StreakStatus{
		CurrentStreak:    streak.CurrentStreak,
		LongestStreak:    streak.LongestStreak,
		AtRisk:           srs.StreakAtRisk(streak.LastStudyAt, now),
		FreezesAvailable: streak.FreezesAvailable,
		LastStudyAt:      streak.LastStudyAt,
	}, nil
}

func (s *studyService) TodaySession(ctx context.Context, userID string, now time.Time) (*models.DailySession, error) {
	log := logger.FromContext(ctx)

	session, err := s.repo.GetSession(ctx, userID, srs.DateOf(now))
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, apperr.Internal(err)
	}
	return session, nil
}

func (s *studyService) SessionsInRange(ctx context.Context, userID string, from, to srs.Date) ([]models.DailySession, error) {
	log := logger.FromContext(ctx)

	if to.Before(from) {
		return nil, apperr.Validation("to", "must not be before from")
	}
	sessions, err := s.repo.SessionsInRange(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, apperr.Internal(err)
	}
	return sessions, nil
}

func (s *studyService) SetPremium(ctx context.Context, userID string, premium bool) error {
	if err := s.repo.SetPremium(ctx, userID, premium); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *studyService) AccumulateStudyTime(userID string, minutes float64) {
	if userID == "" || minutes <= 0 {
		return
	}
	s.mu.Lock()
	s.pending[userID] += minutes
	s.mu.Unlock()
}

func (s *studyService) FlushStudyTime(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[string]float64)
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	log := logger.FromContext(ctx).WithPrefix("autosave")
	log.Debug("flushing study time for %d users", len(batch))

	now := time.Now()
	var lastErr error
	for userID, minutes := range batch {
		if err := s.repo.AddStudyMinutes(ctx, userID, minutes, now); err != nil {
			// Best effort: dropped minutes are bounded by the flush interval.
			log.Warn("failed to flush study time: user_id=%s, minutes=%.2f: %v", userID, minutes, err)
			lastErr = err
		}
	}
	return lastErr
}
