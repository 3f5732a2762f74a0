package services

import (
	"context"
	"time"

	"github.com/mpivetta/cardflow/internal/apperr"
	"github.com/mpivetta/cardflow/internal/logger"
	"github.com/mpivetta/cardflow/internal/models"
	"github.com/mpivetta/cardflow/internal/repository"
	"github.com/mpivetta/cardflow/internal/srs"
)

// ReviewService handles review submission and the due-card query
type ReviewService interface {
	SubmitReview(ctx context.Context, outcome models.ReviewOutcome) (*models.ReviewResult, error)
	DueCards(ctx context.Context, filter models.DueFilter) ([]models.CardScheduling, error)
	CountDue(ctx context.Context, filter models.DueFilter) (int, error)
	InitDeck(ctx context.Context, userID, deckID string, cardIDs []string) (int, error)
}

type reviewService struct {
	scheds repository.SchedulingRepository
	study  StudyService
	scale  srs.ClockScale
}

// NewReviewService creates a new ReviewService
func NewReviewService(scheds repository.SchedulingRepository, study StudyService, scale srs.ClockScale) ReviewService {
	return &reviewService{scheds: scheds, study: study, scale: scale}
}

func (s *reviewService) SubmitReview(ctx context.Context, outcome models.ReviewOutcome) (*models.ReviewResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting review: card_id=%s, quality=%d, mode=%s", outcome.CardID, outcome.Quality, outcome.Mode)

	if outcome.CardID == "" {
		return nil, apperr.Validation("card_id", "cannot be empty")
	}
	if outcome.Quality < srs.QualityBlackout || outcome.Quality > srs.QualityEasy {
		return nil, apperr.Validation("quality", "must be between 0 and 5")
	}
	mode := outcome.Mode
	if mode == "" {
		mode = models.ModeSpaced
	}
	if mode != models.ModeSpaced && mode != models.ModeCramming {
		return nil, apperr.Validation("mode", "must be spaced or cramming")
	}

	now := outcome.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	card, err := s.scheds.Get(ctx, outcome.UserID, outcome.CardID)
	if err != nil {
		log.Error("failed to load scheduling: %v", err)
		return nil, apperr.Internal(err)
	}
	created := card == nil
	if created {
		// First contact with this card: start from defaults.
		fresh := models.NewCardScheduling(outcome.UserID, outcome.CardID, outcome.DeckID, now)
		card = &fresh
	}

	// Cramming touches the session counters only; the scheduler and its
	// record stay as they are.
	if mode == models.ModeSpaced {
		res, err := srs.Schedule(card.SchedulingState(), outcome.Quality, now, s.scale)
		if err != nil {
			return nil, apperr.Validation("quality", err.Error())
		}
		card.ApplyResult(res, outcome.Quality, now)
		log.Debug("applied review: interval=%.3f, ease=%.2f, next=%v", card.IntervalDays, card.EaseFactor, card.NextReviewAt)
	}

	if created {
		err = s.scheds.Insert(ctx, *card)
	} else if mode == models.ModeSpaced {
		err = s.scheds.Update(ctx, *card)
	}
	if err != nil {
		log.Error("failed to persist scheduling: %v", err)
		return nil, apperr.Internal(err)
	}

	if mode == models.ModeSpaced {
		history := models.ReviewHistory{
			SchedulingID:    card.ID,
			Quality:         outcome.Quality,
			DurationSeconds: outcome.DurationSeconds,
			ReviewedAt:      now,
		}
		if err := s.scheds.InsertReviewHistory(ctx, history); err != nil {
			// History is analytics only; the review itself already counted.
			log.Warn("failed to store review history: %v", err)
		}
	}

	result := &models.ReviewResult{Scheduling: *card}

	correct := outcome.Quality >= srs.PassThreshold
	studyRes, err := s.study.RecordStudy(ctx, outcome.UserID, correct, mode, outcome.DurationSeconds, now)
	if err != nil {
		// The review already counted; streak bookkeeping catches up on the
		// next successful write.
		log.Warn("failed to record study event: %v", err)
		return result, nil
	}
	result.Streak = &studyRes.Streak
	result.FreezeUsed = studyRes.FreezeUsed
	return result, nil
}

func (s *reviewService) DueCards(ctx context.Context, filter models.DueFilter) ([]models.CardScheduling, error) {
	log := logger.FromContext(ctx)
	if filter.Before.IsZero() {
		filter.Before = time.Now()
	}

	cards, err := s.scheds.DueCards(ctx, filter)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, apperr.Internal(err)
	}
	return cards, nil
}

func (s *reviewService) CountDue(ctx context.Context, filter models.DueFilter) (int, error) {
	log := logger.FromContext(ctx)
	if filter.Before.IsZero() {
		filter.Before = time.Now()
	}

	count, err := s.scheds.CountDue(ctx, filter)
	if err != nil {
		log.Error("failed to count due cards: %v", err)
		return 0, apperr.Internal(err)
	}
	return count, nil
}

func (s *reviewService) InitDeck(ctx context.Context, userID, deckID string, cardIDs []string) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("initializing deck: deck_id=%s, cards=%d", deckID, len(cardIDs))

	if deckID == "" {
		return 0, apperr.Validation("deck_id", "cannot be empty")
	}
	if len(cardIDs) == 0 {
		return 0, apperr.Validation("card_ids", "cannot be empty")
	}

	now := time.Now()
	records := make([]models.CardScheduling, 0, len(cardIDs))
	for _, cardID := range cardIDs {
		if cardID == "" {
			return 0, apperr.Validation("card_ids", "cannot contain empty ids")
		}
		records = append(records, models.NewCardScheduling(userID, cardID, deckID, now))
	}

	created, err := s.scheds.InsertBatch(ctx, records)
	if err != nil {
		log.Error("failed to initialize deck: %v", err)
		return 0, apperr.Internal(err)
	}
	log.Info("deck initialized: deck_id=%s, created=%d, existing=%d", deckID, created, len(cardIDs)-created)
	return created, nil
}
