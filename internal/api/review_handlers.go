package api

import (
	"net/http"
	"strconv"

	"github.com/mpivetta/cardflow/internal/logger"
	"github.com/mpivetta/cardflow/internal/models"
)

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var outcome models.ReviewOutcome
	if err := decodeJSON(r, &outcome); err != nil {
		handleError(w, r, err)
		return
	}
	outcome.UserID = userFromContext(r.Context())

	log.Debug("review submitted: card_id=%s, quality=%d", outcome.CardID, outcome.Quality)

	result, err := s.Reviews.SubmitReview(r.Context(), outcome)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("review applied: card_id=%s, next_review_at=%v", outcome.CardID, result.Scheduling.NextReviewAt)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	filter := dueFilterFromRequest(r)

	cards, err := s.Reviews.DueCards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.CardScheduling{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"cards": cards,
		"count": len(cards),
	})
}

func (s *Server) handleDueCount(w http.ResponseWriter, r *http.Request) {
	filter := dueFilterFromRequest(r)

	count, err := s.Reviews.CountDue(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"count": count})
}

func dueFilterFromRequest(r *http.Request) models.DueFilter {
	filter := models.DueFilter{
		UserID: userFromContext(r.Context()),
		DeckID: r.URL.Query().Get("deck_id"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		filter.Offset = offset
	}
	return filter
}
