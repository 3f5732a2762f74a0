package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mpivetta/cardflow/internal/logger"
)

type initDeckRequest struct {
	CardIDs []string `json:"card_ids"`
}

func (s *Server) handleInitDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	deckID := chi.URLParam(r, "deckID")

	var req initDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.Reviews.InitDeck(r.Context(), userFromContext(r.Context()), deckID, req.CardIDs)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck initialized: deck_id=%s, created=%d", deckID, created)
	respondJSON(w, http.StatusOK, map[string]any{
		"created":  created,
		"existing": len(req.CardIDs) - created,
	})
}
