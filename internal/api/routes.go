package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/api/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(userMiddleware)

		r.Post("/api/reviews", s.handleSubmitReview)
		r.Get("/api/cards/due", s.handleDueCards)
		r.Get("/api/cards/due/count", s.handleDueCount)
		r.Post("/api/decks/{deckID}/init", s.handleInitDeck)

		r.Get("/api/streak", s.handleStreak)
		r.Put("/api/users/premium", s.handleSetPremium)
		r.Get("/api/sessions/today", s.handleTodaySession)
		r.Get("/api/sessions", s.handleSessions)
		r.Post("/api/sessions/heartbeat", s.handleHeartbeat)
	})

	return r
}
