package api

import (
	"net/http"
	"time"

	"github.com/mpivetta/cardflow/internal/apperr"
	"github.com/mpivetta/cardflow/internal/logger"
	"github.com/mpivetta/cardflow/internal/models"
	"github.com/mpivetta/cardflow/internal/srs"
)

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	status, err := s.Study.StreakStatus(r.Context(), userFromContext(r.Context()), time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

type setPremiumRequest struct {
	Premium bool `json:"premium"`
}

// handleSetPremium is the hook for the subscription collaborator to toggle
// the freeze-refill entitlement.
func (s *Server) handleSetPremium(w http.ResponseWriter, r *http.Request) {
	var req setPremiumRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userFromContext(r.Context())
	if err := s.Study.SetPremium(r.Context(), userID, req.Premium); err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("premium updated: user_id=%s, premium=%v", userID, req.Premium)
	respondJSON(w, http.StatusOK, map[string]any{"premium": req.Premium})
}

func (s *Server) handleTodaySession(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	now := time.Now()

	session, err := s.Study.TodaySession(r.Context(), userID, now)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if session == nil {
		// No study yet today: an empty record for the current day.
		empty := models.DailySession{UserID: userID, Date: srs.DateOf(now)}
		respondJSON(w, http.StatusOK, empty)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	today := srs.DateOf(time.Now())

	from := today.AddDays(-30)
	to := today
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := srs.ParseDate(v)
		if err != nil {
			handleError(w, r, apperr.Validation("from", err.Error()))
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := srs.ParseDate(v)
		if err != nil {
			handleError(w, r, apperr.Validation("to", err.Error()))
			return
		}
		to = parsed
	}

	sessions, err := s.Study.SessionsInRange(r.Context(), userID, from, to)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []models.DailySession{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

type heartbeatRequest struct {
	Minutes float64 `json:"minutes"`
}

// handleHeartbeat receives periodic active-study pings and buffers the
// reported minutes in memory; the autosave job persists them.
func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req heartbeatRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Minutes <= 0 || req.Minutes > 60 {
		handleError(w, r, apperr.Validation("minutes", "must be between 0 and 60"))
		return
	}

	s.Study.AccumulateStudyTime(userFromContext(r.Context()), req.Minutes)
	respondJSON(w, http.StatusAccepted, map[string]any{"accepted": true})
}
