package api

import (
	"github.com/mpivetta/cardflow/internal/db"
	"github.com/mpivetta/cardflow/internal/services"
)

// Server holds the HTTP surface's dependencies.
type Server struct {
	Reviews services.ReviewService
	Study   services.StudyService
	DB      *db.DB
}
