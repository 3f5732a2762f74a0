package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpivetta/cardflow/internal/db"
	"github.com/mpivetta/cardflow/internal/logger"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied, closed automatically when the test finishes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	// Keep migration chatter out of test output.
	logger.SetDefault(logger.New(logger.WithLevel(logger.ERROR)))

	database, err := db.Open("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})
	return database
}
