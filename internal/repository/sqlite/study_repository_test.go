package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mpivetta/cardflow/internal/db"
	"github.com/mpivetta/cardflow/internal/models"
	"github.com/mpivetta/cardflow/internal/repository"
	"github.com/mpivetta/cardflow/internal/repository/sqlite"
	"github.com/mpivetta/cardflow/internal/srs"
	"github.com/mpivetta/cardflow/internal/testutil"
)

type StudyRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.StudyRepository
}

func (s *StudyRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewStudyRepository(s.db, 3)
}

func (s *StudyRepositorySuite) TestGetStreakMissingReturnsNil() {
	got, err := s.repo.GetStreak(context.Background(), "user1")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *StudyRepositorySuite) TestRecordStudyCreatesBothRecords() {
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	err := s.repo.RecordStudy(ctx, "user1", now, func(streak *models.UserStreak, session *models.DailySession) error {
		// A fresh user gets defaulted records.
		s.Assert().Equal("user1", streak.UserID)
		s.Assert().Equal(0, streak.CurrentStreak)
		s.Assert().Equal(srs.DateOf(now), session.Date)

		streak.CurrentStreak = 1
		streak.LongestStreak = 1
		streak.LastStudyAt = &now
		session.CardsReviewed = 1
		session.CardsCorrect = 1
		session.SpacedSessions = 1
		return nil
	})
	s.Require().NoError(err)

	streak, err := s.repo.GetStreak(ctx, "user1")
	s.Require().NoError(err)
	s.Require().NotNil(streak)
	s.Assert().Equal(1, streak.CurrentStreak)
	s.Assert().Equal(1, streak.LongestStreak)
	s.Require().NotNil(streak.LastStudyAt)
	s.Assert().WithinDuration(now, *streak.LastStudyAt, time.Second)

	session, err := s.repo.GetSession(ctx, "user1", srs.DateOf(now))
	s.Require().NoError(err)
	s.Require().NotNil(session)
	s.Assert().Equal(1, session.CardsReviewed)
	s.Assert().Equal(1, session.CardsCorrect)
	s.Assert().Equal(1, session.SpacedSessions)
}

func (s *StudyRepositorySuite) TestRecordStudyUpdatesExistingRecords() {
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	record := func(correct bool) error {
		return s.repo.RecordStudy(ctx, "user1", now, func(streak *models.UserStreak, session *models.DailySession) error {
			streak.CurrentStreak = 1
			streak.LongestStreak = 1
			streak.LastStudyAt = &now
			session.CardsReviewed++
			if correct {
				session.CardsCorrect++
			}
			session.SpacedSessions++
			return nil
		})
	}
	s.Require().NoError(record(true))
	s.Require().NoError(record(false))

	session, err := s.repo.GetSession(ctx, "user1", srs.DateOf(now))
	s.Require().NoError(err)
	s.Require().NotNil(session)
	s.Assert().Equal(2, session.CardsReviewed)
	s.Assert().Equal(1, session.CardsCorrect)
	s.Assert().Equal(2, session.SpacedSessions)
}

func (s *StudyRepositorySuite) TestRecordStudyApplyErrorAborts() {
	ctx := context.Background()
	now := time.Now()
	boom := errors.New("boom")

	err := s.repo.RecordStudy(ctx, "user1", now, func(streak *models.UserStreak, session *models.DailySession) error {
		streak.CurrentStreak = 5
		return boom
	})
	s.Require().ErrorIs(err, boom)

	// Nothing was written.
	streak, err := s.repo.GetStreak(ctx, "user1")
	s.Require().NoError(err)
	s.Assert().Nil(streak)
	session, err := s.repo.GetSession(ctx, "user1", srs.DateOf(now))
	s.Require().NoError(err)
	s.Assert().Nil(session)
}

func (s *StudyRepositorySuite) TestRecordStudyPreservesPremium() {
	ctx := context.Background()
	now := time.Now()

	s.Require().NoError(s.repo.SetPremium(ctx, "user1", true))
	s.Require().NoError(s.repo.RecordStudy(ctx, "user1", now, func(streak *models.UserStreak, session *models.DailySession) error {
		s.Assert().True(streak.Premium)
		streak.CurrentStreak = 1
		return nil
	}))

	streak, err := s.repo.GetStreak(ctx, "user1")
	s.Require().NoError(err)
	s.Require().NotNil(streak)
	s.Assert().True(streak.Premium)
	s.Assert().Equal(1, streak.CurrentStreak)
}

func (s *StudyRepositorySuite) TestSetPremiumUpserts() {
	ctx := context.Background()

	s.Require().NoError(s.repo.SetPremium(ctx, "user1", true))
	streak, err := s.repo.GetStreak(ctx, "user1")
	s.Require().NoError(err)
	s.Require().NotNil(streak)
	s.Assert().True(streak.Premium)

	s.Require().NoError(s.repo.SetPremium(ctx, "user1", false))
	streak, err = s.repo.GetStreak(ctx, "user1")
	s.Require().NoError(err)
	s.Require().NotNil(streak)
	s.Assert().False(streak.Premium)
}

func (s *StudyRepositorySuite) TestSessionsInRange() {
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, offset := range []int{0, 1, 5} {
		day := base.AddDate(0, 0, offset)
		err := s.repo.RecordStudy(ctx, "user1", day, func(streak *models.UserStreak, session *models.DailySession) error {
			session.CardsReviewed = 1
			return nil
		})
		s.Require().NoError(err)
	}

	from := srs.DateOf(base)
	to := from.AddDays(2)
	sessions, err := s.repo.SessionsInRange(ctx, "user1", from, to)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Assert().Equal(from, sessions[0].Date)
	s.Assert().Equal(from.AddDays(1), sessions[1].Date)
}

func (s *StudyRepositorySuite) TestAddStudyMinutesAccumulates() {
	ctx := context.Background()
	now := time.Now()

	s.Require().NoError(s.repo.AddStudyMinutes(ctx, "user1", 2.5, now))
	s.Require().NoError(s.repo.AddStudyMinutes(ctx, "user1", 1.5, now))

	session, err := s.repo.GetSession(ctx, "user1", srs.DateOf(now))
	s.Require().NoError(err)
	s.Require().NotNil(session)
	s.Assert().Equal(4.0, session.MinutesStudied)
}

func (s *StudyRepositorySuite) TestAddStudyMinutesKeepsReviewCounters() {
	ctx := context.Background()
	now := time.Now()

	err := s.repo.RecordStudy(ctx, "user1", now, func(streak *models.UserStreak, session *models.DailySession) error {
		session.CardsReviewed = 3
		return nil
	})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.AddStudyMinutes(ctx, "user1", 5, now))

	session, err := s.repo.GetSession(ctx, "user1", srs.DateOf(now))
	s.Require().NoError(err)
	s.Require().NotNil(session)
	s.Assert().Equal(3, session.CardsReviewed)
	s.Assert().Equal(5.0, session.MinutesStudied)
}

func TestStudyRepositorySuite(t *testing.T) {
	suite.Run(t, new(StudyRepositorySuite))
}
