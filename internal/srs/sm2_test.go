package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpivetta/cardflow/internal/srs"
)

func TestSchedule_FailResetsRepetitions(t *testing.T) {
	now := time.Now()
	for quality := 0; quality <= 2; quality++ {
		state := srs.State{EaseFactor: 2.5, Interval: 10, Repetitions: 4, LearningStep: srs.Graduated}

		res, err := srs.Schedule(state, quality, now, srs.Standard)

		require.NoError(t, err)
		assert.Equal(t, 0, res.Repetitions, "quality %d must reset repetitions", quality)
	}
}

func TestSchedule_PassIncrementsRepetitions(t *testing.T) {
	now := time.Now()
	for quality := 3; quality <= 5; quality++ {
		state := srs.State{EaseFactor: 2.5, Interval: 6, Repetitions: 2, LearningStep: srs.Graduated}

		res, err := srs.Schedule(state, quality, now, srs.Standard)

		require.NoError(t, err)
		assert.Equal(t, 3, res.Repetitions, "quality %d must increment repetitions", quality)
	}
}

func TestSchedule_QualityOutOfRange(t *testing.T) {
	now := time.Now()
	for _, quality := range []int{-1, 6, 42} {
		_, err := srs.Schedule(srs.NewState(), quality, now, srs.Standard)
		assert.Error(t, err, "quality %d must be rejected", quality)
	}
}

func TestSchedule_EaseFactorFloor(t *testing.T) {
	now := time.Now()
	state := srs.NewState()

	// Repeated worst-case failures must never push ease below the floor.
	for i := 0; i < 20; i++ {
		res, err := srs.Schedule(state, srs.QualityBlackout, now, srs.Standard)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.EaseFactor, srs.MinEaseFactor)
		state = res.State
	}
	assert.Equal(t, srs.MinEaseFactor, state.EaseFactor)
}

func TestSchedule_GraduationChain(t *testing.T) {
	// New card reviewed three times at "good": 1 day, 6 days, then
	// round(interval * ease).
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	state := srs.NewState()

	first, err := srs.Schedule(state, srs.QualityGood, now, srs.Standard)
	require.NoError(t, err)
	assert.Equal(t, 1.0, first.Interval)
	assert.Equal(t, 1, first.Repetitions)
	assert.InDelta(t, 2.5, first.EaseFactor, 0.001)

	second, err := srs.Schedule(first.State, srs.QualityGood, now, srs.Standard)
	require.NoError(t, err)
	assert.Equal(t, 6.0, second.Interval)
	assert.Equal(t, 2, second.Repetitions)

	third, err := srs.Schedule(second.State, srs.QualityGood, now, srs.Standard)
	require.NoError(t, err)
	assert.Equal(t, 15.0, third.Interval, "round(6 * 2.5)")
	assert.Equal(t, 3, third.Repetitions)
}

func TestSchedule_MaturedIntervalUsesUpdatedEase(t *testing.T) {
	now := time.Now()
	state := srs.State{EaseFactor: 2.7, Interval: 6, Repetitions: 2, LearningStep: srs.Graduated}

	res, err := srs.Schedule(state, srs.QualityGood, now, srs.Standard)

	require.NoError(t, err)
	assert.Equal(t, 16.0, res.Interval, "round(6 * 2.7)")
}

func TestSchedule_GraduatedFailureRestartsLadder(t *testing.T) {
	now := time.Now()
	state := srs.State{EaseFactor: 2.5, Interval: 6, Repetitions: 3, LearningStep: srs.Graduated}

	res, err := srs.Schedule(state, srs.QualityWrong, now, srs.Standard)

	require.NoError(t, err)
	assert.Equal(t, 0, res.Repetitions)
	assert.Equal(t, 0, res.LearningStep, "graduated card must restart at the first ladder step")
	assert.Equal(t, 0.007, res.Interval)
}

func TestSchedule_BlackoutRestartsLadder(t *testing.T) {
	now := time.Now()
	state := srs.State{EaseFactor: 2.5, Interval: 0.042, Repetitions: 0, LearningStep: 1}

	res, err := srs.Schedule(state, srs.QualityBlackout, now, srs.Standard)

	require.NoError(t, err)
	assert.Equal(t, 0, res.LearningStep, "blackout must restart the ladder even mid-climb")
	assert.Equal(t, 0.007, res.Interval)
}

func TestSchedule_LadderAdvanceAndGraduation(t *testing.T) {
	now := time.Now()
	state := srs.State{EaseFactor: 2.5, Interval: 0.007, Repetitions: 0, LearningStep: 0}

	second, err := srs.Schedule(state, srs.QualityAlmost, now, srs.Standard)
	require.NoError(t, err)
	assert.Equal(t, 1, second.LearningStep)
	assert.Equal(t, 0.042, second.Interval)

	third, err := srs.Schedule(second.State, srs.QualityAlmost, now, srs.Standard)
	require.NoError(t, err)
	assert.Equal(t, 2, third.LearningStep)
	assert.Equal(t, 0.25, third.Interval)

	grad, err := srs.Schedule(third.State, srs.QualityAlmost, now, srs.Standard)
	require.NoError(t, err)
	assert.Equal(t, srs.Graduated, grad.LearningStep, "failing past the last step graduates to a full day")
	assert.Equal(t, 1.0, grad.Interval)
}

func TestSchedule_WholeDayDueAtLocalMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 15, 30, 45, 0, loc)

	res, err := srs.Schedule(srs.NewState(), srs.QualityGood, now, srs.Standard)

	require.NoError(t, err)
	want := time.Date(2026, 3, 11, 0, 0, 0, 0, loc)
	assert.True(t, res.NextReviewAt.Equal(want), "got %v, want %v", res.NextReviewAt, want)
	assert.True(t, res.NextReviewAt.After(now), "due date must be strictly in the future")
}

func TestSchedule_SubDayDuePreservesTimeOfDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	state := srs.State{EaseFactor: 2.5, Interval: 6, LearningStep: srs.Graduated}

	res, err := srs.Schedule(state, srs.QualityWrong, now, srs.Standard)

	require.NoError(t, err)
	assert.Equal(t, now.Add(10*time.Minute), res.NextReviewAt)
}

func TestSchedule_AcceleratedScale(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	failed, err := srs.Schedule(srs.NewState(), srs.QualityBlackout, now, srs.Accelerated)
	require.NoError(t, err)
	assert.Equal(t, now.Add(10*time.Second), failed.NextReviewAt)

	passed, err := srs.Schedule(srs.NewState(), srs.QualityGood, now, srs.Accelerated)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), passed.NextReviewAt, "one day maps to one minute")
}

func TestSchedule_EasyRaisesEase(t *testing.T) {
	now := time.Now()

	res, err := srs.Schedule(srs.NewState(), srs.QualityEasy, now, srs.Standard)

	require.NoError(t, err)
	assert.InDelta(t, 2.6, res.EaseFactor, 0.001)
}

func TestSchedule_IntervalNeverNegative(t *testing.T) {
	now := time.Now()
	for quality := 0; quality <= 5; quality++ {
		state := srs.State{EaseFactor: 1.3, Interval: 0, LearningStep: srs.Graduated}
		res, err := srs.Schedule(state, quality, now, srs.Standard)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Interval, 0.0)
	}
}
