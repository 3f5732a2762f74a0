package srs

import (
	"fmt"
	"math"
	"time"
)

// Quality ratings for a completed review. 0-2 fail the card, 3-5 pass it.
const (
	QualityBlackout = 0 // no recall at all
	QualityWrong    = 1
	QualityAlmost   = 2
	QualityHard     = 3
	QualityGood     = 4
	QualityEasy     = 5

	// PassThreshold is the lowest quality that counts as a successful recall.
	PassThreshold = QualityHard

	// MinEaseFactor is the floor of the ease factor; SM-2 never lets a card
	// grow harder than this.
	MinEaseFactor = 1.3

	// DefaultEaseFactor is the starting ease for a new card.
	DefaultEaseFactor = 2.5

	// Graduated marks a card that is out of the learning ladder and back on
	// day-scale intervals.
	Graduated = -1
)

// learningStepDays are the canonical day-fraction lengths of the sub-day
// learning ladder a failed card climbs before returning to day-scale
// spacing: 10 minutes, 1 hour, 6 hours.
var learningStepDays = [3]float64{0.007, 0.042, 0.25}

// State is the scheduling state of one card, as persisted between reviews.
type State struct {
	// EaseFactor is the multiplicative growth rate of the interval.
	EaseFactor float64
	// Interval is the current spacing in days; ladder positions are stored
	// as day fractions.
	Interval float64
	// Repetitions counts consecutive successful reviews.
	Repetitions int
	// LearningStep is the card's ladder position, or Graduated.
	LearningStep int
}

// NewState returns the scheduling state of a card that has never been
// reviewed.
func NewState() State {
	return State{EaseFactor: DefaultEaseFactor, LearningStep: Graduated}
}

// Result is the outcome of scheduling one review.
type Result struct {
	State
	NextReviewAt time.Time
}

// Schedule computes the card state after a review with the given quality,
// following the SM-2 variant:
//
//   - The ease factor is updated on every review, pass or fail, and floored
//     at MinEaseFactor.
//   - A failed review resets repetitions and puts the card on the learning
//     ladder: a graduated card or a total blackout restarts at the first
//     step, otherwise the card advances one step, graduating to a one-day
//     interval past the last step.
//   - A passed review increments repetitions and spaces the card at 1 day,
//     then 6 days, then round(interval * ease).
//
// Whole-day intervals come due at local midnight under scales that align to
// midnight; ladder steps are added to now as-is, preserving time-of-day.
// Schedule is pure: persistence and clamping of counters belong to the
// caller.
func Schedule(state State, quality int, now time.Time, scale ClockScale) (Result, error) {
	if quality < QualityBlackout || quality > QualityEasy {
		return Result{}, fmt.Errorf("quality %d out of range [0,5]", quality)
	}

	ef := state.EaseFactor
	if ef == 0 {
		ef = DefaultEaseFactor
	}
	ef += 0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02)
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}

	next := state
	next.EaseFactor = ef

	if quality < PassThreshold {
		next.Repetitions = 0

		step := 0
		if quality > QualityBlackout && state.LearningStep >= 0 {
			step = state.LearningStep + 1
		}
		if step >= len(learningStepDays) {
			// Failed off the end of the ladder: back to a full day.
			next.LearningStep = Graduated
			next.Interval = 1
		} else {
			next.LearningStep = step
			next.Interval = learningStepDays[step]
		}
	} else {
		next.Repetitions = state.Repetitions + 1
		next.LearningStep = Graduated
		switch state.Repetitions {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 6
		default:
			next.Interval = math.Round(state.Interval * ef)
		}
	}

	next.Interval = math.Max(next.Interval, 0)
	return Result{State: next, NextReviewAt: dueAt(next, now, scale)}, nil
}

func dueAt(s State, now time.Time, scale ClockScale) time.Time {
	if s.LearningStep >= 0 {
		return now.Add(scale.LearningSteps[s.LearningStep])
	}
	days := int(s.Interval)
	if !scale.AlignToMidnight {
		return now.Add(time.Duration(s.Interval * float64(scale.Day)))
	}
	return DateOf(now).AddDays(days).Time(now.Location())
}
