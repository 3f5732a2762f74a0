package srs

import (
	"strings"
	"time"
)

// ClockScale maps the scheduler's abstract units ("days" and learning-ladder
// steps) onto wall-clock durations. The standard scale is real time; the
// accelerated scale compresses a day into a minute so a full review cycle can
// be exercised in a test session without touching the algorithm itself.
type ClockScale struct {
	// Day is the wall-clock duration of one interval day.
	Day time.Duration
	// LearningSteps are the wall-clock durations of the three sub-day
	// learning-ladder steps.
	LearningSteps [3]time.Duration
	// AlignToMidnight snaps whole-day due dates to local midnight so cards
	// come due at the start of a day rather than at the review's exact time.
	AlignToMidnight bool
}

// Standard is real time: ladder steps of 10 minutes, 1 hour and 6 hours,
// whole-day intervals due at local midnight.
var Standard = ClockScale{
	Day:             24 * time.Hour,
	LearningSteps:   [3]time.Duration{10 * time.Minute, time.Hour, 6 * time.Hour},
	AlignToMidnight: true,
}

// Accelerated compresses a day into a minute, with ladder steps of
// 10 seconds, 1 minute and 6 minutes. Midnight alignment is disabled since
// it would undo the acceleration.
var Accelerated = ClockScale{
	Day:           time.Minute,
	LearningSteps: [3]time.Duration{10 * time.Second, time.Minute, 6 * time.Minute},
}

// ScaleByName resolves a configuration value to a ClockScale, defaulting to
// Standard for unknown names.
func ScaleByName(name string) ClockScale {
	if strings.EqualFold(name, "accelerated") {
		return Accelerated
	}
	return Standard
}
