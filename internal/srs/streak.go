package srs

import "time"

// StreakState is the per-user streak bookkeeping persisted between study
// days.
type StreakState struct {
	CurrentStreak    int
	LongestStreak    int
	LastStudyAt      *time.Time
	FreezesAvailable int
	LastFreezeWeek   string
}

// StudyEvent is the result of recording one study event against a streak.
type StudyEvent struct {
	StreakState
	StudiedToday bool
	FreezeUsed   bool
}

// RecordStudyEvent advances the streak state machine for a study event at
// now. Days are compared as local calendar dates, not as timestamps, so a
// review at 23:59 and one at 00:01 land on different days regardless of the
// hours between them.
//
//   - First-ever study starts the streak at 1.
//   - A second study on the same day changes nothing (idempotent re-entry).
//   - Studying on the next calendar day extends the streak.
//   - A gap of two or more days consumes a freeze if one is available and
//     keeps the streak alive; otherwise the streak restarts at 1.
//
// The longest streak never decreases and is always at least the current
// streak. RecordStudyEvent is pure; the caller owns persistence.
func RecordStudyEvent(state StreakState, now time.Time) StudyEvent {
	out := StudyEvent{StreakState: state, StudiedToday: true}

	if state.LastStudyAt == nil {
		out.CurrentStreak = 1
	} else {
		gap := DaysBetween(DateOf(*state.LastStudyAt), DateOf(now))
		switch {
		case gap <= 0:
			// Same day: nothing new to record.
		case gap == 1:
			out.CurrentStreak++
		case state.FreezesAvailable > 0:
			out.FreezesAvailable--
			out.CurrentStreak++
			out.FreezeUsed = true
		default:
			out.CurrentStreak = 1
		}
	}

	if out.CurrentStreak > out.LongestStreak {
		out.LongestStreak = out.CurrentStreak
	}
	studiedAt := now
	out.LastStudyAt = &studiedAt
	return out
}

// StreakAtRisk reports whether the streak will be lost without a freeze:
// true only when at least one full day has already been missed. Having
// studied yesterday but not yet today is not at risk, since the rest of
// today remains.
func StreakAtRisk(lastStudyAt *time.Time, now time.Time) bool {
	if lastStudyAt == nil {
		return false
	}
	return DaysBetween(DateOf(*lastStudyAt), DateOf(now)) >= 2
}

// ReplenishFreezes lazily refills the freeze allowance to one token at the
// first study event of each ISO week, for premium accounts only. It returns
// the updated state and whether a refill happened.
func ReplenishFreezes(state StreakState, now time.Time, premium bool) (StreakState, bool) {
	if !premium {
		return state, false
	}
	week := DateOf(now).ISOWeek()
	if state.LastFreezeWeek == week {
		return state, false
	}
	state.FreezesAvailable = 1
	state.LastFreezeWeek = week
	return state, true
}
