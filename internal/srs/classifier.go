package srs

import (
	"math"
	"time"
)

type Status string

const (
	StatusDue       Status = "due"
	StatusLearning  Status = "learning"
	StatusReviewing Status = "reviewing"
	StatusMastered  Status = "mastered"
)

// Classify buckets a card into exactly one status. masteredIntervalDays is
// passed explicitly rather than read from ambient settings.
func Classify(s CardState, now time.Time, masteredIntervalDays int) Status {
	if !s.NextReview.After(now) {
		return StatusDue
	}
	if s.Repetitions == 0 {
		return StatusLearning
	}
	if s.IntervalDays >= masteredIntervalDays {
		return StatusMastered
	}
	return StatusReviewing
}

type DeckStats struct {
	Total             int `json:"total"`
	Due               int `json:"due"`
	Learning          int `json:"learning"`
	Reviewing         int `json:"reviewing"`
	Mastered          int `json:"mastered"`
	MasteryPercentage int `json:"masteryPercentage"`
}

// Stats recomputes deck aggregates from scratch. These are derived values;
// they are never persisted as a source of truth.
func Stats(states []CardState, now time.Time, masteredIntervalDays int) DeckStats {
	st := DeckStats{Total: len(states)}
	for i := range states {
		switch Classify(states[i], now, masteredIntervalDays) {
		case StatusDue:
			st.Due++
		case StatusLearning:
			st.Learning++
		case StatusReviewing:
			st.Reviewing++
		case StatusMastered:
			st.Mastered++
		}
	}
	if st.Total > 0 {
		st.MasteryPercentage = int(math.Round(100 * float64(st.Mastered) / float64(st.Total)))
	}
	return st
}
