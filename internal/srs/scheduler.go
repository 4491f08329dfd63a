package srs

import (
	"math"
	"time"
)

// SM-2 constants. The ease factor never drops below MinEaseFactor; new cards
// start at InitialEaseFactor.
const (
	MinEaseFactor     = 1.3
	InitialEaseFactor = 2.5

	MinQuality     = 0
	MaxQuality     = 5
	PassingQuality = 3

	// MaxIntervalDays caps geometric growth at a century. Without a cap,
	// repeated passes push next_review past the timestamptz range and the
	// interval past int32.
	MaxIntervalDays = 36500
)

// CardState is the scheduling state of a single card. It is owned by the
// scheduler; nothing else mutates these fields.
type CardState struct {
	IntervalDays int       `json:"interval"`
	EaseFactor   float64   `json:"easeFactor"`
	Repetitions  int       `json:"repetitions"`
	NextReview   time.Time `json:"nextReview"`
}

// NewCardState returns the state for a card that has never been reviewed.
// It is due immediately.
func NewCardState(now time.Time) CardState {
	return CardState{
		IntervalDays: 0,
		EaseFactor:   InitialEaseFactor,
		Repetitions:  0,
		NextReview:   now,
	}
}

// Schedule computes the next scheduling state for a card given a quality
// rating (0 = blackout, 5 = perfect recall). Quality values outside [0, 5]
// are clamped; scheduling never fails.
func Schedule(s CardState, quality int, now time.Time) CardState {
	if quality < MinQuality {
		quality = MinQuality
	}
	if quality > MaxQuality {
		quality = MaxQuality
	}

	// EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)), floored at 1.3.
	// The adjustment applies on lapses too, where it is always a decrease.
	q := float64(quality)
	ease := s.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}

	next := s
	next.EaseFactor = ease
	if quality < PassingQuality {
		// A lapse starts the card over: review again tomorrow.
		next.Repetitions = 0
		next.IntervalDays = 1
	} else {
		next.Repetitions = s.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = 1
		case 2:
			next.IntervalDays = 6
		default:
			next.IntervalDays = int(math.Round(float64(s.IntervalDays) * ease))
		}
		if next.IntervalDays > MaxIntervalDays {
			next.IntervalDays = MaxIntervalDays
		}
	}
	next.NextReview = now.AddDate(0, 0, next.IntervalDays)
	return next
}
