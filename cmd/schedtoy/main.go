package main

import (
	"fmt"
	"time"

	"github.com/open-spaced-repetition/go-fsrs/v3"

	"github.com/studyhall/study_core_server/internal/srs"
)

// Experimentation code comparing our scheduler's intervals against FSRS
// for the same review pattern. Useful when tuning the mastered-interval
// threshold.
func main() {
	now := time.Date(2024, 9, 16, 12, 0, 0, 0, time.UTC)

	fmt.Println("SM-2, quality 4 every review:")
	state := srs.NewCardState(now)
	t := now
	for i := 0; i < 8; i++ {
		state = srs.Schedule(state, 4, t)
		fmt.Printf("  rep %d: interval %3d days, ease %.2f, due %s\n",
			state.Repetitions, state.IntervalDays, state.EaseFactor,
			state.NextReview.Format("2006-01-02"))
		t = state.NextReview
	}

	fmt.Println("FSRS, Good every review:")
	p := fsrs.DefaultParam()
	p.EnableShortTerm = false
	f := fsrs.NewFSRS(p)
	card := fsrs.NewCard()
	t = now
	for i := 0; i < 8; i++ {
		schedulingCards := f.Repeat(card, t)
		card = schedulingCards[fsrs.Good].Card
		fmt.Printf("  rep %d: interval %3d days, due %s\n",
			i+1, int(card.ScheduledDays), card.Due.Format("2006-01-02"))
		t = card.Due
	}

	fmt.Println("SM-2 after a lapse on the fourth review:")
	state = srs.NewCardState(now)
	t = now
	for i := 0; i < 6; i++ {
		q := 5
		if i == 3 {
			q = 1
		}
		state = srs.Schedule(state, q, t)
		fmt.Printf("  q=%d: interval %3d days, ease %.2f, reps %d\n",
			q, state.IntervalDays, state.EaseFactor, state.Repetitions)
		t = state.NextReview
	}
}
