// Package ledger converts study activity into XP and day streaks. Its one
// hard requirement is at-most-once crediting per source item: a flashcard
// pays out XP to a user exactly once, ever. The unique index on
// (user_id, item_type, item_id) is the backstop for concurrent writers.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/studyhall/study_core_server/internal/stores/models"
	"github.com/studyhall/study_core_server/internal/xp"
)

const ItemTypeFlashcard = "flashcard"

// LevelFunc maps a lifetime XP total to a level. It must be monotonic
// non-decreasing.
type LevelFunc func(totalXP int) int

type Ledger struct {
	Queries     *models.Queries
	DBPool      *pgxpool.Pool
	FlashcardXP int
	Level       LevelFunc
}

func New(dbPool *pgxpool.Pool, queries *models.Queries, flashcardXP int) *Ledger {
	return &Ledger{
		Queries:     queries,
		DBPool:      dbPool,
		FlashcardXP: flashcardXP,
		Level:       xp.LevelForXP,
	}
}

type RecordReviewResult struct {
	XPEarned        int  `json:"xpEarned"`
	StreakUpdated   bool `json:"streakUpdated"`
	NewStreak       int  `json:"newStreak"`
	AlreadyCredited bool `json:"alreadyCredited"`
	LevelUp         bool `json:"levelUp"`
	NewLevel        int  `json:"newLevel"`
}

// RecordReview awards XP for one flashcard interaction and advances the
// user's streak, in its own transaction. collegeID 0 means the user has no
// institution and skips the monthly leaderboard rollup. Calling it again for
// the same (user, item) is not an error; it reports alreadyCredited and
// mutates nothing.
func (l *Ledger) RecordReview(ctx context.Context, userID, collegeID, itemID int64,
	nowUTC time.Time, tzOffsetMinutes int) (RecordReviewResult, error) {

	tx, err := l.DBPool.Begin(ctx)
	if err != nil {
		return RecordReviewResult{}, err
	}
	defer tx.Rollback(ctx)
	res, err := l.RecordReviewInTx(ctx, tx, userID, collegeID, itemID, nowUTC, tzOffsetMinutes)
	if err != nil {
		return RecordReviewResult{}, err
	}
	err = tx.Commit(ctx)
	if err != nil {
		return RecordReviewResult{}, err
	}
	return res, nil
}

// RecordReviewInTx is RecordReview for callers that already hold a
// transaction, so crediting commits or rolls back together with the caller's
// own writes. The caller owns commit and rollback.
func (l *Ledger) RecordReviewInTx(ctx context.Context, tx pgx.Tx, userID, collegeID, itemID int64,
	nowUTC time.Time, tzOffsetMinutes int) (RecordReviewResult, error) {

	qtx := l.Queries.WithTx(tx)

	// Fast path: a pre-existing credit short-circuits before any writes.
	credited, err := qtx.HasGamificationCredit(ctx, models.HasGamificationCreditParams{
		UserID: userID, ItemType: ItemTypeFlashcard, ItemID: itemID,
	})
	if err != nil {
		return RecordReviewResult{}, err
	}
	if credited {
		return l.alreadyCredited(ctx, qtx, userID)
	}

	// Create the streak row lazily, then lock it. The row lock serializes
	// every crediting transaction for this user, so concurrent reviews of
	// different cards can't lose streak or XP updates.
	err = qtx.CreateUserStreak(ctx, models.CreateUserStreakParams{
		UserID: userID, CollegeID: collegeID,
	})
	if err != nil {
		return RecordReviewResult{}, err
	}
	streak, err := qtx.GetUserStreakForUpdate(ctx, userID)
	if err != nil {
		return RecordReviewResult{}, err
	}

	// The insert is the real idempotency gate. Zero rows means another
	// writer beat us to it; that must look identical to a pre-existing
	// credit, not like an error.
	inserted, err := qtx.AddGamificationCredit(ctx, models.AddGamificationCreditParams{
		UserID: userID, ItemType: ItemTypeFlashcard, ItemID: itemID,
	})
	if err != nil {
		return RecordReviewResult{}, err
	}
	if inserted == 0 {
		return RecordReviewResult{
			AlreadyCredited: true,
			NewStreak:       int(streak.CurrentStreak),
			NewLevel:        l.Level(int(streak.TotalXp)),
		}, nil
	}

	today := LocalDay(nowUTC, tzOffsetMinutes)
	oldTotal := int(streak.TotalXp)
	newTotal := oldTotal + l.FlashcardXP

	res := RecordReviewResult{
		XPEarned: l.FlashcardXP,
		LevelUp:  l.Level(newTotal) > l.Level(oldTotal),
		NewLevel: l.Level(newTotal),
	}

	upd := models.UpdateUserStreakParams{
		UserID:           userID,
		CurrentStreak:    streak.CurrentStreak,
		LongestStreak:    streak.LongestStreak,
		LastActivityDate: streak.LastActivityDate,
		StreakStartDate:  streak.StreakStartDate,
		TotalXp:          int32(newTotal),
	}

	if streak.VacationMode {
		// XP still accrues on vacation; the streak fields are untouched.
		res.NewStreak = int(streak.CurrentStreak)
	} else {
		newStreak := int(streak.CurrentStreak)
		switch {
		case streak.LastActivityDate.Valid &&
			ShouldBreakStreak(streak.LastActivityDate.Time, today):
			newStreak = 1
			upd.StreakStartDate = pgtype.Date{Valid: true, Time: today}
			res.StreakUpdated = true
		case !streak.LastActivityDate.Valid ||
			!DateOnly(streak.LastActivityDate.Time).Equal(today):
			newStreak++
			if !upd.StreakStartDate.Valid {
				upd.StreakStartDate = pgtype.Date{Valid: true, Time: today}
			}
			res.StreakUpdated = true
		}
		upd.CurrentStreak = int32(newStreak)
		if upd.CurrentStreak > upd.LongestStreak {
			upd.LongestStreak = upd.CurrentStreak
		}
		upd.LastActivityDate = pgtype.Date{Valid: true, Time: today}
		res.NewStreak = newStreak
	}

	err = qtx.UpdateUserStreak(ctx, upd)
	if err != nil {
		return RecordReviewResult{}, err
	}

	// The ledger owns the XP rollup only; review counting is the caller's
	// write, since re-reviews of credited cards still count as activity.
	err = qtx.UpsertDailyXp(ctx, models.UpsertDailyXpParams{
		UserID:       userID,
		ActivityDate: pgtype.Date{Valid: true, Time: today},
		XpEarned:     int32(l.FlashcardXP),
	})
	if err != nil {
		return RecordReviewResult{}, err
	}

	if collegeID > 0 {
		err = qtx.UpsertMonthlyXp(ctx, models.UpsertMonthlyXpParams{
			UserID:    userID,
			YearMonth: nowUTC.UTC().Format("2006-01"),
			CollegeID: collegeID,
			TotalXp:   int32(l.FlashcardXP),
		})
		if err != nil {
			return RecordReviewResult{}, err
		}
	}

	log.Ctx(ctx).Info().Int64("userID", userID).Int64("itemID", itemID).
		Int("xp", res.XPEarned).Int("streak", res.NewStreak).
		Bool("levelUp", res.LevelUp).Msg("review-credited")
	return res, nil
}

func (l *Ledger) alreadyCredited(ctx context.Context, q *models.Queries, userID int64) (RecordReviewResult, error) {
	res := RecordReviewResult{AlreadyCredited: true}
	streak, err := q.GetUserStreak(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A credit without a streak row shouldn't happen; report zeroes.
			res.NewLevel = l.Level(0)
			return res, nil
		}
		return RecordReviewResult{}, err
	}
	res.NewStreak = int(streak.CurrentStreak)
	res.NewLevel = l.Level(int(streak.TotalXp))
	return res, nil
}
