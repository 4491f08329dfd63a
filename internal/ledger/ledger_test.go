package ledger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matryer/is"
	"github.com/rs/zerolog/log"

	"github.com/studyhall/study_core_server/internal/stores/models"
)

func testDBURI(useDBName bool) string {
	user := os.Getenv("TEST_DBUSER")
	pass := os.Getenv("TEST_DBPASSWORD")
	dbname := os.Getenv("TEST_DBNAME")
	dbhost := os.Getenv("TEST_DBHOST")
	dbport := os.Getenv("TEST_DBPORT")
	sslmode := os.Getenv("TEST_DBSSLMODE")

	if !useDBName {
		dbname = ""
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, dbhost, dbport, dbname, sslmode)
}

func recreateTestDB() error {
	ctx := context.Background()
	db, err := pgx.Connect(ctx, testDBURI(false))
	if err != nil {
		return err
	}
	defer db.Close(ctx)
	_, err = db.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", os.Getenv("TEST_DBNAME")))
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", os.Getenv("TEST_DBNAME")))
	if err != nil {
		return err
	}
	m, err := migrate.New(os.Getenv("DB_MIGRATIONS_PATH"), testDBURI(true))
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		return err
	}
	m.Close()
	return nil
}

func ctxForTests() context.Context {
	ctx := context.Background()
	ctx = log.Logger.WithContext(ctx)
	return ctx
}

func setup(t *testing.T) (*Ledger, *models.Queries, *pgxpool.Pool) {
	t.Helper()
	err := recreateTestDB()
	if err != nil {
		panic(err)
	}
	dbPool, err := pgxpool.New(context.Background(), testDBURI(true))
	if err != nil {
		panic(err)
	}
	t.Cleanup(dbPool.Close)
	q := models.New(dbPool)
	return New(dbPool, q, 1), q, dbPool
}

// 2024-09-20 is a Friday.
var fridayNoon = time.Date(2024, 9, 20, 12, 0, 0, 0, time.UTC)

func TestRecordReviewAwardsOnce(t *testing.T) {
	is := is.New(t)
	l, q, _ := setup(t)
	ctx := ctxForTests()

	res, err := l.RecordReview(ctx, 42, 0, 1001, fridayNoon, 0)
	is.NoErr(err)
	is.Equal(res.XPEarned, 1)
	is.Equal(res.AlreadyCredited, false)
	is.Equal(res.StreakUpdated, true)
	is.Equal(res.NewStreak, 1)

	// The same card can never pay the same user twice, not even days later.
	res, err = l.RecordReview(ctx, 42, 0, 1001, fridayNoon.AddDate(0, 0, 3), 0)
	is.NoErr(err)
	is.Equal(res.XPEarned, 0)
	is.Equal(res.AlreadyCredited, true)
	is.Equal(res.NewStreak, 1)

	streak, err := q.GetUserStreak(ctx, 42)
	is.NoErr(err)
	is.Equal(streak.TotalXp, int32(1))
}

func TestRecordReviewConcurrentSameItem(t *testing.T) {
	is := is.New(t)
	l, q, _ := setup(t)
	ctx := ctxForTests()

	const callers = 8
	results := make([]RecordReviewResult, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = l.RecordReview(ctx, 42, 0, 2002, fridayNoon, 0)
		}(i)
	}
	wg.Wait()

	awarded := 0
	for i := 0; i < callers; i++ {
		is.NoErr(errs[i])
		if results[i].XPEarned > 0 {
			awarded++
		} else {
			is.Equal(results[i].AlreadyCredited, true)
		}
	}
	is.Equal(awarded, 1)

	streak, err := q.GetUserStreak(ctx, 42)
	is.NoErr(err)
	is.Equal(streak.TotalXp, int32(1))
}

func TestRecordReviewConcurrentDistinctItems(t *testing.T) {
	is := is.New(t)
	l, q, _ := setup(t)
	ctx := ctxForTests()

	const cards = 10
	errs := make([]error, cards)
	var wg sync.WaitGroup
	for i := 0; i < cards; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.RecordReview(ctx, 42, 0, int64(3000+i), fridayNoon, 0)
		}(i)
	}
	wg.Wait()
	for i := range errs {
		is.NoErr(errs[i])
	}

	// No lost updates: every card paid out exactly once.
	streak, err := q.GetUserStreak(ctx, 42)
	is.NoErr(err)
	is.Equal(streak.TotalXp, int32(cards))
	is.Equal(streak.CurrentStreak, int32(1))
}

func TestStreakDailyProgression(t *testing.T) {
	is := is.New(t)
	l, _, _ := setup(t)
	ctx := ctxForTests()

	item := int64(1)
	now := fridayNoon.AddDate(0, 0, -4) // Monday
	for d := 0; d < 5; d++ {            // Monday through Friday
		res, err := l.RecordReview(ctx, 7, 0, item, now.AddDate(0, 0, d), 0)
		is.NoErr(err)
		is.Equal(res.NewStreak, d+1)
		is.Equal(res.StreakUpdated, true)
		item++
	}

	// Second review on Friday leaves the streak alone.
	res, err := l.RecordReview(ctx, 7, 0, item, fridayNoon.Add(time.Hour), 0)
	is.NoErr(err)
	is.Equal(res.NewStreak, 5)
	is.Equal(res.StreakUpdated, false)
	item++

	// Skip the weekend; Monday continues the streak.
	res, err = l.RecordReview(ctx, 7, 0, item, fridayNoon.AddDate(0, 0, 3), 0)
	is.NoErr(err)
	is.Equal(res.NewStreak, 6)
	item++

	// Then nothing until Thursday; the streak resets to 1.
	res, err = l.RecordReview(ctx, 7, 0, item, fridayNoon.AddDate(0, 0, 6), 0)
	is.NoErr(err)
	is.Equal(res.NewStreak, 1)
	is.Equal(res.StreakUpdated, true)
}

func TestLongestStreakRetained(t *testing.T) {
	is := is.New(t)
	l, q, _ := setup(t)
	ctx := ctxForTests()

	item := int64(1)
	monday := fridayNoon.AddDate(0, 0, -4)
	for d := 0; d < 3; d++ { // Mon, Tue, Wed
		_, err := l.RecordReview(ctx, 7, 0, item, monday.AddDate(0, 0, d), 0)
		is.NoErr(err)
		item++
	}
	// Skip Thursday; Friday resets.
	res, err := l.RecordReview(ctx, 7, 0, item, fridayNoon, 0)
	is.NoErr(err)
	is.Equal(res.NewStreak, 1)

	streak, err := q.GetUserStreak(ctx, 7)
	is.NoErr(err)
	is.Equal(streak.CurrentStreak, int32(1))
	is.Equal(streak.LongestStreak, int32(3))
	is.True(streak.LongestStreak >= streak.CurrentStreak)
}

func TestVacationModeDecouplesStreak(t *testing.T) {
	is := is.New(t)
	l, q, _ := setup(t)
	ctx := ctxForTests()

	_, err := l.RecordReview(ctx, 9, 0, 1, fridayNoon, 0)
	is.NoErr(err)
	err = q.SetVacationMode(ctx, models.SetVacationModeParams{UserID: 9, VacationMode: true})
	is.NoErr(err)

	before, err := q.GetUserStreak(ctx, 9)
	is.NoErr(err)

	// Days later, on vacation: XP accrues but the streak fields freeze.
	res, err := l.RecordReview(ctx, 9, 0, 2, fridayNoon.AddDate(0, 0, 9), 0)
	is.NoErr(err)
	is.Equal(res.XPEarned, 1)
	is.Equal(res.StreakUpdated, false)
	is.Equal(res.NewStreak, 1)

	after, err := q.GetUserStreak(ctx, 9)
	is.NoErr(err)
	is.Equal(after.CurrentStreak, before.CurrentStreak)
	is.Equal(after.LongestStreak, before.LongestStreak)
	is.Equal(after.LastActivityDate, before.LastActivityDate)
	is.Equal(after.StreakStartDate, before.StreakStartDate)
	is.Equal(after.TotalXp, before.TotalXp+1)
}

func TestDailyAndMonthlyRollups(t *testing.T) {
	is := is.New(t)
	l, q, _ := setup(t)
	ctx := ctxForTests()

	_, err := l.RecordReview(ctx, 5, 77, 1, fridayNoon, 0)
	is.NoErr(err)
	_, err = l.RecordReview(ctx, 5, 77, 2, fridayNoon.Add(time.Minute), 0)
	is.NoErr(err)

	daily, err := q.GetDailyActivity(ctx, models.GetDailyActivityParams{
		UserID:       5,
		ActivityDate: pgtype.Date{Valid: true, Time: DateOnly(fridayNoon)},
	})
	is.NoErr(err)
	is.Equal(daily.XpEarned, int32(2))
	// Review counting is the caller's write, not the ledger's.
	is.Equal(daily.CardsReviewed, int32(0))

	monthly, err := q.GetMonthlyXp(ctx, models.GetMonthlyXpParams{
		UserID: 5, YearMonth: "2024-09",
	})
	is.NoErr(err)
	is.Equal(monthly.TotalXp, int32(2))
	is.Equal(monthly.CollegeID, int64(77))
}

func TestNoMonthlyRollupWithoutCollege(t *testing.T) {
	is := is.New(t)
	l, q, _ := setup(t)
	ctx := ctxForTests()

	_, err := l.RecordReview(ctx, 6, 0, 1, fridayNoon, 0)
	is.NoErr(err)

	_, err = q.GetMonthlyXp(ctx, models.GetMonthlyXpParams{
		UserID: 6, YearMonth: "2024-09",
	})
	is.Equal(err, pgx.ErrNoRows)
}

func TestTimezoneOffsetShiftsDay(t *testing.T) {
	is := is.New(t)
	l, q, _ := setup(t)
	ctx := ctxForTests()

	// 01:30 UTC Saturday is still Friday for a UTC-5 user.
	satEarly := time.Date(2024, 9, 21, 1, 30, 0, 0, time.UTC)
	_, err := l.RecordReview(ctx, 11, 0, 1, satEarly, 300)
	is.NoErr(err)

	daily, err := q.GetDailyActivity(ctx, models.GetDailyActivityParams{
		UserID:       11,
		ActivityDate: pgtype.Date{Valid: true, Time: day("2024-09-20")},
	})
	is.NoErr(err)
	is.Equal(daily.XpEarned, int32(1))
}

func TestRecordReviewInTxRollsBackWholly(t *testing.T) {
	is := is.New(t)
	l, q, pool := setup(t)
	ctx := ctxForTests()

	tx, err := pool.Begin(ctx)
	is.NoErr(err)
	res, err := l.RecordReviewInTx(ctx, tx, 42, 0, 1001, fridayNoon, 0)
	is.NoErr(err)
	is.Equal(res.XPEarned, 1)
	is.NoErr(tx.Rollback(ctx))

	// Nothing survives the rollback: no credit, no streak row, no rollup.
	credited, err := q.HasGamificationCredit(ctx, models.HasGamificationCreditParams{
		UserID: 42, ItemType: ItemTypeFlashcard, ItemID: 1001,
	})
	is.NoErr(err)
	is.Equal(credited, false)
	_, err = q.GetUserStreak(ctx, 42)
	is.Equal(err, pgx.ErrNoRows)

	// The same review then credits normally.
	res, err = l.RecordReview(ctx, 42, 0, 1001, fridayNoon, 0)
	is.NoErr(err)
	is.Equal(res.XPEarned, 1)
	is.Equal(res.AlreadyCredited, false)
}

func TestLevelUpDetection(t *testing.T) {
	is := is.New(t)
	l, _, _ := setup(t)
	ctx := ctxForTests()

	// A steep custom curve so the second review levels up.
	l.Level = func(totalXP int) int { return totalXP/2 + 1 }

	res, err := l.RecordReview(ctx, 13, 0, 1, fridayNoon, 0)
	is.NoErr(err)
	is.Equal(res.LevelUp, false)
	is.Equal(res.NewLevel, 1)

	res, err = l.RecordReview(ctx, 13, 0, 2, fridayNoon.Add(time.Minute), 0)
	is.NoErr(err)
	is.Equal(res.LevelUp, true)
	is.Equal(res.NewLevel, 2)
}
