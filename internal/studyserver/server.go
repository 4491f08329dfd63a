package studyserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/studyhall/study_core_server/config"
	"github.com/studyhall/study_core_server/internal/auth"
	"github.com/studyhall/study_core_server/internal/ledger"
	"github.com/studyhall/study_core_server/internal/srs"
	"github.com/studyhall/study_core_server/internal/stores/models"
	"github.com/studyhall/study_core_server/internal/textmatch"
	"github.com/studyhall/study_core_server/internal/xp"
)

var (
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrInvalidArg      = errors.New("invalid argument")
	// ErrCardNotFound is a caller precondition violation, surfaced as-is.
	ErrCardNotFound = errors.New("card with your input parameters was not found")
	ErrDeckNotFound = errors.New("deck with your input parameters was not found")
)

func invalidArgError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArg, msg)
}

type nower interface {
	Now() time.Time
}

type RealNower struct{}

func (r RealNower) Now() time.Time {
	return time.Now()
}

type Server struct {
	Config  *config.Config
	Queries *models.Queries
	DBPool  *pgxpool.Pool
	Ledger  *ledger.Ledger
	Nower   nower
}

func NewServer(cfg *config.Config, dbPool *pgxpool.Pool, queries *models.Queries) *Server {
	return &Server{
		Config:  cfg,
		Queries: queries,
		DBPool:  dbPool,
		Ledger:  ledger.New(dbPool, queries, cfg.FlashcardXP),
		Nower:   RealNower{},
	}
}

type CardResponse struct {
	ID     int64  `json:"id"`
	DeckID int64  `json:"deckId"`
	Front  string `json:"front"`
	Back   string `json:"back"`
	srs.CardState
	Status srs.Status `json:"status"`
}

type ScoreCardRequest struct {
	CardID                int64 `json:"cardId"`
	Quality               int   `json:"quality"`
	TimezoneOffsetMinutes int   `json:"timezoneOffsetMinutes"`
}

type ScoreCardResponse struct {
	Card         CardResponse              `json:"card"`
	Gamification ledger.RecordReviewResult `json:"gamification"`
}

// ScoreCard applies a quality rating to a card and records the review in the
// engagement ledger. Out-of-range quality is clamped, never rejected;
// miscategorized input should still make forward progress on the card.
func (s *Server) ScoreCard(ctx context.Context, req *ScoreCardRequest) (*ScoreCardResponse, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if req.CardID == 0 {
		return nil, invalidArgError("need a card")
	}
	now := s.Nower.Now()

	tx, err := s.DBPool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	qtx := s.Queries.WithTx(tx)

	cardrow, err := qtx.GetCard(ctx, models.GetCardParams{
		UserID: int64(user.DBID),
		ID:     req.CardID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	state := srs.CardState{
		IntervalDays: int(cardrow.IntervalDays),
		EaseFactor:   cardrow.EaseFactor,
		Repetitions:  int(cardrow.Repetitions),
		NextReview:   cardrow.NextReview.Time,
	}
	state = srs.Schedule(state, req.Quality, now)

	_, err = qtx.UpdateCardScheduling(ctx, models.UpdateCardSchedulingParams{
		IntervalDays: int32(state.IntervalDays),
		EaseFactor:   state.EaseFactor,
		Repetitions:  int32(state.Repetitions),
		NextReview:   toPGTimestamp(state.NextReview),
		UserID:       int64(user.DBID),
		ID:           req.CardID,
	})
	if err != nil {
		return nil, err
	}

	// Crediting shares the transaction: a ledger failure rolls the
	// reschedule back too, so a retried rating stays consistent.
	gam, err := s.Ledger.RecordReviewInTx(ctx, tx, int64(user.DBID), int64(user.CollegeID),
		req.CardID, now.UTC(), req.TimezoneOffsetMinutes)
	if err != nil {
		return nil, err
	}

	// Every rating counts toward the daily goal, credited or not.
	err = qtx.UpsertDailyReview(ctx, models.UpsertDailyReviewParams{
		UserID:       int64(user.DBID),
		ActivityDate: pgtype.Date{Valid: true, Time: ledger.LocalDay(now.UTC(), req.TimezoneOffsetMinutes)},
	})
	if err != nil {
		return nil, err
	}
	err = tx.Commit(ctx)
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Int64("cardID", req.CardID).Int("quality", req.Quality).
		Int("interval", state.IntervalDays).
		Str("next-review", state.NextReview.String()).Msg("card-scored")

	return &ScoreCardResponse{
		Card: CardResponse{
			ID:        req.CardID,
			DeckID:    cardrow.DeckID,
			Front:     cardrow.Front,
			Back:      cardrow.Back,
			CardState: state,
			Status:    srs.Classify(state, now, s.Config.MasteredIntervalDays),
		},
		Gamification: gam,
	}, nil
}

type CheckAnswerRequest struct {
	CardID int64  `json:"cardId"`
	Answer string `json:"answer"`
}

type CheckAnswerResponse struct {
	textmatch.Result
}

// CheckAnswer grades a typed answer against the card's back side. It does
// not schedule the card or award XP; the UI submits a rating afterwards.
func (s *Server) CheckAnswer(ctx context.Context, req *CheckAnswerRequest) (*CheckAnswerResponse, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	cardrow, err := s.Queries.GetCard(ctx, models.GetCardParams{
		UserID: int64(user.DBID),
		ID:     req.CardID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &CheckAnswerResponse{Result: textmatch.Match(req.Answer, cardrow.Back)}, nil
}

type AddDeckRequest struct {
	Name     string `json:"name"`
	CourseID int64  `json:"courseId"`
}

type DeckResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	CourseID int64  `json:"courseId,omitempty"`
}

func (s *Server) AddDeck(ctx context.Context, req *AddDeckRequest) (*DeckResponse, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if req.Name == "" {
		return nil, invalidArgError("need a name")
	}
	deck, err := s.Queries.AddDeck(ctx, models.AddDeckParams{
		UserID:   int64(user.DBID),
		Name:     req.Name,
		CourseID: toPGInt8(req.CourseID),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, invalidArgError("deck with this name already exists")
		}
		return nil, err
	}
	return &DeckResponse{ID: deck.ID, Name: deck.Name, CourseID: deck.CourseID.Int64}, nil
}

func (s *Server) GetDecks(ctx context.Context) ([]DeckResponse, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	decks, err := s.Queries.GetDecks(ctx, int64(user.DBID))
	if err != nil {
		return nil, err
	}
	out := make([]DeckResponse, len(decks))
	for i := range decks {
		out[i] = DeckResponse{
			ID:       decks[i].ID,
			Name:     decks[i].Name,
			CourseID: decks[i].CourseID.Int64,
		}
	}
	return out, nil
}

type AddCardsRequest struct {
	DeckID int64    `json:"deckId"`
	Fronts []string `json:"fronts"`
	Backs  []string `json:"backs"`
}

type AddCardsResponse struct {
	NumCardsAdded int `json:"numCardsAdded"`
}

func (s *Server) AddCards(ctx context.Context, req *AddCardsRequest) (*AddCardsResponse, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if len(req.Fronts) == 0 {
		return nil, invalidArgError("need to add at least one card")
	}
	if len(req.Fronts) != len(req.Backs) {
		return nil, invalidArgError("fronts and backs must have the same length")
	}
	if len(req.Fronts) > s.Config.MaxCardsAdd {
		return nil, invalidArgError(fmt.Sprintf("cannot add more than %d cards at a time", s.Config.MaxCardsAdd))
	}
	for i := range req.Fronts {
		// A blank side makes a card unreviewable in typed-answer mode.
		if strings.TrimSpace(req.Fronts[i]) == "" || strings.TrimSpace(req.Backs[i]) == "" {
			return nil, invalidArgError("every card needs a non-empty front and back")
		}
	}
	// Deck ownership check; a bad deck id must not attach cards elsewhere.
	_, err := s.Queries.GetDeck(ctx, models.GetDeckParams{
		UserID: int64(user.DBID), ID: req.DeckID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}

	now := s.Nower.Now()
	// New cards start due immediately with the default ease.
	numInserted, err := s.Queries.AddCards(ctx, models.AddCardsParams{
		DeckID:     req.DeckID,
		UserID:     int64(user.DBID),
		Fronts:     req.Fronts,
		Backs:      req.Backs,
		EaseFactor: srs.InitialEaseFactor,
		NextReview: toPGTimestamp(now),
	})
	if err != nil {
		return nil, err
	}
	return &AddCardsResponse{NumCardsAdded: int(numInserted)}, nil
}

type GetDueCardsRequest struct {
	DeckID int64 `json:"deckId"`
	Limit  int   `json:"limit"`
}

func (s *Server) GetDueCards(ctx context.Context, req *GetDueCardsRequest) ([]CardResponse, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	now := s.Nower.Now()
	rows, err := s.Queries.GetDueCards(ctx, models.GetDueCardsParams{
		UserID:   int64(user.DBID),
		DeckID:   req.DeckID,
		Now:      toPGTimestamp(now),
		RowLimit: int32(limit),
	})
	if err != nil {
		return nil, err
	}
	cards := make([]CardResponse, len(rows))
	for i := range rows {
		state := srs.CardState{
			IntervalDays: int(rows[i].IntervalDays),
			EaseFactor:   rows[i].EaseFactor,
			Repetitions:  int(rows[i].Repetitions),
			NextReview:   rows[i].NextReview.Time,
		}
		cards[i] = CardResponse{
			ID:        rows[i].ID,
			DeckID:    rows[i].DeckID,
			Front:     rows[i].Front,
			Back:      rows[i].Back,
			CardState: state,
			Status:    srs.Classify(state, now, s.Config.MasteredIntervalDays),
		}
	}
	return cards, nil
}

// GetDeckStats recomputes deck aggregates from the card set on every call.
func (s *Server) GetDeckStats(ctx context.Context, deckID int64) (*srs.DeckStats, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	rows, err := s.Queries.GetDeckCardStates(ctx, models.GetDeckCardStatesParams{
		UserID: int64(user.DBID),
		DeckID: deckID,
	})
	if err != nil {
		return nil, err
	}
	states := make([]srs.CardState, len(rows))
	for i := range rows {
		states[i] = srs.CardState{
			IntervalDays: int(rows[i].IntervalDays),
			EaseFactor:   rows[i].EaseFactor,
			Repetitions:  int(rows[i].Repetitions),
			NextReview:   rows[i].NextReview.Time,
		}
	}
	stats := srs.Stats(states, s.Nower.Now(), s.Config.MasteredIntervalDays)
	return &stats, nil
}

type StreakResponse struct {
	CurrentStreak int    `json:"currentStreak"`
	LongestStreak int    `json:"longestStreak"`
	TotalXP       int    `json:"totalXp"`
	Level         int    `json:"level"`
	VacationMode  bool   `json:"vacationMode"`
	LastActivity  string `json:"lastActivityDate,omitempty"`
}

func (s *Server) GetStreak(ctx context.Context) (*StreakResponse, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	streak, err := s.Queries.GetUserStreak(ctx, int64(user.DBID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No activity yet; report zeroed defaults rather than an error.
			return &StreakResponse{Level: xp.LevelForXP(0)}, nil
		}
		return nil, err
	}
	resp := &StreakResponse{
		CurrentStreak: int(streak.CurrentStreak),
		LongestStreak: int(streak.LongestStreak),
		TotalXP:       int(streak.TotalXp),
		Level:         s.Ledger.Level(int(streak.TotalXp)),
		VacationMode:  streak.VacationMode,
	}
	if streak.LastActivityDate.Valid {
		resp.LastActivity = streak.LastActivityDate.Time.Format("2006-01-02")
	}
	return resp, nil
}

type SetVacationModeRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) SetVacationMode(ctx context.Context, req *SetVacationModeRequest) error {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	// The streak row may not exist yet for a user toggling vacation before
	// their first review.
	err := s.Queries.CreateUserStreak(ctx, models.CreateUserStreakParams{
		UserID: int64(user.DBID), CollegeID: int64(user.CollegeID),
	})
	if err != nil {
		return err
	}
	return s.Queries.SetVacationMode(ctx, models.SetVacationModeParams{
		UserID:       int64(user.DBID),
		VacationMode: req.Enabled,
	})
}

type DailyProgressResponse struct {
	Date          string `json:"date"`
	XPEarned      int    `json:"xpEarned"`
	CardsReviewed int    `json:"cardsReviewed"`
	GoalCards     int    `json:"goalCards"`
	GoalMet       bool   `json:"goalMet"`
}

// GetDailyProgress reports today's review count against the daily goal.
// "Today" is the user's local calendar day, same as the rollup key.
func (s *Server) GetDailyProgress(ctx context.Context, tzOffsetMinutes int) (*DailyProgressResponse, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	today := ledger.LocalDay(s.Nower.Now().UTC(), tzOffsetMinutes)
	resp := &DailyProgressResponse{
		Date:      today.Format("2006-01-02"),
		GoalCards: s.Config.DailyGoalCards,
	}
	row, err := s.Queries.GetDailyActivity(ctx, models.GetDailyActivityParams{
		UserID:       int64(user.DBID),
		ActivityDate: pgtype.Date{Valid: true, Time: today},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resp, nil
		}
		return nil, err
	}
	resp.XPEarned = int(row.XpEarned)
	resp.CardsReviewed = int(row.CardsReviewed)
	resp.GoalMet = resp.CardsReviewed >= s.Config.DailyGoalCards
	return resp, nil
}

type LeaderboardEntry struct {
	UserID  int64 `json:"userId"`
	TotalXP int   `json:"totalXp"`
}

// GetLeaderboard returns this month's XP standings for the caller's
// institution.
func (s *Server) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if user.CollegeID == 0 {
		return nil, invalidArgError("no institution on this account")
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows, err := s.Queries.GetMonthlyLeaderboard(ctx, models.GetMonthlyLeaderboardParams{
		CollegeID: int64(user.CollegeID),
		YearMonth: s.Nower.Now().UTC().Format("2006-01"),
		RowLimit:  int32(limit),
	})
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, len(rows))
	for i := range rows {
		out[i] = LeaderboardEntry{UserID: rows[i].UserID, TotalXP: int(rows[i].TotalXp)}
	}
	return out, nil
}
