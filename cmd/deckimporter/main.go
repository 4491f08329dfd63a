package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
	"github.com/namsral/flag"
	"github.com/rs/zerolog/log"

	"github.com/studyhall/study_core_server/internal/srs"
	"github.com/studyhall/study_core_server/internal/stores/models"
)

const insertBatchSize = 1000

// deckimporter loads a deck exported as a SQLite file into the study
// database. The export format is a single `cards` table with `front` and
// `back` text columns.
func main() {
	fs := flag.NewFlagSet("deckimporter", flag.ExitOnError)
	var (
		dbConnUri  = fs.String("db-conn-uri", "", "postgres connection URI")
		sqlitePath = fs.String("sqlite-path", "", "path to the exported SQLite deck")
		deckName   = fs.String("deck-name", "", "name for the imported deck")
		userID     = fs.Int64("user-id", 0, "owner of the imported deck")
	)
	fs.Parse(os.Args[1:])

	if *sqlitePath == "" || *deckName == "" || *userID == 0 {
		log.Fatal().Msg("sqlite-path, deck-name and user-id are required")
	}

	sdb, err := sql.Open("sqlite3", *sqlitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open-sqlite")
	}
	defer sdb.Close()

	rows, err := sdb.Query("SELECT front, back FROM cards")
	if err != nil {
		log.Fatal().Err(err).Msg("query-sqlite")
	}
	defer rows.Close()

	var fronts, backs []string
	for rows.Next() {
		var front, back string
		if err := rows.Scan(&front, &back); err != nil {
			log.Fatal().Err(err).Msg("scan-sqlite")
		}
		fronts = append(fronts, front)
		backs = append(backs, back)
	}
	if err := rows.Err(); err != nil {
		log.Fatal().Err(err).Msg("read-sqlite")
	}
	if len(fronts) == 0 {
		log.Fatal().Msg("no cards found in the export")
	}

	ctx := context.Background()
	dbPool, err := pgxpool.New(ctx, *dbConnUri)
	if err != nil {
		log.Fatal().Err(err).Msg("connect-postgres")
	}
	defer dbPool.Close()
	queries := models.New(dbPool)

	deck, err := queries.AddDeck(ctx, models.AddDeckParams{
		UserID: *userID,
		Name:   *deckName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create-deck")
	}

	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	total := int64(0)
	for start := 0; start < len(fronts); start += insertBatchSize {
		end := min(start+insertBatchSize, len(fronts))
		n, err := queries.AddCards(ctx, models.AddCardsParams{
			DeckID:     deck.ID,
			UserID:     *userID,
			Fronts:     fronts[start:end],
			Backs:      backs[start:end],
			EaseFactor: srs.InitialEaseFactor,
			NextReview: now,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("insert-cards")
		}
		total += n
	}

	log.Info().Int64("deckID", deck.ID).Int64("cards", total).
		Str("name", deck.Name).Msg("import-complete")
}
