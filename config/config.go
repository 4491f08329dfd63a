package config

import (
	"github.com/namsral/flag"
)

type Config struct {
	DBConnUri        string
	DBMigrationsPath string
	SecretKey        string
	ListenAddr       string
	LogLevel         string

	// Study engine knobs. These are explicit configuration, not ambient
	// state; the UI's "settings" screen writes through to these defaults.
	FlashcardXP          int
	MasteredIntervalDays int
	DailyGoalCards       int
	MaxCardsAdd          int
}

// Load loads the configs from the given arguments
func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("studycore", flag.ContinueOnError)

	fs.StringVar(&c.DBConnUri, "db-conn-uri", "", "postgres connection URI")
	fs.StringVar(&c.DBMigrationsPath, "db-migrations-path", "file://db/migrations", "migrations path for golang-migrate")
	fs.StringVar(&c.SecretKey, "secret-key", "", "JWT signing secret")
	fs.StringVar(&c.ListenAddr, "listen-addr", ":8190", "address to listen on")
	fs.StringVar(&c.LogLevel, "log-level", "debug", "log level")

	fs.IntVar(&c.FlashcardXP, "flashcard-xp", 1, "XP awarded the first time a flashcard is reviewed")
	fs.IntVar(&c.MasteredIntervalDays, "mastered-interval-days", 14, "interval at which a card counts as mastered")
	fs.IntVar(&c.DailyGoalCards, "daily-goal-cards", 20, "default daily review goal")
	fs.IntVar(&c.MaxCardsAdd, "max-cards-add", 1000, "maximum cards addable in one request")

	err := fs.Parse(args)
	return err
}
