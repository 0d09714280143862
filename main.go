// main.go
//
// Entry point for the Hangman server.
// Loads configuration, the dictionary and the results database, then serves
// the game command surface over HTTP.
//
// Environment variables: see internal/config.

package main

import (
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/httpserver"
	"github.com/robalobadob/hangman/internal/results"
	"github.com/robalobadob/hangman/internal/savefile"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	dict, err := words.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}
	source := cfg.Game.WordsFile
	if source == "" {
		source = "embedded"
	}
	log.Info().Str("source", source).Int("entries", dict.Len()).Msg("dictionary loaded")

	db, err := results.OpenDB(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("open database")
	}
	defer db.Close()

	var migrations fs.FS = results.Migrations()
	if cfg.DB.MigrationsDir != "" {
		migrations = os.DirFS(cfg.DB.MigrationsDir)
	}
	if err := results.Migrate(db, migrations); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	saves, err := savefile.NewDir(cfg.Game.SaveDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Game.SaveDir).Msg("prepare save directory")
	}

	srv := httpserver.New(cfg, httpserver.Deps{
		Sessions: store.NewMemoryStore(),
		Results:  results.NewStore(db),
		Dict:     dict,
		Saves:    saves,
	})
	log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Server.Env).Msg("starting hangman server")
	if err := srv.Start(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global logger.
func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Logging.Format == "pretty" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
