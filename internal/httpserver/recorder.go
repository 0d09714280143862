package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/results"
	"github.com/robalobadob/hangman/internal/session"
)

// recordTimeout bounds the results write made when a game ends.
const recordTimeout = 5 * time.Second

// recorder persists decided games to the results database. It only reacts
// to GameEnded; failures are logged and never reach the player. Games
// restored from a save file are not recorded, so replaying a save cannot
// add results.
type recorder struct {
	session.NopNotifier
	store *results.Store
	base  results.Result // owner, mode and date; filled at session creation
}

func (rec *recorder) GameEnded(sum session.Summary) {
	if rec.store == nil || sum.Restored {
		return
	}
	res := rec.base
	res.Word = sum.Word
	res.Won = sum.Won
	res.BadGuesses = sum.BadGuesses
	res.UsedHint = sum.UsedHint
	res.FinishedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	err := rec.store.Record(ctx, res)
	if errors.Is(err, results.ErrDailyRecorded) {
		log.Info().Str("session", res.SessionID).Str("date", res.Date).Msg("daily word already recorded for player")
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("session", res.SessionID).Msg("record result")
	}
}
