// internal/session/session.go
//
// Session controller for one player's Hangman game.
// Responsibilities:
//   - Own the active game.State and the session phase.
//   - Turn inbound commands (start, keystroke, hint, new game, save, load)
//     into state changes, one at a time.
//   - Emit outbound notifications through the injected Notifier.
//   - Track the work file so a save without a path reuses the last one.
//
// Phases:
//   UNINITIALIZED --start--> UNMODIFIED --guess/hint--> MODIFIED --save--> UNMODIFIED
//   UNMODIFIED/MODIFIED --win/loss--> ENDED
//   any --newGame--> UNINITIALIZED --start--> UNMODIFIED
//
// Failed commands leave the game and phase as they were.

package session

import (
	"errors"
	"fmt"
	"sync"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/savefile"
	"github.com/robalobadob/hangman/internal/words"
)

var (
	// ErrInvalidStateTransition signals a command issued in a phase that
	// does not accept it. Normal UI flows never trigger it.
	ErrInvalidStateTransition = errors.New("session: invalid state transition")
	// ErrNoWorkFile is returned by Save("") before the game was ever saved or loaded.
	ErrNoWorkFile = errors.New("session: no work file")
)

// OutcomeIgnored is reported for keystrokes that are not letters.
const OutcomeIgnored game.Outcome = "ignored"

// Persister reads and writes save files.
type Persister interface {
	Save(s *game.State, path string) error
	Load(path string) (*game.State, error)
}

type filePersister struct{}

func (filePersister) Save(s *game.State, path string) error  { return savefile.Save(s, path) }
func (filePersister) Load(path string) (*game.State, error) { return savefile.Load(path) }

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notify = n }
}

// WithPersister replaces the save-file backend.
func WithPersister(p Persister) Option {
	return func(c *Controller) { c.persist = p }
}

// WithLogger sets the logger; the session id is added as a field.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller drives one session. It is safe for concurrent use; commands
// are applied one at a time.
type Controller struct {
	mu       sync.Mutex
	id       string
	words    words.Source
	persist  Persister
	notify   Notifier
	log      zerolog.Logger
	phase    Phase
	state    *game.State
	workFile string
	restored bool // current game came from a save file
}

// New returns an uninitialized controller that draws words from src.
func New(id string, src words.Source, opts ...Option) *Controller {
	c := &Controller{
		id:      id,
		words:   src,
		persist: filePersister{},
		notify:  NopNotifier{},
		log:     log.Logger,
		phase:   PhaseUninitialized,
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With().Str("session", id).Logger()
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// HasUnsavedWork reports whether guesses were made since the last save or load.
func (c *Controller) HasUnsavedWork() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == PhaseModified
}

// Game returns a copy of the active game, or nil when uninitialized.
func (c *Controller) Game() *game.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return nil
	}
	return c.state.Clone()
}

// Start picks a word and begins a game. Requires UNINITIALIZED.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start()
}

func (c *Controller) start() error {
	if c.phase != PhaseUninitialized {
		return c.invalid("start")
	}
	word, err := c.words.PickWord()
	if err != nil {
		c.log.Error().Err(err).Msg("pick target word")
		return fmt.Errorf("start: %w", err)
	}
	c.state = game.New(word)
	c.restored = false
	c.enter(PhaseUnmodified)
	c.log.Info().Int("length", len(word)).Msg("game started")
	return nil
}

// ApplyKeystroke applies one typed character. Non-letters are ignored and
// reported as OutcomeIgnored without error.
func (c *Controller) ApplyKeystroke(ch rune) (game.Outcome, error) {
	if !words.IsLetter(ch) {
		return OutcomeIgnored, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.phase.Active() {
		return "", c.invalid("keystroke")
	}
	ch = unicode.ToLower(ch)
	outcome := c.state.RecordGuess(ch)
	if outcome != game.OutcomeAlreadyGuessed {
		c.enter(PhaseModified)
	}
	c.notify.GuessResult(ch, outcome)
	c.log.Debug().Str("letter", string(ch)).Str("outcome", string(outcome)).
		Int("remaining", c.state.RemainingGuesses).Msg("guess")
	c.checkEnd()
	return outcome, nil
}

// RequestHint reveals the leftmost unguessed letter. Hints are offered
// once per game and only for words with more than game.HintMinDistinct
// distinct letters; otherwise game.ErrNoHintAvailable is returned.
func (c *Controller) RequestHint() (rune, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.phase.Active() {
		return 0, c.invalid("hint")
	}
	if !c.state.HintOffered() {
		return 0, game.ErrNoHintAvailable
	}
	r, err := c.state.RevealHint()
	if err != nil {
		return 0, err
	}
	c.enter(PhaseModified)
	c.notify.HintRevealed(r)
	c.log.Info().Str("letter", string(r)).Msg("hint revealed")
	c.checkEnd()
	return r, nil
}

// Reset discards the game and work file, leaving the session UNINITIALIZED.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Controller) reset() {
	c.state = nil
	c.workFile = ""
	c.enter(PhaseUninitialized)
}

// NewGame discards the current game and starts a fresh one.
// If no word can be picked the session stays UNINITIALIZED.
func (c *Controller) NewGame() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	return c.start()
}

// Save writes the game to path, or to the work file when path is empty.
func (c *Controller) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseUninitialized {
		return c.invalid("save")
	}
	target := path
	if target == "" {
		target = c.workFile
	}
	if target == "" {
		return ErrNoWorkFile
	}
	if err := c.persist.Save(c.state, target); err != nil {
		c.log.Error().Err(err).Str("path", target).Msg("save game")
		return fmt.Errorf("save: %w", err)
	}
	c.workFile = target
	if c.phase == PhaseModified {
		c.enter(PhaseUnmodified)
	}
	c.log.Info().Str("path", target).Msg("game saved")
	return nil
}

// Load replaces the game with the one saved at path. A game that was
// already decided when saved is loaded as ENDED.
func (c *Controller) Load(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.persist.Load(path)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("load game")
		return fmt.Errorf("load: %w", err)
	}
	c.state = s
	c.workFile = path
	c.restored = true
	if s.Finished() {
		c.enter(PhaseEnded)
	} else {
		c.enter(PhaseUnmodified)
	}
	c.log.Info().Str("path", path).Str("phase", c.phase.String()).Msg("game loaded")
	return nil
}

// checkEnd moves to ENDED when the game has been decided.
func (c *Controller) checkEnd() {
	won, lost := c.state.IsWon(), c.state.IsLost()
	if !won && !lost {
		return
	}
	c.enter(PhaseEnded)
	summary := Summary{
		Won:        won,
		Word:       c.state.TargetWord,
		BadGuesses: len(c.state.BadGuesses),
		UsedHint:   c.state.UsedHint,
		Restored:   c.restored,
	}
	c.notify.GameEnded(summary)
	c.log.Info().Bool("won", won).Int("badGuesses", summary.BadGuesses).
		Bool("usedHint", summary.UsedHint).Msg("game ended")
}

// enter sets the phase and notifies. Repeated MODIFIED entries are silent.
func (c *Controller) enter(p Phase) {
	if p == c.phase && p == PhaseModified {
		return
	}
	if !c.phase.CanTransitionTo(p) {
		c.log.Warn().Str("from", c.phase.String()).Str("to", p.String()).Msg("unexpected phase transition")
	}
	c.phase = p
	c.notify.StateChanged(p)
}

// invalid builds an ErrInvalidStateTransition and logs it as a defect.
func (c *Controller) invalid(op string) error {
	c.log.Warn().Str("op", op).Str("phase", c.phase.String()).Msg("invalid state transition")
	return fmt.Errorf("%w: %s in phase %s", ErrInvalidStateTransition, op, c.phase)
}
