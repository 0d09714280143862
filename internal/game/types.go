// internal/game/types.go
//
// Core type definitions for the Hangman game engine.
// Defines:
//   - Outcome: result of recording a single guessed letter.
//   - KeyState: per-letter keyboard state for display.
//   - State: the target word, both guess sets, the remaining-guess budget
//     and the hint flag for one game.

package game

import "errors"

// MaxGuesses is the bad-guess allowance of a fresh game.
const MaxGuesses = 10

// HintMinDistinct is the number of distinct letters a word must exceed
// before a hint is offered.
const HintMinDistinct = 7

var (
	// ErrNoHintAvailable is returned by RevealHint when every letter is revealed.
	ErrNoHintAvailable = errors.New("game: no hint available")
	// ErrInvalidState is returned by Validate when a state breaks an invariant.
	ErrInvalidState = errors.New("game: invalid state")
)

// Outcome classifies a recorded guess.
type Outcome string

const (
	OutcomeAlreadyGuessed Outcome = "already_guessed"
	OutcomeGood           Outcome = "good"
	OutcomeBad            Outcome = "bad"
)

// KeyState is the display state of one keyboard letter.
type KeyState string

const (
	KeyUnused KeyState = "unused"
	KeyGood   KeyState = "good"
	KeyBad    KeyState = "bad"
)

// State holds a single Hangman game.
// It is not safe for concurrent use; the owning session serialises access.
type State struct {
	TargetWord       string            // Lowercase a–z, fixed for the life of the game.
	GoodGuesses      map[rune]struct{} // Guessed letters present in TargetWord.
	BadGuesses       map[rune]struct{} // Guessed letters absent from TargetWord.
	RemainingGuesses int               // MaxGuesses minus len(BadGuesses).
	UsedHint         bool              // True once a hint has been revealed.
}
