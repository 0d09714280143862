// internal/game/engine.go
//
// Core game engine for a single Hangman game.
// Responsibilities:
//   - Create fresh games for a target word.
//   - Classify guesses as good, bad or repeated and keep the budget in step.
//   - Report win/loss.
//   - Reveal hints left to right.
//   - Provide read helpers the UI renders from (masked word, keyboard, figure).
//
// Guess letters are expected lowercase a–z; the session lower-cases and
// filters keystrokes before they reach RecordGuess.
package game

import (
	"fmt"
	"sort"
	"strings"
)

// New constructs a fresh game for word.
func New(word string) *State {
	return &State{
		TargetWord:       strings.ToLower(word),
		GoodGuesses:      make(map[rune]struct{}),
		BadGuesses:       make(map[rune]struct{}),
		RemainingGuesses: MaxGuesses,
	}
}

// RecordGuess applies one guessed letter.
// Repeats return OutcomeAlreadyGuessed and change nothing.
func (s *State) RecordGuess(ch rune) Outcome {
	if s.Guessed(ch) {
		return OutcomeAlreadyGuessed
	}
	if strings.ContainsRune(s.TargetWord, ch) {
		s.GoodGuesses[ch] = struct{}{}
		return OutcomeGood
	}
	s.BadGuesses[ch] = struct{}{}
	s.RemainingGuesses--
	return OutcomeBad
}

// Guessed reports whether ch is in either guess set.
func (s *State) Guessed(ch rune) bool {
	_, good := s.GoodGuesses[ch]
	_, bad := s.BadGuesses[ch]
	return good || bad
}

// IsWon reports whether every letter of the word has been guessed.
// A repeated letter needs to be guessed only once.
func (s *State) IsWon() bool {
	for _, r := range s.TargetWord {
		if _, ok := s.GoodGuesses[r]; !ok {
			return false
		}
	}
	return s.TargetWord != ""
}

// IsLost reports whether the budget is spent without a win.
func (s *State) IsLost() bool {
	return s.RemainingGuesses <= 0 && !s.IsWon()
}

// Finished reports whether the game has been decided.
func (s *State) Finished() bool { return s.IsWon() || s.IsLost() }

// RevealHint records the leftmost unguessed letter of the word as a good
// guess and marks the hint as used.
func (s *State) RevealHint() (rune, error) {
	for _, r := range s.TargetWord {
		if _, ok := s.GoodGuesses[r]; !ok {
			s.GoodGuesses[r] = struct{}{}
			s.UsedHint = true
			return r, nil
		}
	}
	return 0, ErrNoHintAvailable
}

// HintOffered reports whether the hint affordance should be shown: the word
// has more than HintMinDistinct distinct letters, no hint was used and the
// game is still open.
func (s *State) HintOffered() bool {
	return !s.UsedHint && !s.Finished() && s.DistinctLetters() > HintMinDistinct
}

// DistinctLetters counts the distinct letters of the word.
func (s *State) DistinctLetters() int {
	seen := make(map[rune]struct{}, len(s.TargetWord))
	for _, r := range s.TargetWord {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// Masked renders the word with '_' for unguessed letters.
// With revealAll the whole word is shown, as on a lost game.
func (s *State) Masked(revealAll bool) string {
	var b strings.Builder
	for _, r := range s.TargetWord {
		if _, ok := s.GoodGuesses[r]; ok || revealAll {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Keyboard maps each letter a–z to its display state.
func (s *State) Keyboard() map[string]KeyState {
	out := make(map[string]KeyState, 26)
	for r := 'a'; r <= 'z'; r++ {
		st := KeyUnused
		if _, ok := s.GoodGuesses[r]; ok {
			st = KeyGood
		} else if _, ok := s.BadGuesses[r]; ok {
			st = KeyBad
		}
		out[string(r)] = st
	}
	return out
}

// FigureStage is the number of hanged-man parts to draw (0..MaxGuesses).
func (s *State) FigureStage() int { return len(s.BadGuesses) }

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := &State{
		TargetWord:       s.TargetWord,
		GoodGuesses:      make(map[rune]struct{}, len(s.GoodGuesses)),
		BadGuesses:       make(map[rune]struct{}, len(s.BadGuesses)),
		RemainingGuesses: s.RemainingGuesses,
		UsedHint:         s.UsedHint,
	}
	for r := range s.GoodGuesses {
		c.GoodGuesses[r] = struct{}{}
	}
	for r := range s.BadGuesses {
		c.BadGuesses[r] = struct{}{}
	}
	return c
}

// Validate checks every state invariant and returns an error wrapping
// ErrInvalidState for the first one broken.
func (s *State) Validate() error {
	if s.TargetWord == "" || !isLower(s.TargetWord) {
		return fmt.Errorf("%w: target word %q is not lowercase letters", ErrInvalidState, s.TargetWord)
	}
	for r := range s.GoodGuesses {
		if !strings.ContainsRune(s.TargetWord, r) {
			return fmt.Errorf("%w: good guess %q not in word", ErrInvalidState, r)
		}
	}
	for r := range s.BadGuesses {
		if r < 'a' || r > 'z' {
			return fmt.Errorf("%w: bad guess %q is not a letter", ErrInvalidState, r)
		}
		if strings.ContainsRune(s.TargetWord, r) {
			return fmt.Errorf("%w: bad guess %q is in word", ErrInvalidState, r)
		}
	}
	if s.RemainingGuesses != MaxGuesses-len(s.BadGuesses) || s.RemainingGuesses < 0 {
		return fmt.Errorf("%w: remaining guesses %d with %d bad guesses",
			ErrInvalidState, s.RemainingGuesses, len(s.BadGuesses))
	}
	return nil
}

// SortedLetters returns the letters of set in ascending order.
func SortedLetters(set map[rune]struct{}) []string {
	out := make([]string, 0, len(set))
	for r := range set {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

// isLower checks that a string consists only of lowercase a–z.
func isLower(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
