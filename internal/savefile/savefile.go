// internal/savefile/savefile.go
//
// Save-file persistence for a single game.
//
// Format (JSON, letters sorted so identical states produce identical files):
//
//	{
//	  "version": 1,
//	  "targetWord": "cat",
//	  "goodGuesses": ["a", "c"],
//	  "badGuesses": ["z"],
//	  "remainingGuesses": 9,
//	  "usedHint": false
//	}
//
// Writes go to a temp file in the target directory and are renamed into
// place, so a failed save never leaves a half-written file behind.
// Loads decode into a fresh state and validate it; the caller's state is
// only replaced once the whole file has been accepted.

package savefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/robalobadob/hangman/internal/game"
)

// Version is the current save-file format version.
const Version = 1

var (
	// ErrIO wraps any read or write failure.
	ErrIO = errors.New("savefile: i/o failure")
	// ErrCorruptSaveFile is returned when content cannot be turned into a valid game.
	ErrCorruptSaveFile = errors.New("savefile: corrupt save file")
)

// document is the on-disk shape of a saved game.
type document struct {
	Version          int      `json:"version"`
	TargetWord       string   `json:"targetWord"`
	GoodGuesses      []string `json:"goodGuesses"`
	BadGuesses       []string `json:"badGuesses"`
	RemainingGuesses int      `json:"remainingGuesses"`
	UsedHint         bool     `json:"usedHint"`
}

// Encode writes s as JSON to w.
func Encode(w io.Writer, s *game.State) error {
	doc := document{
		Version:          Version,
		TargetWord:       s.TargetWord,
		GoodGuesses:      game.SortedLetters(s.GoodGuesses),
		BadGuesses:       game.SortedLetters(s.BadGuesses),
		RemainingGuesses: s.RemainingGuesses,
		UsedHint:         s.UsedHint,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("%w: encode: %w", ErrIO, err)
	}
	return nil
}

// Decode reads a saved game from r and validates it.
func Decode(r io.Reader) (*game.State, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSaveFile, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSaveFile, doc.Version)
	}
	good, err := letterSet(doc.GoodGuesses)
	if err != nil {
		return nil, err
	}
	bad, err := letterSet(doc.BadGuesses)
	if err != nil {
		return nil, err
	}
	s := &game.State{
		TargetWord:       doc.TargetWord,
		GoodGuesses:      good,
		BadGuesses:       bad,
		RemainingGuesses: doc.RemainingGuesses,
		UsedHint:         doc.UsedHint,
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSaveFile, err)
	}
	return s, nil
}

// Save writes s to path atomically.
func Save(s *game.State, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".hangman-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp in %s: %w", ErrIO, dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, s); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", ErrIO, path, err)
	}
	return nil
}

// Load reads and validates the game saved at path.
func Load(path string) (*game.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer f.Close()
	return Decode(f)
}

// letterSet converts single-letter strings into a rune set.
// Duplicates are corrupt since the sets hold distinct letters.
func letterSet(letters []string) (map[rune]struct{}, error) {
	out := make(map[rune]struct{}, len(letters))
	for _, l := range letters {
		r, size := utf8.DecodeRuneInString(l)
		if size == 0 || size != len(l) || r < 'a' || r > 'z' {
			return nil, fmt.Errorf("%w: bad letter %q", ErrCorruptSaveFile, l)
		}
		if _, dup := out[r]; dup {
			return nil, fmt.Errorf("%w: duplicate letter %q", ErrCorruptSaveFile, l)
		}
		out[r] = struct{}{}
	}
	return out, nil
}
