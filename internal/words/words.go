// internal/words/words.go
//
// Word source for the game engine.
//
// Responsibilities:
//   - Load the dictionary from an environment-provided file or fall back to
//     the embedded default list.
//   - Pick a random alphabetic target word with a bounded number of attempts.
//
// Sampling:
//   Each attempt draws a uniformly random line. Lines that contain anything
//   other than letters are rejected and cost one attempt; the first accepted
//   line is returned lower-cased. After MaxAttempts rejections the pick fails
//   with ErrNoValidWordFound. The list is never scanned end to end, so a pick
//   is bounded regardless of dictionary size.
//
// Environment variables:
//   WORDS_FILE=/path/to/words.txt

package words

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	mrand "math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/assets"
)

// MaxAttempts bounds how many samples PickWord draws before giving up.
const MaxAttempts = 100

// ErrNoValidWordFound is returned when no alphabetic word was sampled
// within MaxAttempts draws.
var ErrNoValidWordFound = errors.New("words: no valid word found")

// Source supplies target words for new games.
type Source interface {
	PickWord() (string, error)
}

// Dictionary is a fixed list of candidate entries.
type Dictionary struct {
	lines []string
	intn  func(n int) int
}

// NewDictionary wraps lines. Entries are kept as-is; validation happens
// when a line is sampled.
func NewDictionary(lines []string) *Dictionary {
	return &Dictionary{lines: lines, intn: cryptoIntn}
}

// WithRand replaces the index generator. Used by tests to make picks deterministic.
func (d *Dictionary) WithRand(intn func(n int) int) *Dictionary {
	d.intn = intn
	return d
}

// Len reports the number of entries available for sampling.
func (d *Dictionary) Len() int { return len(d.lines) }

// Entries returns the raw entries. The slice must not be modified.
func (d *Dictionary) Entries() []string { return d.lines }

// PickWord samples the dictionary until an alphabetic entry is found.
func (d *Dictionary) PickWord() (string, error) {
	if len(d.lines) == 0 {
		return "", ErrNoValidWordFound
	}
	for attempts := MaxAttempts; attempts > 0; attempts-- {
		w := strings.TrimSpace(d.lines[d.intn(len(d.lines))])
		if IsWord(w) {
			return strings.ToLower(w), nil
		}
	}
	return "", ErrNoValidWordFound
}

// Load reads a line-oriented dictionary file.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer f.Close()
	lines, err := assets.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return NewDictionary(lines), nil
}

// Embedded returns the dictionary compiled into the binary.
func Embedded() (*Dictionary, error) {
	lines, err := assets.WordList()
	if err != nil {
		return nil, fmt.Errorf("read embedded dictionary: %w", err)
	}
	return NewDictionary(lines), nil
}

var (
	initOnce   sync.Once
	defaultDic *Dictionary
	initialErr error
)

// Init loads the default dictionary exactly once: WORDS_FILE when set,
// the embedded list otherwise. An empty dictionary is an error.
func Init() (*Dictionary, error) {
	initOnce.Do(func() {
		if path := os.Getenv("WORDS_FILE"); path != "" {
			defaultDic, initialErr = Load(path)
		} else {
			defaultDic, initialErr = Embedded()
		}
		if initialErr == nil && defaultDic.Len() == 0 {
			initialErr = errors.New("words: dictionary is empty")
		}
	})
	return defaultDic, initialErr
}

// IsWord reports whether s is a non-empty run of ASCII letters (either case).
func IsWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsLetter(r) {
			return false
		}
	}
	return true
}

// IsLetter reports whether r is an ASCII letter.
func IsLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// randReader feeds cryptoIntn; replaced in tests.
var randReader io.Reader = rand.Reader

// cryptoIntn returns a uniformly random int in [0, n). If the system
// source fails the error is logged and math/rand/v2 is used instead.
func cryptoIntn(n int) int {
	nBig, err := rand.Int(randReader, big.NewInt(int64(n)))
	if err != nil {
		log.Error().Err(err).Msg("crypto/rand failed, falling back to math/rand")
		return mrand.IntN(n)
	}
	return int(nBig.Int64())
}
