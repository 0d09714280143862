// Package daily derives the shared word of the day.
//
// Every player starting a daily game on the same UTC date gets the same
// target word: the dictionary is sampled with indexes derived from
// HMAC(salt, date), so the pick is deterministic for a date yet not
// guessable without the salt.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"time"

	"github.com/robalobadob/hangman/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	return attemptIndex(date, salt, 0, n)
}

// attemptIndex extends WordIndex to retries: attempt k > 0 hashes "YYYY-MM-DD#k".
func attemptIndex(date time.Time, salt string, attempt, n int) int {
	if n <= 0 {
		return 0
	}
	msg := DateKey(date)
	if attempt > 0 {
		msg += "#" + strconv.Itoa(attempt)
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(msg))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Source yields the word of the day for a fixed date.
type Source struct {
	dict *words.Dictionary
	salt string
	date time.Time
}

// NewSource returns the word source for date.
func NewSource(dict *words.Dictionary, salt string, date time.Time) *Source {
	return &Source{dict: dict, salt: salt, date: date}
}

// PickWord returns the same word on every call for the source's date.
// Rejected (non-alphabetic) entries are retried with the next attempt
// index, within the same attempt budget as random picks.
func (s *Source) PickWord() (string, error) {
	attempt := 0
	return words.NewDictionary(s.dict.Entries()).WithRand(func(n int) int {
		i := attemptIndex(s.date, s.salt, attempt, n)
		attempt++
		return i
	}).PickWord()
}
