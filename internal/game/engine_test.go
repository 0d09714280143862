package game

import (
	"errors"
	"testing"
)

func TestCatGoodGuesses(t *testing.T) {
	s := New("cat")

	if got := s.RecordGuess('c'); got != OutcomeGood {
		t.Fatalf("c: expected good, got %s", got)
	}
	if len(s.GoodGuesses) != 1 || s.RemainingGuesses != MaxGuesses {
		t.Fatalf("after c: good=%v remaining=%d", s.GoodGuesses, s.RemainingGuesses)
	}
	s.RecordGuess('a')
	if len(s.GoodGuesses) != 2 || s.IsWon() {
		t.Fatalf("after a: good=%v won=%v", s.GoodGuesses, s.IsWon())
	}
	s.RecordGuess('t')
	if !s.IsWon() {
		t.Fatal("expected win after c,a,t")
	}
	if s.RemainingGuesses != MaxGuesses {
		t.Fatalf("expected %d remaining, got %d", MaxGuesses, s.RemainingGuesses)
	}
	if s.IsLost() {
		t.Fatal("won game reported lost")
	}
}

func TestCatTenWrongGuesses(t *testing.T) {
	s := New("cat")
	for i, r := range "bdefghijkl" {
		if got := s.RecordGuess(r); got != OutcomeBad {
			t.Fatalf("%c: expected bad, got %s", r, got)
		}
		if s.RemainingGuesses != MaxGuesses-(i+1) {
			t.Fatalf("after %c: remaining=%d", r, s.RemainingGuesses)
		}
	}
	if s.RemainingGuesses != 0 {
		t.Fatalf("expected 0 remaining, got %d", s.RemainingGuesses)
	}
	if !s.IsLost() {
		t.Fatal("expected loss")
	}
	if s.FigureStage() != MaxGuesses {
		t.Fatalf("expected full figure, got stage %d", s.FigureStage())
	}
}

func TestRepeatGuessIsIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		guess rune
	}{
		{"repeat good", 'c'},
		{"repeat bad", 'z'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("cat")
			s.RecordGuess(tt.guess)
			before := s.Clone()
			if got := s.RecordGuess(tt.guess); got != OutcomeAlreadyGuessed {
				t.Fatalf("expected already guessed, got %s", got)
			}
			if s.RemainingGuesses != before.RemainingGuesses ||
				len(s.GoodGuesses) != len(before.GoodGuesses) ||
				len(s.BadGuesses) != len(before.BadGuesses) {
				t.Fatal("repeat guess changed state")
			}
		})
	}
}

func TestBudgetInvariantOverSequences(t *testing.T) {
	seqs := []string{
		"",
		"zzzz",
		"abcdefghijklmnopqrstuvwxyz",
		"qwertyuiopasdfghjklzxcvbnm",
		"mississippi",
	}
	for _, seq := range seqs {
		s := New("mississippi")
		for _, r := range seq {
			if s.Finished() {
				break
			}
			s.RecordGuess(r)
		}
		if s.RemainingGuesses < 0 || s.RemainingGuesses != MaxGuesses-len(s.BadGuesses) {
			t.Fatalf("%q: remaining=%d bad=%d", seq, s.RemainingGuesses, len(s.BadGuesses))
		}
		for r := range s.GoodGuesses {
			if _, ok := s.BadGuesses[r]; ok {
				t.Fatalf("%q: %c in both sets", seq, r)
			}
		}
	}
}

func TestIsWonWithRepeatedLetters(t *testing.T) {
	s := New("mississippi")
	for _, r := range "misp" {
		s.RecordGuess(r)
	}
	if !s.IsWon() {
		t.Fatal("expected win with each distinct letter guessed once")
	}
	if s.Masked(false) != "mississippi" {
		t.Fatalf("unexpected mask %q", s.Masked(false))
	}
}

func TestRevealHintLeftToRight(t *testing.T) {
	s := New("dinosaurs")
	if !s.HintOffered() {
		t.Fatalf("hint should be offered for %d distinct letters", s.DistinctLetters())
	}

	first, err := s.RevealHint()
	if err != nil {
		t.Fatalf("RevealHint: %v", err)
	}
	if first != 'd' || !s.UsedHint {
		t.Fatalf("expected d with UsedHint, got %c used=%v", first, s.UsedHint)
	}
	if s.HintOffered() {
		t.Fatal("hint offered again after use")
	}

	second, err := s.RevealHint()
	if err != nil {
		t.Fatalf("RevealHint: %v", err)
	}
	if second != 'i' {
		t.Fatalf("expected i, got %c", second)
	}
}

func TestRevealHintSkipsGuessedLetters(t *testing.T) {
	s := New("cat")
	s.RecordGuess('c')
	r, err := s.RevealHint()
	if err != nil || r != 'a' {
		t.Fatalf("expected a, got %c (%v)", r, err)
	}
}

func TestRevealHintExhausted(t *testing.T) {
	s := New("cat")
	for _, r := range "cat" {
		s.RecordGuess(r)
	}
	if _, err := s.RevealHint(); !errors.Is(err, ErrNoHintAvailable) {
		t.Fatalf("expected ErrNoHintAvailable, got %v", err)
	}
	if s.UsedHint {
		t.Fatal("failed hint must not set UsedHint")
	}
}

func TestHintNotOfferedForShortWords(t *testing.T) {
	if New("cat").HintOffered() {
		t.Fatal("hint offered for a 3-letter word")
	}
	// "abcdefg" has exactly 7 distinct letters.
	if New("abcdefg").HintOffered() {
		t.Fatal("hint offered for exactly 7 distinct letters")
	}
}

func TestKeyboardAndMask(t *testing.T) {
	s := New("cat")
	s.RecordGuess('a')
	s.RecordGuess('z')
	kb := s.Keyboard()
	if kb["a"] != KeyGood || kb["z"] != KeyBad || kb["c"] != KeyUnused {
		t.Fatalf("unexpected keyboard %v", kb)
	}
	if len(kb) != 26 {
		t.Fatalf("expected 26 keys, got %d", len(kb))
	}
	if got := s.Masked(false); got != "_a_" {
		t.Fatalf("expected _a_, got %q", got)
	}
	if got := s.Masked(true); got != "cat" {
		t.Fatalf("expected cat, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *State)
		wantErr bool
	}{
		{"fresh", func(s *State) {}, false},
		{"empty word", func(s *State) { s.TargetWord = "" }, true},
		{"uppercase word", func(s *State) { s.TargetWord = "Cat" }, true},
		{"good not in word", func(s *State) { s.GoodGuesses['z'] = struct{}{} }, true},
		{"bad in word", func(s *State) {
			s.BadGuesses['c'] = struct{}{}
			s.RemainingGuesses--
		}, true},
		{"budget mismatch", func(s *State) { s.RemainingGuesses = 3 }, true},
		{"consistent bad", func(s *State) { s.RecordGuess('q') }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("cat")
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New("cat")
	s.RecordGuess('c')
	c := s.Clone()
	c.RecordGuess('a')
	if _, ok := s.GoodGuesses['a']; ok {
		t.Fatal("clone shares guess set with original")
	}
}
