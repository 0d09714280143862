package savefile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robalobadob/hangman/internal/game"
)

func sameState(t *testing.T, want, got *game.State) {
	t.Helper()
	if want.TargetWord != got.TargetWord ||
		want.RemainingGuesses != got.RemainingGuesses ||
		want.UsedHint != got.UsedHint {
		t.Fatalf("scalar mismatch: want %+v got %+v", want, got)
	}
	if strings.Join(game.SortedLetters(want.GoodGuesses), "") != strings.Join(game.SortedLetters(got.GoodGuesses), "") {
		t.Fatalf("good guesses: want %v got %v", want.GoodGuesses, got.GoodGuesses)
	}
	if strings.Join(game.SortedLetters(want.BadGuesses), "") != strings.Join(game.SortedLetters(got.BadGuesses), "") {
		t.Fatalf("bad guesses: want %v got %v", want.BadGuesses, got.BadGuesses)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		guesses string
		hint    bool
	}{
		{"fresh", "cat", "", false},
		{"mixed", "lighthouse", "lzqe", false},
		{"hint used", "dinosaurs", "x", true},
		{"lost", "cat", "bdefghijkl", false},
		{"won", "cat", "cat", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := game.New(tt.word)
			for _, r := range tt.guesses {
				s.RecordGuess(r)
			}
			if tt.hint {
				if _, err := s.RevealHint(); err != nil {
					t.Fatal(err)
				}
			}
			path := filepath.Join(t.TempDir(), "game.json")
			if err := Save(s, path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			sameState(t, s, got)
		})
	}
}

func TestEncodeIsStable(t *testing.T) {
	s := game.New("cat")
	for _, r := range "tzca" {
		s.RecordGuess(r)
	}
	var a, b bytes.Buffer
	if err := Encode(&a, s); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&b, s.Clone()); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Fatalf("encoding differs:\n%s\n%s", a.String(), b.String())
	}
	if !strings.Contains(a.String(), `"goodGuesses": [`) {
		t.Fatalf("unexpected encoding %s", a.String())
	}
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `hello`},
		{"unknown version", `{"version":2,"targetWord":"cat","goodGuesses":[],"badGuesses":[],"remainingGuesses":10,"usedHint":false}`},
		{"empty word", `{"version":1,"targetWord":"","goodGuesses":[],"badGuesses":[],"remainingGuesses":10,"usedHint":false}`},
		{"digit in word", `{"version":1,"targetWord":"c4t","goodGuesses":[],"badGuesses":[],"remainingGuesses":10,"usedHint":false}`},
		{"good not in word", `{"version":1,"targetWord":"cat","goodGuesses":["z"],"badGuesses":[],"remainingGuesses":10,"usedHint":false}`},
		{"overlap", `{"version":1,"targetWord":"cat","goodGuesses":["c"],"badGuesses":["c"],"remainingGuesses":9,"usedHint":false}`},
		{"budget mismatch", `{"version":1,"targetWord":"cat","goodGuesses":[],"badGuesses":["z"],"remainingGuesses":10,"usedHint":false}`},
		{"multi-letter entry", `{"version":1,"targetWord":"cat","goodGuesses":["ca"],"badGuesses":[],"remainingGuesses":10,"usedHint":false}`},
		{"duplicate letter", `{"version":1,"targetWord":"cat","goodGuesses":[],"badGuesses":["z","z"],"remainingGuesses":8,"usedHint":false}`},
		{"unknown field", `{"version":1,"targetWord":"cat","goodGuesses":[],"badGuesses":[],"remainingGuesses":10,"usedHint":false,"extra":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body))
			if !errors.Is(err, ErrCorruptSaveFile) {
				t.Fatalf("expected ErrCorruptSaveFile, got %v", err)
			}
		})
	}
}

func TestLoadMissingFileIsIOFailure(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestSaveIntoMissingDirIsIOFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "game.json")
	err := Save(game.New("cat"), path)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Save(game.New("cat"), filepath.Join(dir, "a.json")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestDirPath(t *testing.T) {
	d, err := NewDir(filepath.Join(t.TempDir(), "saves"))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"slot1", false},
		{"my-game_2", false},
		{"", true},
		{"../etc/passwd", true},
		{"a/b", true},
		{strings.Repeat("x", 65), true},
	}
	for _, tt := range tests {
		p, err := d.Path(tt.name)
		if (err != nil) != tt.wantErr {
			t.Fatalf("Path(%q) err=%v wantErr=%v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrBadName) {
			t.Fatalf("expected ErrBadName, got %v", err)
		}
		if err == nil && filepath.Ext(p) != ".json" {
			t.Fatalf("unexpected path %q", p)
		}
	}
}

func TestDirSubSeparatesOwners(t *testing.T) {
	d, err := NewDir(filepath.Join(t.TempDir(), "saves"))
	if err != nil {
		t.Fatal(err)
	}
	alice, err := d.Sub("guest-alice")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := d.Sub("guest-bob")
	if err != nil {
		t.Fatal(err)
	}
	pa, _ := alice.Path("slot")
	pb, _ := bob.Path("slot")
	if pa == pb {
		t.Fatalf("owners share a save path %q", pa)
	}
	if err := Save(game.New("cat"), pa); err != nil {
		t.Fatalf("save into owner dir: %v", err)
	}
	if _, err := Load(pb); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("other owner sees the save: %v", err)
	}
	if _, err := d.Sub("../x"); !errors.Is(err, ErrBadName) {
		t.Fatalf("expected ErrBadName for bad owner, got %v", err)
	}
}
