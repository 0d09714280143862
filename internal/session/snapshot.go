package session

import "github.com/robalobadob/hangman/internal/game"

// Snapshot is a read-only view of a session for rendering.
// Word is masked while the game is open and shown in full once it ended.
type Snapshot struct {
	ID               string                   `json:"id"`
	Phase            Phase                    `json:"phase"`
	Word             string                   `json:"word,omitempty"`
	WordLength       int                      `json:"wordLength"`
	GoodGuesses      []string                 `json:"goodGuesses"`
	BadGuesses       []string                 `json:"badGuesses"`
	RemainingGuesses int                      `json:"remainingGuesses"`
	UsedHint         bool                     `json:"usedHint"`
	HintOffered      bool                     `json:"hintOffered"`
	FigureStage      int                      `json:"figureStage"`
	Keyboard         map[string]game.KeyState `json:"keyboard,omitempty"`
	Won              bool                     `json:"won"`
	Lost             bool                     `json:"lost"`
	Unsaved          bool                     `json:"unsaved"`
}

// Snapshot captures the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// View calls fn with the current snapshot while the session is locked, so
// no notification is emitted between the snapshot and fn returning.
// fn must not call back into the controller.
func (c *Controller) View(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.snapshot())
}

func (c *Controller) snapshot() Snapshot {
	snap := Snapshot{
		ID:          c.id,
		Phase:       c.phase,
		GoodGuesses: []string{},
		BadGuesses:  []string{},
		Unsaved:     c.phase == PhaseModified,
	}
	s := c.state
	if s == nil {
		return snap
	}
	snap.Word = s.Masked(c.phase == PhaseEnded)
	snap.WordLength = len(s.TargetWord)
	snap.GoodGuesses = game.SortedLetters(s.GoodGuesses)
	snap.BadGuesses = game.SortedLetters(s.BadGuesses)
	snap.RemainingGuesses = s.RemainingGuesses
	snap.UsedHint = s.UsedHint
	snap.HintOffered = c.phase.Active() && s.HintOffered()
	snap.FigureStage = s.FigureStage()
	snap.Keyboard = s.Keyboard()
	snap.Won = s.IsWon()
	snap.Lost = s.IsLost()
	return snap
}
