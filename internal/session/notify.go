package session

import "github.com/robalobadob/hangman/internal/game"

// Notifier receives the outbound notifications of a session.
// Calls are made synchronously while the session is locked; implementations
// must not call back into the same session.
type Notifier interface {
	GuessResult(letter rune, outcome game.Outcome)
	HintRevealed(letter rune)
	GameEnded(summary Summary)
	StateChanged(phase Phase)
}

// Summary describes a decided game. Restored is set when the game was
// loaded from a save file rather than started in this session.
type Summary struct {
	Won        bool   `json:"won"`
	Word       string `json:"word"`
	BadGuesses int    `json:"badGuesses"`
	UsedHint   bool   `json:"usedHint"`
	Restored   bool   `json:"restored"`
}

// NopNotifier ignores every notification.
type NopNotifier struct{}

func (NopNotifier) GuessResult(rune, game.Outcome) {}
func (NopNotifier) HintRevealed(rune)              {}
func (NopNotifier) GameEnded(Summary)              {}
func (NopNotifier) StateChanged(Phase)             {}

// Notifiers fans every notification out to each member in order.
type Notifiers []Notifier

func (ns Notifiers) GuessResult(letter rune, outcome game.Outcome) {
	for _, n := range ns {
		n.GuessResult(letter, outcome)
	}
}

func (ns Notifiers) HintRevealed(letter rune) {
	for _, n := range ns {
		n.HintRevealed(letter)
	}
}

func (ns Notifiers) GameEnded(summary Summary) {
	for _, n := range ns {
		n.GameEnded(summary)
	}
}

func (ns Notifiers) StateChanged(phase Phase) {
	for _, n := range ns {
		n.StateChanged(phase)
	}
}
