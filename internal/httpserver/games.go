// internal/httpserver/games.go
//
// Game command endpoints. Each maps onto one session.Controller command:
//   - POST   /games              → create a session and start it (mode classic|daily)
//   - GET    /games/{id}         → snapshot
//   - DELETE /games/{id}         → drop the session and close its event stream
//   - POST   /games/{id}/keys    → keystroke
//   - POST   /games/{id}/hint    → reveal a letter
//   - POST   /games/{id}/new     → new game in the same session
//   - POST   /games/{id}/save    → save to a named slot (or the work file)
//   - POST   /games/{id}/load    → load a named slot
//
// Daily sessions play one fixed word; they refuse new, save and load.
// Save slots are kept per owner.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/results"
	"github.com/robalobadob/hangman/internal/savefile"
	"github.com/robalobadob/hangman/internal/session"
	"github.com/robalobadob/hangman/internal/words"
)

const (
	modeClassic = "classic"
	modeDaily   = "daily"
)

// mountGames registers the /games routes.
func (s *Server) mountGames(r chi.Router) {
	r.Post("/games", s.handleCreateGame)
	r.Get("/games/{id}", s.handleSnapshot)
	r.Delete("/games/{id}", s.handleDeleteGame)
	r.Post("/games/{id}/keys", s.handleKey)
	r.Post("/games/{id}/hint", s.handleHint)
	r.Post("/games/{id}/new", s.handleNewGame)
	r.Post("/games/{id}/save", s.handleSave)
	r.Post("/games/{id}/load", s.handleLoad)
}

type createGameReq struct {
	Mode string `json:"mode"` // "classic" (default) | "daily"
}

type createGameRes struct {
	GameID   string           `json:"gameId"`
	Mode     string           `json:"mode"`
	Events   string           `json:"events"`
	Snapshot session.Snapshot `json:"snapshot"`
}

// handleCreateGame starts a new session owned by the caller (user or guest).
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Mode == "" {
		req.Mode = modeClassic
	}

	now := s.now()
	base := results.Result{Mode: req.Mode}
	if me := currentUser(r); me != nil {
		base.UserID = me.ID
	} else {
		base.AnonymousID = s.ensureAnonID(w, r)
	}

	var src words.Source
	switch req.Mode {
	case modeClassic:
		src = s.deps.Dict
	case modeDaily:
		base.Date = daily.DateKey(now)
		played, err := s.deps.Results.PlayedDaily(r.Context(), base.UserID, base.AnonymousID, base.Date)
		if err != nil {
			log.Error().Err(err).Msg("check daily played")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if played {
			writeError(w, http.StatusConflict, "already_played")
			return
		}
		src = daily.NewSource(s.deps.Dict, s.cfg.Game.DailySalt, now)
	default:
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}

	id := uuid.NewString()
	base.SessionID = id
	hub := NewHub(id)
	rec := &recorder{store: s.deps.Results, base: base}
	c := session.New(id, src, session.WithNotifier(session.Notifiers{hub, rec}))
	if err := c.Start(); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.deps.Sessions.Put(r.Context(), c); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.mu.Lock()
	s.live[id] = &liveGame{hub: hub, mode: req.Mode, userID: base.UserID, anonID: base.AnonymousID}
	s.mu.Unlock()

	log.Info().Str("session", id).Str("mode", req.Mode).Bool("guest", base.UserID == "").Msg("session created")
	writeJSON(w, http.StatusCreated, createGameRes{GameID: id, Mode: req.Mode, Events: eventsPath(id), Snapshot: c.Snapshot()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	c, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	c, lg, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := s.deps.Sessions.Delete(r.Context(), c.ID()); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.mu.Lock()
	delete(s.live, c.ID())
	s.mu.Unlock()
	lg.hub.Close()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type keyReq struct {
	Key string `json:"key"`
}

type keyRes struct {
	Outcome  game.Outcome     `json:"outcome"`
	Snapshot session.Snapshot `json:"snapshot"`
}

// handleKey applies one keystroke. Non-letters are accepted and ignored.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	c, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req keyReq
	if err := decodeBody(r, &req); err != nil || utf8.RuneCountInString(req.Key) != 1 {
		writeError(w, http.StatusBadRequest, "bad_key")
		return
	}
	ch, _ := utf8.DecodeRuneInString(req.Key)
	outcome, err := c.ApplyKeystroke(ch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, keyRes{Outcome: outcome, Snapshot: c.Snapshot()})
}

type hintRes struct {
	Letter   string           `json:"letter"`
	Snapshot session.Snapshot `json:"snapshot"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	c, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	letter, err := c.RequestHint()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hintRes{Letter: string(letter), Snapshot: c.Snapshot()})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	c, lg, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if lg.mode == modeDaily {
		writeError(w, http.StatusConflict, "daily_locked")
		return
	}
	if err := c.NewGame(); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

type slotReq struct {
	Name string `json:"name"`
}

// handleSave writes to the named slot, or to the work file when no name is given.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	c, lg, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if lg.mode == modeDaily {
		writeError(w, http.StatusConflict, "daily_locked")
		return
	}
	var req slotReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	path := ""
	if req.Name != "" {
		p, err := s.slotPath(lg, req.Name)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		path = p
	}
	if err := c.Save(path); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	c, lg, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if lg.mode == modeDaily {
		writeError(w, http.StatusConflict, "daily_locked")
		return
	}
	var req slotReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	path, err := s.slotPath(lg, req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := c.Load(path); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// ------------------------------- helpers -----------------------------------

// lookup resolves {id} to its controller and transport state, writing a 404
// when either is missing or the caller does not own the session.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Controller, *liveGame, bool) {
	id := chi.URLParam(r, "id")
	c, err := s.deps.Sessions.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return nil, nil, false
	}
	s.mu.Lock()
	lg := s.live[id]
	s.mu.Unlock()
	if lg == nil || !lg.ownedBy(r) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, nil, false
	}
	return c, lg, true
}

// slotPath resolves a save name inside the session owner's directory.
func (s *Server) slotPath(lg *liveGame, name string) (string, error) {
	if !savefile.ValidName(name) {
		return "", fmt.Errorf("%w: %q", savefile.ErrBadName, name)
	}
	d, err := s.deps.Saves.Sub(lg.slotOwner())
	if err != nil {
		return "", err
	}
	return d.Path(name)
}

// decodeBody decodes a JSON body; an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
