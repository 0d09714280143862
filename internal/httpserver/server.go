// internal/httpserver/server.go
//
// HTTP server wiring for the Hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /games and /games/{id}/*.
//   - Notification stream: GET /games/{id}/events (WebSocket).
//   - Daily word endpoints: mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /leaderboard.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The WebSocket route sits outside the timeout group; it is long-lived.
//   - Domain errors are mapped to status codes in one place (writeDomainError).
//   - Sessions answer only their owner; anyone else gets a 404.

package httpserver

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/results"
	"github.com/robalobadob/hangman/internal/savefile"
	"github.com/robalobadob/hangman/internal/session"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Sessions store.Store
	Results  *results.Store
	Dict     *words.Dictionary
	Saves    *savefile.Dir
}

// Server bundles router, live sessions, and the results database.
type Server struct {
	r    *chi.Mux
	cfg  *config.Config
	deps Deps
	now  func() time.Time
	mu   sync.Mutex
	live map[string]*liveGame // per-session transport state, keyed by session id
}

// liveGame is what the transport keeps next to each controller.
// A session belongs to the user or guest that created it.
type liveGame struct {
	hub    *Hub
	mode   string
	userID string
	anonID string
}

// ownedBy reports whether r comes from the session's owner. Guests are
// matched by their anonymous cookie, which survives signing up.
func (lg *liveGame) ownedBy(r *http.Request) bool {
	if me := currentUser(r); me != nil && lg.userID != "" && me.ID == lg.userID {
		return true
	}
	if lg.anonID == "" {
		return false
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value == lg.anonID
}

// slotOwner names the owner's save directory.
func (lg *liveGame) slotOwner() string {
	if lg.userID != "" {
		return "user-" + lg.userID
	}
	return "guest-" + lg.anonID
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		r:    chi.NewRouter(),
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
		live: make(map[string]*liveGame),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// Long-lived notification stream; no handler timeout.
	s.r.With(s.withOptionalAuth()).Get("/games/{id}/events", s.handleEvents)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses
		r.Use(s.withOptionalAuth())            // guests can play

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","POST /games","/games/{id}/*","/daily","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		s.mountGames(r)
		s.mountDaily(r)
		s.mountAuthRoutes(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
		})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.Server.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeDomainError maps errors from the game packages to HTTP responses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, words.ErrNoValidWordFound):
		status, code = http.StatusServiceUnavailable, "no_word"
	case errors.Is(err, game.ErrNoHintAvailable):
		status, code = http.StatusConflict, "no_hint"
	case errors.Is(err, session.ErrInvalidStateTransition):
		status, code = http.StatusConflict, "invalid_state"
	case errors.Is(err, session.ErrNoWorkFile):
		status, code = http.StatusConflict, "no_work_file"
	case errors.Is(err, savefile.ErrBadName):
		status, code = http.StatusBadRequest, "bad_name"
	case errors.Is(err, fs.ErrNotExist):
		status, code = http.StatusNotFound, "save_not_found"
	case errors.Is(err, savefile.ErrCorruptSaveFile):
		status, code = http.StatusUnprocessableEntity, "corrupt_save"
	case errors.Is(err, savefile.ErrIO):
		status, code = http.StatusInternalServerError, "io_failure"
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Str("requestId", chimw.GetReqID(r.Context())).Msg("request failed")
	}
	writeError(w, status, code)
}
