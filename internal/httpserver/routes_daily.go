// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily word.
// Daily games are started with POST /games {"mode":"daily"}; every player
// gets the same word for a UTC date and may finish it once. Exposes:
//   - GET /daily             → today's date and whether the caller already played
//   - GET /daily/leaderboard → winners for today (or ?date=YYYY-MM-DD)

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/daily"
)

type dailyInfo struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	info := dailyInfo{Date: daily.DateKey(s.now())}
	var userID, anonID string
	if me := currentUser(r); me != nil {
		userID = me.ID
	} else if c, err := r.Cookie(anonCookieName); err == nil {
		anonID = c.Value
	}
	played, err := s.deps.Results.PlayedDaily(r.Context(), userID, anonID, info.Date)
	if err != nil {
		log.Error().Err(err).Msg("check daily played")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	info.Played = played
	writeJSON(w, http.StatusOK, info)
}

// handleDailyLeaderboard lists the winners for a date, best first.
func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := s.deps.Results.DailyLeaderboard(r.Context(), date, queryLimit(r))
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "results": rows})
}
