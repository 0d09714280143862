// internal/results/store.go
//
// Players and finished-game results.
//
// A result row is written once per decided game. For signed-in players the
// same transaction bumps games_played, wins and the win streak on users.
// Guests are tracked by an anonymous cookie id so their history can be
// claimed after signing up.

package results

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

var (
	// ErrUsernameTaken is returned by CreateUser for duplicate usernames.
	ErrUsernameTaken = errors.New("results: username taken")
	// ErrUserNotFound is returned by the user lookups.
	ErrUserNotFound = errors.New("results: user not found")
	// ErrDailyRecorded is returned by Record for a second daily result of
	// the same player on the same date.
	ErrDailyRecorded = errors.New("results: daily word already recorded")
)

// Result is one decided game.
type Result struct {
	SessionID   string    `json:"sessionId"`
	UserID      string    `json:"userId,omitempty"`
	AnonymousID string    `json:"anonymousId,omitempty"`
	Mode        string    `json:"mode"` // classic | daily
	Date        string    `json:"date"` // YYYY-MM-DD (UTC)
	Word        string    `json:"word"`
	Won         bool      `json:"won"`
	BadGuesses  int       `json:"badGuesses"`
	UsedHint    bool      `json:"usedHint"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	Username    string `json:"username"`
	Wins        int    `json:"wins"`
	GamesPlayed int    `json:"gamesPlayed"`
	Streak      int    `json:"streak"`
}

// DailyRow is one daily-mode winner.
type DailyRow struct {
	Player     string `json:"player"`
	BadGuesses int    `json:"badGuesses"`
	UsedHint   bool   `json:"usedHint"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r and, for a signed-in player, updates their stats.
// Only the first daily result per player and date is kept; later ones
// return ErrDailyRecorded.
func (s *Store) Record(ctx context.Context, r Result) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
	if r.Date == "" {
		r.Date = r.FinishedAt.UTC().Format("2006-01-02")
	}
	if r.Mode == "" {
		r.Mode = "classic"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if r.Mode == "daily" {
		played, err := playedDaily(ctx, tx, r.UserID, r.AnonymousID, r.Date)
		if err != nil {
			return err
		}
		if played {
			return ErrDailyRecorded
		}
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO results
            (session_id, user_id, anonymous_id, mode, date, word, won, bad_guesses, used_hint, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, nullable(r.UserID), nullable(r.AnonymousID), r.Mode, r.Date, r.Word,
		r.Won, r.BadGuesses, r.UsedHint, r.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	if r.UserID != "" {
		if err := bumpStats(ctx, tx, r.UserID, r.Won); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// bumpStats increments games played; updates wins and streak based on result (within tx).
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}

// ClaimAnonymous transfers guest results to a user account after auth and
// recomputes the account's stats from its full history.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE results SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	if err := recomputeStats(ctx, tx, userID); err != nil {
		return err
	}
	return tx.Commit()
}

// recomputeStats rebuilds games_played, wins and streak for userID from
// the results table. The streak counts the latest consecutive wins.
func recomputeStats(ctx context.Context, tx *sql.Tx, userID string) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT won FROM results WHERE user_id=? ORDER BY finished_at DESC, id DESC`, userID)
	if err != nil {
		return err
	}
	var gp, wins, streak int
	inStreak := true
	for rows.Next() {
		var won bool
		if err := rows.Scan(&won); err != nil {
			rows.Close()
			return err
		}
		gp++
		if won {
			wins++
		}
		if inStreak && won {
			streak++
		} else {
			inStreak = false
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Leaderboard returns the players with the most wins.
// Default limit is 20 if not specified.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT username, wins, games_played, streak
        FROM users
        WHERE games_played > 0
        ORDER BY wins DESC, streak DESC, games_played ASC, username ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Username, &r.Wins, &r.GamesPlayed, &r.Streak); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DailyLeaderboard lists the winners of the daily word on date,
// fewest bad guesses first, hintless before hinted, earliest first.
func (s *Store) DailyLeaderboard(ctx context.Context, date string, limit int) ([]DailyRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT COALESCE(u.username, 'guest'), r.bad_guesses, r.used_hint
        FROM results r
        LEFT JOIN users u ON u.id = r.user_id
        WHERE r.mode = 'daily' AND r.date = ? AND r.won = 1
        ORDER BY r.bad_guesses ASC, r.used_hint ASC, r.finished_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DailyRow, 0, limit)
	for rows.Next() {
		var r DailyRow
		if err := rows.Scan(&r.Player, &r.BadGuesses, &r.UsedHint); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PlayedDaily reports whether the player already finished the daily word
// on date. A signed-in player is matched by userID, a guest by anonID.
func (s *Store) PlayedDaily(ctx context.Context, userID, anonID, date string) (bool, error) {
	return playedDaily(ctx, s.db, userID, anonID, date)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func playedDaily(ctx context.Context, q queryRower, userID, anonID, date string) (bool, error) {
	col, id := "user_id", userID
	if id == "" {
		col, id = "anonymous_id", anonID
	}
	if id == "" {
		return false, nil
	}
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM results WHERE mode='daily' AND date=? AND `+col+`=?`, date, id).Scan(&n)
	return n > 0, err
}

// CreateUser inserts a new user; the caller hashes the password.
func (s *Store) CreateUser(ctx context.Context, id, username, passwordHash string) (*User, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, username, passwordHash, now.Format(time.RFC3339)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now.Truncate(time.Second)}, nil
}

// UserByUsername loads a user by case-insensitive username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak
	                                  FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

// UserByID loads a user by id.
func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak
	                                  FROM users WHERE id=?`, id)
	return scanUser(row)
}

// scanUser converts a *sql.Row into a User.
func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// nullable maps "" to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
