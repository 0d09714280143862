package results

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(db, Migrations()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(db, Migrations()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", n)
	}
}

func TestCreateAndLookupUser(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openTestDB(t))

	u, err := st.CreateUser(ctx, "u1", "Alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := st.CreateUser(ctx, "u2", "alice", "hash"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	got, err := st.UserByUsername(ctx, "ALICE")
	if err != nil || got.ID != u.ID {
		t.Fatalf("UserByUsername: %v %v", got, err)
	}
	if _, err := st.UserByID(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRecordBumpsStats(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openTestDB(t))
	if _, err := st.CreateUser(ctx, "u1", "bob", "hash"); err != nil {
		t.Fatal(err)
	}

	for _, won := range []bool{true, true, false, true} {
		if err := st.Record(ctx, Result{SessionID: "s", UserID: "u1", Word: "cat", Won: won}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	u, err := st.UserByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if u.GamesPlayed != 4 || u.Wins != 3 || u.Streak != 1 {
		t.Fatalf("unexpected stats %+v", u)
	}

	lb, err := st.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(lb) != 1 || lb[0].Username != "bob" || lb[0].Wins != 3 {
		t.Fatalf("unexpected leaderboard %+v", lb)
	}
}

func TestRecordUnknownUserRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	st := NewStore(db)
	err := st.Record(ctx, Result{SessionID: "s", UserID: "ghost", Word: "cat", Won: true})
	if err == nil {
		t.Fatal("expected error for unknown user")
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM results`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected rollback, found %d rows", n)
	}
}

func TestClaimAnonymousAndDailyLeaderboard(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	st := NewStore(db)

	results := []Result{
		{SessionID: "a", AnonymousID: "anon1", Mode: "daily", Date: "2026-10-16", Word: "harbor", Won: true, BadGuesses: 3},
		{SessionID: "b", AnonymousID: "anon2", Mode: "daily", Date: "2026-10-16", Word: "harbor", Won: true, BadGuesses: 1},
		{SessionID: "c", AnonymousID: "anon3", Mode: "daily", Date: "2026-10-16", Word: "harbor", Won: false, BadGuesses: 10},
		{SessionID: "d", AnonymousID: "anon1", Mode: "classic", Date: "2026-10-16", Word: "cat", Won: true},
	}
	for _, r := range results {
		if err := st.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	if _, err := st.CreateUser(ctx, "u1", "carol", "hash"); err != nil {
		t.Fatal(err)
	}
	if err := st.ClaimAnonymous(ctx, "anon1", "u1"); err != nil {
		t.Fatal(err)
	}
	var claimed int
	if err := db.QueryRow(`SELECT COUNT(1) FROM results WHERE user_id='u1'`).Scan(&claimed); err != nil {
		t.Fatal(err)
	}
	if claimed != 2 {
		t.Fatalf("expected 2 claimed results, got %d", claimed)
	}
	u, err := st.UserByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if u.GamesPlayed != 2 || u.Wins != 2 || u.Streak != 2 {
		t.Fatalf("claimed games not counted in stats %+v", u)
	}

	for _, tc := range []struct {
		user, anon, date string
		want             bool
	}{
		{"u1", "", "2026-10-16", true},
		{"", "anon2", "2026-10-16", true},
		{"", "anon2", "2026-10-17", false},
		{"", "", "2026-10-16", false},
		{"", "anon9", "2026-10-16", false},
	} {
		got, err := st.PlayedDaily(ctx, tc.user, tc.anon, tc.date)
		if err != nil || got != tc.want {
			t.Fatalf("PlayedDaily(%q,%q,%q) = %v, %v; want %v", tc.user, tc.anon, tc.date, got, err, tc.want)
		}
	}

	rows, err := st.DailyLeaderboard(ctx, "2026-10-16", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 daily winners, got %+v", rows)
	}
	if rows[0].Player != "guest" || rows[0].BadGuesses != 1 || rows[1].Player != "carol" {
		t.Fatalf("unexpected order %+v", rows)
	}
}

func TestClaimAnonymousRecomputesStreak(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openTestDB(t))
	if _, err := st.CreateUser(ctx, "u1", "dave", "hash"); err != nil {
		t.Fatal(err)
	}
	base := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	// oldest first: win, loss (account), win, win (guest)
	played := []Result{
		{SessionID: "a", UserID: "u1", Word: "cat", Won: true, FinishedAt: base},
		{SessionID: "b", UserID: "u1", Word: "dog", Won: false, FinishedAt: base.Add(time.Minute)},
		{SessionID: "c", AnonymousID: "g1", Word: "owl", Won: true, FinishedAt: base.Add(2 * time.Minute)},
		{SessionID: "d", AnonymousID: "g1", Word: "elk", Won: true, FinishedAt: base.Add(3 * time.Minute)},
	}
	for _, r := range played {
		if err := st.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := st.ClaimAnonymous(ctx, "g1", "u1"); err != nil {
		t.Fatal(err)
	}
	u, err := st.UserByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if u.GamesPlayed != 4 || u.Wins != 3 || u.Streak != 2 {
		t.Fatalf("unexpected stats after claim %+v", u)
	}

	// nothing left to claim; stats stay as they are
	if err := st.ClaimAnonymous(ctx, "g1", "u1"); err != nil {
		t.Fatal(err)
	}
	if err := st.ClaimAnonymous(ctx, "g1", "nobody"); err != nil {
		t.Fatalf("claim with no rows: %v", err)
	}
}

func TestRecordDailyOncePerPlayer(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	st := NewStore(db)
	if _, err := st.CreateUser(ctx, "u1", "erin", "hash"); err != nil {
		t.Fatal(err)
	}

	lost := Result{SessionID: "a", AnonymousID: "g1", Mode: "daily", Date: "2026-10-16", Word: "planet", Won: false, BadGuesses: 10}
	if err := st.Record(ctx, lost); err != nil {
		t.Fatalf("first daily: %v", err)
	}
	won := Result{SessionID: "b", AnonymousID: "g1", Mode: "daily", Date: "2026-10-16", Word: "planet", Won: true}
	if err := st.Record(ctx, won); !errors.Is(err, ErrDailyRecorded) {
		t.Fatalf("second daily: expected ErrDailyRecorded, got %v", err)
	}
	won.Date = "2026-10-17"
	if err := st.Record(ctx, won); err != nil {
		t.Fatalf("next day: %v", err)
	}

	user := Result{SessionID: "c", UserID: "u1", Mode: "daily", Date: "2026-10-16", Word: "planet", Won: true}
	if err := st.Record(ctx, user); err != nil {
		t.Fatalf("user daily: %v", err)
	}
	user.SessionID = "d"
	if err := st.Record(ctx, user); !errors.Is(err, ErrDailyRecorded) {
		t.Fatalf("user second daily: expected ErrDailyRecorded, got %v", err)
	}
	u, err := st.UserByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if u.GamesPlayed != 1 {
		t.Fatalf("refused daily result bumped stats %+v", u)
	}

	rows, err := st.DailyLeaderboard(ctx, "2026-10-16", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Player != "erin" {
		t.Fatalf("unexpected daily winners %+v", rows)
	}
}
