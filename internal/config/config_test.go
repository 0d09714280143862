package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_ENV", "SAVE_DIR", "JWT_EXPIRES_DAYS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Addr() != ":5175" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
	if cfg.IsProduction() {
		t.Fatal("default env should not be production")
	}
	if cfg.Auth.JWTExpiresDays != 14 {
		t.Fatalf("unexpected expiry %d", cfg.Auth.JWTExpiresDays)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected level %q", cfg.Logging.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SAVE_DIR", "/tmp/saves")
	t.Setenv("JWT_EXPIRES_DAYS", "3")
	cfg := Load()
	if cfg.Addr() != ":9000" || !cfg.IsProduction() {
		t.Fatalf("overrides not applied: %+v", cfg.Server)
	}
	if cfg.Game.SaveDir != "/tmp/saves" || cfg.Auth.JWTExpiresDays != 3 {
		t.Fatalf("overrides not applied: %+v %+v", cfg.Game, cfg.Auth)
	}
}

func TestGetEnvIntInvalid(t *testing.T) {
	t.Setenv("JWT_EXPIRES_DAYS", "soon")
	if got := getEnvInt("JWT_EXPIRES_DAYS", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
}
