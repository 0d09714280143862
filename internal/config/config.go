package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Auth    AuthConfig
	DB      DBConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string
	Env          string // "development" or "production"
	ClientOrigin string
}

// GameConfig holds game-related configuration
type GameConfig struct {
	WordsFile string // empty means the embedded dictionary
	SaveDir   string
	DailySalt string
}

// AuthConfig holds player authentication settings
type AuthConfig struct {
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
}

// DBConfig holds the results database settings
type DBConfig struct {
	Path          string
	MigrationsDir string // empty means the migrations compiled into the binary
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads a .env file when present, then builds the configuration from
// environment variables with defaults.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5175"),
			Env:          getEnv("APP_ENV", "development"),
			ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		},
		Game: GameConfig{
			WordsFile: getEnv("WORDS_FILE", ""),
			SaveDir:   getEnv("SAVE_DIR", "./data/saves"),
			DailySalt: getEnv("DAILY_SALT", "local_dev_salt"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
			JWTExpiresDays: getEnvInt("JWT_EXPIRES_DAYS", 14),
			CookieName:     getEnv("COOKIE_NAME", "hangman_token"),
		},
		DB: DBConfig{
			Path:          getEnv("DB_PATH", "./data/hangman.db"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
