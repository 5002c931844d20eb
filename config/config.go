// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at process start. There is no hot reload; restart the
// service to pick up changes.
type Config struct {
	DatabaseURL string

	// Twitter API credentials (OAuth 1.0a user context + app bearer token).
	TwitterAPIKey            string
	TwitterAPISecret         string
	TwitterAccessToken       string
	TwitterAccessTokenSecret string
	TwitterBearerToken       string

	OpenAIAPIKey string
	OpenAIModel  string

	// Scheduler intervals.
	CreateGameInterval time.Duration
	CloseGameInterval  time.Duration

	// GameDuration is the contest playtime. Zero means a random duration is
	// drawn per game at creation.
	GameDuration time.Duration

	CreateGameOnStartup bool
	DisableCreateGame   bool
}

// LoadDotEnv loads a .env file if one exists. Existing environment
// variables are never overwritten.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load()
}

// Load reads the full configuration surface from the environment.
func Load() Config {
	cfg := Config{
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		TwitterAPIKey:            os.Getenv("X_API_KEY"),
		TwitterAPISecret:         os.Getenv("X_API_SECRET"),
		TwitterAccessToken:       os.Getenv("X_ACCESS_TOKEN"),
		TwitterAccessTokenSecret: os.Getenv("X_ACCESS_TOKEN_SECRET"),
		TwitterBearerToken:       os.Getenv("X_BEARER_TOKEN"),
		OpenAIAPIKey:             os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:              "gpt-4o",
		CreateGameInterval:       240 * time.Second,
		CloseGameInterval:        240 * time.Second,
		CreateGameOnStartup:      true,
	}
	if raw := os.Getenv("OPENAI_MODEL"); raw != "" {
		cfg.OpenAIModel = raw
	}
	if seconds := envSeconds("START_GAME_SCHEDULE"); seconds > 0 {
		cfg.CreateGameInterval = seconds
	}
	if seconds := envSeconds("CLOSE_GAME_SCHEDULE"); seconds > 0 {
		cfg.CloseGameInterval = seconds
	}
	if seconds := envSeconds("GAME_DURATION"); seconds > 0 {
		cfg.GameDuration = seconds
	}
	if raw := os.Getenv("CREATE_GAME_ON_STARTUP"); raw != "" {
		cfg.CreateGameOnStartup = envBool(raw)
	}
	if raw := os.Getenv("DISABLE_CREATE_GAME"); raw != "" {
		cfg.DisableCreateGame = envBool(raw)
	}
	return cfg
}

// Validate reports every missing required setting at once so a broken
// deployment fails fast with the full list.
func (c Config) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"DATABASE_URL", c.DatabaseURL},
		{"X_API_KEY", c.TwitterAPIKey},
		{"X_API_SECRET", c.TwitterAPISecret},
		{"X_ACCESS_TOKEN", c.TwitterAccessToken},
		{"X_ACCESS_TOKEN_SECRET", c.TwitterAccessTokenSecret},
		{"X_BEARER_TOKEN", c.TwitterBearerToken},
		{"OPENAI_API_KEY", c.OpenAIAPIKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func envSeconds(name string) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func envBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
