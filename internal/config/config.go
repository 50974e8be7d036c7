package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return ""
	}

	return Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: envOr("MIGRATIONS_DIR", "./migrations"),
		Port:          envOr("PORT", "8080"),
		InstanceID:    envOr("INSTANCE_ID", uuid.NewString()),
		ProjectID:     envOr("GCP_PROJECT", ""),
		SeedOnStart:   envBool("SEED_ON_START", false),
		Turso: TursoConfig{
			PrimaryURL: envOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  envOr("TURSO_AUTH_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:     envOr("SLACK_BOT_TOKEN", ""),
			ChannelID: envOr("SLACK_CHANNEL_ID", ""),
		},
		Scoring: ScoringConfig{
			Win:      envInt("POINTS_WIN", 2),
			Tie:      envInt("POINTS_TIE", 1),
			NoResult: envInt("POINTS_NO_RESULT", 1),
		},
		Live: LiveConfig{
			SubscriberBuffer: envInt("LIVE_SUBSCRIBER_BUFFER", 64),
		},
		Lifecycle: LifecycleConfig{
			Interval: envDuration("LIFECYCLE_INTERVAL", time.Minute),
		},
	}
}

// DefaultScoring is the conventional two points for a win, one for a tie or no result.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{Win: 2, Tie: 1, NoResult: 1}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("Invalid integer in environment, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn("Invalid boolean in environment, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Warn("Invalid duration in environment, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return value
}
