package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	InstanceID    string
	ProjectID     string
	SeedOnStart   bool
	Turso         TursoConfig
	Slack         SlackConfig
	Scoring       ScoringConfig
	Live          LiveConfig
	Lifecycle     LifecycleConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// ScoringConfig is the points awarded per fixture outcome in a points table.
type ScoringConfig struct {
	Win      int
	Tie      int
	NoResult int
}

type LiveConfig struct {
	SubscriberBuffer int
}

type LifecycleConfig struct {
	Interval time.Duration
}
