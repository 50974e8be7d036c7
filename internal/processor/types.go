package processor

import (
	"time"

	"github.com/mauv0809/cricket-hub/internal/metrics"
)

// Processor advances tournaments and fixtures through their lifecycle and
// announces completed results.
type Processor struct {
	store    Store
	notifier Notifier
	metrics  metrics.Metrics
	activity metrics.ActivityStore
	now      func() time.Time
}

// Summary reports what a single lifecycle run did, or would do in dry-run mode.
type Summary struct {
	DryRun              bool `json:"dry_run"`
	Tournaments         int  `json:"tournaments"`
	TournamentsAdvanced int  `json:"tournaments_advanced"`
	FixturesStarted     int  `json:"fixtures_started"`
	FixturesAnnounced   int  `json:"fixtures_announced"`
	Failures            int  `json:"failures"`
}
