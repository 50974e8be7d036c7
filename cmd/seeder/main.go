package main

import (
	"context"
	"flag"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/academy"
	"github.com/mauv0809/cricket-hub/internal/coach"
	"github.com/mauv0809/cricket-hub/internal/config"
	"github.com/mauv0809/cricket-hub/internal/database"
	"github.com/mauv0809/cricket-hub/internal/matchcenter"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/ranking"
	"github.com/mauv0809/cricket-hub/internal/seed"
	"github.com/mauv0809/cricket-hub/internal/tournament"
	"github.com/mauv0809/cricket-hub/internal/user"
)

func main() {
	at := flag.String("now", "", "reference time for the seeded dates (RFC3339), defaults to now")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := config.Load()

	now := time.Now()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			log.Fatalf("Invalid -now value %q: %s", *at, err)
		}
		now = parsed
	}

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	// Seeded results are announced by the server's lifecycle run, not relayed from here.
	ps := pubsub.Noop{}
	m := metrics.NewService()
	rankings := ranking.New(db)
	players := player.New(db, rankings, m)
	tournaments := tournament.New(db, players, rankings, ps, m, cfg.Scoring)

	report, err := seed.Run(context.Background(), seed.Services{
		Academy:     academy.New(db, m),
		Coach:       coach.New(db, players, tournaments, m),
		Tournament:  tournaments,
		Player:      players,
		MatchCenter: matchcenter.New(db, ps, m, cfg.InstanceID),
		User:        user.New(db, m),
	}, now)
	if err != nil {
		log.Fatalf("Seeding failed: %s", err)
	}
	if report.Skipped {
		log.Info("Database already seeded, nothing to do")
		return
	}
	log.Info("Seeding complete",
		"academyID", report.AcademyID,
		"teamID", report.TeamID,
		"tournamentID", report.TournamentID,
		"fixtures", report.Fixtures,
		"scorecards", report.Scorecards,
		"matchID", report.MatchID,
		"deliveries", report.Deliveries,
	)
}
