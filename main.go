package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/academy"
	"github.com/mauv0809/cricket-hub/internal/coach"
	"github.com/mauv0809/cricket-hub/internal/config"
	"github.com/mauv0809/cricket-hub/internal/database"
	server "github.com/mauv0809/cricket-hub/internal/http"
	"github.com/mauv0809/cricket-hub/internal/matchcenter"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/notifier/slack"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/processor"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/ranking"
	"github.com/mauv0809/cricket-hub/internal/scheduler"
	"github.com/mauv0809/cricket-hub/internal/seed"
	"github.com/mauv0809/cricket-hub/internal/tournament"
	"github.com/mauv0809/cricket-hub/internal/user"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	log.Info("Database initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	activity := metrics.New(db)
	pubsub := pubsub.New(cfg.ProjectID)
	defer pubsub.Close()
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)

	rankings := ranking.New(db)
	players := player.New(db, rankings, metricsSvc)
	tournaments := tournament.New(db, players, rankings, pubsub, metricsSvc, cfg.Scoring)
	services := server.Services{
		Academy:     academy.New(db, metricsSvc),
		Coach:       coach.New(db, players, tournaments, metricsSvc),
		Tournament:  tournaments,
		Player:      players,
		MatchCenter: matchcenter.New(db, pubsub, metricsSvc, cfg.InstanceID),
		User:        user.New(db, metricsSvc),
	}
	processor := processor.New(tournaments, notifier, metricsSvc, activity)

	if cfg.SeedOnStart {
		report, err := seed.Run(context.Background(), seed.Services(services), time.Now())
		if err != nil {
			log.Fatalf("Failed to seed database: %s", err)
		}
		log.Info("Seed finished", "skipped", report.Skipped, "tournamentID", report.TournamentID)
	}

	sched, err := scheduler.New(processor, cfg.Lifecycle.Interval)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %s", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %s", err)
	}

	s := server.NewServer(services, processor, metricsSvc, metricsHandler, activity, cfg, pubsub)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds(), "instanceID", cfg.InstanceID)

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	if err := sched.Stop(); err != nil {
		log.Error("Scheduler shutdown failed", "error", err)
	}
	log.Info("Server process shutting down")
}
