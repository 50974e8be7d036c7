package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/tournament"
)

type Option func(*Processor)

func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// New creates a new Processor.
func New(store Store, notifier Notifier, m metrics.Metrics, activity metrics.ActivityStore, opts ...Option) *Processor {
	p := &Processor{
		store:    store,
		notifier: notifier,
		metrics:  m,
		activity: activity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var statusRank = map[tournament.Status]int{
	tournament.StatusUpcoming:     0,
	tournament.StatusRegistration: 1,
	tournament.StatusOngoing:      2,
	tournament.StatusCompleted:    3,
}

// dueStatus is the status a tournament's dates call for. It never moves a
// tournament backwards and never touches a cancelled one.
func dueStatus(t *tournament.Tournament, now time.Time) tournament.Status {
	if t.Status == tournament.StatusCancelled {
		return t.Status
	}
	due := t.Status
	switch {
	case !t.EndDate.IsZero() && now.After(t.EndDate):
		due = tournament.StatusCompleted
	case !t.StartDate.IsZero() && !now.Before(t.StartDate):
		due = tournament.StatusOngoing
	case !t.RegistrationDeadline.IsZero() && !now.After(t.RegistrationDeadline):
		due = tournament.StatusRegistration
	}
	if statusRank[due] <= statusRank[t.Status] {
		return t.Status
	}
	return due
}

// ProcessTournaments runs one lifecycle pass over every tournament. A failure
// on one tournament or fixture is logged and counted; the pass carries on.
func (p *Processor) ProcessTournaments(ctx context.Context, dryRun bool) (Summary, error) {
	log.Info("Starting tournament processing...", "dryRun", dryRun)
	summary := Summary{DryRun: dryRun}

	tournaments, err := p.store.GetAllTournaments(ctx)
	if err != nil {
		log.Error("Failed to get tournaments for processing", "error", err)
		return summary, err
	}
	summary.Tournaments = len(tournaments)
	if len(tournaments) == 0 {
		log.Info("No tournaments to process.")
	}

	now := p.now()
	for i := range tournaments {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		t := &tournaments[i]
		p.advanceTournament(ctx, t, now, dryRun, &summary)
		if t.Status == tournament.StatusCancelled {
			continue
		}
		p.processFixtures(ctx, t, now, dryRun, &summary)
	}

	if !dryRun {
		p.metrics.IncLifecycleRuns()
		p.activity.Increment(metrics.ActivityLifecycleRuns)
	}
	log.Info("Tournament processing finished.",
		"tournaments", summary.Tournaments,
		"advanced", summary.TournamentsAdvanced,
		"started", summary.FixturesStarted,
		"announced", summary.FixturesAnnounced,
		"failures", summary.Failures)
	return summary, nil
}

func (p *Processor) advanceTournament(ctx context.Context, t *tournament.Tournament, now time.Time, dryRun bool, summary *Summary) {
	due := dueStatus(t, now)
	if due == t.Status {
		return
	}
	if dryRun {
		log.Info("[Dry Run] Would advance tournament", "tournamentID", t.ID, "from", t.Status, "to", due)
		summary.TournamentsAdvanced++
		t.Status = due
		return
	}

	updated, err := p.store.UpdateTournament(ctx, t.ID, tournament.TournamentPatch{Status: &due})
	if err != nil {
		log.Error("Failed to advance tournament", "error", err, "tournamentID", t.ID, "to", due)
		summary.Failures++
		return
	}
	log.Info("Advanced tournament", "tournamentID", t.ID, "from", t.Status, "to", updated.Status)
	*t = *updated
	summary.TournamentsAdvanced++
	p.activity.Increment(metrics.ActivityTournamentsAdvanced)
}

func (p *Processor) processFixtures(ctx context.Context, t *tournament.Tournament, now time.Time, dryRun bool, summary *Summary) {
	fixtures, err := p.store.GetTournamentFixtures(ctx, t.ID)
	if err != nil {
		log.Error("Failed to get fixtures", "error", err, "tournamentID", t.ID)
		summary.Failures++
		return
	}

	for i := range fixtures {
		f := &fixtures[i]
		switch {
		case f.Status == tournament.FixtureScheduled && !f.ScheduledAt.IsZero() && !now.Before(f.ScheduledAt):
			p.startFixture(ctx, f, dryRun, summary)
		case f.Status == tournament.FixtureCompleted && f.Result != nil && f.ResultAnnouncedAt == nil:
			if err := p.announce(ctx, t, f, dryRun); err != nil {
				summary.Failures++
				continue
			}
			summary.FixturesAnnounced++
		}
	}
}

func (p *Processor) startFixture(ctx context.Context, f *tournament.Fixture, dryRun bool, summary *Summary) {
	if dryRun {
		log.Info("[Dry Run] Would start fixture", "fixtureID", f.ID, "matchNumber", f.MatchNumber)
		summary.FixturesStarted++
		return
	}
	if _, err := p.store.UpdateFixtureStatus(ctx, f.ID, tournament.FixtureLive); err != nil {
		log.Error("Failed to start fixture", "error", err, "fixtureID", f.ID)
		summary.Failures++
		return
	}
	log.Info("Fixture is live", "fixtureID", f.ID, "matchNumber", f.MatchNumber)
	summary.FixturesStarted++
	p.activity.Increment(metrics.ActivityFixturesStarted)
}

// AnnounceFixture announces a single completed fixture. Already announced
// fixtures are skipped.
func (p *Processor) AnnounceFixture(ctx context.Context, fixtureID string, dryRun bool) error {
	f, err := p.store.GetFixture(ctx, fixtureID)
	if err != nil {
		return err
	}
	if f == nil {
		return apperr.NotFound("fixture", fixtureID)
	}
	if f.Result == nil {
		return apperr.InvalidState("fixture %s has no result yet", f.ID)
	}
	if f.ResultAnnouncedAt != nil {
		log.Debug("Fixture already announced", "fixtureID", f.ID, "at", f.ResultAnnouncedAt)
		return nil
	}
	t, err := p.store.GetTournament(ctx, f.TournamentID)
	if err != nil {
		return err
	}
	if t == nil {
		return apperr.NotFound("tournament", f.TournamentID)
	}
	return p.announce(ctx, t, f, dryRun)
}

// announce posts the result and the refreshed standings, then marks the
// fixture so it is not announced twice.
func (p *Processor) announce(ctx context.Context, t *tournament.Tournament, f *tournament.Fixture, dryRun bool) error {
	log.Info("Announcing fixture result", "fixtureID", f.ID, "tournamentID", t.ID)
	if err := p.notifier.SendFixtureResult(ctx, t, f, dryRun); err != nil {
		log.Error("Failed to announce fixture result", "error", err, "fixtureID", f.ID)
		return fmt.Errorf("announce fixture %s: %w", f.ID, err)
	}

	table, err := p.store.GetPointsTable(ctx, t.ID)
	if err != nil {
		log.Error("Failed to compute points table", "error", err, "tournamentID", t.ID)
		return fmt.Errorf("points table for %s: %w", t.ID, err)
	}
	if err := p.notifier.SendPointsTable(ctx, t, table, dryRun); err != nil {
		// the result itself went out; the table follows with the next result
		log.Warn("Failed to announce points table", "error", err, "tournamentID", t.ID)
	}

	if dryRun {
		log.Info("[Dry Run] Would mark fixture announced", "fixtureID", f.ID)
		return nil
	}
	if err := p.store.MarkResultAnnounced(ctx, f.ID, p.now()); err != nil {
		log.Error("Failed to mark fixture announced", "error", err, "fixtureID", f.ID)
		return err
	}
	p.activity.Increment(metrics.ActivityFixturesAnnounced)
	return nil
}
