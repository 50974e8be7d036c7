package tournament

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/stats"
)

func (s *service) GetTournamentFixtures(ctx context.Context, tournamentID string) ([]Fixture, error) {
	return s.fixtures.List(ctx, "tournament_id", tournamentID)
}

func (s *service) GetFixture(ctx context.Context, id string) (*Fixture, error) {
	return s.fixtures.Get(ctx, id)
}

func (s *service) GetFixturesForTeam(ctx context.Context, teamID string) ([]Fixture, error) {
	return s.fixtures.Filter(ctx, func(f *Fixture) bool { return f.Involves(teamID) })
}

func (s *service) CreateFixture(ctx context.Context, tournamentID string, in NewFixture) (*Fixture, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("CreateFixture", err)
	}
	t, err := s.tournaments.Require(ctx, tournamentID)
	if err != nil {
		return nil, s.reject("CreateFixture", err)
	}
	if t.Status == StatusCompleted || t.Status == StatusCancelled {
		return nil, s.reject("CreateFixture", apperr.InvalidState("tournament %s is %s", t.ID, t.Status))
	}
	team1, ok1 := t.Team(in.Team1ID)
	team2, ok2 := t.Team(in.Team2ID)
	if !ok1 || !ok2 {
		return nil, s.reject("CreateFixture", apperr.Validation("both teams must be registered for tournament %s", t.ID))
	}
	if team1.Status == TeamWithdrawn || team2.Status == TeamWithdrawn {
		return nil, s.reject("CreateFixture", apperr.Validation("a withdrawn team cannot be scheduled"))
	}
	round := in.Round
	if round == "" {
		round = RoundGroup
	}

	s.fixtureMu.Lock()
	defer s.fixtureMu.Unlock()

	number := in.MatchNumber
	if number == 0 {
		existing, err := s.fixtures.List(ctx, "tournament_id", t.ID)
		if err != nil {
			return nil, err
		}
		for _, f := range existing {
			if f.MatchNumber > number {
				number = f.MatchNumber
			}
		}
		number++
	}

	f, err := s.fixtures.Insert(ctx, &Fixture{
		TournamentID: t.ID,
		MatchNumber:  number,
		Round:        round,
		Team1ID:      team1.TeamID,
		Team1Name:    team1.TeamName,
		Team2ID:      team2.TeamID,
		Team2Name:    team2.TeamName,
		ScheduledAt:  in.ScheduledAt.UTC(),
		Venue:        in.Venue,
		Status:       FixtureScheduled,
	})
	if err != nil {
		log.Error("Failed to create fixture", "error", err, "tournamentID", t.ID)
		return nil, err
	}
	s.metrics.IncRecordsCreated(fixtureCollection)
	log.Info("Created fixture", "fixtureID", f.ID, "tournamentID", t.ID, "matchNumber", f.MatchNumber)
	return f, nil
}

// UpdateFixtureStatus moves a fixture between scheduled, live, postponed and
// cancelled. Completion goes through RecordFixtureResult.
func (s *service) UpdateFixtureStatus(ctx context.Context, fixtureID string, status FixtureStatus) (*Fixture, error) {
	switch status {
	case FixtureScheduled, FixtureLive, FixturePostponed, FixtureCancelled:
	case FixtureCompleted:
		return nil, s.reject("UpdateFixtureStatus", apperr.Validation("a fixture is completed by recording its result"))
	default:
		return nil, s.reject("UpdateFixtureStatus", apperr.Validation("unknown fixture status %q", status))
	}
	f, err := s.fixtures.Update(ctx, fixtureID, func(f *Fixture) error {
		if f.Status == FixtureCompleted || f.Status == FixtureCancelled {
			return apperr.InvalidState("fixture %s is already %s", f.ID, f.Status)
		}
		f.Status = status
		return nil
	})
	if err != nil {
		return nil, s.reject("UpdateFixtureStatus", err)
	}
	log.Info("Updated fixture status", "fixtureID", f.ID, "status", f.Status)
	return f, nil
}

func (s *service) RecordFixtureResult(ctx context.Context, fixtureID string, in ResultInput) (*Fixture, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("RecordFixtureResult", err)
	}
	for _, overs := range []float64{in.Team1Overs, in.Team2Overs} {
		if _, err := stats.BallsFromOvers(overs); err != nil {
			return nil, s.reject("RecordFixtureResult", apperr.Validation("%v", err))
		}
	}

	now := s.now().UTC()
	f, err := s.fixtures.Update(ctx, fixtureID, func(f *Fixture) error {
		if f.Status == FixtureCompleted || f.Status == FixtureCancelled {
			return apperr.InvalidState("fixture %s is already %s", f.ID, f.Status)
		}
		result := MatchResult{
			ResultType:    in.ResultType,
			Team1Runs:     in.Team1Runs,
			Team1Wickets:  in.Team1Wickets,
			Team1Overs:    in.Team1Overs,
			Team2Runs:     in.Team2Runs,
			Team2Wickets:  in.Team2Wickets,
			Team2Overs:    in.Team2Overs,
			ManOfTheMatch: in.ManOfTheMatch,
			CompletedAt:   now,
		}
		switch {
		case in.ResultType != ResultNormal && in.WinnerID != "":
			return apperr.Validation("a %s has no winner", in.ResultType)
		case in.ResultType == ResultNormal && in.WinnerID == f.Team1ID:
			result.WinnerID, result.WinnerName = f.Team1ID, f.Team1Name
		case in.ResultType == ResultNormal && in.WinnerID == f.Team2ID:
			result.WinnerID, result.WinnerName = f.Team2ID, f.Team2Name
		case in.ResultType == ResultNormal:
			return apperr.Validation("winner %q is not playing in fixture %s", in.WinnerID, f.ID)
		}
		f.Status = FixtureCompleted
		f.Result = &result
		return nil
	})
	if err != nil {
		return nil, s.reject("RecordFixtureResult", err)
	}
	log.Info("Recorded fixture result", "fixtureID", f.ID, "resultType", f.Result.ResultType, "winnerID", f.Result.WinnerID)

	msg := pubsub.FixtureCompletedMessage{TournamentID: f.TournamentID, FixtureID: f.ID}
	if err := s.pubsub.SendMessage(pubsub.EventFixtureCompleted, msg); err != nil {
		// The lifecycle processor picks up unannounced results on its next run.
		log.Warn("Failed to publish fixture completion", "error", err, "fixtureID", f.ID)
	}
	return f, nil
}

func (s *service) MarkResultAnnounced(ctx context.Context, fixtureID string, at time.Time) error {
	_, err := s.fixtures.Update(ctx, fixtureID, func(f *Fixture) error {
		if f.Result == nil {
			return apperr.InvalidState("fixture %s has no result to announce", f.ID)
		}
		announced := at.UTC()
		f.ResultAnnouncedAt = &announced
		return nil
	})
	if err != nil {
		return s.reject("MarkResultAnnounced", err)
	}
	log.Info("Marked result announced", "fixtureID", fixtureID)
	return nil
}
