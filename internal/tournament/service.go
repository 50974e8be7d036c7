package tournament

import (
	"context"
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/config"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/ranking"
	"github.com/mauv0809/cricket-hub/internal/record"
)

const (
	tournamentCollection = "tournaments"
	fixtureCollection    = "fixtures"
)

// Option configures the tournament service.
type Option func(*service)

// WithClock replaces the clock used for deadlines and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func New(
	db *sql.DB,
	players player.PlayerService,
	rankings ranking.RankingStore,
	ps pubsub.PubSubClient,
	m metrics.Metrics,
	scoring config.ScoringConfig,
	opts ...Option,
) TournamentService {
	s := &service{
		tournaments: record.New[Tournament](db, tournamentCollection),
		fixtures:    record.New[Fixture](db, fixtureCollection),
		players:     players,
		rankings:    rankings,
		pubsub:      ps,
		metrics:     m,
		scoring:     scoring,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetAllTournaments(ctx context.Context) ([]Tournament, error) {
	return s.tournaments.All(ctx)
}

func (s *service) GetTournament(ctx context.Context, id string) (*Tournament, error) {
	return s.tournaments.Get(ctx, id)
}

func (s *service) GetTournamentsByOrganizer(ctx context.Context, organizerID string) ([]Tournament, error) {
	return s.tournaments.List(ctx, "organizer_id", organizerID)
}

func (s *service) CreateTournament(ctx context.Context, in NewTournament) (*Tournament, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("CreateTournament", err)
	}
	overs := in.OversPerInnings
	if overs == 0 {
		overs = in.Format.DefaultOvers()
	}
	if in.Format == FormatCustom && overs == 0 {
		return nil, s.reject("CreateTournament", apperr.Validation("a Custom format tournament needs overs_per_innings"))
	}
	if !in.RegistrationDeadline.IsZero() && in.RegistrationDeadline.After(in.StartDate) {
		return nil, s.reject("CreateTournament", apperr.Validation("registration deadline must not be after the start date"))
	}
	status := in.Status
	if status == "" {
		status = StatusUpcoming
	}

	t, err := s.tournaments.Insert(ctx, &Tournament{
		Name:                 in.Name,
		Description:          in.Description,
		OrganizerID:          in.OrganizerID,
		OrganizerName:        in.OrganizerName,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		RegistrationDeadline: in.RegistrationDeadline,
		Format:               in.Format,
		OversPerInnings:      overs,
		Status:               status,
		MaxTeams:             in.MaxTeams,
		Teams:                []TournamentTeam{},
		PrizePool:            in.PrizePool,
		Location:             in.Location,
		Rules:                in.Rules,
	})
	if err != nil {
		log.Error("Failed to create tournament", "error", err, "name", in.Name)
		return nil, err
	}
	s.metrics.IncRecordsCreated(tournamentCollection)
	log.Info("Created tournament", "tournamentID", t.ID, "name", t.Name, "format", t.Format)
	return t, nil
}

func (s *service) UpdateTournament(ctx context.Context, id string, patch TournamentPatch) (*Tournament, error) {
	if err := apperr.Validate(patch); err != nil {
		return nil, s.reject("UpdateTournament", err)
	}
	t, err := s.tournaments.UpdateVersion(ctx, id, patch.ExpectedVersion, func(t *Tournament) error {
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.StartDate != nil {
			t.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			t.EndDate = *patch.EndDate
		}
		if patch.RegistrationDeadline != nil {
			t.RegistrationDeadline = *patch.RegistrationDeadline
		}
		if patch.Status != nil {
			if t.Status == StatusCancelled && *patch.Status != StatusCancelled {
				return apperr.InvalidState("tournament %s is cancelled", t.ID)
			}
			t.Status = *patch.Status
		}
		if patch.MaxTeams != nil {
			t.MaxTeams = *patch.MaxTeams
		}
		if patch.PrizePool != nil {
			t.PrizePool = *patch.PrizePool
		}
		if patch.Location != nil {
			t.Location = *patch.Location
		}
		if patch.Rules != nil {
			t.Rules = *patch.Rules
		}

		t.CurrentTeams = len(t.Teams)
		if t.MaxTeams < t.CurrentTeams {
			return apperr.Validation("max_teams %d is below the %d registered teams", t.MaxTeams, t.CurrentTeams)
		}
		if t.EndDate.Before(t.StartDate) {
			return apperr.Validation("end date must not be before the start date")
		}
		return nil
	})
	if err != nil {
		return nil, s.reject("UpdateTournament", err)
	}
	log.Info("Updated tournament", "tournamentID", t.ID, "version", t.Version)
	return t, nil
}

func (s *service) RegisterTeamForTournament(ctx context.Context, tournamentID string, team TeamRegistration) (*Tournament, error) {
	if err := apperr.Validate(team); err != nil {
		return nil, s.reject("RegisterTeamForTournament", err)
	}
	now := s.now().UTC()
	t, err := s.tournaments.Update(ctx, tournamentID, func(t *Tournament) error {
		if t.Status != StatusUpcoming && t.Status != StatusRegistration {
			return apperr.InvalidState("registration is closed for tournament %s (status %s)", t.ID, t.Status)
		}
		if !t.RegistrationDeadline.IsZero() && now.After(t.RegistrationDeadline) {
			return apperr.InvalidState("registration deadline for tournament %s has passed", t.ID)
		}
		if _, ok := t.Team(team.TeamID); ok {
			return apperr.InvalidState("team %s is already registered for tournament %s", team.TeamID, t.ID)
		}
		if len(t.Teams) >= t.MaxTeams {
			return apperr.CapacityExceeded("tournament %s is full (%d/%d teams)", t.ID, len(t.Teams), t.MaxTeams)
		}
		t.Teams = append(t.Teams, TournamentTeam{
			TeamID:       team.TeamID,
			TeamName:     team.TeamName,
			Logo:         team.Logo,
			RegisteredAt: now,
			Status:       TeamPending,
		})
		t.CurrentTeams = len(t.Teams)
		return nil
	})
	if err != nil {
		return nil, s.reject("RegisterTeamForTournament", err)
	}
	log.Info("Registered team", "tournamentID", t.ID, "teamID", team.TeamID, "currentTeams", t.CurrentTeams)
	return t, nil
}

// UpdateTeamRegistrationStatus confirms or withdraws a registered team.
// Withdrawal is final. A withdrawn team keeps its place in the team list and
// its completed fixtures still count for its opponents.
func (s *service) UpdateTeamRegistrationStatus(ctx context.Context, tournamentID, teamID string, status TeamStatus) (*Tournament, error) {
	switch status {
	case TeamPending, TeamConfirmed, TeamWithdrawn:
	default:
		return nil, s.reject("UpdateTeamRegistrationStatus", apperr.Validation("unknown team status %q", status))
	}
	var from TeamStatus
	t, err := s.tournaments.Update(ctx, tournamentID, func(t *Tournament) error {
		if t.Status == StatusCompleted || t.Status == StatusCancelled {
			return apperr.InvalidState("tournament %s is %s", t.ID, t.Status)
		}
		i := t.teamIndex(teamID)
		if i < 0 {
			return apperr.NotFound("tournament team", teamID)
		}
		from = t.Teams[i].Status
		if from == TeamWithdrawn && status != TeamWithdrawn {
			return apperr.InvalidState("team %s has withdrawn from tournament %s", teamID, t.ID)
		}
		t.Teams[i].Status = status
		t.CurrentTeams = len(t.Teams)
		return nil
	})
	if err != nil {
		return nil, s.reject("UpdateTeamRegistrationStatus", err)
	}
	log.Info("Updated team registration", "tournamentID", t.ID, "teamID", teamID, "from", from, "to", status)
	return t, nil
}

func (s *service) reject(op string, err error) error {
	if apperr.IsRejection(err) || apperr.Reason(err) == "not_found" {
		s.metrics.IncRejections(apperr.Reason(err))
		log.Warn("Rejected operation", "op", op, "error", err)
	} else {
		log.Error("Operation failed", "op", op, "error", err)
	}
	return err
}
