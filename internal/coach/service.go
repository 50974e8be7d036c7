package coach

import (
	"context"
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/record"
	"github.com/mauv0809/cricket-hub/internal/tournament"
)

const (
	teamCollection     = "teams"
	analysisCollection = "match_analyses"
	squadCollection    = "squad_selections"
)

func New(db *sql.DB, players player.PlayerService, tournaments tournament.TournamentService, m metrics.Metrics) CoachService {
	return &service{
		teams:       record.New[Team](db, teamCollection),
		analyses:    record.New[MatchAnalysis](db, analysisCollection),
		squads:      record.New[SquadSelection](db, squadCollection),
		players:     players,
		tournaments: tournaments,
		metrics:     m,
		now:         time.Now,
	}
}

func (s *service) GetTeamsByCoach(ctx context.Context, coachID string) ([]Team, error) {
	return s.teams.List(ctx, "coach_id", coachID)
}

func (s *service) GetTeam(ctx context.Context, id string) (*Team, error) {
	return s.teams.Get(ctx, id)
}

func (s *service) CreateTeam(ctx context.Context, in NewTeam) (*Team, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("CreateTeam", err)
	}
	team := &Team{
		Name:    in.Name,
		City:    in.City,
		State:   in.State,
		Logo:    in.Logo,
		CoachID: in.CoachID,
		Players: []TeamPlayer{},
	}
	now := s.now().UTC()
	for _, p := range in.Players {
		if err := addPlayer(team, p, now); err != nil {
			return nil, s.reject("CreateTeam", err)
		}
	}

	created, err := s.teams.Insert(ctx, team)
	if err != nil {
		log.Error("Failed to create team", "error", err, "name", in.Name)
		return nil, err
	}
	s.metrics.IncRecordsCreated(teamCollection)
	log.Info("Created team", "teamID", created.ID, "coachID", created.CoachID, "players", len(created.Players))
	return created, nil
}

func (s *service) UpdateTeam(ctx context.Context, id string, patch TeamPatch) (*Team, error) {
	if err := apperr.Validate(patch); err != nil {
		return nil, s.reject("UpdateTeam", err)
	}
	team, err := s.teams.UpdateVersion(ctx, id, patch.ExpectedVersion, func(t *Team) error {
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.City != nil {
			t.City = *patch.City
		}
		if patch.State != nil {
			t.State = *patch.State
		}
		if patch.Logo != nil {
			t.Logo = *patch.Logo
		}
		if patch.CoachID != nil {
			t.CoachID = *patch.CoachID
		}
		return nil
	})
	if err != nil {
		return nil, s.reject("UpdateTeam", err)
	}
	log.Info("Updated team", "teamID", team.ID, "version", team.Version)
	return team, nil
}

func (s *service) AddPlayerToTeam(ctx context.Context, teamID string, p NewTeamPlayer) (*Team, error) {
	if err := apperr.Validate(p); err != nil {
		return nil, s.reject("AddPlayerToTeam", err)
	}
	now := s.now().UTC()
	team, err := s.teams.Update(ctx, teamID, func(t *Team) error {
		return addPlayer(t, p, now)
	})
	if err != nil {
		return nil, s.reject("AddPlayerToTeam", err)
	}
	log.Info("Added player to team", "teamID", team.ID, "playerID", p.PlayerID, "jersey", p.JerseyNumber)
	return team, nil
}

func addPlayer(t *Team, p NewTeamPlayer, joined time.Time) error {
	if t.player(p.PlayerID) >= 0 {
		return apperr.InvalidState("player %s is already in team %s", p.PlayerID, t.ID)
	}
	for _, existing := range t.Players {
		if existing.JerseyNumber == p.JerseyNumber {
			return apperr.Validation("jersey number %d is already worn by %s", p.JerseyNumber, existing.PlayerName)
		}
	}
	t.Players = append(t.Players, TeamPlayer{
		PlayerID:     p.PlayerID,
		PlayerName:   p.PlayerName,
		Role:         p.Role,
		JerseyNumber: p.JerseyNumber,
		JoinedAt:     joined,
		Status:       PlayerActive,
	})
	return nil
}

// RemovePlayerFromTeam succeeds without change when the player is not in the team.
func (s *service) RemovePlayerFromTeam(ctx context.Context, teamID, playerID string) (*Team, error) {
	team, err := s.teams.Update(ctx, teamID, func(t *Team) error {
		kept := t.Players[:0]
		for _, p := range t.Players {
			if p.PlayerID != playerID {
				kept = append(kept, p)
			}
		}
		t.Players = kept
		return nil
	})
	if err != nil {
		return nil, s.reject("RemovePlayerFromTeam", err)
	}
	log.Info("Removed player from team", "teamID", team.ID, "playerID", playerID)
	return team, nil
}

func (s *service) UpdatePlayerStatus(ctx context.Context, teamID, playerID string, status PlayerStatus) (*Team, error) {
	switch status {
	case PlayerActive, PlayerInjured, PlayerSuspended:
	default:
		return nil, s.reject("UpdatePlayerStatus", apperr.Validation("unknown player status %q", status))
	}
	team, err := s.teams.Update(ctx, teamID, func(t *Team) error {
		i := t.player(playerID)
		if i < 0 {
			return apperr.NotFound("team player", playerID)
		}
		t.Players[i].Status = status
		return nil
	})
	if err != nil {
		return nil, s.reject("UpdatePlayerStatus", err)
	}
	log.Info("Updated player status", "teamID", team.ID, "playerID", playerID, "status", status)
	return team, nil
}

func (s *service) GetAvailablePlayers(ctx context.Context, teamID string) ([]TeamPlayer, error) {
	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	available := []TeamPlayer{}
	if team == nil {
		return available, nil
	}
	for _, p := range team.Players {
		if p.Status == PlayerActive {
			available = append(available, p)
		}
	}
	return available, nil
}

func (s *service) CreateSquadSelection(ctx context.Context, in SquadSelectionInput) (*SquadSelection, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("CreateSquadSelection", err)
	}
	team, err := s.teams.Require(ctx, in.TeamID)
	if err != nil {
		return nil, s.reject("CreateSquadSelection", err)
	}

	selected := make(map[string]struct{}, len(in.SelectedPlayers))
	for _, id := range in.SelectedPlayers {
		i := team.player(id)
		if i < 0 {
			return nil, s.reject("CreateSquadSelection", apperr.Validation("player %s is not in team %s", id, team.ID))
		}
		if team.Players[i].Status != PlayerActive {
			return nil, s.reject("CreateSquadSelection", apperr.Validation("player %s is %s", id, team.Players[i].Status))
		}
		selected[id] = struct{}{}
	}
	inXI := make(map[string]struct{}, len(in.PlayingXI))
	for _, id := range in.PlayingXI {
		if _, ok := selected[id]; !ok {
			return nil, s.reject("CreateSquadSelection", apperr.Validation("playing XI member %s was not selected", id))
		}
		inXI[id] = struct{}{}
	}
	for _, id := range []string{in.Captain, in.ViceCaptain} {
		if _, ok := inXI[id]; !ok {
			return nil, s.reject("CreateSquadSelection", apperr.Validation("captain and vice-captain must be in the playing XI"))
		}
	}

	s.upsertMu.Lock()
	defer s.upsertMu.Unlock()

	sel := SquadSelection{
		MatchID:         in.MatchID,
		TeamID:          in.TeamID,
		SelectedPlayers: in.SelectedPlayers,
		PlayingXI:       in.PlayingXI,
		Captain:         in.Captain,
		ViceCaptain:     in.ViceCaptain,
	}
	existing, err := s.findSquad(ctx, in.MatchID, in.TeamID)
	if err != nil {
		return nil, err
	}
	var stored *SquadSelection
	if existing != nil {
		stored, err = s.squads.Update(ctx, existing.ID, func(cur *SquadSelection) error {
			sel.Meta = cur.Meta
			*cur = sel
			return nil
		})
	} else {
		stored, err = s.squads.Insert(ctx, &sel)
		if err == nil {
			s.metrics.IncRecordsCreated(squadCollection)
		}
	}
	if err != nil {
		log.Error("Failed to store squad selection", "error", err, "matchID", in.MatchID, "teamID", in.TeamID)
		return nil, err
	}
	log.Info("Selected squad", "matchID", stored.MatchID, "teamID", stored.TeamID, "captain", stored.Captain)
	return stored, nil
}

func (s *service) GetSquadSelection(ctx context.Context, matchID, teamID string) (*SquadSelection, error) {
	return s.findSquad(ctx, matchID, teamID)
}

func (s *service) findSquad(ctx context.Context, matchID, teamID string) (*SquadSelection, error) {
	squads, err := s.squads.List(ctx, "match_id", matchID)
	if err != nil {
		return nil, err
	}
	for i := range squads {
		if squads[i].TeamID == teamID {
			return &squads[i], nil
		}
	}
	return nil, nil
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
