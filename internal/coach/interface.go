package coach

import "context"

// CoachService manages a coach's teams, squads and match analyses.
type CoachService interface {
	GetTeamsByCoach(ctx context.Context, coachID string) ([]Team, error)
	GetTeam(ctx context.Context, id string) (*Team, error)
	CreateTeam(ctx context.Context, in NewTeam) (*Team, error)
	UpdateTeam(ctx context.Context, id string, patch TeamPatch) (*Team, error)
	AddPlayerToTeam(ctx context.Context, teamID string, p NewTeamPlayer) (*Team, error)
	RemovePlayerFromTeam(ctx context.Context, teamID, playerID string) (*Team, error)
	UpdatePlayerStatus(ctx context.Context, teamID, playerID string, status PlayerStatus) (*Team, error)
	GetAvailablePlayers(ctx context.Context, teamID string) ([]TeamPlayer, error)

	GetMatchAnalysis(ctx context.Context, matchID, teamID string) (*MatchAnalysis, error)
	RecordMatchAnalysis(ctx context.Context, in MatchAnalysisInput) (*MatchAnalysis, error)
	GetPlayerPerformance(ctx context.Context, playerID string) (*PlayerPerformance, error)
	GetTeamStats(ctx context.Context, teamID string) (*TeamStats, error)

	CreateSquadSelection(ctx context.Context, in SquadSelectionInput) (*SquadSelection, error)
	GetSquadSelection(ctx context.Context, matchID, teamID string) (*SquadSelection, error)
}
