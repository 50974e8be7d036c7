package player

import (
	"fmt"

	"github.com/mauv0809/cricket-hub/internal/stats"
)

// Line flattens the scorecard into the shape the leaderboard fold consumes.
// Overs were validated on the way in, so a conversion error cannot occur here.
func (c Scorecard) Line() stats.PlayerLine {
	line := stats.PlayerLine{
		PlayerID:   c.PlayerID,
		PlayerName: c.PlayerName,
		TeamID:     c.TeamID,
		TeamName:   c.TeamName,
		MatchID:    c.MatchID,
	}
	if b := c.Batting; b != nil {
		line.Batted = true
		line.Runs = b.Runs
		line.BallsFaced = b.Balls
		line.Dismissed = b.Dismissed
	}
	if b := c.Bowling; b != nil {
		balls, _ := stats.BallsFromOvers(b.Overs)
		line.Bowled = true
		line.BallsBowled = balls
		line.RunsConceded = b.Runs
		line.Wickets = b.Wickets
	}
	if f := c.Fielding; f != nil {
		line.Fielded = true
		line.Catches = f.Catches
	}
	return line
}

// Lines flattens a batch of scorecards.
func Lines(cards []Scorecard) []stats.PlayerLine {
	lines := make([]stats.PlayerLine, len(cards))
	for i, c := range cards {
		lines[i] = c.Line()
	}
	return lines
}

// Figures renders wickets/runs, e.g. "4/21".
func (b BowlingLine) Figures() string {
	return fmt.Sprintf("%d/%d", b.Wickets, b.Runs)
}
