package stats

import (
	"fmt"
	"sort"
)

type BoardType string

const (
	BoardRuns       BoardType = "runs"
	BoardWickets    BoardType = "wickets"
	BoardAverage    BoardType = "average"
	BoardStrikeRate BoardType = "strike-rate"
	BoardEconomy    BoardType = "economy"
	BoardCatches    BoardType = "catches"
)

// ParseBoardType accepts the wire names of the leaderboard types.
func ParseBoardType(s string) (BoardType, error) {
	switch t := BoardType(s); t {
	case BoardRuns, BoardWickets, BoardAverage, BoardStrikeRate, BoardEconomy, BoardCatches:
		return t, nil
	}
	return "", fmt.Errorf("unknown leaderboard type %q", s)
}

// PlayerLine is one player's contribution to one match.
type PlayerLine struct {
	PlayerID   string
	PlayerName string
	TeamID     string
	TeamName   string
	MatchID    string

	Batted     bool
	Runs       int
	BallsFaced int
	Dismissed  bool

	Bowled       bool
	BallsBowled  int
	RunsConceded int
	Wickets      int

	Fielded bool
	Catches int
}

type LeaderboardEntry struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TeamID     string  `json:"team_id,omitempty"`
	TeamName   string  `json:"team_name,omitempty"`
	Value      float64 `json:"value"`
	Rank       int     `json:"rank"`
	Matches    int     `json:"matches"`
	Change     int     `json:"change"`
}

type playerTotals struct {
	entry   LeaderboardEntry
	matches map[string]struct{}

	batted, bowled, fielded bool
	runs, ballsFaced, outs  int
	ballsBowled, conceded   int
	wickets, catches        int
}

// Leaderboard ranks players by the metric of the given board type. Players
// with nothing to measure for the metric (no innings for average, no balls
// bowled for economy, and so on) are left off rather than shown as zero.
func Leaderboard(board BoardType, lines []PlayerLine) []LeaderboardEntry {
	totals := make(map[string]*playerTotals)
	var order []string
	for _, l := range lines {
		t, ok := totals[l.PlayerID]
		if !ok {
			t = &playerTotals{
				entry:   LeaderboardEntry{PlayerID: l.PlayerID, PlayerName: l.PlayerName},
				matches: make(map[string]struct{}),
			}
			totals[l.PlayerID] = t
			order = append(order, l.PlayerID)
		}
		if l.TeamID != "" || l.TeamName != "" {
			t.entry.TeamID, t.entry.TeamName = l.TeamID, l.TeamName
		}
		t.matches[l.MatchID] = struct{}{}
		if l.Batted {
			t.batted = true
			t.runs += l.Runs
			t.ballsFaced += l.BallsFaced
			if l.Dismissed {
				t.outs++
			}
		}
		if l.Bowled {
			t.bowled = true
			t.ballsBowled += l.BallsBowled
			t.conceded += l.RunsConceded
			t.wickets += l.Wickets
		}
		if l.Fielded {
			t.fielded = true
			t.catches += l.Catches
		}
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for _, id := range order {
		t := totals[id]
		value, ok := metric(board, t)
		if !ok {
			continue
		}
		e := t.entry
		e.Value = round(value, 2)
		e.Matches = len(t.matches)
		entries = append(entries, e)
	}

	ascending := board == BoardEconomy
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Value != b.Value {
			if ascending {
				return a.Value < b.Value
			}
			return a.Value > b.Value
		}
		if a.PlayerName != b.PlayerName {
			return a.PlayerName < b.PlayerName
		}
		return a.PlayerID < b.PlayerID
	})

	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Value != entries[i-1].Value {
			rank++
		}
		entries[i].Rank = rank
	}
	return entries
}

func metric(board BoardType, t *playerTotals) (float64, bool) {
	switch board {
	case BoardRuns:
		return float64(t.runs), t.batted
	case BoardWickets:
		return float64(t.wickets), t.bowled
	case BoardAverage:
		if t.outs == 0 {
			return 0, false
		}
		return float64(t.runs) / float64(t.outs), true
	case BoardStrikeRate:
		if t.ballsFaced == 0 {
			return 0, false
		}
		return float64(t.runs) * 100 / float64(t.ballsFaced), true
	case BoardEconomy:
		if t.ballsBowled == 0 {
			return 0, false
		}
		return float64(t.conceded) * BallsPerOver / float64(t.ballsBowled), true
	case BoardCatches:
		return float64(t.catches), t.fielded
	}
	return 0, false
}

// ApplyLeaderboardChange fills Change from the previous ranks keyed by player id.
func ApplyLeaderboardChange(entries []LeaderboardEntry, previous map[string]int) {
	for i := range entries {
		if prev, ok := previous[entries[i].PlayerID]; ok {
			entries[i].Change = prev - entries[i].Rank
		}
	}
}

// Ranks returns player id to rank.
func Ranks(entries []LeaderboardEntry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.PlayerID] = e.Rank
	}
	return out
}
