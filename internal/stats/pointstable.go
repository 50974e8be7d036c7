package stats

import (
	"sort"

	"github.com/mauv0809/cricket-hub/internal/config"
)

// AllOutWickets is the wicket count at which an innings closes.
const AllOutWickets = 10

type Outcome string

const (
	OutcomeNormal   Outcome = "normal"
	OutcomeTie      Outcome = "tie"
	OutcomeNoResult Outcome = "no-result"
)

// TeamRef is a team taking part in the table. A withdrawn team still counts
// in its opponents' results but gets no row of its own.
type TeamRef struct {
	ID        string
	Name      string
	Withdrawn bool
}

// FixtureResult is one completed fixture as the points table sees it.
type FixtureResult struct {
	Team1ID      string
	Team2ID      string
	Outcome      Outcome
	WinnerID     string
	Team1Runs    int
	Team1Wickets int
	Team1Balls   int
	Team2Runs    int
	Team2Wickets int
	Team2Balls   int
}

type Standing struct {
	TeamID     string  `json:"team_id"`
	TeamName   string  `json:"team_name"`
	Played     int     `json:"played"`
	Won        int     `json:"won"`
	Lost       int     `json:"lost"`
	Tied       int     `json:"tied"`
	NoResult   int     `json:"no_result"`
	Points     int     `json:"points"`
	NetRunRate float64 `json:"net_run_rate"`
	Position   int     `json:"position"`
	Change     int     `json:"change"`
}

type runLedger struct {
	scored, faced, conceded, bowled int
}

// PointsTable folds the completed fixtures into standings for teams. Fixtures
// naming a team outside teams are ignored. maxBalls is the per-innings quota
// charged to a side bowled out early; 0 disables that adjustment.
func PointsTable(teams []TeamRef, fixtures []FixtureResult, scoring config.ScoringConfig, maxBalls int) []Standing {
	rows := make(map[string]*Standing, len(teams))
	ledgers := make(map[string]*runLedger, len(teams))
	standings := make([]Standing, len(teams))
	for i, t := range teams {
		standings[i] = Standing{TeamID: t.ID, TeamName: t.Name}
		rows[t.ID] = &standings[i]
		ledgers[t.ID] = &runLedger{}
	}

	for _, f := range fixtures {
		home, away := rows[f.Team1ID], rows[f.Team2ID]
		if home == nil || away == nil || f.Team1ID == f.Team2ID {
			continue
		}
		home.Played++
		away.Played++

		switch f.Outcome {
		case OutcomeNoResult:
			home.NoResult++
			away.NoResult++
			home.Points += scoring.NoResult
			away.Points += scoring.NoResult
			continue
		case OutcomeTie:
			home.Tied++
			away.Tied++
			home.Points += scoring.Tie
			away.Points += scoring.Tie
		default:
			winner, loser := home, away
			if f.WinnerID == f.Team2ID {
				winner, loser = away, home
			}
			winner.Won++
			winner.Points += scoring.Win
			loser.Lost++
		}

		b1 := chargedBalls(f.Team1Balls, f.Team1Wickets, maxBalls)
		b2 := chargedBalls(f.Team2Balls, f.Team2Wickets, maxBalls)
		l1, l2 := ledgers[f.Team1ID], ledgers[f.Team2ID]
		l1.scored += f.Team1Runs
		l1.faced += b1
		l1.conceded += f.Team2Runs
		l1.bowled += b2
		l2.scored += f.Team2Runs
		l2.faced += b2
		l2.conceded += f.Team1Runs
		l2.bowled += b1
	}

	for i := range standings {
		standings[i].NetRunRate = netRunRate(ledgers[standings[i].TeamID])
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.NetRunRate != b.NetRunRate {
			return a.NetRunRate > b.NetRunRate
		}
		if a.Won != b.Won {
			return a.Won > b.Won
		}
		return a.TeamName < b.TeamName
	})

	withdrawn := make(map[string]bool, len(teams))
	for _, t := range teams {
		if t.Withdrawn {
			withdrawn[t.ID] = true
		}
	}
	shown := standings[:0]
	for _, st := range standings {
		if !withdrawn[st.TeamID] {
			shown = append(shown, st)
		}
	}
	for i := range shown {
		shown[i].Position = i + 1
	}
	return shown
}

func chargedBalls(balls, wickets, maxBalls int) int {
	if wickets >= AllOutWickets && maxBalls > 0 {
		return maxBalls
	}
	return balls
}

func netRunRate(l *runLedger) float64 {
	var forRate, againstRate float64
	if l.faced > 0 {
		forRate = float64(l.scored) * BallsPerOver / float64(l.faced)
	}
	if l.bowled > 0 {
		againstRate = float64(l.conceded) * BallsPerOver / float64(l.bowled)
	}
	return round(forRate-againstRate, 3)
}

// ApplyChange fills Change from the previous positions keyed by team id.
func ApplyChange(standings []Standing, previous map[string]int) {
	for i := range standings {
		if prev, ok := previous[standings[i].TeamID]; ok {
			standings[i].Change = prev - standings[i].Position
		}
	}
}

// Positions returns team id to position, the shape stored as a ranking snapshot.
func Positions(standings []Standing) map[string]int {
	out := make(map[string]int, len(standings))
	for _, s := range standings {
		out[s.TeamID] = s.Position
	}
	return out
}
