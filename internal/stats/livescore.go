package stats

type Extra string

const (
	ExtraNone   Extra = ""
	ExtraWide   Extra = "wide"
	ExtraNoBall Extra = "no-ball"
	ExtraBye    Extra = "bye"
	ExtraLegBye Extra = "leg-bye"
)

// Legal reports whether a delivery with this extra counts toward the over.
func (e Extra) Legal() bool {
	return e != ExtraWide && e != ExtraNoBall
}

// Delivery is one ball as the score reducer sees it. Runs are off the bat,
// Extras are added to the total on top of them.
type Delivery struct {
	Innings int
	Over    int
	Ball    int
	Runs    int
	Extras  int
	Extra   Extra
	Wicket  bool
}

type InningsScore struct {
	Innings int     `json:"innings"`
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
	Balls   int     `json:"balls"`
	Overs   float64 `json:"overs"`
	RunRate float64 `json:"run_rate"`
}

type Score struct {
	Innings         []InningsScore `json:"innings"`
	CurrentInnings  int            `json:"current_innings"`
	CurrentOver     int            `json:"current_over"`
	CurrentBall     int            `json:"current_ball"`
	Target          int            `json:"target,omitempty"`
	RequiredRunRate *float64       `json:"required_run_rate,omitempty"`
	NoData          bool           `json:"no_data"`
}

// Before reports whether d comes strictly before other in (innings, over, ball) order.
func (d Delivery) Before(other Delivery) bool {
	if d.Innings != other.Innings {
		return d.Innings < other.Innings
	}
	if d.Over != other.Over {
		return d.Over < other.Over
	}
	return d.Ball < other.Ball
}

// ReduceScore folds an ordered delivery log into the running score. ballsPerInnings
// is the overs quota in balls; without it no required run rate is produced.
func ReduceScore(deliveries []Delivery, ballsPerInnings int) Score {
	if len(deliveries) == 0 {
		return Score{NoData: true, Innings: []InningsScore{}}
	}

	var innings []InningsScore
	index := map[int]int{}
	var score Score
	for _, d := range deliveries {
		i, ok := index[d.Innings]
		if !ok {
			innings = append(innings, InningsScore{Innings: d.Innings})
			i = len(innings) - 1
			index[d.Innings] = i
		}
		inn := &innings[i]
		inn.Runs += d.Runs + d.Extras
		if d.Extra.Legal() {
			inn.Balls++
		}
		if d.Wicket {
			inn.Wickets++
		}
		score.CurrentInnings = d.Innings
		score.CurrentOver = d.Over
		score.CurrentBall = d.Ball
	}

	for i := range innings {
		innings[i].Overs = OversFromBalls(innings[i].Balls)
		innings[i].RunRate = RunRate(innings[i].Runs, innings[i].Balls)
	}
	score.Innings = innings

	if len(innings) >= 2 {
		first, chase := innings[0], innings[len(innings)-1]
		score.Target = first.Runs + 1
		if ballsPerInnings > 0 {
			remaining := ballsPerInnings - chase.Balls
			needed := score.Target - chase.Runs
			rrr := 0.0
			if remaining > 0 && needed > 0 {
				rrr = round(float64(needed)*BallsPerOver/float64(remaining), 2)
			}
			score.RequiredRunRate = &rrr
		}
	}
	return score
}
