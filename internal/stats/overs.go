// Package stats holds the cricket folds behind every derived view: points
// tables, leaderboards and the live score. Nothing here touches storage.
package stats

import (
	"fmt"
	"math"
)

const BallsPerOver = 6

// BallsFromOvers converts overs notation (16.4 = 16 overs and 4 balls) into balls.
func BallsFromOvers(overs float64) (int, error) {
	if overs < 0 {
		return 0, fmt.Errorf("overs must not be negative: %v", overs)
	}
	whole := math.Floor(overs)
	part := int(math.Round((overs - whole) * 10))
	if part >= BallsPerOver {
		return 0, fmt.Errorf("invalid overs notation %v: at most %d balls after the point", overs, BallsPerOver-1)
	}
	return int(whole)*BallsPerOver + part, nil
}

// OversFromBalls is the inverse of BallsFromOvers.
func OversFromBalls(balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return float64(balls/BallsPerOver) + float64(balls%BallsPerOver)/10
}

// RunRate is runs per six legal balls, 0 when no ball has been bowled.
func RunRate(runs, balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return round(float64(runs)*BallsPerOver/float64(balls), 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
