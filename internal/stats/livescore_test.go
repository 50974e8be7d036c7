package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceScore_Empty(t *testing.T) {
	score := ReduceScore(nil, 120)
	assert.True(t, score.NoData)
	assert.Empty(t, score.Innings)
	assert.Nil(t, score.RequiredRunRate)
}

func TestReduceScore_FirstInnings(t *testing.T) {
	log := []Delivery{
		{Innings: 1, Over: 0, Ball: 1, Runs: 4},
		{Innings: 1, Over: 0, Ball: 2, Extras: 1, Extra: ExtraWide},
		{Innings: 1, Over: 0, Ball: 2, Runs: 1},
		{Innings: 1, Over: 0, Ball: 3, Wicket: true},
		{Innings: 1, Over: 0, Ball: 4, Runs: 6},
		{Innings: 1, Over: 0, Ball: 5},
		{Innings: 1, Over: 0, Ball: 6, Runs: 2},
	}

	score := ReduceScore(log, 12)
	require.Len(t, score.Innings, 1)
	inn := score.Innings[0]
	assert.Equal(t, 14, inn.Runs)
	assert.Equal(t, 1, inn.Wickets)
	assert.Equal(t, 6, inn.Balls, "the wide is not a legal ball")
	assert.Equal(t, 1.0, inn.Overs)
	assert.Equal(t, 14.0, inn.RunRate)
	assert.Zero(t, score.Target)
	assert.Nil(t, score.RequiredRunRate)
	assert.Equal(t, 6, score.CurrentBall)
}

func TestReduceScore_Chase(t *testing.T) {
	log := []Delivery{
		{Innings: 1, Over: 0, Ball: 1, Runs: 4},
		{Innings: 1, Over: 0, Ball: 2, Runs: 10},
		{Innings: 2, Over: 0, Ball: 1, Runs: 1, Extras: 1, Extra: ExtraNoBall},
		{Innings: 2, Over: 0, Ball: 1, Extras: 1, Extra: ExtraLegBye},
	}

	score := ReduceScore(log, 12)
	require.Len(t, score.Innings, 2)
	assert.Equal(t, 2, score.CurrentInnings)
	assert.Equal(t, 15, score.Target)
	assert.Equal(t, 3, score.Innings[1].Runs)
	assert.Equal(t, 1, score.Innings[1].Balls)
	require.NotNil(t, score.RequiredRunRate)
	assert.Equal(t, 6.55, *score.RequiredRunRate)
}

func TestReduceScore_TargetReached(t *testing.T) {
	log := []Delivery{
		{Innings: 1, Over: 0, Ball: 1, Runs: 4},
		{Innings: 2, Over: 0, Ball: 1, Runs: 6},
	}
	score := ReduceScore(log, 12)
	require.NotNil(t, score.RequiredRunRate)
	assert.Zero(t, *score.RequiredRunRate)
}

func TestDeliveryBefore(t *testing.T) {
	a := Delivery{Innings: 1, Over: 3, Ball: 2}
	assert.True(t, a.Before(Delivery{Innings: 1, Over: 3, Ball: 3}))
	assert.True(t, a.Before(Delivery{Innings: 2, Over: 0, Ball: 1}))
	assert.False(t, a.Before(Delivery{Innings: 1, Over: 2, Ball: 6}))
	assert.False(t, a.Before(a))
}
