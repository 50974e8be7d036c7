package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mauv0809/cricket-hub/internal/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	runs   atomic.Int32
	dryRun atomic.Bool
	err    error
}

func (r *countingRunner) ProcessTournaments(ctx context.Context, dryRun bool) (processor.Summary, error) {
	r.runs.Add(1)
	if dryRun {
		r.dryRun.Store(true)
	}
	return processor.Summary{}, r.err
}

func TestScheduler_RunsRepeatedly(t *testing.T) {
	runner := &countingRunner{}
	s, err := New(runner, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return runner.runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())
	assert.False(t, runner.dryRun.Load(), "scheduled runs are never dry runs")
}

func TestScheduler_KeepsRunningAfterFailure(t *testing.T) {
	runner := &countingRunner{err: errors.New("database is locked")}
	s, err := New(runner, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return runner.runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestNew_RejectsNonPositiveInterval(t *testing.T) {
	_, err := New(&countingRunner{}, 0)
	assert.Error(t, err)
}
