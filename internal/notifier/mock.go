package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/cricket-hub/internal/tournament"
)

var _ Notifier = &Mock{}

// Mock records every announcement. Set the Func fields to inject failures.
type Mock struct {
	mu sync.Mutex

	SendFixtureResultFunc func(t *tournament.Tournament, f *tournament.Fixture, dryRun bool) error
	SendPointsTableFunc   func(t *tournament.Tournament, table *tournament.PointsTable, dryRun bool) error

	SendFixtureResultCalls []FixtureResultCall
	SendPointsTableCalls   []PointsTableCall
}

type FixtureResultCall struct {
	Tournament *tournament.Tournament
	Fixture    *tournament.Fixture
	DryRun     bool
}

type PointsTableCall struct {
	Tournament *tournament.Tournament
	Table      *tournament.PointsTable
	DryRun     bool
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendFixtureResult(ctx context.Context, t *tournament.Tournament, f *tournament.Fixture, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFixtureResultCalls = append(m.SendFixtureResultCalls, FixtureResultCall{t, f, dryRun})
	if m.SendFixtureResultFunc != nil {
		return m.SendFixtureResultFunc(t, f, dryRun)
	}
	return nil
}

func (m *Mock) SendPointsTable(ctx context.Context, t *tournament.Tournament, table *tournament.PointsTable, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPointsTableCalls = append(m.SendPointsTableCalls, PointsTableCall{t, table, dryRun})
	if m.SendPointsTableFunc != nil {
		return m.SendPointsTableFunc(t, table, dryRun)
	}
	return nil
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFixtureResultCalls = nil
	m.SendPointsTableCalls = nil
}
