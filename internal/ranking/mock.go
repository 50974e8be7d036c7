package ranking

import "context"

// Mock keeps snapshots in memory with the same rotation rules as the SQL store.
type Mock struct {
	RotateFunc  func(ctx context.Context, board, fingerprint string, current map[string]int) (map[string]int, error)
	RotateCalls []string

	boards map[string]mockBoard
}

type mockBoard struct {
	fingerprint       string
	current, previous map[string]int
}

func NewMock() *Mock {
	return &Mock{boards: map[string]mockBoard{}}
}

func (m *Mock) Rotate(ctx context.Context, board, fingerprint string, current map[string]int) (map[string]int, error) {
	m.RotateCalls = append(m.RotateCalls, board)
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, board, fingerprint, current)
	}
	b, ok := m.boards[board]
	if ok && b.fingerprint == fingerprint {
		return b.previous, nil
	}
	m.boards[board] = mockBoard{fingerprint: fingerprint, current: current, previous: b.current}
	return b.current, nil
}
