package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	recordsCreated       map[string]int
	rejections           map[string]int
	aggregationDurations map[string][]float64
	liveEventsPublished  int
	liveSubscribers      int
	notificationsSent    int
	notificationsFailed  int
	lifecycleRuns        int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		recordsCreated:       make(map[string]int),
		rejections:           make(map[string]int),
		aggregationDurations: make(map[string][]float64),
	}
}

func (m *Mock) IncRecordsCreated(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsCreated[collection]++
}

func (m *Mock) IncRejections(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections[reason]++
}

func (m *Mock) ObserveAggregationDuration(kind string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregationDurations[kind] = append(m.aggregationDurations[kind], duration)
}

func (m *Mock) IncLiveEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveEventsPublished++
}

func (m *Mock) IncLiveSubscribers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveSubscribers++
}

func (m *Mock) DecLiveSubscribers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveSubscribers--
}

func (m *Mock) IncNotificationsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsSent++
}

func (m *Mock) IncNotificationsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsFailed++
}

func (m *Mock) IncLifecycleRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lifecycleRuns++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RecordsCreated returns how many records of collection were counted.
func (m *Mock) RecordsCreated(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordsCreated[collection]
}

// Rejections returns how many rejections with reason were counted.
func (m *Mock) Rejections(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejections[reason]
}

// AggregationRuns returns how many durations were observed for kind.
func (m *Mock) AggregationRuns(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.aggregationDurations[kind])
}

func (m *Mock) LiveEventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveEventsPublished
}

// LiveSubscribers returns the current subscriber gauge value.
func (m *Mock) LiveSubscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveSubscribers
}

func (m *Mock) NotificationsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsSent
}

func (m *Mock) NotificationsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsFailed
}

func (m *Mock) LifecycleRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lifecycleRuns
}

// ActivityMock is an in-memory ActivityStore.
type ActivityMock struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewActivityMock() *ActivityMock {
	return &ActivityMock{counters: make(map[string]int)}
}

func (m *ActivityMock) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
}

func (m *ActivityMock) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out, nil
}
