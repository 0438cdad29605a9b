package clock

import (
	"sync"
	"time"
)

// Clock источник времени; в тестах подменяется на MockClock
type Clock interface {
	Now() time.Time
}

// RealClock системное время в UTC
type RealClock struct{}

// NewRealClock создаёт RealClock
func NewRealClock() Clock {
	return RealClock{}
}

// Now текущее время в UTC
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// MockClock управляемое время для тестов
type MockClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewMockClock создаёт MockClock, стартующий с t
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set выставляет текущее время
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance сдвигает время вперёд на d
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
