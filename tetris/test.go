package tetris

import (
	"log/slog"
	"sync"
	"time"
)

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch   chan time.Time
	stop bool
	mu   sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick()               { m.ch <- time.Now() }
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}
func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// NewTestTetris creates a Tetris with an empty board and a freshly spawned piece of
// the given kind. The next piece is of the same kind.
func NewTestTetris(k Kind) *Tetris {
	return newTetris(k, k)
}

// NewTestGame creates a game around t that draws on s and always rolls k.
// It doesn't initialize the surface.
func NewTestGame(t *Tetris, s Surface, k Kind) (*Game, *MockTicker) {
	ticker := NewMockTicker()
	return &Game{
		tetris:  t,
		surface: s,
		ticker:  ticker,
		frame:   DefaultFrame,
		roll:    func() Kind { return k },
		logger:  slog.New(slog.DiscardHandler),
	}, ticker
}
