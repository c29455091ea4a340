package tetris

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

const (
	ExitCode     = 3 // process exit status after quitting or losing.
	EndDelay     = 2 * time.Second
	DefaultFrame = 5 * time.Millisecond
)

// Ticker paces Run, one tick per frame.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

func (t *wrappedTicker) C() <-chan time.Time { return t.ticker.C }
func (t *wrappedTicker) Stop()               { t.ticker.Stop() }

type Options struct {
	Surface Surface
	// Ticker defaults to a real ticker of Frame.
	Ticker Ticker
	// Frame is the time accounted to the gravity timer on every Step.
	Frame time.Duration
	// Seed of the piece generator, zero picks a random one.
	Seed uint64
	// Roll overrides the piece generator.
	Roll   func() Kind
	Logger *slog.Logger
}

type Game struct {
	tetris  *Tetris
	surface Surface
	ticker  Ticker
	frame   time.Duration
	roll    func() Kind
	logger  *slog.Logger
	done    bool
}

// NewGame initializes the surface and spawns the first piece.
func NewGame(o *Options) (*Game, error) {
	if err := o.Surface.Init(Width, Height); err != nil {
		return nil, fmt.Errorf("failed to initialize surface: %w", err)
	}
	g := &Game{
		surface: o.Surface,
		ticker:  o.Ticker,
		frame:   o.Frame,
		roll:    o.Roll,
		logger:  o.Logger,
	}
	if g.frame <= 0 {
		g.frame = DefaultFrame
	}
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	if g.roll == nil {
		g.roll = randomRoll(o.Seed)
	}
	next := g.roll()
	g.tetris = newTetris(g.roll(), next)
	g.logger.Info("game started",
		slog.String("piece", g.tetris.Piece.Kind.String()),
		slog.String("next", next.String()),
		slog.Duration("frame", g.frame),
	)
	return g, nil
}

func randomRoll(seed uint64) func() Kind {
	if seed == 0 {
		seed = rand.Uint64()
	}
	r := rand.New(rand.NewPCG(seed, seed>>1))
	return func() Kind { return Kind(r.IntN(kinds)) }
}

// Run steps the game once per tick until it's over or ctx is cancelled, and returns
// the exit code.
func (g *Game) Run(ctx context.Context) int {
	if g.ticker == nil {
		g.ticker = newWrappedTicker(g.frame)
	}
	defer g.ticker.Stop()

	for g.Step() {
		select {
		case <-ctx.Done():
			g.logger.Info("game cancelled", slog.String("reason", context.Cause(ctx).Error()))
			g.quit()
			return ExitCode
		case <-g.ticker.C():
		}
	}
	return ExitCode
}

// Step runs one iteration of the loop: the game over check, a frame and one transition
// of the state machine. It returns false once the game has terminated.
func (g *Game) Step() bool {
	if g.done {
		return false
	}
	t := g.tetris
	if t.GameOver {
		g.end()
		return false
	}

	draw(g.surface, t)
	g.surface.Present()

	switch t.Phase {
	case PhaseFalling:
		if a := g.surface.PollInput(); a != NoAction {
			if a == Quit {
				g.quit()
				return false
			}
			t.action(a)
		}
		if t.Elapsed >= DescentInterval {
			if !t.descend() {
				t.Phase = PhaseMerging
			}
			t.Elapsed = 0
		}
	case PhaseMerging:
		cleared := t.merge()
		g.logger.Debug("piece merged",
			slog.String("piece", t.Piece.Kind.String()),
			slog.Int("cleared", cleared),
			slog.Int("score", t.Score),
		)
		t.Phase = PhaseSpawning
	case PhaseSpawning:
		t.spawnNext(g.roll())
		g.logger.Debug("piece spawned",
			slog.String("piece", t.Piece.Kind.String()),
			slog.String("next", t.Next.String()),
			slog.Bool("gameOver", t.GameOver),
		)
		t.Phase = PhaseFalling
	}
	t.Elapsed += g.frame
	return true
}

func (g *Game) end() {
	g.logger.Info("game over",
		slog.Int("score", g.tetris.Score),
		slog.Int("lines", g.tetris.LinesClear),
	)
	drawGameOver(g.surface, g.tetris)
	g.surface.Present()
	g.surface.Delay(EndDelay)
	g.terminate()
}

func (g *Game) quit() {
	g.logger.Info("game quit", slog.Int("score", g.tetris.Score))
	g.terminate()
}

func (g *Game) terminate() {
	g.done = true
	g.surface.Terminate(ExitCode)
}

// Read returns a copy of the current Tetris status.
func (g *Game) Read() *Tetris {
	return g.tetris.copy()
}
