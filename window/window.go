// Package window draws the game on a desktop window and reads the player's keys from
// it. ebiten owns the loop: every Update runs one step of the game.
package window

import (
	"blocktris/tetris"
	"context"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var colorMap = map[tetris.Color]color.RGBA{
	tetris.Black:   {0, 0, 0, 255},
	tetris.Red:     {255, 0, 0, 255},
	tetris.Magenta: {255, 0, 255, 255},
	tetris.Yellow:  {255, 255, 0, 255},
}

type opKind int

const (
	fillRect opKind = iota
	strokeRect
	text
)

// op is a drawing call kept until the frame is shown.
type op struct {
	kind           opKind
	x0, y0, x1, y1 int
	s              string
	c              tetris.Color
}

type Window struct {
	title         string
	logger        *slog.Logger
	width, height int

	pending []op
	shown   []op

	key        tetris.Action
	keys       func() tetris.Action
	now        func() time.Time
	holdUntil  time.Time
	terminated bool
	code       int

	ctx  context.Context
	step func() bool
}

type Options struct {
	Title  string
	Logger *slog.Logger
}

func New(o *Options) *Window {
	l := o.Logger
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &Window{
		title:  o.Title,
		logger: l,
		keys:   justPressed,
		now:    time.Now,
		ctx:    context.Background(),
	}
}

func (w *Window) Init(width, height int) error {
	w.width, w.height = width, height
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(w.title)
	return nil
}

func (w *Window) FillRect(x0, y0, x1, y1 int, c tetris.Color) {
	w.pending = append(w.pending, op{kind: fillRect, x0: x0, y0: y0, x1: x1, y1: y1, c: c})
}

func (w *Window) StrokeRect(x0, y0, x1, y1 int, c tetris.Color) {
	w.pending = append(w.pending, op{kind: strokeRect, x0: x0, y0: y0, x1: x1, y1: y1, c: c})
}

func (w *Window) Text(x, y int, s string, c tetris.Color) {
	w.pending = append(w.pending, op{kind: text, x0: x, y0: y, s: s, c: c})
}

// Present hands the calls made since the last frame to Draw.
func (w *Window) Present() {
	w.shown, w.pending = w.pending, nil
}

// PollInput returns the key pressed in the current Update.
func (w *Window) PollInput() tetris.Action {
	a := w.key
	w.key = tetris.NoAction
	return a
}

// Delay holds the loop without blocking ebiten so the last frame stays on screen.
func (w *Window) Delay(d time.Duration) {
	w.holdUntil = w.now().Add(d)
}

func (w *Window) Terminate(code int) {
	w.terminated = true
	w.code = code
	w.logger.Debug("window closing", slog.Int("code", code))
}

// Code returns the exit code the window was terminated with.
func (w *Window) Code() int { return w.code }

// Run opens the window and calls step once per Update until the game terminates,
// ctx is cancelled or the window is closed.
func (w *Window) Run(ctx context.Context, step func() bool) error {
	w.ctx = ctx
	w.step = step
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	if w.now().Before(w.holdUntil) {
		return nil
	}
	if w.terminated {
		return ebiten.Termination
	}
	w.key = w.keys()
	if w.ctx.Err() != nil {
		w.key = tetris.Quit
	}
	w.step()
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	for _, o := range w.shown {
		c := colorMap[o.c]
		switch o.kind {
		case fillRect:
			vector.DrawFilledRect(screen, float32(o.x0), float32(o.y0), float32(o.x1-o.x0), float32(o.y1-o.y0), c, false)
		case strokeRect:
			vector.StrokeRect(screen, float32(o.x0), float32(o.y0), float32(o.x1-o.x0), float32(o.y1-o.y0), 1, c, false)
		case text:
			// the debug font is always white.
			ebitenutil.DebugPrintAt(screen, o.s, o.x0, o.y0)
		}
	}
}

func (w *Window) Layout(int, int) (int, int) {
	return w.width, w.height
}

func justPressed() tetris.Action {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return tetris.Quit
	case inpututil.IsKeyJustPressed(ebiten.KeySpace), inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		return tetris.RotateRight
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		return tetris.DropDown
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		return tetris.MoveLeft
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		return tetris.MoveRight
	}
	return tetris.NoAction
}
