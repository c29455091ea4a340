package terminal

import (
	"blocktris/tetris"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"
)

const (
	// ASCII colors.
	Red     = "31"
	Magenta = "35"
	Yellow  = "33"

	reverse    = "\x1b[7m"
	reset      = "\x1b[0m"
	resetPos   = "\033[H"            // Reset cursor position to 0,0
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[?25h"

	// units covered by a character.
	colUnits = 10
	rowUnits = 30
)

//go:embed "frame.tmpl"
var layout string

var frame = loadTemplate()

var colorMap = map[tetris.Color]string{
	tetris.Red:     Red,
	tetris.Magenta: Magenta,
	tetris.Yellow:  Yellow,
}

var ErrNotTerminal = errors.New("stdin is not a terminal")

type glyph struct {
	r     rune
	color tetris.Color
	fill  bool
}

type Terminal struct {
	writer     io.Writer
	logger     *slog.Logger
	canvas     [][]glyph
	kbCh       <-chan keyboard.KeyEvent
	code       int
	terminated bool

	isTerminal func() bool
	getSize    func() (int, int, error)
	openKeys   func(int) (<-chan keyboard.KeyEvent, error)
	closeKeys  func() error
	sleep      func(time.Duration)
}

type Options struct {
	Writer io.Writer
	Logger *slog.Logger
}

// New returns a Terminal drawing on the console. Nothing is touched until Init.
func New(o *Options) *Terminal {
	var w io.Writer = os.Stdout
	if o.Writer != nil {
		w = o.Writer
	}
	l := o.Logger
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	fd := int(os.Stdin.Fd())
	return &Terminal{
		writer:     w,
		logger:     l,
		isTerminal: func() bool { return term.IsTerminal(fd) },
		getSize:    func() (int, int, error) { return term.GetSize(fd) },
		openKeys:   keyboard.GetKeys,
		closeKeys:  keyboard.Close,
		sleep:      time.Sleep,
	}
}

// Init checks the console fits a canvas of the given units and opens the keyboard.
func (t *Terminal) Init(width, height int) error {
	cols, rows := width/colUnits, height/rowUnits
	if !t.isTerminal() {
		return ErrNotTerminal
	}
	w, h, err := t.getSize()
	if err != nil {
		return fmt.Errorf("unable to read terminal size: %w", err)
	}
	if w < cols || h < rows {
		return fmt.Errorf("terminal is %dx%d, at least %dx%d is needed", w, h, cols, rows)
	}
	kc, err := t.openKeys(20)
	if err != nil {
		return fmt.Errorf("failed to open keyboard: %w", err)
	}
	t.kbCh = kc
	t.canvas = newCanvas(cols, rows)
	fmt.Fprint(t.writer, hideCursor)
	return nil
}

func newCanvas(cols, rows int) [][]glyph {
	c := make([][]glyph, rows)
	for i := range c {
		c[i] = make([]glyph, cols)
		for j := range c[i] {
			c[i][j] = glyph{r: ' '}
		}
	}
	return c
}

// span converts the units [u0, u1) into the characters whose centre falls inside.
func span(u0, u1, scale int) (int, int) {
	return (u0 + scale/2) / scale, (u1 + scale/2) / scale
}

func (t *Terminal) set(row, col int, g glyph) {
	if row < 0 || row >= len(t.canvas) || col < 0 || col >= len(t.canvas[row]) {
		return
	}
	t.canvas[row][col] = g
}

func (t *Terminal) FillRect(x0, y0, x1, y1 int, c tetris.Color) {
	c0, c1 := span(x0, x1, colUnits)
	r0, r1 := span(y0, y1, rowUnits)
	g := glyph{r: ' ', color: c, fill: c != tetris.Black}
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			t.set(row, col, g)
		}
	}
}

// StrokeRect draws the outline on the characters surrounding the rectangle.
func (t *Terminal) StrokeRect(x0, y0, x1, y1 int, c tetris.Color) {
	c0, c1 := span(x0, x1, colUnits)
	r0, r1 := span(y0, y1, rowUnits)
	left, right, top, bottom := c0-1, c1, r0-1, r1
	for col := left + 1; col < right; col++ {
		t.set(top, col, glyph{r: '-', color: c})
		t.set(bottom, col, glyph{r: '-', color: c})
	}
	for row := top + 1; row < bottom; row++ {
		t.set(row, left, glyph{r: '|', color: c})
		t.set(row, right, glyph{r: '|', color: c})
	}
	for _, corner := range [][2]int{{top, left}, {top, right}, {bottom, left}, {bottom, right}} {
		t.set(corner[0], corner[1], glyph{r: '+', color: c})
	}
}

func (t *Terminal) Text(x, y int, s string, c tetris.Color) {
	col, _ := span(x, x, colUnits)
	row, _ := span(y, y, rowUnits)
	for i, r := range []rune(s) {
		t.set(row, col+i, glyph{r: r, color: c})
	}
}

func (t *Terminal) Present() {
	fmt.Fprint(t.writer, resetPos)
	if err := frame.Execute(t.writer, t.canvas); err != nil {
		t.logger.Error("unable to execute template", slog.String("error", err.Error()))
	}
}

// PollInput reads at most one key event without blocking.
func (t *Terminal) PollInput() tetris.Action {
	select {
	case event, ok := <-t.kbCh:
		if !ok {
			t.logger.Error("keyboard events channel closed unexpectedly")
			return tetris.Quit
		}
		if event.Err != nil {
			t.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return tetris.Quit
		}
		return keyAction(event)
	default:
		return tetris.NoAction
	}
}

func keyAction(event keyboard.KeyEvent) tetris.Action {
	switch event.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return tetris.Quit
	case keyboard.KeySpace, keyboard.KeyArrowUp:
		return tetris.RotateRight
	case keyboard.KeyArrowDown:
		return tetris.DropDown
	case keyboard.KeyArrowLeft:
		return tetris.MoveLeft
	case keyboard.KeyArrowRight:
		return tetris.MoveRight
	}
	return tetris.NoAction
}

func (t *Terminal) Delay(d time.Duration) { t.sleep(d) }

// Terminate closes the keyboard and gives the cursor back below the canvas.
func (t *Terminal) Terminate(code int) {
	if t.terminated {
		return
	}
	t.terminated = true
	t.code = code
	if t.kbCh != nil {
		if err := t.closeKeys(); err != nil {
			t.logger.Error("unable to close keyboard", slog.String("error", err.Error()))
		}
	}
	fmt.Fprintf(t.writer, "\033[%d;0H\r\n%s", len(t.canvas)+1, showCursor)
	t.logger.Debug("terminal closed", slog.Int("code", code))
}

// Code returns the exit code the terminal was terminated with.
func (t *Terminal) Code() int { return t.code }

func loadTemplate() *template.Template {
	// the console is raw so new lines don't automatically transform into carriage return.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	return template.Must(template.New("frame").Funcs(template.FuncMap{"line": line}).Parse(l))
}

func style(g glyph) string {
	c, ok := colorMap[g.color]
	switch {
	case !ok:
		return ""
	case g.fill:
		return fmt.Sprintf("%s\x1b[%sm", reverse, c)
	default:
		return fmt.Sprintf("\x1b[%sm", c)
	}
}

// line renders a canvas row, switching escape codes only when the style changes.
func line(row []glyph) string {
	var b strings.Builder
	current := ""
	for _, g := range row {
		if s := style(g); s != current {
			if current != "" {
				b.WriteString(reset)
			}
			b.WriteString(s)
			current = s
		}
		b.WriteRune(g.r)
	}
	if current != "" {
		b.WriteString(reset)
	}
	return b.String()
}
