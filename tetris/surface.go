package tetris

import (
	"strconv"
	"time"
)

type Action string

const (
	NoAction    Action = ""         // No key pending.
	Quit        Action = "quit"     // Ends the game.
	MoveLeft    Action = "left"     // Moves the Tetromino one step to the left.
	MoveRight   Action = "right"    // Moves the Tetromino one step to the right.
	DropDown    Action = "drop"     // Drops the Tetromino down the stack.
	RotateRight Action = "rotatecw" // Rotates the Tetromino clockwise.
)

type Color int

const (
	Black Color = iota
	Red
	Magenta
	Yellow
)

// Surface is where the game is drawn and where the player's input comes from.
// Coordinates are in units, the board cells are BlockSize units wide.
type Surface interface {
	// Init opens a drawing area of the given size.
	Init(width, height int) error
	FillRect(x0, y0, x1, y1 int, c Color)
	StrokeRect(x0, y0, x1, y1 int, c Color)
	Text(x, y int, s string, c Color)
	// Present shows everything drawn since the last call.
	Present()
	// PollInput returns the pending action, if any, without blocking.
	PollInput() Action
	Delay(d time.Duration)
	// Terminate ends the session with the exit code.
	Terminate(code int)
}

const (
	BlockSize = 30

	textSpacing = 20
	topMargin   = 50
	leftMargin  = 50
	rightMargin = 200
	rightArea   = 300

	Width  = leftMargin + rightArea + Cols*BlockSize
	Height = 2*topMargin + Rows*BlockSize
)

var cellColors = map[Cell]Color{
	Falling:      Magenta,
	FallingPivot: Red,
	Locked:       Yellow,
}

// draw renders the arena, the side panel and the next piece.
func draw(s Surface, t *Tetris) {
	s.FillRect(0, 0, Width-1, Height-1, Black)
	s.StrokeRect(leftMargin, topMargin, leftMargin+Cols*BlockSize, topMargin+Rows*BlockSize, Red)

	s.Text(Width-rightMargin, Height/3, "Next piece", Red)
	s.Text(Width-rightMargin-textSpacing, 2*Height/3, "score: ", Red)
	s.Text(Width-rightMargin+2*textSpacing, 2*Height/3, strconv.Itoa(t.Score), Red)

	for row := range Rows {
		for col := range Cols {
			c, ok := cellColors[t.Board.At(row, col)]
			if !ok {
				continue
			}
			s.FillRect(
				leftMargin+col*BlockSize, topMargin+row*BlockSize,
				leftMargin+(col+1)*BlockSize, topMargin+(row+1)*BlockSize,
				c,
			)
		}
	}

	next := Shape(t.Next, 0)
	for row := range tileSize {
		for col := range tileSize {
			if next[row][col] == Empty {
				continue
			}
			s.FillRect(
				Width-rightMargin+col*BlockSize, 2*topMargin+row*BlockSize,
				Width-rightMargin+(col+1)*BlockSize, 2*topMargin+(row+1)*BlockSize,
				Magenta,
			)
		}
	}
}

func drawGameOver(s Surface, t *Tetris) {
	draw(s, t)
	s.Text(Width-rightMargin, Height/2, "Game over!", Red)
}
