// Package tetris contains the logic of the game: the piece catalog, the board,
// the active piece and the loop that sequences falling, merging and spawning.
package tetris

import "time"

const (
	ScoreIncrease   = 100             // points per cleared row.
	DescentInterval = 1 * time.Second // time between two gravity steps.
)

type Direction int

const (
	Down Direction = iota
	Left
	Right
)

// Phase is the state of the game loop.
type Phase int

const (
	PhaseFalling Phase = iota
	PhaseMerging
	PhaseSpawning
)

func (p Phase) String() string {
	switch p {
	case PhaseFalling:
		return "falling"
	case PhaseMerging:
		return "merging"
	case PhaseSpawning:
		return "spawning"
	}
	return "unknown"
}

// Piece is the active tetromino. X and Y are the board column and row of the
// top-left corner of its 4x4 pattern.
type Piece struct {
	Kind     Kind
	Rotation int
	X, Y     int
}

func (p Piece) shape() Pattern { return Shape(p.Kind, p.Rotation) }

// footprint calls fn with the board position of every non-empty cell of the piece.
func (p Piece) footprint(fn func(row, col int, c Cell)) {
	shape := p.shape()
	for r := range tileSize {
		for c := range tileSize {
			if shape[r][c] != Empty {
				fn(p.Y+r, p.X+c, shape[r][c])
			}
		}
	}
}

// Tetris is the full state of a game. It is owned by a single Game loop.
type Tetris struct {
	Board      Board
	Piece      Piece
	Next       Kind
	Phase      Phase
	Elapsed    time.Duration // since the last gravity step.
	Score      int
	LinesClear int
	GameOver   bool
}

func newTetris(current, next Kind) *Tetris {
	t := &Tetris{Next: next}
	t.spawn(current)
	return t
}

// spawn places a new piece of kind k at the spawn location. Spawning over an occupied
// cell ends the game, the piece is painted anyway.
//
//	.	0 1 2 3 4 5 6 7 8 9
//	0	. . . . X X X X . .
//	1	. . . . X X X X . .
//	2	. . . . X X X X . .
//	3	. . . . X X X X . .
func (t *Tetris) spawn(k Kind) {
	t.Piece = Piece{Kind: k, X: Cols/2 - 1}
	t.Piece.footprint(func(row, col int, _ Cell) {
		if t.Board.IsOccupied(row, col) {
			t.GameOver = true
		}
	})
	t.paintFootprint()
}

func (t *Tetris) clearFootprint() {
	t.Piece.footprint(func(row, col int, _ Cell) { t.Board.Clear(row, col) })
}

func (t *Tetris) paintFootprint() {
	t.Piece.footprint(t.Board.Set)
}

// canMove checks, for every line of the pattern crossed by the movement, the cell right
// after the piece's outermost cell in that line.
func (t *Tetris) canMove(d Direction) bool {
	shape := t.Piece.shape()
	switch d {
	case Down:
		for col := range tileSize {
			for row := tileSize - 1; row >= 0; row-- {
				if shape[row][col] == Empty {
					continue
				}
				if t.Board.IsOccupied(t.Piece.Y+row+1, t.Piece.X+col) {
					return false
				}
				break
			}
		}
	case Left:
		for row := range tileSize {
			for col := range tileSize {
				if shape[row][col] == Empty {
					continue
				}
				if t.Board.IsOccupied(t.Piece.Y+row, t.Piece.X+col-1) {
					return false
				}
				break
			}
		}
	case Right:
		for row := range tileSize {
			for col := tileSize - 1; col >= 0; col-- {
				if shape[row][col] == Empty {
					continue
				}
				if t.Board.IsOccupied(t.Piece.Y+row, t.Piece.X+col+1) {
					return false
				}
				break
			}
		}
	}
	return true
}

// descend moves the piece one row down. It reports whether the piece moved.
func (t *Tetris) descend() bool {
	if !t.canMove(Down) {
		return false
	}
	t.clearFootprint()
	t.Piece.Y++
	t.paintFootprint()
	return true
}

func (t *Tetris) shift(d Direction) bool {
	if d == Down {
		return t.descend()
	}
	if !t.canMove(d) {
		return false
	}
	t.clearFootprint()
	if d == Left {
		t.Piece.X--
	} else {
		t.Piece.X++
	}
	t.paintFootprint()
	return true
}

// drop moves the piece down until it's blocked.
func (t *Tetris) drop() {
	for t.descend() {
	}
}

// rotated returns the piece in its next clockwise rotation. The position is corrected
// so the pivot cell stays on the same board cell.
func (t *Tetris) rotated() Piece {
	next := t.Piece
	next.Rotation = (t.Piece.Rotation + 1) % rotations
	oldRow, oldCol := t.Piece.shape().Pivot()
	newRow, newCol := next.shape().Pivot()
	next.X -= newCol - oldCol
	next.Y -= newRow - oldRow
	return next
}

// canRotate checks the rotated piece against the board with the current footprint
// lifted, so the piece never collides with itself.
func (t *Tetris) canRotate() bool {
	next := t.rotated()
	t.clearFootprint()
	defer t.paintFootprint()

	fits := true
	next.footprint(func(row, col int, _ Cell) {
		if t.Board.IsOccupied(row, col) {
			fits = false
		}
	})
	return fits
}

func (t *Tetris) rotate() bool {
	if !t.canRotate() {
		return false
	}
	next := t.rotated()
	t.clearFootprint()
	t.Piece = next
	t.paintFootprint()
	return true
}

// merge locks the piece into the board and clears completed rows. It returns the number
// of cleared rows.
func (t *Tetris) merge() int {
	t.Piece.footprint(func(row, col int, _ Cell) { t.Board.Set(row, col, Locked) })

	var cleared int
	for {
		row, ok := t.Board.CompletedRow()
		if !ok {
			break
		}
		t.Board.CollapseRow(row)
		t.Score += ScoreIncrease
		cleared++
	}
	t.LinesClear += cleared
	return cleared
}

// spawnNext promotes the next piece and stores roll as the new next piece.
func (t *Tetris) spawnNext(roll Kind) {
	t.spawn(t.Next)
	t.Next = roll
}

func (t *Tetris) action(a Action) {
	switch a {
	case MoveLeft:
		t.shift(Left)
	case MoveRight:
		t.shift(Right)
	case RotateRight:
		t.rotate()
	case DropDown:
		// drop down doesn't wait for the gravity timer to finish the round.
		t.drop()
		t.Phase = PhaseMerging
	}
}

func (t *Tetris) copy() *Tetris {
	cp := *t
	return &cp
}
