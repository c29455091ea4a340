package tetris

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestNewTestTetris(t *testing.T) {
	t.Run("spawned piece is painted on an otherwise empty board", func(t *testing.T) {
		tetris := NewTestTetris(J)
		// .	0 1 2 3 4 5 6 7 8 9
		// 0	. . . . X . . . . .
		// 1	. . . . X P X . . .
		var want Board
		want[0][4] = Falling
		want[1][4] = Falling
		want[1][5] = FallingPivot
		want[1][6] = Falling
		if !reflect.DeepEqual(tetris.Board, want) {
			t.Errorf("wanted %v, got %v", want, tetris.Board)
		}
		if tetris.GameOver {
			t.Errorf("wanted spawn on an empty board not to end the game")
		}
	})

	t.Run("spawn location is the middle column and the top row", func(t *testing.T) {
		for k := range Kind(kinds) {
			tetris := NewTestTetris(k)
			want := Piece{Kind: k, X: Cols/2 - 1}
			if tetris.Piece != want {
				t.Errorf("wanted %+v, got %+v", want, tetris.Piece)
			}
			if tetris.GameOver {
				t.Errorf("%v: wanted spawn on an empty board not to end the game", k)
			}
		}
	})
}

func TestSpawnGameOver(t *testing.T) {
	for k := range Kind(kinds) {
		t.Run(k.String(), func(t *testing.T) {
			tetris := &Tetris{}
			for row := range 2 {
				tetris.Board[row][4] = Locked
				tetris.Board[row][5] = Locked
			}
			tetris.spawn(k)
			if !tetris.GameOver {
				t.Errorf("wanted spawn over locked cells to end the game")
			}
			// the footprint is painted regardless.
			var painted int
			tetris.Piece.footprint(func(row, col int, c Cell) {
				if tetris.Board[row][col] == c {
					painted++
				}
			})
			if painted != 4 {
				t.Errorf("wanted the 4 cells of the piece painted, got %d", painted)
			}
		})
	}
}

func TestMoveActions(t *testing.T) {
	// Initial state of the test:
	//
	// .	0 1 2 3 4 5 6 7 8 9		.	0 1 2 3
	// 0	. . . . X . . . . .		0	X . . .
	// 1	. . . . X P X . . .		1	X P X .
	// 2	. . . . . . . . . .		2	. . . .
	tests := []struct {
		name         string
		action       func(g *Tetris)
		updateStack  func(g *Tetris)
		wantRotation int
		wantLocation []int // y, x
	}{
		{
			name:         "Move left unblocked",
			action:       func(g *Tetris) { g.action(MoveLeft) },
			wantLocation: []int{0, 3},
		},
		{
			name:   "Move left blocked",
			action: func(g *Tetris) { g.action(MoveLeft) },
			updateStack: func(g *Tetris) {
				g.Board[1][3] = Locked
			},
			wantLocation: []int{0, 4},
		},
		{
			name:         "Move right unblocked",
			action:       func(g *Tetris) { g.action(MoveRight) },
			wantLocation: []int{0, 5},
		},
		{
			name:   "Move right blocked",
			action: func(g *Tetris) { g.action(MoveRight) },
			updateStack: func(g *Tetris) {
				g.Board[1][7] = Locked
			},
			wantLocation: []int{0, 4},
		},
		{
			name:   "Move right next to a cell the piece doesn't reach",
			action: func(g *Tetris) { g.action(MoveRight) },
			updateStack: func(g *Tetris) {
				g.Board[0][6] = Locked
			},
			wantLocation: []int{0, 5},
		},
		{
			name:         "Move down unblocked",
			action:       func(g *Tetris) { g.descend() },
			wantLocation: []int{1, 4},
		},
		{
			name:   "Move down blocked",
			action: func(g *Tetris) { g.descend() },
			updateStack: func(g *Tetris) {
				g.Board[2][5] = Locked
			},
			wantLocation: []int{0, 4},
		},
		{
			name:         "Drop moves down until blocked",
			action:       func(g *Tetris) { g.action(DropDown) },
			wantLocation: []int{18, 4},
		},
		{
			name:   "Drop stops over the stack",
			action: func(g *Tetris) { g.action(DropDown) },
			updateStack: func(g *Tetris) {
				g.Board[10][6] = Locked
			},
			wantLocation: []int{8, 4},
		},
		{
			name:         "Rotate when unblocked",
			action:       func(g *Tetris) { g.action(RotateRight) },
			wantRotation: 1,
			wantLocation: []int{0, 4},
		},
		{
			name:   "Rotate blocked",
			action: func(g *Tetris) { g.action(RotateRight) },
			updateStack: func(g *Tetris) {
				g.Board[2][5] = Locked
			},
			wantLocation: []int{0, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tetris := NewTestTetris(J)
			if tt.updateStack != nil {
				tt.updateStack(tetris)
			}
			tt.action(tetris)
			if tetris.Piece.Y != tt.wantLocation[0] {
				t.Errorf("wanted piece's Y to be %d, got %d", tt.wantLocation[0], tetris.Piece.Y)
			}
			if tetris.Piece.X != tt.wantLocation[1] {
				t.Errorf("wanted piece's X to be %d, got %d", tt.wantLocation[1], tetris.Piece.X)
			}
			if tetris.Piece.Rotation != tt.wantRotation {
				t.Errorf("wanted rotation %d, got %d", tt.wantRotation, tetris.Piece.Rotation)
			}
			assertFootprint(t, tetris)
		})
	}
}

func TestWalls(t *testing.T) {
	for k := range Kind(kinds) {
		t.Run(fmt.Sprintf("%v against the left wall", k), func(t *testing.T) {
			tetris := NewTestTetris(k)
			for tetris.shift(Left) {
			}
			if !occupiesColumn(tetris, 0) {
				t.Errorf("wanted the piece to reach column 0")
			}
			if tetris.canMove(Left) {
				t.Errorf("wanted canMove(Left) to be false at column 0")
			}
		})
		t.Run(fmt.Sprintf("%v against the right wall", k), func(t *testing.T) {
			tetris := NewTestTetris(k)
			for tetris.shift(Right) {
			}
			if !occupiesColumn(tetris, Cols-1) {
				t.Errorf("wanted the piece to reach column %d", Cols-1)
			}
			if tetris.canMove(Right) {
				t.Errorf("wanted canMove(Right) to be false at column %d", Cols-1)
			}
		})
		t.Run(fmt.Sprintf("%v against the floor", k), func(t *testing.T) {
			tetris := NewTestTetris(k)
			tetris.drop()
			if tetris.canMove(Down) {
				t.Errorf("wanted canMove(Down) to be false on the floor")
			}
		})
	}
}

func TestRotate(t *testing.T) {
	t.Run("four rotations restore rotation and position", func(t *testing.T) {
		for k := range Kind(kinds) {
			tetris := NewTestTetris(k)
			for range 5 {
				tetris.descend()
			}
			start := tetris.Piece
			for i := range rotations {
				if !tetris.rotate() {
					t.Fatalf("%v: rotation %d refused on an empty board", k, i)
				}
				assertFootprint(t, tetris)
			}
			if tetris.Piece != start {
				t.Errorf("%v: wanted %+v after four rotations, got %+v", k, start, tetris.Piece)
			}
		}
	})

	t.Run("pivot keeps its board position", func(t *testing.T) {
		for k := range Kind(kinds) {
			tetris := NewTestTetris(k)
			for range 5 {
				tetris.descend()
			}
			for range rotations {
				before := pivotPosition(tetris)
				tetris.rotate()
				if k != O && pivotPosition(tetris) != before {
					t.Errorf("%v: pivot moved from %v to %v", k, before, pivotPosition(tetris))
				}
			}
		}
	})

	t.Run("rotation may overlap the current footprint", func(t *testing.T) {
		// .	0 1 2 3 4 5 6 7 8 9		.	0 1 2 3 4 5 6 7 8 9
		// 0	. . . . . X . . . .		0	. . . . . X . . . .
		// 1	. . . . X P X . . .	>	1	. . . . . P X . . .
		// 2	. . . . . . . . . .		2	. . . . . X . . . .
		tetris := NewTestTetris(T)
		if !tetris.rotate() {
			t.Fatal("wanted the rotation to be allowed")
		}
		var want Board
		want[0][5] = Falling
		want[1][5] = FallingPivot
		want[1][6] = Falling
		want[2][5] = Falling
		if !reflect.DeepEqual(tetris.Board, want) {
			t.Errorf("wanted %v, got %v", want, tetris.Board)
		}
	})

	t.Run("refused rotation leaves board and piece untouched", func(t *testing.T) {
		tetris := NewTestTetris(T)
		tetris.Board[2][5] = Locked
		board, piece := tetris.Board, tetris.Piece
		if tetris.canRotate() {
			t.Fatal("wanted canRotate() to be false")
		}
		if tetris.rotate() {
			t.Fatal("wanted rotate() to be refused")
		}
		if tetris.Board != board || tetris.Piece != piece {
			t.Errorf("wanted no state change after a refused rotation")
		}
	})

	t.Run("rotation out of the left wall is refused", func(t *testing.T) {
		// the vertical I hugs column 0, the horizontal one would start at column -1.
		tetris := NewTestTetris(I)
		for range 5 {
			tetris.descend()
		}
		tetris.rotate()
		for tetris.shift(Left) {
		}
		if tetris.Piece.X != -1 {
			t.Fatalf("wanted X to be -1, got %d", tetris.Piece.X)
		}
		if tetris.rotate() {
			t.Errorf("wanted rotation out of the board to be refused")
		}
		if tetris.Piece.Rotation != 1 {
			t.Errorf("wanted rotation to stay 1, got %d", tetris.Piece.Rotation)
		}
	})

	t.Run("rotation out of the top is refused", func(t *testing.T) {
		// rotation 2 > 3 of the I moves the pivot's row up by one.
		tetris := NewTestTetris(I)
		tetris.rotate()
		tetris.rotate()
		if tetris.rotate() {
			t.Errorf("wanted rotation above row 0 to be refused")
		}
		if tetris.Piece.Rotation != 2 {
			t.Errorf("wanted rotation to stay 2, got %d", tetris.Piece.Rotation)
		}
	})
}

func TestMerge(t *testing.T) {
	t.Run("dropping an I on an empty board locks 4 cells and clears nothing", func(t *testing.T) {
		tetris := NewTestTetris(I)
		tetris.action(DropDown)
		if tetris.Phase != PhaseMerging {
			t.Errorf("wanted drop to move to merging, got %v", tetris.Phase)
		}
		cleared := tetris.merge()
		var want Board
		for col := 4; col < 8; col++ {
			want[19][col] = Locked
		}
		if !reflect.DeepEqual(tetris.Board, want) {
			t.Errorf("wanted %v, got %v", want, tetris.Board)
		}
		if cleared != 0 || tetris.Score != 0 {
			t.Errorf("wanted no clear and score 0, got %d cleared and score %d", cleared, tetris.Score)
		}
	})

	t.Run("filling the last cell of a row clears it", func(t *testing.T) {
		// .	0 1 2 3 4 5 6 7 8 9
		// 16	. . . . . X . . . .
		// 17	. . . . . X . . . .
		// 18	L . . . . X . . . .
		// 19	L L L L L X L L L L
		tetris := NewTestTetris(I)
		tetris.rotate()
		fillRow(&tetris.Board, 19, 5)
		tetris.Board[18][0] = Locked
		tetris.drop()
		if tetris.Piece.Y != 16 {
			t.Fatalf("wanted the I to land at Y 16, got %d", tetris.Piece.Y)
		}
		cleared := tetris.merge()
		var want Board
		want[19][0] = Locked
		want[19][5] = Locked
		want[18][5] = Locked
		want[17][5] = Locked
		if !reflect.DeepEqual(tetris.Board, want) {
			t.Errorf("wanted %v, got %v", want, tetris.Board)
		}
		if cleared != 1 || tetris.Score != 100 {
			t.Errorf("wanted 1 row and score 100, got %d rows and score %d", cleared, tetris.Score)
		}
	})

	t.Run("two rows cleared at once score 200", func(t *testing.T) {
		tetris := NewTestTetris(I)
		tetris.rotate()
		fillRow(&tetris.Board, 18, 5)
		fillRow(&tetris.Board, 19, 5)
		tetris.Score = 300
		tetris.LinesClear = 3
		tetris.drop()
		cleared := tetris.merge()
		var want Board
		want[19][5] = Locked
		want[18][5] = Locked
		if !reflect.DeepEqual(tetris.Board, want) {
			t.Errorf("wanted %v, got %v", want, tetris.Board)
		}
		if cleared != 2 || tetris.Score != 500 || tetris.LinesClear != 5 {
			t.Errorf("wanted 2 rows, score 500 and 5 lines, got %d, %d and %d", cleared, tetris.Score, tetris.LinesClear)
		}
		if row, ok := tetris.Board.CompletedRow(); ok {
			t.Errorf("wanted no completed row after merging, got %d", row)
		}
	})
}

func TestSpawnNext(t *testing.T) {
	tetris := NewTestTetris(I)
	tetris.Next = T
	tetris.action(DropDown)
	tetris.merge()
	tetris.spawnNext(Z)
	if tetris.Piece != (Piece{Kind: T, X: 4}) {
		t.Errorf("wanted the next piece at the spawn location, got %+v", tetris.Piece)
	}
	if tetris.Next != Z {
		t.Errorf("wanted the rolled piece to be next, got %v", tetris.Next)
	}
	assertFootprint(t, tetris)
}

// TestFootprintInvariant plays random moves and checks that the falling cells on the
// board are exactly the active piece and never overlap the locked ones.
func TestFootprintInvariant(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	actions := []Action{MoveLeft, MoveRight, RotateRight, DropDown}
	tetris := NewTestTetris(Kind(r.IntN(kinds)))
	for i := 0; i < 2000 && !tetris.GameOver; i++ {
		switch r.IntN(5) {
		case 4:
			tetris.descend()
		default:
			tetris.action(actions[r.IntN(len(actions))])
		}
		assertFootprint(t, tetris)
		if tetris.Phase == PhaseMerging {
			tetris.merge()
			if _, ok := tetris.Board.CompletedRow(); ok {
				t.Fatal("wanted no completed row after merging")
			}
			tetris.spawnNext(Kind(r.IntN(kinds)))
			tetris.Phase = PhaseFalling
			if !tetris.GameOver {
				assertFootprint(t, tetris)
			}
		}
	}
}

func TestCopy(t *testing.T) {
	tetris := NewTestTetris(J)
	cp := tetris.copy()
	cp.Board[19][0] = Locked
	cp.Piece.X = 0
	if tetris.Board[19][0] != Empty || tetris.Piece.X != 4 {
		t.Errorf("wanted the copy to be independent from the original")
	}
}

// assertFootprint checks that the falling cells on the board are exactly the ones of
// the active piece.
func assertFootprint(t *testing.T, tetris *Tetris) {
	t.Helper()
	want := make(map[[2]int]Cell)
	tetris.Piece.footprint(func(row, col int, c Cell) { want[[2]int{row, col}] = c })
	for row := range Rows {
		for col := range Cols {
			cell := tetris.Board[row][col]
			wc, ok := want[[2]int{row, col}]
			switch {
			case ok && cell != wc:
				t.Fatalf("cell %d,%d: wanted %v, got %v", row, col, wc, cell)
			case !ok && (cell == Falling || cell == FallingPivot):
				t.Fatalf("cell %d,%d: stale falling cell", row, col)
			}
		}
	}
}

func occupiesColumn(tetris *Tetris, col int) bool {
	var found bool
	tetris.Piece.footprint(func(_, c int, _ Cell) {
		if c == col {
			found = true
		}
	})
	return found
}

func pivotPosition(tetris *Tetris) [2]int {
	r, c := tetris.Piece.shape().Pivot()
	return [2]int{tetris.Piece.Y + r, tetris.Piece.X + c}
}
