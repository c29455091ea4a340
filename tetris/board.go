package tetris

// Cell is the content of a single square of the playfield.
type Cell int

const (
	Empty        Cell = iota
	Falling           // part of the active piece
	FallingPivot      // rotation anchor of the active piece
	Locked            // part of a merged piece
)

const (
	Rows = 20
	Cols = 10
)

// Board is the playfield. Rows are 0 > 19 top to bottom, columns 0 > 9 left to right.
//
//	.	0 1 2 3 4 5 6 7 8 9
//	0	. . . . . . . . . .
//	1	. . . . . . . . . .
//	.
//	19	. . . . . . . . . .
type Board [Rows][Cols]Cell

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// IsOccupied reports whether the cell is not Empty. Cells outside the board count as
// occupied so they act as walls and floor.
func (b *Board) IsOccupied(row, col int) bool {
	if !inBounds(row, col) {
		return true
	}
	return b[row][col] != Empty
}

// At returns the cell content, Empty outside the board.
func (b *Board) At(row, col int) Cell {
	if !inBounds(row, col) {
		return Empty
	}
	return b[row][col]
}

// Set writes c into the cell. Writes outside the board are dropped.
func (b *Board) Set(row, col int, c Cell) {
	if inBounds(row, col) {
		b[row][col] = c
	}
}

func (b *Board) Clear(row, col int) {
	b.Set(row, col, Empty)
}

// CompletedRow returns the lowest row with no empty cell.
func (b *Board) CompletedRow() (int, bool) {
	for row := Rows - 1; row >= 0; row-- {
		full := true
		for col := range Cols {
			if b[row][col] == Empty {
				full = false
				break
			}
		}
		if full {
			return row, true
		}
	}
	return 0, false
}

// CollapseRow removes row, shifting every row above it down by one and emptying the
// top row.
func (b *Board) CollapseRow(row int) {
	if row < 0 || row >= Rows {
		return
	}
	for r := row; r > 0; r-- {
		b[r] = b[r-1]
	}
	b[0] = [Cols]Cell{}
}
