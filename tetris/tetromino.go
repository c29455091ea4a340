package tetris

import (
	"fmt"
	"strings"
)

// Kind identifies one of the seven tetrominoes.
type Kind int

const (
	I Kind = iota
	J
	L
	O
	S
	T
	Z
)

const (
	kinds     = 7
	rotations = 4
	tileSize  = 4
)

func (k Kind) String() string {
	if k < 0 || k >= kinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return "IJLOSTZ"[k : k+1]
}

// Pattern is the 4x4 occupancy grid of a tetromino in one rotation, indexed [row][col].
// It only holds Empty, Falling and FallingPivot cells.
type Pattern [tileSize][tileSize]Cell

// Pivot returns the row and column of the pattern's rotation anchor.
func (p Pattern) Pivot() (row, col int) {
	for r := range tileSize {
		for c := range tileSize {
			if p[r][c] == FallingPivot {
				return r, c
			}
		}
	}
	return 0, 0
}

// Shape returns the pattern of kind k in the given rotation (0..3).
func Shape(k Kind, rotation int) Pattern {
	return catalog[k][rotation%rotations]
}

/*
Rotations are clockwise about the pivot (2). Patterns are described top to bottom,
one string per rotation:

.	rotation 0		rotation 1		rotation 2		rotation 3

	1 0 0 0			0 1 1 0			0 0 0 0			0 1 0 0
	1 2 1 0			0 2 0 0			1 2 1 0			0 2 0 0
	0 0 0 0			0 1 0 0			0 0 1 0			1 1 0 0
	0 0 0 0			0 0 0 0			0 0 0 0			0 0 0 0

The I piece has no centre cell, so its pivot walks along the bar: the pivot keeps its
board position on every rotation and four rotations bring the piece back to where it
started.
*/
var catalogSpec = [kinds][rotations]string{
	I: {
		"0000 1211 0000 0000",
		"0100 0200 0100 0100",
		"0000 1121 0000 0000",
		"0010 0010 0020 0010",
	},
	J: {
		"1000 1210 0000 0000",
		"0110 0200 0100 0000",
		"0000 1210 0010 0000",
		"0100 0200 1100 0000",
	},
	L: {
		"0010 1210 0000 0000",
		"0100 0200 0110 0000",
		"0000 1210 1000 0000",
		"1100 0200 0100 0000",
	},
	O: {
		"1100 1200 0000 0000",
		"1100 1200 0000 0000",
		"1100 1200 0000 0000",
		"1100 1200 0000 0000",
	},
	S: {
		"0110 1200 0000 0000",
		"0100 0210 0010 0000",
		"0000 0210 1100 0000",
		"1000 1200 0100 0000",
	},
	T: {
		"0100 1210 0000 0000",
		"0100 0210 0100 0000",
		"0000 1210 0100 0000",
		"0100 1200 0100 0000",
	},
	Z: {
		"1100 0210 0000 0000",
		"0010 0210 0100 0000",
		"0000 1200 0110 0000",
		"0100 1200 1000 0000",
	},
}

var catalog = buildCatalog()

func buildCatalog() [kinds][rotations]Pattern {
	var c [kinds][rotations]Pattern
	for k := range kinds {
		for r := range rotations {
			c[k][r] = mustParsePattern(catalogSpec[k][r])
		}
	}
	return c
}

func mustParsePattern(spec string) Pattern {
	var p Pattern
	rows := strings.Fields(spec)
	if len(rows) != tileSize {
		panic(fmt.Sprintf("tetromino pattern %q: want %d rows, got %d", spec, tileSize, len(rows)))
	}
	pivots := 0
	for r, row := range rows {
		if len(row) != tileSize {
			panic(fmt.Sprintf("tetromino pattern %q: row %d has %d cells", spec, r, len(row)))
		}
		for c, ch := range row {
			switch ch {
			case '0':
				p[r][c] = Empty
			case '1':
				p[r][c] = Falling
			case '2':
				p[r][c] = FallingPivot
				pivots++
			default:
				panic(fmt.Sprintf("tetromino pattern %q: invalid cell %q", spec, ch))
			}
		}
	}
	if pivots != 1 {
		panic(fmt.Sprintf("tetromino pattern %q: want exactly one pivot, got %d", spec, pivots))
	}
	return p
}
