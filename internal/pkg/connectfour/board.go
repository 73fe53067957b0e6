package connectfour

import "fmt"

const (
	Rows   = 6
	Cols   = 7
	ToWin  = 4
	Cells  = Rows * Cols
	noRoom = -1
)

// Cell holds the owner of a grid position. The zero value is empty.
type Cell uint8

const (
	Empty Cell = iota
	Player0Disc
	Player1Disc
)

func discFor(player uint8) Cell {
	if player == 0 {
		return Player0Disc
	}
	return Player1Disc
}

// Owner reports the player index holding the cell.
func (c Cell) Owner() (uint8, bool) {
	switch c {
	case Player0Disc:
		return 0, true
	case Player1Disc:
		return 1, true
	default:
		return 0, false
	}
}

// Board is indexed [row][column]; row 0 is the top, row Rows-1 the bottom.
type Board [Rows][Cols]Cell

func (b *Board) At(row, col int) Cell {
	if !inBounds(row, col) {
		return Empty
	}
	return b[row][col]
}

// LandingRow returns the lowest empty row of col, or -1 when the column is full.
func (b *Board) LandingRow(col int) int {
	for row := Rows - 1; row >= 0; row-- {
		if b[row][col] == Empty {
			return row
		}
	}
	return noRoom
}

func (b *Board) Full() bool {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if b[row][col] == Empty {
				return false
			}
		}
	}
	return true
}

// Wins reports whether the piece at (row, col) is part of four in a row.
// Only lines through that cell are inspected.
func (b *Board) Wins(row, col int) bool {
	disc := b.At(row, col)
	if disc == Empty {
		return false
	}
	return b.horizontal(disc, row) ||
		b.vertical(disc, col) ||
		b.diagonal(disc, row, col, 1, 1) ||
		b.diagonal(disc, row, col, -1, 1)
}

func (b *Board) horizontal(disc Cell, row int) bool {
	for start := 0; start+ToWin <= Cols; start++ {
		if b.run(disc, row, start, 0, 1) {
			return true
		}
	}
	return false
}

func (b *Board) vertical(disc Cell, col int) bool {
	for start := 0; start+ToWin <= Rows; start++ {
		if b.run(disc, start, col, 1, 0) {
			return true
		}
	}
	return false
}

// diagonal slides every window of length ToWin along direction (dr, dc) that
// contains (row, col); windows leaving the board are skipped.
func (b *Board) diagonal(disc Cell, row, col, dr, dc int) bool {
	for back := 0; back < ToWin; back++ {
		startRow, startCol := row-back*dr, col-back*dc
		endRow, endCol := startRow+(ToWin-1)*dr, startCol+(ToWin-1)*dc
		if !inBounds(startRow, startCol) || !inBounds(endRow, endCol) {
			continue
		}
		if b.run(disc, startRow, startCol, dr, dc) {
			return true
		}
	}
	return false
}

func (b *Board) run(disc Cell, row, col, dr, dc int) bool {
	for i := 0; i < ToWin; i++ {
		if b[row+i*dr][col+i*dc] != disc {
			return false
		}
	}
	return true
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// String flattens the board row-major: '.' empty, '0' and '1' for the players.
func (b Board) String() string {
	out := make([]byte, 0, Cells)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			switch b[row][col] {
			case Player0Disc:
				out = append(out, '0')
			case Player1Disc:
				out = append(out, '1')
			default:
				out = append(out, '.')
			}
		}
	}
	return string(out)
}

func ParseBoard(s string) (Board, error) {
	var b Board
	if len(s) != Cells {
		return b, fmt.Errorf("board must have %d cells, got %d", Cells, len(s))
	}
	for i := 0; i < Cells; i++ {
		var c Cell
		switch s[i] {
		case '.':
			c = Empty
		case '0':
			c = Player0Disc
		case '1':
			c = Player1Disc
		default:
			return b, fmt.Errorf("invalid cell %q at %d", s[i], i)
		}
		b[i/Cols][i%Cols] = c
	}
	return b, nil
}

func (b Board) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Board) UnmarshalText(text []byte) error {
	parsed, err := ParseBoard(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
