package connectfour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct{ row, col int }

func boardWith(disc Cell, cells ...cell) Board {
	var b Board
	for _, c := range cells {
		b[c.row][c.col] = disc
	}
	return b
}

var winningLines = []struct {
	name  string
	cells []cell
}{
	{"horizontal", []cell{{5, 0}, {5, 1}, {5, 2}, {5, 3}}},
	{"horizontal right edge", []cell{{2, 3}, {2, 4}, {2, 5}, {2, 6}}},
	{"vertical", []cell{{5, 2}, {4, 2}, {3, 2}, {2, 2}}},
	{"vertical top", []cell{{3, 6}, {2, 6}, {1, 6}, {0, 6}}},
	{"diagonal down right", []cell{{2, 0}, {3, 1}, {4, 2}, {5, 3}}},
	{"diagonal up right", []cell{{5, 0}, {4, 1}, {3, 2}, {2, 3}}},
	{"diagonal up right corner", []cell{{3, 6}, {2, 5}, {1, 4}, {0, 3}}},
}

func TestBoardWinsFromEveryCellOfTheLine(t *testing.T) {
	for _, line := range winningLines {
		t.Run(line.name, func(t *testing.T) {
			for _, disc := range []Cell{Player0Disc, Player1Disc} {
				b := boardWith(disc, line.cells...)
				for _, placed := range line.cells {
					assert.True(t, b.Wins(placed.row, placed.col), "placed at %v", placed)
				}
			}
		})
	}
}

func TestBoardBrokenLineDoesNotWin(t *testing.T) {
	for _, line := range winningLines {
		t.Run(line.name, func(t *testing.T) {
			placed := line.cells[3]
			for i := range line.cells {
				for _, replacement := range []Cell{Empty, Player1Disc} {
					b := boardWith(Player0Disc, line.cells...)
					b[line.cells[i].row][line.cells[i].col] = replacement
					assert.False(t, b.Wins(placed.row, placed.col), "cell %d set to %d", i, replacement)
				}
			}
		})
	}
}

func TestBoardThreeInARowIsNotAWin(t *testing.T) {
	b := boardWith(Player0Disc, cell{5, 0}, cell{5, 1}, cell{5, 2})
	assert.False(t, b.Wins(5, 2))

	b = boardWith(Player0Disc, cell{5, 1}, cell{4, 2}, cell{3, 3})
	assert.False(t, b.Wins(3, 3))
}

func TestBoardWinIgnoresLinesAwayFromPlacedCell(t *testing.T) {
	b := boardWith(Player0Disc, cell{5, 0}, cell{5, 1}, cell{5, 2}, cell{5, 3}, cell{0, 6})
	assert.False(t, b.Wins(0, 6))
}

func TestBoardDiagonalDoesNotWrap(t *testing.T) {
	b := boardWith(Player0Disc, cell{2, 5}, cell{3, 6}, cell{4, 0}, cell{5, 1})
	assert.False(t, b.Wins(5, 1))
	assert.False(t, b.Wins(2, 5))
}

func TestBoardLandingRow(t *testing.T) {
	var b Board
	assert.Equal(t, 5, b.LandingRow(3))

	b[5][3] = Player0Disc
	b[4][3] = Player1Disc
	assert.Equal(t, 3, b.LandingRow(3))

	for row := 0; row < Rows; row++ {
		b[row][0] = Player1Disc
	}
	assert.Equal(t, -1, b.LandingRow(0))
}

func TestBoardFull(t *testing.T) {
	b, err := ParseBoard(drawBoard)
	require.NoError(t, err)
	assert.True(t, b.Full())

	b[0][0] = Empty
	assert.False(t, b.Full())
}

func TestBoardTextRoundTrip(t *testing.T) {
	b := boardWith(Player1Disc, cell{5, 6})
	b[5][0] = Player0Disc

	text := b.String()
	assert.Len(t, text, Cells)
	assert.Equal(t, "0.....1", text[35:])

	parsed, err := ParseBoard(text)
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = ParseBoard("..")
	assert.Error(t, err)
	_, err = ParseBoard(text[:41] + "x")
	assert.Error(t, err)
}
