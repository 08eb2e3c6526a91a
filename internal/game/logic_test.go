package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(x, y int) Position { return Position{X: x, Y: y} }

func TestNewBoard(t *testing.T) {
	b := NewBoard()

	p1, ok := HeroPosition(&b, Player1)
	require.True(t, ok)
	assert.Equal(t, pos(0, 0), p1)
	assert.Equal(t, Player1, b.At(p1).Camp)

	p2, ok := HeroPosition(&b, Player2)
	require.True(t, ok)
	assert.Equal(t, pos(7, 7), p2)
	assert.Equal(t, Player2, b.At(p2).Camp)

	require.NoError(t, checkHeroes(&b))
}

func TestIsAdjacent(t *testing.T) {
	tests := []struct {
		name string
		a, b Position
		want bool
	}{
		{"same cell", pos(3, 3), pos(3, 3), false},
		{"orthogonal", pos(3, 3), pos(3, 4), true},
		{"diagonal", pos(3, 3), pos(2, 2), true},
		{"two apart", pos(3, 3), pos(5, 3), false},
		{"knight jump", pos(3, 3), pos(4, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAdjacent(tt.a, tt.b))
			assert.Equal(t, tt.want, IsWinningAdjacency(tt.a, tt.b))
		})
	}
}

func TestIsConnectedToCamp(t *testing.T) {
	var b Board
	b[4][4].Camp = Player1
	b[0][7].Camp = Player2

	assert.True(t, IsConnectedToCamp(&b, pos(4, 4), Player1), "on own camp")
	assert.True(t, IsConnectedToCamp(&b, pos(5, 5), Player1), "diagonal neighbor")
	assert.False(t, IsConnectedToCamp(&b, pos(6, 6), Player1), "two away")
	assert.False(t, IsConnectedToCamp(&b, pos(4, 4), Player2), "enemy camp does not supply")
	assert.True(t, IsConnectedToCamp(&b, pos(7, 1), Player2), "edge cell")
}

func TestIsValidMove(t *testing.T) {
	b := NewBoard()

	assert.True(t, IsValidMove(&b, pos(0, 0), pos(1, 1), Player1))
	assert.True(t, IsValidMove(&b, pos(0, 0), pos(1, 0), Player1))
	assert.False(t, IsValidMove(&b, pos(0, 0), pos(2, 2), Player1), "two squares")
	assert.False(t, IsValidMove(&b, pos(0, 0), pos(-1, 0), Player1), "off board")

	b[1][1].Camp = Player1
	assert.False(t, IsValidMove(&b, pos(0, 0), pos(1, 1), Player1), "own camp blocks")
	b[1][1].Camp = Player2
	assert.False(t, IsValidMove(&b, pos(0, 0), pos(1, 1), Player1), "enemy camp blocks")

	// Hero away from every friendly camp cannot move at all.
	var lone Board
	lone[3][3].Hero = Player1
	for _, n := range neighbors(pos(3, 3)) {
		assert.False(t, IsValidMove(&lone, pos(3, 3), n, Player1))
	}
}

func TestIsValidMoveNeverOntoCamp(t *testing.T) {
	for _, owner := range []Player{Player1, Player2} {
		for y := 0; y < GRID_SIZE; y++ {
			for x := 0; x < GRID_SIZE; x++ {
				b := NewBoard()
				to := pos(x, y)
				b[y][x].Camp = owner
				assert.False(t, IsValidMove(&b, pos(0, 0), to, Player1), "camp of %d at %v", owner, to)
			}
		}
	}
}

func TestIsValidBuild(t *testing.T) {
	b := NewBoard()

	assert.True(t, IsValidBuild(&b, pos(0, 0), pos(1, 1)))
	assert.False(t, IsValidBuild(&b, pos(0, 0), pos(0, 0)), "own square")
	assert.False(t, IsValidBuild(&b, pos(0, 0), pos(2, 0)), "not adjacent")

	b[1][0].Camp = Player2
	assert.False(t, IsValidBuild(&b, pos(0, 0), pos(0, 1)), "camp present")

	b[0][1].Hero = Player2
	assert.False(t, IsValidBuild(&b, pos(0, 0), pos(1, 0)), "hero present")
}

func TestIsValidDestroy(t *testing.T) {
	var b Board
	b[6][6].Hero = Player1
	b[6][7].Camp = Player2
	b[5][6].Camp = Player1

	assert.True(t, IsValidDestroy(&b, pos(6, 6), pos(7, 6), Player1))
	assert.False(t, IsValidDestroy(&b, pos(6, 6), pos(6, 5), Player1), "own camp")
	assert.False(t, IsValidDestroy(&b, pos(6, 6), pos(5, 5), Player1), "no camp")
	assert.False(t, IsValidDestroy(&b, pos(6, 4), pos(7, 6), Player1), "not adjacent")
}

func TestHasAnyLegalAction(t *testing.T) {
	b := NewBoard()
	assert.True(t, HasAnyLegalAction(&b, Player1))
	assert.True(t, HasAnyLegalAction(&b, Player2))

	// Boxed in by own camps: no move, no build, nothing to destroy.
	b[6][6].Camp = Player2
	b[6][7].Camp = Player2
	b[7][6].Camp = Player2
	assert.False(t, HasAnyLegalAction(&b, Player2))

	// An enemy camp in reach is something to destroy.
	b[6][6].Camp = Player1
	assert.True(t, HasAnyLegalAction(&b, Player2))

	var empty Board
	assert.False(t, HasAnyLegalAction(&empty, Player1), "no hero")
}
