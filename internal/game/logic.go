package game

// Rule predicates over a board. None of them mutate the board.

var directions = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// neighbors returns the in-bounds 8-directional neighbors of p.
func neighbors(p Position) []Position {
	out := make([]Position, 0, len(directions))
	for _, d := range directions {
		n := Position{X: p.X + d[0], Y: p.Y + d[1]}
		if n.InBounds() {
			out = append(out, n)
		}
	}
	return out
}

// HeroPosition scans the board for player's hero.
func HeroPosition(b *Board, player Player) (Position, bool) {
	for y := 0; y < GRID_SIZE; y++ {
		for x := 0; x < GRID_SIZE; x++ {
			if b[y][x].Hero == player {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

func heroCount(b *Board, player Player) int {
	n := 0
	for y := range b {
		for x := range b[y] {
			if b[y][x].Hero == player {
				n++
			}
		}
	}
	return n
}

// IsAdjacent is Chebyshev distance exactly 1.
func IsAdjacent(a, b Position) bool {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	return dx <= 1 && dy <= 1 && !(dx == 0 && dy == 0)
}

// IsConnectedToCamp reports whether pos carries, or touches, a camp owned by player.
func IsConnectedToCamp(b *Board, pos Position, player Player) bool {
	if b.At(pos).Camp == player {
		return true
	}
	for _, n := range neighbors(pos) {
		if b.At(n).Camp == player {
			return true
		}
	}
	return false
}

// IsValidMove: one square, never onto a camp of any owner, and only while
// the hero at from is supplied by one of its own camps.
func IsValidMove(b *Board, from, to Position, player Player) bool {
	if !from.InBounds() || !to.InBounds() || !IsAdjacent(from, to) {
		return false
	}
	dst := b.At(to)
	if dst.Hero == player {
		return false
	}
	if dst.Camp != NoPlayer {
		return false
	}
	return IsConnectedToCamp(b, from, player)
}

// IsValidBuild requires an adjacent, fully empty target.
func IsValidBuild(b *Board, from, to Position) bool {
	if !from.InBounds() || !to.InBounds() || !IsAdjacent(from, to) {
		return false
	}
	dst := b.At(to)
	return dst.Camp == NoPlayer && dst.Hero == NoPlayer
}

// IsValidDestroy requires an adjacent camp owned by the opponent.
func IsValidDestroy(b *Board, from, to Position, player Player) bool {
	if !from.InBounds() || !to.InBounds() || !IsAdjacent(from, to) {
		return false
	}
	camp := b.At(to).Camp
	return camp != NoPlayer && camp != player
}

// HasAnyLegalAction checks every neighbor of player's hero for a move,
// build or destroy.
func HasAnyLegalAction(b *Board, player Player) bool {
	hero, ok := HeroPosition(b, player)
	if !ok {
		return false
	}
	for _, n := range neighbors(hero) {
		if IsValidMove(b, hero, n, player) ||
			IsValidBuild(b, hero, n) ||
			IsValidDestroy(b, hero, n, player) {
			return true
		}
	}
	return false
}

// IsWinningAdjacency: capture is hero-to-hero adjacency.
func IsWinningAdjacency(mine, enemy Position) bool {
	return IsAdjacent(mine, enemy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
