package game

const (
	GRID_SIZE   = 8
	MAX_PLAYERS = 2
)

// Player identifies a side of the match. The zero value means "nobody".
type Player int

const (
	NoPlayer Player = 0
	Player1  Player = 1
	Player2  Player = 2
)

func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}

// Opponent returns the other side. NoPlayer has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return NoPlayer
}

type Position struct {
	X int
	Y int
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < GRID_SIZE && p.Y >= 0 && p.Y < GRID_SIZE
}

// Cell holds at most one camp owner and at most one hero owner.
type Cell struct {
	Camp Player
	Hero Player
}

// Board is indexed [y][x]. It is a value type: copies are independent.
type Board [GRID_SIZE][GRID_SIZE]Cell

func (b *Board) At(p Position) Cell {
	return b[p.Y][p.X]
}

// NewBoard places each hero on its own base camp at opposite corners.
func NewBoard() Board {
	var b Board
	b[0][0] = Cell{Camp: Player1, Hero: Player1}
	b[GRID_SIZE-1][GRID_SIZE-1] = Cell{Camp: Player2, Hero: Player2}
	return b
}

// Snapshot is an immutable copy of a match at a settled point.
type Snapshot struct {
	MatchID   string
	Board     Board
	Active    Player
	TurnCount int
	Winner    Player
	Exhausted [MAX_PLAYERS]bool
}

// IsExhausted reports whether p must skip their next turn.
func (s Snapshot) IsExhausted(p Player) bool {
	if !p.Valid() {
		return false
	}
	return s.Exhausted[p-1]
}

func (s Snapshot) Over() bool {
	return s.Winner != NoPlayer
}
