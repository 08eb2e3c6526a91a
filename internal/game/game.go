package game

import (
	"fmt"
	"sync"
	"time"
)

// maxSkips bounds the settle loop. Each player can be skipped at most once
// for exhaustion and once for having nothing to do before the board repeats.
const maxSkips = 2 * MAX_PLAYERS

// Match owns the state of one game. Callers hold Mu around Apply and whatever
// they do with the returned snapshot so that snapshots leave in order.
type Match struct {
	ID string
	Mu sync.Mutex

	board     Board
	active    Player
	turnCount int
	winner    Player
	exhausted [MAX_PLAYERS]bool

	createdAt    time.Time
	lastActionAt time.Time
	now          func() time.Time
}

func NewMatch(id string) *Match {
	return newMatch(id, NewBoard(), time.Now)
}

func newMatch(id string, board Board, now func() time.Time) *Match {
	t := now()
	return &Match{
		ID:           id,
		board:        board,
		active:       Player1,
		turnCount:    1,
		createdAt:    t,
		lastActionAt: t,
		now:          now,
	}
}

func (m *Match) Snapshot() Snapshot {
	return Snapshot{
		MatchID:   m.ID,
		Board:     m.board,
		Active:    m.active,
		TurnCount: m.turnCount,
		Winner:    m.winner,
		Exhausted: m.exhausted,
	}
}

func (m *Match) Age() time.Duration {
	return m.now().Sub(m.createdAt)
}

// IsExpired reports whether no action has been accepted for longer than idle.
func (m *Match) IsExpired(idle time.Duration) bool {
	return m.now().Sub(m.lastActionAt) > idle
}

// Apply validates action for actor and, if legal, applies it and settles the
// turn. Rejections wrap ErrIllegalAction and leave the match unchanged.
// ErrConsistency is fatal for the match.
func (m *Match) Apply(actor Player, action Action) (Snapshot, error) {
	if m.winner != NoPlayer {
		return Snapshot{}, ErrMatchOver
	}
	if actor != m.active {
		return Snapshot{}, ErrNotYourTurn
	}
	if m.exhausted[actor-1] {
		return Snapshot{}, ErrExhausted
	}

	hero, ok := HeroPosition(&m.board, actor)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: hero of player %d is missing", ErrConsistency, actor)
	}

	next := m.board
	switch a := action.(type) {
	case Move:
		if a.From != hero || !IsValidMove(&next, a.From, a.To, actor) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrIllegalAction, a)
		}
		next[a.From.Y][a.From.X].Hero = NoPlayer
		next[a.To.Y][a.To.X].Hero = actor
	case Build:
		if !IsValidBuild(&next, hero, a.Position) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrIllegalAction, a)
		}
		next[a.Position.Y][a.Position.X].Camp = actor
	case Destroy:
		if !IsValidDestroy(&next, hero, a.Position, actor) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrIllegalAction, a)
		}
		next[a.Position.Y][a.Position.X].Camp = NoPlayer
	default:
		return Snapshot{}, fmt.Errorf("%w: unknown action %T", ErrIllegalAction, action)
	}

	if err := checkHeroes(&next); err != nil {
		return Snapshot{}, err
	}
	m.board = next
	m.lastActionAt = m.now()

	switch a := action.(type) {
	case Move:
		enemy, _ := HeroPosition(&m.board, actor.Opponent())
		if IsWinningAdjacency(a.To, enemy) {
			m.winner = actor
			return m.Snapshot(), nil
		}
	case Build:
		// Takes effect on the builder's next turn, not this one.
		m.exhausted[actor-1] = true
	}

	if err := m.advance(); err != nil {
		return Snapshot{}, err
	}
	return m.Snapshot(), nil
}

func (m *Match) advance() error {
	m.active = m.active.Opponent()
	m.turnCount++
	return m.Settle()
}

// Settle skips turns until the active player is neither exhausted nor stuck
// without a legal action. It is a no-op on a settled match.
func (m *Match) Settle() error {
	if m.winner != NoPlayer {
		return nil
	}
	for skips := 0; ; skips++ {
		p := m.active
		switch {
		case m.exhausted[p-1]:
			m.exhausted[p-1] = false
		case !HasAnyLegalAction(&m.board, p):
		default:
			return nil
		}
		if skips == maxSkips {
			return fmt.Errorf("%w: turn skip cascade exceeded %d steps", ErrConsistency, maxSkips)
		}
		m.active = p.Opponent()
		m.turnCount++
	}
}

func checkHeroes(b *Board) error {
	for _, p := range []Player{Player1, Player2} {
		if n := heroCount(b, p); n != 1 {
			return fmt.Errorf("%w: player %d has %d heroes", ErrConsistency, p, n)
		}
	}
	return nil
}
