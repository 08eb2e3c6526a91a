package hub

import (
	"slices"
	"sync"

	"github.com/defford/Epic/internal/player"
)

// Matchmaker is a FIFO of players waiting for an opponent.
type Matchmaker struct {
	mu    sync.Mutex
	queue []*player.Player
}

func NewMatchmaker() *Matchmaker {
	return &Matchmaker{}
}

// EnqueueOrPair queues p when nobody is waiting, otherwise pops the player
// who has waited longest and returns them as p's opponent. A player already
// in the queue stays where they are.
func (m *Matchmaker) EnqueueOrPair(p *player.Player) (*player.Player, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(p.ID) >= 0 {
		return nil, false
	}
	if len(m.queue) == 0 {
		m.queue = append(m.queue, p)
		return nil, false
	}
	head := m.queue[0]
	m.queue = m.queue[1:]
	return head, true
}

// Enqueue appends p without pairing. It reports false if p was already queued.
func (m *Matchmaker) Enqueue(p *player.Player) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(p.ID) >= 0 {
		return false
	}
	m.queue = append(m.queue, p)
	return true
}

// PopPair removes the two longest-waiting players.
func (m *Matchmaker) PopPair() (*player.Player, *player.Player, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) < 2 {
		return nil, nil, false
	}
	a, b := m.queue[0], m.queue[1]
	m.queue = m.queue[2:]
	return a, b, true
}

// Withdraw removes the player with the given id. Absent ids are a no-op.
func (m *Matchmaker) Withdraw(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return false
	}
	m.queue = slices.Delete(m.queue, i, i+1)
	return true
}

func (m *Matchmaker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Drain empties the queue and returns whoever was waiting.
func (m *Matchmaker) Drain() []*player.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.queue
	m.queue = nil
	return out
}

func (m *Matchmaker) indexLocked(id string) int {
	return slices.IndexFunc(m.queue, func(q *player.Player) bool { return q.ID == id })
}
