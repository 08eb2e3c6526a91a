package hub

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/defford/Epic/internal/game"
	"github.com/defford/Epic/internal/player"
	"github.com/defford/Epic/internal/protocol"
)

const (
	msgSearching  = "Searching for opponent..."
	msgTablesFull = "All tables are busy, waiting for a free one..."
)

// Lock order: Hub.mu before Match.Mu, and Hub.mu is never held while
// waiting on the lock of a match that may be mid-send. Only tables created
// in the same critical section are locked under Hub.mu.

// table is a live match and the two players seated at it, indexed by
// player number - 1. closed flips once; whoever flips it owns the teardown
// notification.
type table struct {
	match   *game.Match
	players [game.MAX_PLAYERS]*player.Player
	closed  atomic.Bool
	log     *zap.Logger
}

type seat struct {
	table  *table
	number game.Player
}

// Hub is the session registry: it pairs players through the matchmaker,
// routes actions to their match, and fans snapshots out to both seats.
type Hub struct {
	mu          sync.RWMutex
	sessions    map[string]seat
	games       map[string]*table
	queue       *Matchmaker
	maxGames    int
	idleTimeout time.Duration
	log         *zap.Logger
}

func NewHub(maxGames int, idleTimeout time.Duration, log *zap.Logger) *Hub {
	return &Hub{
		sessions:    make(map[string]seat),
		games:       make(map[string]*table),
		queue:       NewMatchmaker(),
		maxGames:    maxGames,
		idleTimeout: idleTimeout,
		log:         log,
	}
}

// Search queues p or pairs it with the longest-waiting player.
func (h *Hub) Search(p *player.Player) {
	h.mu.Lock()
	if s, ok := h.sessions[p.ID]; ok {
		if !s.table.closed.Load() {
			h.mu.Unlock()
			p.Log.Debug("search ignored, already in a match")
			return
		}
		// The match just ended and has not been released yet.
		h.detachLocked(s.table)
	}

	if len(h.games) >= h.maxGames {
		h.queue.Enqueue(p)
		h.mu.Unlock()
		h.send(p, protocol.NewMatching(msgTablesFull))
		return
	}

	opponent, paired := h.queue.EnqueueOrPair(p)
	if !paired {
		h.mu.Unlock()
		h.send(p, protocol.NewMatching(msgSearching))
		return
	}

	opened := h.lockOpened([]*table{h.openTableLocked(opponent, p)})
	h.mu.Unlock()
	h.announceAll(opened)
}

// Cancel withdraws p from the queue. It is a no-op if p is not queued.
func (h *Hub) Cancel(p *player.Player) {
	h.mu.Lock()
	withdrawn := h.queue.Withdraw(p.ID)
	h.mu.Unlock()
	if withdrawn {
		p.Log.Info("search cancelled")
	}
}

// HandleAction routes action to p's match. Illegal and unroutable actions
// are dropped without a reply.
func (h *Hub) HandleAction(p *player.Player, action game.Action) {
	h.mu.RLock()
	s, ok := h.sessions[p.ID]
	h.mu.RUnlock()
	if !ok {
		p.Log.Debug("action dropped, not in a match", zap.String("action", string(action.Kind())))
		return
	}

	t := s.table
	t.match.Mu.Lock()
	if t.closed.Load() {
		t.match.Mu.Unlock()
		return
	}

	snap, err := t.match.Apply(s.number, action)
	switch {
	case err == nil:
		t.broadcast(snap)
		if !snap.Over() {
			t.match.Mu.Unlock()
			return
		}
		if t.closed.CompareAndSwap(false, true) {
			t.log.Info("match won",
				zap.Int("winner", int(snap.Winner)),
				zap.Int("turn", snap.TurnCount),
				zap.Duration("age", t.match.Age()))
		}
	case errors.Is(err, game.ErrConsistency):
		if t.closed.CompareAndSwap(false, true) {
			t.log.Error("tearing down match", zap.Error(err))
			t.notifyLocked(nil)
		}
	default:
		t.match.Mu.Unlock()
		p.Log.Debug("action rejected", zap.Int("player", int(s.number)), zap.Error(err))
		return
	}
	t.match.Mu.Unlock()
	h.release(t)
}

// Disconnect cleans up after p whatever state it was in. Safe to call more
// than once.
func (h *Hub) Disconnect(p *player.Player) {
	h.mu.Lock()
	h.queue.Withdraw(p.ID)
	s, seated := h.sessions[p.ID]
	wasOpen := false
	if seated {
		wasOpen = s.table.closed.CompareAndSwap(false, true)
		h.detachLocked(s.table)
	}
	opened := h.lockOpened(h.pairWaitingLocked())
	h.mu.Unlock()

	h.announceAll(opened)
	if wasOpen {
		s.table.log.Info("player disconnected", zap.Int("player", int(s.number)))
		s.table.notifyDisconnected(p)
	}
}

func (h *Hub) MaintainGames(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.CleanupExpiredGames()
		}
	}
}

// CleanupExpiredGames tears down matches that have been idle for longer
// than the idle timeout. Both players are told their opponent is gone.
func (h *Hub) CleanupExpiredGames() int {
	h.mu.RLock()
	live := make([]*table, 0, len(h.games))
	for _, t := range h.games {
		live = append(live, t)
	}
	h.mu.RUnlock()

	var expired []*table
	for _, t := range live {
		if t.idle(h.idleTimeout) && t.closed.CompareAndSwap(false, true) {
			expired = append(expired, t)
		}
	}
	if len(expired) == 0 {
		return 0
	}

	h.mu.Lock()
	for _, t := range expired {
		h.detachLocked(t)
	}
	opened := h.lockOpened(h.pairWaitingLocked())
	h.mu.Unlock()

	h.announceAll(opened)
	for _, t := range expired {
		t.log.Info("idle match expired")
		t.notifyDisconnected(nil)
	}
	return len(expired)
}

// Stop tears down every match and empties the queue.
func (h *Hub) Stop() {
	h.mu.Lock()
	var open []*table
	for _, t := range h.games {
		if t.closed.CompareAndSwap(false, true) {
			open = append(open, t)
		}
	}
	h.games = make(map[string]*table)
	h.sessions = make(map[string]seat)
	h.queue.Drain()
	h.mu.Unlock()

	for _, t := range open {
		t.notifyDisconnected(nil)
	}
}

type Stats struct {
	Matches  int `json:"matches"`
	Queued   int `json:"queued"`
	Sessions int `json:"sessions"`
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		Matches:  len(h.games),
		Queued:   h.queue.Len(),
		Sessions: len(h.sessions),
	}
}

// release forgets a closed table and gives its capacity to waiting players.
func (h *Hub) release(t *table) {
	h.mu.Lock()
	h.detachLocked(t)
	opened := h.lockOpened(h.pairWaitingLocked())
	h.mu.Unlock()
	h.announceAll(opened)
}

// openTableLocked seats first as player 1 and second as player 2.
func (h *Hub) openTableLocked(first, second *player.Player) *table {
	id := "game-" + uuid.NewString()
	t := &table{
		match:   game.NewMatch(id),
		players: [game.MAX_PLAYERS]*player.Player{first, second},
		log:     h.log.With(zap.String("match_id", id)),
	}
	h.games[id] = t
	h.sessions[first.ID] = seat{table: t, number: game.Player1}
	h.sessions[second.ID] = seat{table: t, number: game.Player2}
	t.log.Info("match created",
		zap.String("player1", first.ID),
		zap.String("player2", second.ID),
		zap.Int("active_matches", len(h.games)))
	return t
}

// detachLocked is idempotent: sessions are only removed while they still
// point at t.
func (h *Hub) detachLocked(t *table) {
	for _, p := range t.players {
		if s, ok := h.sessions[p.ID]; ok && s.table == t {
			delete(h.sessions, p.ID)
		}
	}
	delete(h.games, t.match.ID)
}

func (h *Hub) pairWaitingLocked() []*table {
	var opened []*table
	for len(h.games) < h.maxGames {
		a, b, ok := h.queue.PopPair()
		if !ok {
			break
		}
		opened = append(opened, h.openTableLocked(a, b))
	}
	return opened
}

// lockOpened takes each new table's lock before Hub.mu is released so no
// action or disconnect can reach it before it is announced.
func (h *Hub) lockOpened(tables []*table) []*table {
	for _, t := range tables {
		t.match.Mu.Lock()
	}
	return tables
}

// announceAll announces and unlocks tables returned by lockOpened.
func (h *Hub) announceAll(tables []*table) {
	for _, t := range tables {
		ok := h.announce(t)
		t.match.Mu.Unlock()
		if !ok {
			h.release(t)
		}
	}
}

// announce sends MATCHED and the settled initial snapshot. Caller holds
// t.match.Mu. It reports false when the match faulted while settling.
func (h *Hub) announce(t *table) bool {
	for i, p := range t.players {
		h.send(p, protocol.NewMatched(t.match.ID, game.Player(i+1)))
	}
	if err := t.match.Settle(); err != nil {
		if t.closed.CompareAndSwap(false, true) {
			t.log.Error("tearing down match", zap.Error(err))
			t.notifyLocked(nil)
		}
		return false
	}
	t.broadcast(t.match.Snapshot())
	return true
}

func (h *Hub) send(p *player.Player, v interface{}) {
	if err := p.SendJSON(v); err != nil {
		p.Log.Warn("send failed", zap.Error(err))
	}
}

// broadcast sends snap to both seats, each tagged with its own number.
// Caller holds t.match.Mu.
func (t *table) broadcast(snap game.Snapshot) {
	for i, p := range t.players {
		if err := p.SendJSON(protocol.NewGameState(snap, game.Player(i+1))); err != nil {
			p.Log.Warn("send failed", zap.Error(err))
		}
	}
}

// idle reports whether t has gone without an accepted action for longer
// than timeout. A table whose lock is taken has an action or a send in
// flight and is not idle, so the sweep never waits on it.
func (t *table) idle(timeout time.Duration) bool {
	if !t.match.Mu.TryLock() {
		return false
	}
	defer t.match.Mu.Unlock()
	return t.match.IsExpired(timeout)
}

// notifyDisconnected waits for any in-flight snapshot so the terminal frame
// is always the last one a seat receives. Call it without Hub.mu.
func (t *table) notifyDisconnected(gone *player.Player) {
	t.match.Mu.Lock()
	defer t.match.Mu.Unlock()
	t.notifyLocked(gone)
}

// notifyLocked tells every seat except gone that the match is over.
func (t *table) notifyLocked(gone *player.Player) {
	for _, p := range t.players {
		if p == gone {
			continue
		}
		if err := p.SendJSON(protocol.NewOpponentDisconnected()); err != nil {
			p.Log.Warn("send failed", zap.Error(err))
		}
	}
}
