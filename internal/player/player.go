package player

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("player connection closed")

// Conn is the write side of a websocket. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Player is one connected peer. Its ID is the connection identity the hub
// routes by; it carries no match state of its own.
type Player struct {
	ID          string
	Conn        Conn
	ConnectedAt time.Time
	Log         *zap.Logger

	writeWait time.Duration
	mu        sync.Mutex
	closed    bool
}

func New(conn Conn, writeWait time.Duration, log *zap.Logger) *Player {
	id := uuid.NewString()
	return &Player{
		ID:          id,
		Conn:        conn,
		ConnectedAt: time.Now(),
		Log:         log.With(zap.String("conn_id", id)),
		writeWait:   writeWait,
	}
}

// SendJSON writes one frame. Writes are serialized per player.
func (p *Player) SendJSON(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.writeWait > 0 {
		if err := p.Conn.SetWriteDeadline(time.Now().Add(p.writeWait)); err != nil {
			return err
		}
	}
	return p.Conn.WriteJSON(v)
}

func (p *Player) Ping() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return p.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(p.writeWait))
}

// Close is idempotent.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.Conn.Close()
}
