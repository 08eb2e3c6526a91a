package player

import (
	"errors"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingConn struct {
	frames    []interface{}
	controls  []int
	deadlines []time.Time
	closes    int
	writeErr  error
}

func (c *recordingConn) WriteJSON(v interface{}) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.frames = append(c.frames, v)
	return nil
}

func (c *recordingConn) SetWriteDeadline(t time.Time) error {
	c.deadlines = append(c.deadlines, t)
	return nil
}

func (c *recordingConn) WriteControl(messageType int, data []byte, deadline time.Time) error {
	c.controls = append(c.controls, messageType)
	return nil
}

func (c *recordingConn) Close() error {
	c.closes++
	return nil
}

func TestNewAssignsUniqueIDs(t *testing.T) {
	a := New(&recordingConn{}, time.Second, zap.NewNop())
	b := New(&recordingConn{}, time.Second, zap.NewNop())

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.ConnectedAt.IsZero())
}

func TestSendJSONSetsDeadline(t *testing.T) {
	conn := &recordingConn{}
	p := New(conn, 5*time.Second, zap.NewNop())

	require.NoError(t, p.SendJSON(map[string]string{"type": "MATCHING"}))
	require.Len(t, conn.frames, 1)
	require.Len(t, conn.deadlines, 1)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), conn.deadlines[0], time.Second)
}

func TestSendJSONPropagatesWriteError(t *testing.T) {
	boom := errors.New("broken pipe")
	p := New(&recordingConn{writeErr: boom}, time.Second, zap.NewNop())

	require.ErrorIs(t, p.SendJSON("x"), boom)
}

func TestCloseIsIdempotent(t *testing.T) {
	conn := &recordingConn{}
	p := New(conn, time.Second, zap.NewNop())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, conn.closes)

	require.ErrorIs(t, p.SendJSON("late"), ErrClosed)
	require.ErrorIs(t, p.Ping(), ErrClosed)
	assert.Empty(t, conn.frames)
}

func TestPing(t *testing.T) {
	conn := &recordingConn{}
	p := New(conn, time.Second, zap.NewNop())

	require.NoError(t, p.Ping())
	assert.Equal(t, []int{websocket.PingMessage}, conn.controls)
}
