package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defford/Epic/internal/player"
)

func TestEnqueueOrPair(t *testing.T) {
	m := NewMatchmaker()
	a, _ := newTestPlayer()
	b, _ := newTestPlayer()

	opp, paired := m.EnqueueOrPair(a)
	assert.False(t, paired)
	assert.Nil(t, opp)
	assert.Equal(t, 1, m.Len())

	// Searching twice does not pair a player with itself.
	_, paired = m.EnqueueOrPair(a)
	assert.False(t, paired)
	assert.Equal(t, 1, m.Len())

	opp, paired = m.EnqueueOrPair(b)
	require.True(t, paired)
	assert.Same(t, a, opp)
	assert.Equal(t, 0, m.Len())
}

func TestEnqueueAndPopPairAreFIFO(t *testing.T) {
	m := NewMatchmaker()
	a, _ := newTestPlayer()
	b, _ := newTestPlayer()
	c, _ := newTestPlayer()

	assert.True(t, m.Enqueue(a))
	assert.True(t, m.Enqueue(b))
	assert.False(t, m.Enqueue(a))
	assert.True(t, m.Enqueue(c))

	first, second, ok := m.PopPair()
	require.True(t, ok)
	assert.Same(t, a, first)
	assert.Same(t, b, second)

	_, _, ok = m.PopPair()
	assert.False(t, ok)
	assert.Equal(t, []*player.Player{c}, m.Drain())
}

func TestWithdraw(t *testing.T) {
	m := NewMatchmaker()
	a, _ := newTestPlayer()
	b, _ := newTestPlayer()
	m.Enqueue(a)
	m.Enqueue(b)

	assert.True(t, m.Withdraw(a.ID))
	assert.False(t, m.Withdraw(a.ID))
	assert.False(t, m.Withdraw("nobody"))
	assert.False(t, m.Enqueue(b))
	assert.Equal(t, 1, m.Len())

	drained := m.Drain()
	require.Len(t, drained, 1)
	assert.Same(t, b, drained[0])
	assert.Equal(t, 0, m.Len())
}
