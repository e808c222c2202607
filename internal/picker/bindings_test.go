package picker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindings_SingleChordDispatches(t *testing.T) {
	b := NewBindings()
	tag, matched, pending := b.Feed("enter")
	require.True(t, matched)
	assert.False(t, pending)
	assert.Equal(t, ActionSelect, tag)
}

func TestBindings_UnknownChordIsNotPending(t *testing.T) {
	b := &Bindings{root: newBindingNode(), timeout: ChordTimeout}
	b.cur = b.root
	_, matched, pending := b.Feed("z")
	assert.False(t, matched)
	assert.False(t, pending)
}

func TestBindings_MultiChordSequence(t *testing.T) {
	b := &Bindings{root: newBindingNode(), timeout: ChordTimeout}
	b.cur = b.root
	require.NoError(t, b.Bind("ctrl+x ctrl+c", "open"))

	_, matched, pending := b.Feed("ctrl+x")
	assert.False(t, matched)
	assert.True(t, pending)

	tag, matched, pending := b.Feed("ctrl+c")
	assert.True(t, matched)
	assert.False(t, pending)
	assert.Equal(t, "open", tag)
}

func TestBindings_TimeoutResetsPendingPrefix(t *testing.T) {
	b := &Bindings{root: newBindingNode(), timeout: 10 * time.Millisecond}
	b.cur = b.root
	require.NoError(t, b.Bind("ctrl+x ctrl+c", "open"))

	_, _, pending := b.Feed("ctrl+x")
	require.True(t, pending)

	time.Sleep(30 * time.Millisecond)

	_, matched, pending := b.Feed("ctrl+c")
	assert.False(t, matched)
	assert.False(t, pending)
}

func TestBindings_UnbindRemovesLeaf(t *testing.T) {
	b := NewBindings()
	require.NoError(t, b.Bind("enter", ""))
	_, matched, _ := b.Feed("enter")
	assert.False(t, matched)
}
