package haystack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaystack_ExtendAssignsDenseIDs(t *testing.T) {
	h := New(4)
	h.Extend([]Item{
		{Target: []Field{{Text: "one", Active: true}}},
		{Target: []Field{{Text: "two", Active: true}}},
	})
	notice := <-h.Notices()
	assert.False(t, notice.Reset)
	assert.Equal(t, 0, notice.Lo)
	assert.Equal(t, 2, notice.Hi)

	items := h.Snapshot(0, 0)
	require.Len(t, items, 2)
	assert.Equal(t, uint64(0), items[0].ID)
	assert.Equal(t, uint64(1), items[1].ID)
}

func TestHaystack_ClearResetsIDCounter(t *testing.T) {
	h := New(4)
	h.Extend([]Item{{Target: []Field{{Text: "a", Active: true}}}})
	<-h.Notices()

	h.Clear()
	notice := <-h.Notices()
	assert.True(t, notice.Reset)
	assert.Equal(t, 0, h.Len())

	h.Extend([]Item{{Target: []Field{{Text: "b", Active: true}}}})
	<-h.Notices()
	items := h.Snapshot(0, 0)
	require.Len(t, items, 1)
	assert.Equal(t, uint64(0), items[0].ID)
}

func TestHaystack_SnapshotIsACopy(t *testing.T) {
	h := New(4)
	h.Extend([]Item{{Target: []Field{{Text: "a", Active: true}}}})
	<-h.Notices()

	snap := h.Snapshot(0, 0)
	snap[0].Target[0].Text = "mutated"

	original := h.Snapshot(0, 0)
	assert.Equal(t, "a", original[0].Target[0].Text)
}

func TestRegistry_ResolveInheritsUnsetAttrs(t *testing.T) {
	reg := NewRegistry()
	ref := reg.Register(Field{Glyph: "★", Style: "bold"})

	f := Field{Text: "x", Active: true, Ref: ref}
	resolved := f.Resolve(reg)
	assert.Equal(t, "★", resolved.Glyph)
	assert.Equal(t, "bold", resolved.Style)

	overridden := Field{Text: "y", Active: true, Ref: ref, Glyph: "●"}
	resolvedOverridden := overridden.Resolve(reg)
	assert.Equal(t, "●", resolvedOverridden.Glyph)
	assert.Equal(t, "bold", resolvedOverridden.Style)
}
