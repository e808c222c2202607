package picker

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrungel/sweep/internal/haystack"
	"github.com/wrungel/sweep/internal/ranker"
)

func waitForRankerPublish(t *testing.T, r *ranker.Ranker) {
	t.Helper()
	select {
	case <-r.Published():
	case <-time.After(2 * time.Second):
		t.Fatal("ranker never published")
	}
}

func newTestModel(t *testing.T) (*Model, *haystack.Haystack, *ranker.Ranker) {
	t.Helper()
	hs := haystack.New(8)
	rk := ranker.New(hs)
	t.Cleanup(rk.Stop)
	ps := NewPickerState(hs, rk)
	return NewModel(ps, "sweep", false), hs, rk
}

func TestRenderRow_ResolvesFieldFromRegistry(t *testing.T) {
	reg := haystack.NewRegistry()
	ref := reg.Register(haystack.Field{Glyph: "\U0001f4c1", Style: "dir"})

	item := haystack.Item{Target: []haystack.Field{{Text: "src", Active: true, Ref: ref}}}
	row := renderRow(item, 40, reg)
	assert.Equal(t, "\U0001f4c1 src", row)
}

func TestRenderRow_UnresolvedRefRendersTextOnly(t *testing.T) {
	item := haystack.Item{Target: []haystack.Field{{Text: "src", Active: true, Ref: 99}}}
	row := renderRow(item, 40, haystack.NewRegistry())
	assert.Equal(t, "src", row)
}

func TestModel_PrintableRuneAppendsToQuery(t *testing.T) {
	m, hs, rk := newTestModel(t)
	hs.Extend([]haystack.Item{{Target: []haystack.Field{{Text: "abc", Active: true}}}})
	waitForRankerPublish(t, rk)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.Equal(t, "a", m.ps.QueryGet())
}

func TestModel_EnterSelectsAndQuits(t *testing.T) {
	m, hs, rk := newTestModel(t)
	hs.Extend([]haystack.Item{{Target: []haystack.Field{{Text: "abc", Active: true}}}})
	waitForRankerPublish(t, rk)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Selected())
}

func TestModel_EscQuitsCancelled(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.False(t, m.Selected())
	assert.True(t, m.cancelled)
}
