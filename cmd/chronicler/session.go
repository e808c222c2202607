package main

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/wrungel/sweep/internal/eventloop"
	"github.com/wrungel/sweep/internal/haystack"
	pickerpkg "github.com/wrungel/sweep/internal/picker"
	"github.com/wrungel/sweep/internal/ranker"
)

// itemText concatenates an item's Target fields, the raw text the
// selection record's value carries.
func itemText(item haystack.Item) string {
	var b strings.Builder
	for _, f := range item.Target {
		b.WriteString(f.Text)
	}
	return b.String()
}

// runPicker opens a full-screen picker over items, seeded with query, and
// blocks until the user selects an entry or quits. It always drives the
// TUI over /dev/tty since chronicler's own stdout is reserved for the
// selection record chronicler prints on exit.
func runPicker(title string, items []haystack.Item, query string) (haystack.Item, bool, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return haystack.Item{}, false, pickerpkg.ErrNoTTY
	}
	defer tty.Close()
	termenv.SetDefaultOutput(termenv.NewOutput(tty))

	hs := haystack.New(64)
	rk := ranker.New(hs)
	defer rk.Stop()

	ps := pickerpkg.NewPickerState(hs, rk)
	ps.ItemsExtend(items)
	if query != "" {
		ps.QuerySet(query)
	}

	model := pickerpkg.NewModel(ps, title, true)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithInput(tty), tea.WithOutput(tty))

	loop := eventloop.New(ps, program, nil)
	if err := loop.Run(); err != nil {
		return haystack.Item{}, false, err
	}

	if !model.Selected() {
		return haystack.Item{}, false, nil
	}
	item, ok := loop.Selected()
	return item, ok, nil
}
