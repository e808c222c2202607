// Package histhaystack adapts chronicler's store rows into haystack.Items,
// grounded on the Haystack impls for HistoryEntry and PathItem in
// original_source/chronicler/src/history.rs and walk.rs: the command or
// path is the searchable Target field, and a preview region carries the
// detail the original rendered in its preview pane.
package histhaystack

import (
	"fmt"
	"time"

	"github.com/google/shlex"

	"github.com/wrungel/sweep/internal/haystack"
	"github.com/wrungel/sweep/internal/store"
)

// FromEntries converts history entries (already ordered by the caller) into
// haystack items ready for haystack.Extend. The store row id round-trips
// through Item.Payload so a selection can be traced back to its row.
func FromEntries(entries []store.Entry) []haystack.Item {
	items := make([]haystack.Item, len(entries))
	for i, e := range entries {
		right := fmt.Sprintf("%-16s %s", programName(e.Cmd), startTime(e.StartTS).Format("2006-01-02 15:04:05"))
		items[i] = haystack.Item{
			Target:  []haystack.Field{{Text: e.Cmd, Active: true}},
			Right:   []haystack.Field{{Text: right, Active: false}},
			Preview: []haystack.Field{{Text: entryPreview(e), Active: false}},
			Payload: []byte(fmt.Sprintf(`{"id":%d,"cwd":%q,"session":%q}`, e.ID, e.Cwd, e.Session)),
		}
	}
	return items
}

// FromPaths converts path-frequency rows into haystack items, current
// working directory first when provided.
func FromPaths(cwd string, paths []store.PathCount) []haystack.Item {
	items := make([]haystack.Item, 0, len(paths)+1)
	if cwd != "" {
		items = append(items, haystack.Item{Target: []haystack.Field{{Text: cwd, Active: true}}})
	}
	for _, p := range paths {
		if p.Path == cwd {
			continue
		}
		items = append(items, haystack.Item{
			Target: []haystack.Field{{Text: p.Path, Active: true}},
			Right:  []haystack.Field{{Text: fmt.Sprintf("%d", p.Count), Active: false}},
		})
	}
	return items
}

// programName extracts the base command word from a recorded shell
// command line for display, tolerating quoting the way a shell would.
// Falls back to the raw command on unbalanced quotes.
func programName(cmd string) string {
	tokens, err := shlex.Split(cmd)
	if err != nil || len(tokens) == 0 {
		return cmd
	}
	return tokens[0]
}

func startTime(ts float64) time.Time {
	return time.Unix(int64(ts), int64((ts-float64(int64(ts)))*1e9))
}

func entryPreview(e store.Entry) string {
	return fmt.Sprintf(
		"status   : %d\ndate     : %s\nduration : %.3fs\ncwd      : %s\nuser     : %s\nhostname : %s",
		e.Status, startTime(e.StartTS).Format("2006-01-02 15:04:05.000"), e.Duration().Seconds(), e.Cwd, e.User, e.Hostname,
	)
}
