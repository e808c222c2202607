package histhaystack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrungel/sweep/internal/store"
)

func TestFromEntries_CarriesCmdAsTarget(t *testing.T) {
	items := FromEntries([]store.Entry{
		{ID: 7, Cmd: "git status", Cwd: "/repo", Session: "s1", StartTS: 100, EndTS: 101},
	})
	require.Len(t, items, 1)
	assert.Equal(t, "git status", items[0].Target[0].Text)
	assert.Contains(t, string(items[0].Payload), `"id":7`)
	assert.Contains(t, string(items[0].Payload), `"cwd":"/repo"`)
	require.Len(t, items[0].Right, 1)
	assert.Contains(t, items[0].Right[0].Text, "git")
}

func TestProgramName_HandlesQuotingAndFallsBackOnUnbalancedQuotes(t *testing.T) {
	assert.Equal(t, "git", programName(`git commit -m "wip"`))
	assert.Equal(t, `echo "unterminated`, programName(`echo "unterminated`))
}

func TestFromPaths_PutsCwdFirstAndDropsDuplicate(t *testing.T) {
	items := FromPaths("/home/user", []store.PathCount{
		{Path: "/home/user", Count: 10},
		{Path: "/var/log", Count: 3},
	})
	require.Len(t, items, 2)
	assert.Equal(t, "/home/user", items[0].Target[0].Text)
	assert.Equal(t, "/var/log", items[1].Target[0].Text)
}

func TestFromPaths_NoCwdKeepsAllRows(t *testing.T) {
	items := FromPaths("", []store.PathCount{{Path: "/a", Count: 1}, {Path: "/b", Count: 2}})
	assert.Len(t, items, 2)
}
