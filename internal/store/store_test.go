package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func TestStore_InsertThenList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Update(ctx, Update{
		Cmd: ptr("ls -la"), Status: ptr(int64(0)), Cwd: ptr("/home/user"),
		Hostname: ptr("box"), User: ptr("user"),
		StartTS: ptr(1000.0), EndTS: ptr(1001.5), Session: ptr("sess-1"),
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ls -la", entries[0].Cmd)
	assert.InDelta(t, 1.5, entries[0].Duration().Seconds(), 0.001)
}

func TestStore_UpdateMergesPartialFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Update(ctx, Update{Cmd: ptr("build"), StartTS: ptr(10.0)})
	require.NoError(t, err)

	_, err = s.Update(ctx, Update{ID: &id, Status: ptr(int64(1)), EndTS: ptr(20.0)})
	require.NoError(t, err)

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "build", entries[0].Cmd)
	assert.Equal(t, int64(1), entries[0].Status)
	assert.Equal(t, 20.0, entries[0].EndTS)
}

func TestStore_EntriesUniqueCmdKeepsMostRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, Update{Cmd: ptr("git status"), StartTS: ptr(1.0), EndTS: ptr(1.0), Cwd: ptr("/a")})
	require.NoError(t, err)
	_, err = s.Update(ctx, Update{Cmd: ptr("git status"), StartTS: ptr(5.0), EndTS: ptr(5.0), Cwd: ptr("/b")})
	require.NoError(t, err)
	_, err = s.Update(ctx, Update{Cmd: ptr("git log"), StartTS: ptr(2.0), EndTS: ptr(2.0), Cwd: ptr("/a")})
	require.NoError(t, err)

	entries, err := s.EntriesUniqueCmd(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "git status", entries[0].Cmd)
	assert.Equal(t, "/b", entries[0].Cwd)
}

func TestStore_PathCountsOrderedByFrequency(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Update(ctx, Update{Cmd: ptr("x"), Cwd: ptr("/frequent"), StartTS: ptr(float64(i)), EndTS: ptr(float64(i))})
		require.NoError(t, err)
	}
	_, err := s.Update(ctx, Update{Cmd: ptr("y"), Cwd: ptr("/rare"), StartTS: ptr(9.0), EndTS: ptr(9.0)})
	require.NoError(t, err)

	counts, err := s.PathCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "/frequent", counts[0].Path)
	assert.Equal(t, int64(3), counts[0].Count)
}

func TestParseUpdateRecord(t *testing.T) {
	rec := "cmd\nls -la\x00status\n0\x00cwd\n/home\x00session\nabc"
	u, err := ParseUpdateRecord(rec)
	require.NoError(t, err)
	require.NotNil(t, u.Cmd)
	assert.Equal(t, "ls -la", *u.Cmd)
	require.NotNil(t, u.Status)
	assert.Equal(t, int64(0), *u.Status)
	require.NotNil(t, u.Cwd)
	assert.Equal(t, "/home", *u.Cwd)
	require.NotNil(t, u.Session)
	assert.Equal(t, "abc", *u.Session)
}

func TestParseUpdateRecord_RejectsUnknownKey(t *testing.T) {
	_, err := ParseUpdateRecord("bogus\nvalue")
	assert.Error(t, err)
}
