package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_WritesJSONLinesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.log")
	logger, closer, err := Open(path, LevelDebug)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	logger.Info("started", "pid", 123)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"started"`)
	assert.Contains(t, string(data), `"ts":`)
	assert.NotContains(t, string(data), `"time":`)
}

func TestParseLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, ParseLevel("nonsense").String(), ParseLevel(LevelInfo).String())
}
