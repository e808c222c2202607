package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTheme_Empty(t *testing.T) {
	theme, err := ParseTheme("")
	require.NoError(t, err)
	assert.NotEmpty(t, theme.FG)
}

func TestParseTheme_ParsesAllThreePrimaries(t *testing.T) {
	theme, err := ParseTheme("fg=#eeeeee,bg=#111111,accent=#ff8800")
	require.NoError(t, err)
	assert.EqualValues(t, "#eeeeee", theme.FG)
	assert.EqualValues(t, "#111111", theme.BG)
	assert.EqualValues(t, "#ff8800", theme.Accent)
}

func TestParseTheme_RejectsUnknownAttribute(t *testing.T) {
	_, err := ParseTheme("weird=#ffffff")
	assert.Error(t, err)
}

func TestParseTheme_RejectsNonHexColor(t *testing.T) {
	_, err := ParseTheme("fg=red")
	assert.Error(t, err)
}
