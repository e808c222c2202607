package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the three primary colors a --theme spec sets; ApplyTheme
// assigns them to the package-level styles.
type Theme struct {
	FG     lipgloss.Color
	BG     lipgloss.Color
	Accent lipgloss.Color
}

// ParseTheme parses a comma-separated attribute list of the form
// "fg=#rrggbb,bg=#rrggbb,accent=#rrggbb".
// Unset attributes keep the built-in defaults.
func ParseTheme(spec string) (Theme, error) {
	theme := Theme{FG: rowStyle.GetForeground().(lipgloss.Color), BG: lipgloss.Color(""), Accent: promptStyle.GetForeground().(lipgloss.Color)}
	if spec == "" {
		return theme, nil
	}
	for _, attr := range strings.Split(spec, ",") {
		attr = strings.TrimSpace(attr)
		if attr == "" {
			continue
		}
		key, val, ok := strings.Cut(attr, "=")
		if !ok {
			return Theme{}, fmt.Errorf("picker: bad theme attribute %q, want key=value", attr)
		}
		if !strings.HasPrefix(val, "#") {
			return Theme{}, fmt.Errorf("picker: bad theme color %q, want #rrggbb[aa]", val)
		}
		switch key {
		case "fg":
			theme.FG = lipgloss.Color(val)
		case "bg":
			theme.BG = lipgloss.Color(val)
		case "accent":
			theme.Accent = lipgloss.Color(val)
		default:
			return Theme{}, fmt.Errorf("picker: unknown theme attribute %q", key)
		}
	}
	return theme, nil
}

// ApplyTheme rebinds the package-level render styles to the theme's three
// colors: Accent for the prompt text and cursor-row background, FG for rows
// and the query, and BG (when set) for the cursor-row text. No other colors
// are derived from them.
func ApplyTheme(t Theme) {
	promptStyle = promptStyle.Foreground(t.Accent)
	cursorStyle = cursorStyle.Background(t.Accent)
	rowStyle = rowStyle.Foreground(t.FG)
	queryStyle = queryStyle.Foreground(t.FG)
	if t.BG != lipgloss.Color("") {
		cursorStyle = cursorStyle.Foreground(t.BG)
	}
}
