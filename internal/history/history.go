// Package history reads existing shell history files so their entries can be
// backfilled into Chronicler's store.
package history

import (
	"os"
	"path/filepath"
)

// zshHistoryPath returns the path to the zsh history file.
func zshHistoryPath() string {
	if histFile := os.Getenv("HISTFILE"); histFile != "" {
		return histFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".zsh_history")
}
