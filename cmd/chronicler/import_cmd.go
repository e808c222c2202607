package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wrungel/sweep/internal/config"
	"github.com/wrungel/sweep/internal/history"
	"github.com/wrungel/sweep/internal/store"
)

func newImportCommand() *cobra.Command {
	var shell, path string
	c := &cobra.Command{
		Use:   "import",
		Short: "backfill an existing shell history file into the store",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runImport(shell, path)
		},
	}
	c.Flags().StringVar(&shell, "shell", "auto", "bash, zsh, fish, or auto (detect from $SHELL)")
	c.Flags().StringVar(&path, "path", "", "history file path, overriding the shell's default location")
	return c
}

func runImport(shell, path string) error {
	entries, err := importEntries(shell, path)
	if err != nil {
		return fmt.Errorf("chronicler: reading %s history: %w", shell, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s, err := store.Open(cfg.Chronicler.ResolvedDBPath())
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, e := range entries {
		cmd := e.Command
		u := store.Update{Cmd: &cmd}
		if !e.Timestamp.IsZero() {
			ts := float64(e.Timestamp.Unix())
			u.StartTS, u.EndTS = &ts, &ts
		}
		if _, err := s.Update(ctx, u); err != nil {
			return fmt.Errorf("chronicler: importing %q: %w", e.Command, err)
		}
	}

	fmt.Printf("imported %d entries\n", len(entries))
	return nil
}

// importEntries resolves shell/path into concrete history entries, using
// history.ImportForShell's auto-detection when path is unset and
// history.ImportBashHistory/ImportZshHistory/ImportFishHistory directly
// when an explicit --path is given.
func importEntries(shell, path string) ([]history.ImportEntry, error) {
	if path == "" {
		return history.ImportForShell(shell)
	}
	switch shell {
	case "zsh":
		return history.ImportZshHistory(path)
	case "fish":
		return history.ImportFishHistory(path)
	default:
		return history.ImportBashHistory(path)
	}
}
