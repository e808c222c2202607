package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wrungel/sweep/internal/config"
	"github.com/wrungel/sweep/internal/store"
)

func newUpdateCommand() *cobra.Command {
	var jsonMode, showDBPath bool
	c := &cobra.Command{
		Use:   "update",
		Short: "record or amend one history entry from stdin",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runUpdate(jsonMode, showDBPath)
		},
	}
	c.Flags().BoolVar(&jsonMode, "json", false, "stdin carries a JSON object instead of key/value records")
	c.Flags().BoolVar(&showDBPath, "show-db-path", false, "print the resolved database path and exit without reading stdin")
	return c
}

func runUpdate(jsonMode, showDBPath bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dbPath := cfg.Chronicler.ResolvedDBPath()

	if showDBPath {
		fmt.Print(dbPath)
		return nil
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("chronicler: reading update from stdin: %w", err)
	}

	var u store.Update
	if jsonMode {
		if err := json.Unmarshal(raw, &u); err != nil {
			return fmt.Errorf("chronicler: parsing --json update: %w", err)
		}
	} else {
		u, err = store.ParseUpdateRecord(string(raw))
		if err != nil {
			return err
		}
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	id, err := s.Update(ctx, u)
	if err != nil {
		return err
	}
	fmt.Print(id)
	return nil
}
