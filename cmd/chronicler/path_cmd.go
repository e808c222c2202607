package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wrungel/sweep/internal/config"
	"github.com/wrungel/sweep/internal/histhaystack"
	"github.com/wrungel/sweep/internal/store"
)

func newPathCommand() *cobra.Command {
	var query string
	c := &cobra.Command{
		Use:   "path [PATH]",
		Short: "pick a previously visited directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var start string
			if len(args) == 1 {
				start = args[0]
			}
			return runPathPicker(start, query)
		},
	}
	c.Flags().StringVar(&query, "query", "", "initial query")
	return c
}

func runPathPicker(start, query string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Chronicler.ResolvedDBPath())
	if err != nil {
		return err
	}
	defer s.Close()

	cwd := start
	if cwd == "" {
		cwd, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	paths, err := s.PathCounts(ctx)
	if err != nil {
		return err
	}

	item, ok, err := runPicker(cfg.Chronicler.PathPickerTitle, histhaystack.FromPaths(cwd, paths), query)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	fmt.Print("cd=" + itemText(item))
	return nil
}
