package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wrungel/sweep/internal/config"
	"github.com/wrungel/sweep/internal/histhaystack"
	"github.com/wrungel/sweep/internal/store"
)

func newCmdCommand() *cobra.Command {
	var query string
	c := &cobra.Command{
		Use:   "cmd",
		Short: "pick a previously run command",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCmdPicker(query)
		},
	}
	c.Flags().StringVar(&query, "query", "", "initial query")
	return c
}

func runCmdPicker(query string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Chronicler.ResolvedDBPath())
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entries, err := s.EntriesUniqueCmd(ctx)
	if err != nil {
		return err
	}

	item, ok, err := runPicker(cfg.Chronicler.CmdPickerTitle, histhaystack.FromEntries(entries), query)
	if err != nil {
		return err
	}
	if !ok {
		return nil // user cancelled: nothing to print
	}
	fmt.Print("cmd=" + itemText(item))
	return nil
}
