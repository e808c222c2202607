// Command chronicler is the shell/directory history recorder: it records
// one row per executed command via its shell hook (`update`), and opens
// the picker over recorded commands (`cmd`) or visited directories
// (`path`) for interactive recall.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "chronicler:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "chronicler",
		Short:        "shell command and directory history recorder",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newCmdCommand())
	root.AddCommand(newPathCommand())
	root.AddCommand(newUpdateCommand())
	root.AddCommand(newSetupCommand())
	root.AddCommand(newImportCommand())
	return root
}
