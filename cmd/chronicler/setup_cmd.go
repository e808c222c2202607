package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSetupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setup SHELL",
		Short: "print a shell hook that wires PROMPT_COMMAND to chronicler update",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSetup(args[0])
		},
	}
}

func runSetup(shell string) error {
	switch shell {
	case "bash":
		bin, err := os.Executable()
		if err != nil {
			bin = "chronicler"
		}
		fmt.Print(bashHook(bin))
		return nil
	default:
		return fmt.Errorf("chronicler: unsupported shell %q (only bash is supported)", shell)
	}
}

// bashHook wires the shell's DEBUG trap (fires before a command runs) and
// PROMPT_COMMAND (fires after) to two `chronicler update` invocations: one
// recording cmd/cwd/start_ts, the other status/end_ts against the row id
// the first call returned.
func bashHook(bin string) string {
	return `# chronicler bash hook
__chronicler_bin="` + bin + `"
__chronicler_preexec() {
    [ -n "$COMP_LINE" ] && return
    [ "$BASH_COMMAND" = "$PROMPT_COMMAND" ] && return
    __chronicler_id=$(
        printf 'cmd\n%s\x00cwd\n%s\x00hostname\n%s\x00user\n%s\x00start_ts\n%s\x00session\n%s' \
            "$BASH_COMMAND" "$PWD" "$HOSTNAME" "$USER" "$(date +%s.%N)" "$CHRONICLER_SESSION" \
        | "$__chronicler_bin" update
    )
}
__chronicler_postexec() {
    local status=$?
    if [ -n "$__chronicler_id" ]; then
        printf 'id\n%s\x00status\n%s\x00end_ts\n%s' \
            "$__chronicler_id" "$status" "$(date +%s.%N)" \
        | "$__chronicler_bin" update >/dev/null
        __chronicler_id=
    fi
    return $status
}
trap '__chronicler_preexec' DEBUG
PROMPT_COMMAND="__chronicler_postexec${PROMPT_COMMAND:+; $PROMPT_COMMAND}"
export CHRONICLER_SESSION="${CHRONICLER_SESSION:-$$}"
`
}
