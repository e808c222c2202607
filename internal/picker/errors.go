package picker

import "errors"

// ErrNoTTY is returned when a controlling terminal cannot be acquired for
// the interactive TUI.
var ErrNoTTY = errors.New("picker: cannot acquire controlling terminal")
