// Command sweep is the interactive fuzzy-finder picker binary: it reads
// candidates from stdin (or --input), ranks them against an interactively
// edited query, and prints the selection to stdout on exit. With --rpc it
// additionally (or exclusively, in headless mode) exposes the picker over
// JSON-RPC.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/wrungel/sweep/internal/config"
	"github.com/wrungel/sweep/internal/eventloop"
	"github.com/wrungel/sweep/internal/haystack"
	"github.com/wrungel/sweep/internal/ipc"
	"github.com/wrungel/sweep/internal/logging"
	"github.com/wrungel/sweep/internal/picker"
	"github.com/wrungel/sweep/internal/ranker"
	"github.com/wrungel/sweep/internal/rpc"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK       = 0
	exitNoSelect = 1
	exitIOError  = 2
	exitTTYError = 3
)

type opts struct {
	height    int
	prompt    string
	query     string
	theme     string
	nth       string
	delimiter string
	keepOrder bool
	scorer    string
	rpc       bool
	tty       string
	noMatch   string
	title     string
	altScreen bool
	jsonMode  bool
	ioSocket  string
	input     string
	border    bool
	preview   bool
	logPath   string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	o := &opts{}
	code := exitOK
	root := &cobra.Command{
		Use:     "sweep",
		Short:   "interactive fuzzy finder",
		Version: version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := execute(o)
			code = c
			return err
		},
	}
	bindFlags(root, o)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sweep:", err)
		if code == exitOK {
			code = exitIOError
		}
	}
	return code
}

func bindFlags(cmd *cobra.Command, o *opts) {
	f := cmd.Flags()
	f.IntVar(&o.height, "height", 0, "rows requested from the terminal, 0 = fullscreen")
	f.StringVar(&o.prompt, "prompt", "", "prompt text")
	f.StringVar(&o.query, "query", "", "initial query")
	f.StringVar(&o.theme, "theme", "", "comma-separated fg/bg/accent theme spec")
	f.StringVar(&o.nth, "nth", "", "comma-separated field indices/ranges to search")
	f.StringVarP(&o.delimiter, "delimiter", "d", "", "field delimiter (default: whitespace runs)")
	f.BoolVar(&o.keepOrder, "keep-order", false, "preserve haystack insertion order")
	f.StringVar(&o.scorer, "scorer", "fuzzy", "fuzzy, substr, or keep_order")
	f.BoolVar(&o.rpc, "rpc", false, "expose the picker over JSON-RPC")
	f.StringVar(&o.tty, "tty", "/dev/tty", "controlling terminal path for the TUI")
	f.StringVar(&o.noMatch, "no-match", "nothing", "nothing, input, or a literal string")
	f.StringVar(&o.title, "title", "", "picker window title")
	f.BoolVar(&o.altScreen, "altscreen", false, "use the terminal alternate screen")
	f.BoolVar(&o.jsonMode, "json", false, "stdin/stdout carry Item JSON, one per line")
	f.StringVar(&o.ioSocket, "io-socket", "", "PATH or fd:N for the RPC transport")
	f.StringVar(&o.input, "input", "", "read candidates from this file instead of stdin")
	f.BoolVar(&o.border, "border", false, "draw a border around the picker")
	f.BoolVar(&o.preview, "preview", false, "show the preview pane initially")
	f.StringVar(&o.logPath, "log", "", "diagnostic log path (default: XDG cache dir)")
}

func execute(o *opts) (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return exitIOError, err
	}
	applyConfigDefaults(o, cfg)

	logger, closeLog, err := logging.Open(o.logPath, cfg.Log.Level)
	if err != nil {
		return exitIOError, fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()
	logger = logger.With("session", uuid.New().String())

	nth, err := parseNth(o.nth)
	if err != nil {
		return exitIOError, err
	}

	hs := haystack.New(64)
	rk := ranker.New(hs)
	defer rk.Stop()
	rk.SetScorer(o.scorer)
	if o.keepOrder {
		keep := true
		rk.SetKeepOrder(&keep)
	}

	ps := picker.NewPickerState(hs, rk)
	ps.PromptSet(o.prompt, "")
	ps.SetScorer(o.scorer)
	ps.SetKeepOrder(&o.keepOrder)
	if o.preview {
		show := true
		ps.PreviewSet(&show)
	}
	if o.query != "" {
		ps.QuerySet(o.query)
	}

	if !o.rpc {
		items, err := loadCandidates(o, nth)
		if err != nil {
			return exitIOError, err
		}
		ps.ItemsExtend(items)
	}

	var peer *rpc.Peer
	var conn io.Closer
	if o.rpc {
		peer, conn, err = buildPeer(o)
		if err != nil {
			return exitIOError, err
		}
		defer conn.Close()
	}

	var program *tea.Program
	var model *picker.Model
	tty, closeTTY, err := acquireTTY(o)
	if err != nil {
		if o.rpc {
			logger.Warn("running headless: no TTY available", "error", err)
		} else {
			return exitTTYError, fmt.Errorf("%w: %v", picker.ErrNoTTY, err)
		}
	}
	if tty != nil {
		defer closeTTY()
		if theme, terr := picker.ParseTheme(o.theme); terr == nil {
			picker.ApplyTheme(theme)
		} else {
			logger.Warn("ignoring invalid --theme", "error", terr)
		}
		termenv.SetDefaultOutput(termenv.NewOutput(tty))
		model = picker.NewModel(ps, o.title, o.border)
		var teaOpts []tea.ProgramOption
		teaOpts = append(teaOpts, tea.WithInput(tty), tea.WithOutput(tty))
		if o.altScreen {
			teaOpts = append(teaOpts, tea.WithAltScreen())
		}
		program = tea.NewProgram(model, teaOpts...)
	}

	loop := eventloop.New(ps, program, peer)
	if runErr := loop.Run(); runErr != nil {
		logger.Error("event loop exited with error", "error", runErr)
		return exitIOError, nil
	}

	return finish(o, model, loop)
}

func applyConfigDefaults(o *opts, cfg *config.Config) {
	if o.prompt == "" {
		o.prompt = cfg.Picker.Prompt
	}
	if o.theme == "" {
		o.theme = cfg.Picker.Theme
	}
	if o.scorer == "fuzzy" && cfg.Picker.Scorer != "" {
		o.scorer = cfg.Picker.Scorer
	}
	if !o.keepOrder {
		o.keepOrder = cfg.Picker.KeepOrder
	}
	if !o.border {
		o.border = cfg.Picker.Border
	}
	if !o.altScreen {
		o.altScreen = cfg.Picker.AltScreen
	}
	if !o.preview {
		o.preview = cfg.Picker.Preview
	}
	if o.height == 0 {
		o.height = cfg.Picker.Height
	}
	if o.logPath == "" {
		o.logPath = cfg.Log.ResolvedLogFile()
	}
}

func loadCandidates(o *opts, nth nthSpec) ([]haystack.Item, error) {
	r := io.Reader(os.Stdin)
	if o.input != "" {
		f, err := os.Open(o.input)
		if err != nil {
			return nil, fmt.Errorf("opening --input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if o.jsonMode {
		return readJSONCandidates(r)
	}
	return readCandidates(r, o.delimiter, nth)
}

func buildPeer(o *opts) (*rpc.Peer, io.Closer, error) {
	if o.ioSocket != "" {
		conn, err := ipc.OpenIOSocket(o.ioSocket)
		if err != nil {
			return nil, nil, err
		}
		return rpc.NewPeer(rpc.NewNewlineFramer(conn, conn, 0)), conn, nil
	}
	framer := rpc.NewNewlineFramer(os.Stdin, os.Stdout, 0)
	return rpc.NewPeer(framer), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// acquireTTY opens the controlling terminal for the TUI. Non-RPC mode
// requires stdin/stdout for candidate/result piping, so the TUI always
// reads/writes a separate TTY; RPC mode does the same when one is present,
// but tolerates its absence (headless RPC-only run).
func acquireTTY(o *opts) (*os.File, func() error, error) {
	f, err := os.OpenFile(o.tty, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// finish resolves the process exit code. In RPC mode
// stdout carries only protocol frames, so the resolved selection (or
// --no-match fallback) is never printed there.
func finish(o *opts, model *picker.Model, loop *eventloop.Loop) (int, error) {
	if model != nil && !model.Selected() {
		return exitNoSelect, nil
	}

	item, ok := loop.Selected()
	if !ok {
		if o.rpc {
			return exitNoSelect, nil
		}
		switch o.noMatch {
		case "nothing":
			return exitNoSelect, nil
		case "input":
			fmt.Println(o.query)
			return exitOK, nil
		default:
			fmt.Println(o.noMatch)
			return exitOK, nil
		}
	}
	if o.rpc {
		return exitOK, nil
	}
	if o.jsonMode {
		data, err := json.Marshal(item)
		if err != nil {
			return exitIOError, err
		}
		fmt.Println(string(data))
		return exitOK, nil
	}
	fmt.Println(itemText(item))
	return exitOK, nil
}

func itemText(item haystack.Item) string {
	var b strings.Builder
	for _, f := range item.Target {
		b.WriteString(f.Text)
	}
	return b.String()
}
