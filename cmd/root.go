// Package cmd implements the vsr command line: the root command that loads
// a data file and runs the viewer (or renders a snapshot), plus the configs
// and version subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/dataset"
	"github.com/Sphmer/vsr/internal/limiter"
	"github.com/Sphmer/vsr/internal/processor"
	"github.com/Sphmer/vsr/internal/ui"
	"github.com/Sphmer/vsr/pkg/loader"
	"github.com/Sphmer/vsr/pkg/logger"
	"github.com/Sphmer/vsr/pkg/settings"
	"github.com/Sphmer/vsr/pkg/tui"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

var (
	renderSnapshot bool
	snapshotWidth  int
	snapshotHeight int
	startSlide     int
	viewOverride   string
	sortColumn     string
	sortDesc       bool
	filterSpec     string
	limitRecords   int
	offsetRecords  int
	tailRecords    int
	noColor        bool
	debug          bool
	configFile     string
	storeDir       string
)

// Seams for tests; production code never swaps these.
var (
	stdinIsPiped     = func() bool { stat, _ := os.Stdin.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	stdoutIsPiped    = func() bool { stat, _ := os.Stdout.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	openTerminalIOFn = openTerminalIO
	termGetSize      = term.GetSize
	newResizeTicker  = func(d time.Duration) resizeTicker { return realResizeTicker{Ticker: time.NewTicker(d)} }
	sendWindowSize   = func(p *tea.Program, msg tea.WindowSizeMsg) { p.Send(msg) }
)

var rootCtx = context.Background()

var rootCmd *cobra.Command

// rootCmd is assigned in init rather than in its declaration: its Run
// closure calls runViewer, which reads rootCmd's flags, and a package-level
// initializer is not allowed to depend on itself.
func init() { //nolint:gochecknoinits
	rootCmd = &cobra.Command{
		Use:   "vsr [file]",
		Short: "vsr - terminal data-set viewer",
		Long: `vsr loads a JSON, YAML, TOML, NDJSON, CSV, or XLSX file, splits it into
named data sets, and shows each one as a table, bar chart, or tree in the
terminal. The per-set display choice is made once in a small configurator
and remembered per file, so the next run opens straight into the viewer.

Running vsr without a file argument lists the previously viewed files.`,
		Example: "\n  vsr report.json\n  vsr metrics.csv --view bars\n  vsr report.json --sort total --desc --limit 20\n  vsr report.json --snapshot --width 100 | less\n  vsr configs\n",
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Map the debug flag to the zap level: debug => -1 (V(1) visible).
			// Without the flag, a positive log_level in the config file raises
			// verbosity the same way.
			var level int8 = 0
			if debug {
				level = -1
			} else if appCfg, err := config.LoadAppConfig(resolveConfigPath(configFile)); err == nil && appCfg.LogLevel > 0 {
				level = -appCfg.LogLevel
			}
			lgr := logger.Get(level)
			lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
			rootCtx = logger.WithLogger(context.Background(), lgr)

			params := settings.NewCliParams()
			params.MinLogLevel = level
			params.NoColor = noColor
			rootCtx = settings.IntoContext(rootCtx, params)
		},
		Run: func(cmd *cobra.Command, args []string) {
			if err := validateLimitingFlags(); err != nil {
				fmt.Fprintf(os.Stderr, "record limiting error: %v\n", err)
				os.Exit(2)
			}
			if err := validateViewFlag(viewOverride); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			appCfg, err := config.LoadAppConfig(resolveConfigPath(configFile))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			if appCfg.NoColor {
				noColor = true
			}
			transform, err := buildTransform(appCfg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			store, err := resolveStore(appCfg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			if len(args) == 0 {
				if stdoutIsPiped() {
					// No terminal to run the picker in.
					_ = cmd.Help()
					return
				}
				runViewer(nil, store)
				return
			}

			sess, err := loadSession(args[0], store, appCfg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			sess.Slide = startSlide
			sess.Transform = transform

			if renderSnapshot || stdoutIsPiped() {
				runSnapshot(sess, appCfg)
				return
			}
			runViewer(sess, store)
		},
	}
}

// loadSession reads and classifies the file and looks its preferences up in
// the store. The session comes back with Found=false when the file was
// never configured; the caller decides between wizard and defaults.
func loadSession(path string, store config.Store, appCfg config.AppConfig) (*ui.Session, error) {
	lgr := logger.FromContext(rootCtx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	doc, err := loader.LoadBytes(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	sets, err := dataset.Classify(doc)
	if err != nil {
		return nil, err
	}
	lgr.V(1).Info("classified input", logger.FileKey, path, "data_sets", len(sets))
	for name, ds := range sets {
		lgr.V(2).Info("data set", logger.DataSetKey, name, "kind", ds.Kind.String(), "rows", len(ds.Rows))
	}

	sess := &ui.Session{Path: path, Sets: sets}
	if store != nil {
		prefs, found, err := store.Get(config.Identity(path, data))
		if err != nil {
			lgr.Error(err, "failed to read saved preferences", logger.FileKey, path)
		}
		if found {
			lgr.V(1).Info("found saved preferences", logger.FileKey, path, "configured_sets", len(prefs))
			sess.Prefs = prefs
			sess.Found = true
		}
	}
	applyViewOverride(sess)
	return sess, nil
}

// applyViewOverride forces every non-skipped set onto the flag-selected
// view. Without saved preferences it builds a complete preference map so
// the viewer starts without the configurator.
func applyViewOverride(sess *ui.Session) {
	if viewOverride == "" {
		return
	}
	kind := config.ViewKind(viewOverride)
	if !sess.Found {
		sess.Prefs = defaultPrefs(sess.Sets, kind)
		sess.Found = true
		return
	}
	out := make(map[string]config.Preference, len(sess.Prefs))
	for name, p := range sess.Prefs {
		if p.View != config.ViewSkip {
			p.View = kind
		}
		out[name] = p
	}
	sess.Prefs = out
}

// defaultPrefs puts every set on slide one with the given view.
func defaultPrefs(sets map[string]*dataset.DataSet, kind config.ViewKind) map[string]config.Preference {
	prefs := make(map[string]config.Preference, len(sets))
	for name := range sets {
		prefs[name] = config.Preference{View: kind, Slide: 1}
	}
	return prefs
}

// runSnapshot renders one frame to stdout and exits. Files without saved
// preferences fall back to the configured default view for every set, so
// piped invocations never block on the configurator.
func runSnapshot(sess *ui.Session, appCfg config.AppConfig) {
	if !sess.Found {
		sess.Prefs = defaultPrefs(sess.Sets, appCfg.View())
		sess.Found = true
	}
	sizing := resolveSnapshotSize(snapshotWidth, snapshotHeight, 0, 0)
	plain := noColor || stdoutIsPiped()
	fmt.Println(tui.RenderSnapshot(sess, tui.Config{
		Width:   sizing.Width,
		Height:  sizing.Height,
		NoColor: plain,
	}))
}

// runViewer starts the interactive program. A nil session opens the
// saved-file picker.
func runViewer(sess *ui.Session, store config.Store) {
	runW, runH := 0, 0
	if f := rootCmd.Flags().Lookup("width"); f != nil && f.Changed {
		runW = snapshotWidth
	}
	if f := rootCmd.Flags().Lookup("height"); f != nil && f.Changed {
		runH = snapshotHeight
	}
	opts, cleanup := getProgramOptions()
	defer cleanup()

	if err := tui.Run(sess, store, tui.Config{Width: runW, Height: runH, NoColor: noColor}, opts...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func validateLimitingFlags() error {
	cfg := limiter.Config{
		Limit:  limitRecords,
		Offset: offsetRecords,
		Tail:   tailRecords,
	}
	return cfg.Validate()
}

func validateViewFlag(name string) error {
	switch name {
	case "", "table", "bars", "tree":
		return nil
	}
	return fmt.Errorf("invalid --view %q (expected table, bars, or tree)", name)
}

// buildTransform chains the flag-driven derivations in a fixed order:
// filter, then sort, then the record window. The config file's row budget
// acts as an implicit limit when no limiting flag is given. Returns nil
// when nothing is active.
func buildTransform(appCfg config.AppConfig) (ui.Transform, error) {
	filterColumn, filterNeedle, err := parseFilterSpec(filterSpec)
	if err != nil {
		return nil, err
	}
	limitCfg := limiter.Config{Limit: limitRecords, Offset: offsetRecords, Tail: tailRecords}
	if !limitCfg.IsActive() && appCfg.RowBudget > 0 {
		limitCfg.Limit = appCfg.RowBudget
	}
	if filterColumn == "" && sortColumn == "" && !limitCfg.IsActive() {
		return nil, nil
	}

	sortCol := sortColumn
	ascending := !sortDesc
	return func(p *processor.ProcessedDataSet) *processor.ProcessedDataSet {
		if filterColumn != "" {
			p = processor.Filter(p, filterColumn, filterNeedle)
		}
		if sortCol != "" {
			p = processor.Sort(p, sortCol, ascending)
		}
		return limitCfg.Apply(p)
	}, nil
}

// parseFilterSpec splits "column=needle". The needle may itself contain
// '='; only the first one separates.
func parseFilterSpec(spec string) (column, needle string, err error) {
	if spec == "" {
		return "", "", nil
	}
	column, needle, ok := strings.Cut(spec, "=")
	if !ok || column == "" {
		return "", "", fmt.Errorf("invalid --filter %q (expected column=needle)", spec)
	}
	return column, needle, nil
}

// resolveStore picks the preference directory: flag, then app config, then
// the per-user default.
func resolveStore(appCfg config.AppConfig) (*config.FileStore, error) {
	dir := storeDir
	if dir == "" {
		dir = appCfg.StoreDir
	}
	if dir == "" {
		d, err := config.DefaultStoreDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return config.NewFileStore(dir), nil
}

// resolveConfigPath returns the explicit path if set, otherwise the first
// existing candidate among $XDG_CONFIG_HOME/vsr/config.toml,
// ~/.config/vsr/config.toml, and ~/.vsr/config.toml.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "vsr", "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "vsr", "config.toml"))
	}
	if def, err := config.DefaultAppConfigPath(); err == nil {
		candidates = append(candidates, def)
	}
	for _, candidate := range candidates {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

type snapshotSize struct {
	Width          int
	Height         int
	DetectedWidth  int
	DetectedHeight int
}

// resolveSnapshotSize combines explicit flag values with detected terminal
// dimensions, falling back to 80x24 when neither is available.
func resolveSnapshotSize(flagWidth, flagHeight, detectedWidth, detectedHeight int) snapshotSize {
	width := flagWidth
	height := flagHeight
	usedDetectW := detectedWidth
	usedDetectH := detectedHeight

	if width <= 0 || height <= 0 {
		if usedDetectW <= 0 || usedDetectH <= 0 {
			if w, h := detectTerminalSize(); w > 0 || h > 0 {
				if usedDetectW <= 0 {
					usedDetectW = w
				}
				if usedDetectH <= 0 {
					usedDetectH = h
				}
			}
		}
		if width <= 0 && usedDetectW > 0 {
			width = usedDetectW
		}
		if height <= 0 && usedDetectH > 0 {
			height = usedDetectH
		}
	}

	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	return snapshotSize{
		Width:          width,
		Height:         height,
		DetectedWidth:  usedDetectW,
		DetectedHeight: usedDetectH,
	}
}

// detectTerminalSize returns the best-effort terminal width/height by
// probing stdout, stderr, and stdin, then falling back to $COLUMNS.
func detectTerminalSize() (int, int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := termGetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 0
}

// getProgramOptions handles piped stdin by reopening the terminal for
// interactive input/output, so viewing a file still works when the process
// was started from a script. Returns tea.ProgramOption values plus a
// cleanup to close the reopened handles.
func getProgramOptions() ([]tea.ProgramOption, func()) {
	isPiped := stdinIsPiped()
	cleanup := func() {}

	if !isPiped {
		return nil, cleanup
	}

	ttyIn, ttyOut, err := openTerminalIOFn()
	if err != nil {
		// No controlling terminal (e.g. CI). Fall back to piped stdin;
		// keys and resize events will not arrive.
		return nil, cleanup
	}
	cleanup = func() {
		_ = ttyIn.Close()
		if ttyOut != nil && ttyOut != ttyIn {
			_ = ttyOut.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithInput(ttyIn)}
	if ttyOut != nil {
		opts = append(opts, tea.WithOutput(ttyOut), withTTYResizeWatcher(ctx, ttyOut))
	}

	return opts, func() {
		cancel()
		cleanup()
	}
}

func openTerminalIO() (*os.File, *os.File, error) {
	in, out := terminalDeviceNames(runtime.GOOS)

	input, err := os.OpenFile(in, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}

	if out == "" || out == in {
		return input, input, nil
	}

	output, err := os.OpenFile(out, os.O_RDWR, 0)
	if err != nil {
		return input, nil, err
	}

	return input, output, nil
}

func terminalDeviceNames(goos string) (input string, output string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}

	return "/dev/tty", "/dev/tty"
}

type resizeTicker interface {
	C() <-chan time.Time
	Stop()
}

type realResizeTicker struct {
	*time.Ticker
}

func (t realResizeTicker) C() <-chan time.Time { return t.Ticker.C }

// withTTYResizeWatcher polls terminal size and sends resize messages when
// signals are unreliable (e.g., piped stdin on Windows). Best-effort; stops
// when the context is canceled.
func withTTYResizeWatcher(ctx context.Context, out *os.File) tea.ProgramOption {
	return func(p *tea.Program) {
		if ctx == nil || out == nil {
			return
		}

		go func() {
			t := newResizeTicker(250 * time.Millisecond)
			defer t.Stop()

			lastW, lastH := 0, 0
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C():
					w, h, err := termGetSize(int(out.Fd()))
					if err != nil {
						continue
					}
					if w == lastW && h == lastH {
						continue
					}
					lastW, lastH = w, h
					sendWindowSize(p, tea.WindowSizeMsg{Width: w, Height: h})
				}
			}
		}()
	}
}

func init() { //nolint:gochecknoinits
	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "render one frame to stdout and exit; honors --width/--height")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "output width in columns (default: detected terminal width)")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "output height in rows (default: detected terminal height)")
	rootCmd.Flags().IntVar(&startSlide, "slide", 0, "slide to show first (clamped to the slide range)")
	rootCmd.Flags().StringVar(&viewOverride, "view", "", "force a view for every data set: table, bars, or tree")
	rootCmd.Flags().StringVar(&sortColumn, "sort", "", "sort rows by this column before display")
	rootCmd.Flags().BoolVar(&sortDesc, "desc", false, "sort descending (with --sort)")
	rootCmd.Flags().StringVar(&filterSpec, "filter", "", "keep only rows whose column contains the needle: column=needle")
	rootCmd.Flags().IntVar(&limitRecords, "limit", 0, "limit the number of rows displayed per data set")
	rootCmd.Flags().IntVar(&offsetRecords, "offset", 0, "skip the first N rows of every data set")
	rootCmd.Flags().IntVar(&tailRecords, "tail", 0, "show the last N rows (mutually exclusive with --limit; ignores --offset)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	rootCmd.Flags().StringVar(&configFile, "config", "", "path to a TOML config file (default: ~/.config/vsr/config.toml)")
	rootCmd.Flags().StringVar(&storeDir, "store-dir", "", "directory for saved preferences (default: ~/.vsr/rep_saved)")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configsCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
