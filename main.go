// countdown-ring draws repeating countdown timers as filled pie wedges in
// the terminal.
//
// Each ring sweeps from twelve o'clock as its interval elapses and wraps to
// empty when the interval completes, anchored to a base time so that rings
// stay in phase across restarts.
//
// Usage:
//
//	countdown-ring [flags]
//
// Flags:
//
//	-config string    Path to a TOML or YAML config file (default: ~/.config/countdown-ring/config.toml)
//	-interval dur     Cycle length for every ring, e.g. 30s, 25m
//	-base time        RFC3339 base time every ring is anchored to
//	-preset name      Ring preset when the config lists none (single|pomodoro|clock|breath)
//	-theme name       Colour theme
//	-protocol name    Graphics protocol (auto|halfblocks|kitty|iterm2|sixel|none)
//	-fps int          Frames per second
//	-once             Print the current frame and exit
//	-inline           Redraw in place instead of taking over the screen
//	-png path         Write the first ring to a PNG file and exit
//	-svg path         Write the first ring to an SVG file and exit
//	-size int         Pixel size of -png/-svg snapshots (default: 256)
//	-log path         Write logs to a file
//	-verbose          Enable debug logging
//	-version          Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/app"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/config"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/countdown"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/driver"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/raster"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/render"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/terminal"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/theme"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// inlineCols is the cell width of each ring in -once and -inline output.
const inlineCols = 24

func main() {
	var (
		configPath  = flag.String("config", "", "Path to a TOML or YAML config file")
		interval    = flag.Duration("interval", 0, "Cycle length for every ring (overrides config)")
		base        = flag.String("base", "", "RFC3339 base time for every ring (overrides config)")
		preset      = flag.String("preset", "", "Ring preset when the config lists no rings")
		themeName   = flag.String("theme", "", "Colour theme")
		protocol    = flag.String("protocol", "", "Graphics protocol (auto|halfblocks|kitty|iterm2|sixel|none)")
		fps         = flag.Int("fps", 0, "Frames per second (overrides config)")
		once        = flag.Bool("once", false, "Print the current frame and exit")
		inline      = flag.Bool("inline", false, "Redraw in place instead of taking over the screen")
		pngPath     = flag.String("png", "", "Write the first ring to a PNG file and exit")
		svgPath     = flag.String("svg", "", "Write the first ring to an SVG file and exit")
		size        = flag.Int("size", 256, "Pixel size of -png/-svg snapshots")
		logPath     = flag.String("log", "", "Write logs to a file")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("countdown-ring %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flag overrides
	if *preset != "" {
		cfg.General.Preset = *preset
		cfg.Rings = nil
	}
	if *themeName != "" {
		cfg.Display.Theme = *themeName
	}
	if *protocol != "" {
		cfg.Display.Protocol = *protocol
	}
	if *fps != 0 {
		cfg.General.FPS = *fps
	}
	if *interval < 0 {
		fmt.Fprintf(os.Stderr, "invalid flags: -interval: %v: got %v\n", countdown.ErrInvalidInterval, *interval)
		os.Exit(1)
	}
	if *interval != 0 {
		cfg.IntervalOverride = *interval
	}

	tuiMode := !*once && !*inline && *pngPath == "" && *svgPath == "" && terminal.IsTerminal(os.Stdout)
	if !terminal.IsTerminal(os.Stdout) && !*inline {
		*once = true
	}

	// Setup logging. The full-screen UI owns the terminal, so it only logs
	// to a file.
	logLevel, err := config.ParseLogLevel(cfg.General.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		logLevel = slog.LevelDebug
	}
	var logOut io.Writer = os.Stderr
	if tuiMode {
		logOut = io.Discard
	}
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := cfg.Normalize(logger); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	if err := applyBaseOverride(cfg, *base); err != nil {
		fmt.Fprintf(os.Stderr, "invalid flags: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Display.ThemeFile != "" {
		th, err := theme.LoadFile(cfg.Display.ThemeFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load theme: %v\n", err)
			os.Exit(1)
		}
		if *themeName == "" {
			cfg.Display.Theme = th.Name
		}
	}
	if _, ok := theme.Lookup(cfg.Display.Theme); !ok {
		logger.Warn("unknown theme, using default", "theme", cfg.Display.Theme)
		cfg.Display.Theme = "default"
	}

	// Snapshot exports
	if *pngPath != "" || *svgPath != "" {
		if err := writeSnapshot(cfg, *pngPath, *svgPath, *size); err != nil {
			logger.Error("snapshot failed", "error", err)
			os.Exit(1)
		}
		return
	}

	override, _ := terminal.ParseProtocol(cfg.Display.Protocol)
	caps := terminal.DetectCapabilities(os.Stdout, override)
	logger.Debug("terminal detected",
		"term", caps.Term,
		"protocol", caps.Protocol,
		"cols", caps.Size.Cols,
		"rows", caps.Size.Rows,
		"tty", caps.TTY,
	)
	renderer := render.NewRenderer(caps, cfg.General.CacheSizeMB, logger)
	opts := app.Options{Config: cfg, Renderer: renderer, Logger: logger}

	// Setup context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *once, *inline:
		loop := driver.NewLoop(cfg.General.FPS, logger)
		in, err := app.NewInline(opts, loop, min(inlineCols, caps.Size.Cols))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
			os.Exit(1)
		}
		if *once {
			fmt.Println(in.Frame())
			return
		}
		if err := in.Run(ctx, os.Stdout); err != nil {
			logger.Error("inline loop", "error", err)
			os.Exit(1)
		}

	default:
		zones := zone.New()
		defer zones.Close()
		opts.Zones = zones

		model, err := app.New(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
			os.Exit(1)
		}
		p := tea.NewProgram(model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx),
		)
		_, err = p.Run()
		model.Shutdown()
		if err != nil && !cleanExit(err) {
			logger.Error("TUI error", "error", err)
			os.Exit(1)
		}
	}
}

// applyBaseOverride sets the -base flag on every ring.
func applyBaseOverride(cfg *config.Config, base string) error {
	if base == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, base)
	if err != nil {
		return fmt.Errorf("-base: %w", err)
	}
	for i := range cfg.Rings {
		cfg.Rings[i].BaseTime = t
	}
	return nil
}

// writeSnapshot renders the first ring once to PNG and/or SVG.
func writeSnapshot(cfg *config.Config, pngPath, svgPath string, size int) error {
	if size <= 0 {
		return fmt.Errorf("-size must be positive, got %d", size)
	}
	th := theme.Get(cfg.Display.Theme)
	wc, err := cfg.Rings[0].WidgetConfig(th)
	if err != nil {
		return err
	}
	w, err := countdown.New(wc)
	if err != nil {
		return err
	}
	shape := w.Paint(config.UnitSize, config.UnitSize)

	opts := raster.Options{Supersample: cfg.General.Supersample}
	if c, err := theme.ParseHex(th.Background); err == nil {
		opts.Background = c
	}
	if cfg.Display.ShowTrack {
		if c, err := theme.ParseHex(th.RingTrack); err == nil {
			opts.Track = c
		}
	}

	if pngPath != "" {
		if err := raster.SavePNG(pngPath, raster.Rasterize(shape, size, size, opts)); err != nil {
			return err
		}
	}
	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(raster.SVG(shape, size, size, opts)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", svgPath, err)
		}
	}
	return nil
}

// cleanExit reports whether a bubbletea error only signals shutdown by
// signal or context.
func cleanExit(err error) bool {
	if errors.Is(err, tea.ErrProgramPanic) {
		return false
	}
	return errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)
}
