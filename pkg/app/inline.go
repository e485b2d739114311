package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/clock"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/components"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/config"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/countdown"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/driver"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/raster"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/render"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/terminal"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/theme"
)

// Inline draws rings into the normal scrollback instead of a full-screen
// program: once for -once, or redrawn in place on every frame of a
// driver.Loop.
type Inline struct {
	names    []string
	widgets  []*countdown.Widget
	loop     *driver.Loop
	renderer *render.Renderer
	theme    theme.Theme
	opts     raster.Options
	cols     int
	readout  bool
	logger   *slog.Logger
}

// NewInline builds one widget per configured ring on loop. cols is the cell
// width of each ring.
func NewInline(opts Options, loop *driver.Loop, cols int) (*Inline, error) {
	cfg := opts.Config
	if cfg == nil || opts.Renderer == nil || loop == nil {
		return nil, errors.New("app: inline needs a config, a renderer and a loop")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	in := &Inline{
		loop:     loop,
		renderer: opts.Renderer,
		theme:    theme.Get(cfg.Display.Theme),
		cols:     max(cols, 2),
		readout:  cfg.Display.ShowReadout,
		logger:   logger,
	}
	in.opts = ringRasterOptions(in.theme, cfg.Display.ShowTrack, cfg.General.Supersample)

	for _, rc := range cfg.Rings {
		wc, err := rc.WidgetConfig(in.theme)
		if err != nil {
			return nil, err
		}
		w, err := countdown.New(wc,
			countdown.WithClock(clk),
			countdown.WithDriver(loop),
			countdown.WithLogger(logger.With("ring", rc.Name)),
		)
		if err != nil {
			return nil, fmt.Errorf("ring %q: %w", rc.Name, err)
		}
		in.names = append(in.names, rc.Name)
		in.widgets = append(in.widgets, w)
	}
	return in, nil
}

// Widgets returns the ring widgets.
func (in *Inline) Widgets() []*countdown.Widget {
	return in.widgets
}

// Frame paints every ring and returns them side by side.
func (in *Inline) Frame() string {
	for _, w := range in.widgets {
		w.Paint(config.UnitSize, config.UnitSize)
	}
	return in.compose()
}

// compose lays out the rings' current shapes.
func (in *Inline) compose() string {
	blocks := make([]string, len(in.widgets))
	for i, w := range in.widgets {
		blocks[i] = in.block(in.names[i], w)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (in *Inline) block(name string, w *countdown.Widget) string {
	shape := w.Shape()
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(in.theme.Title)).
		Render(components.Fit(name, in.cols))

	var body string
	if in.renderer.Protocol() == terminal.ProtocolNone {
		body = components.ProgressBar(shape.Angle/360, in.cols)
	} else if c, rw, side := in.renderer.SquareArea(in.cols, in.cols); side > 0 {
		out, err := in.renderer.Render(raster.Rasterize(shape, side, side, in.opts), c, rw)
		if err != nil {
			in.logger.Error("render ring", "ring", name, "error", err)
		}
		body = out
	}

	lines := []string{title, body}
	if in.readout {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(in.theme.Readout)).
			Render(components.Fit(components.Readout(w.Remaining(), w.Config().Interval), in.cols)))
	}
	return lipgloss.NewStyle().PaddingRight(1).Render(strings.Join(lines, "\n"))
}

// Run redraws the rings in place on every frame until ctx is done. Widgets
// tick before the redraw because they register first. Every widget is
// detached on return.
func (in *Inline) Run(ctx context.Context, out io.Writer) error {
	for _, w := range in.widgets {
		w.Paint(config.UnitSize, config.UnitSize)
	}

	var prevLines int
	redraw := in.loop.Register(func(driver.Subscription) {
		frame := in.compose()
		var b strings.Builder
		if prevLines > 1 {
			b.WriteString(ansi.CursorUp(prevLines - 1))
		}
		b.WriteByte('\r')
		for i, line := range strings.Split(frame, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(ansi.EraseEntireLine)
			b.WriteString(line)
		}
		in.write(out, b.String())
		prevLines = lipgloss.Height(frame)
	})

	in.write(out, ansi.HideCursor)
	defer func() {
		in.loop.Unregister(redraw)
		for _, w := range in.widgets {
			w.Detach()
		}
		in.write(out, "\n"+ansi.ShowCursor)
	}()

	err := in.loop.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// write sends s to out and logs any failure.
func (in *Inline) write(out io.Writer, s string) {
	if _, err := io.WriteString(out, s); err != nil {
		in.logger.Debug("inline write failed", "error", err)
	}
}
