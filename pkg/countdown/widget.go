package countdown

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/looplab/fsm"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/clock"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/driver"
)

// DefaultInterval is the cycle length used when Config.Interval is unset.
const DefaultInterval = 30 * time.Second

// Lifecycle states and events.
const (
	StateDetached = "detached"
	StateAttached = "attached"

	EventAttach = "attach"
	EventDetach = "detach"
)

// Config is the caller-set appearance and timing of a widget.
type Config struct {
	FillColor   color.Color // nil disables the fill
	StrokeColor color.Color // nil disables the outline
	StrokeWidth float64
	Radius      float64
	Interval    time.Duration
	BaseTime    time.Time // zero means "when the widget was built"
}

// DefaultConfig returns a config with the default 30s interval and no
// colours, radius or stroke.
func DefaultConfig() Config {
	return Config{Interval: DefaultInterval}
}

// Shape is what the host paints for one frame.
type Shape struct {
	Angle       float64 // degrees, [0, 360)
	Path        Path
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
	Width       float64 // paint bounds the path was built for
	Height      float64
}

// Option customises a Widget.
type Option func(*Widget)

// WithClock sets the time source. The default is clock.Real.
func WithClock(c clock.Clock) Option {
	return func(w *Widget) { w.clock = c }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// WithDriver sets the frame driver the widget attaches to on first paint.
func WithDriver(d driver.Driver) Option {
	return func(w *Widget) { w.driver = d }
}

// Widget is a countdown indicator bound to a frame driver. It is not safe
// for concurrent use; all calls, including frame callbacks, must come from
// the host's render goroutine.
type Widget struct {
	cfg    Config
	clock  clock.Clock
	logger *slog.Logger

	driver    driver.Driver
	lifecycle *fsm.FSM
	sub       driver.Subscription

	width, height float64
	shape         Shape

	frames uint64
	stale  uint64
}

// New builds a widget. It returns ErrInvalidInterval when cfg.Interval is
// not positive; an unset interval takes DefaultInterval. Negative radius and
// stroke width are clamped to 0.
func New(cfg Config, opts ...Option) (*Widget, error) {
	w := &Widget{
		clock:  clock.Real{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}

	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidInterval, cfg.Interval)
	}
	if cfg.Radius < 0 {
		w.logger.Warn("negative radius clamped to 0", "radius", cfg.Radius)
		cfg.Radius = 0
	}
	if cfg.StrokeWidth < 0 {
		w.logger.Warn("negative stroke width clamped to 0", "stroke_width", cfg.StrokeWidth)
		cfg.StrokeWidth = 0
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = w.clock.Now()
	}
	w.cfg = cfg

	w.lifecycle = fsm.NewFSM(
		StateDetached,
		fsm.Events{
			{Name: EventAttach, Src: []string{StateDetached}, Dst: StateAttached},
			{Name: EventDetach, Src: []string{StateAttached}, Dst: StateDetached},
		},
		fsm.Callbacks{
			"enter_" + StateAttached: w.onEnterAttached,
			"enter_" + StateDetached: w.onEnterDetached,
		},
	)
	return w, nil
}

// Config returns the effective configuration.
func (w *Widget) Config() Config {
	return w.cfg
}

// State returns the lifecycle state: StateDetached or StateAttached.
func (w *Widget) State() string {
	return w.lifecycle.Current()
}

// Attached reports whether the widget holds a live frame subscription.
func (w *Widget) Attached() bool {
	return w.lifecycle.Is(StateAttached)
}

// Subscription returns the active frame subscription, or the zero value
// when detached.
func (w *Widget) Subscription() driver.Subscription {
	return w.sub
}

// Frames returns how many frames have been computed.
func (w *Widget) Frames() uint64 {
	return w.frames
}

// StaleFrames returns how many driver callbacks were ignored because their
// subscription was not the active one.
func (w *Widget) StaleFrames() uint64 {
	return w.stale
}

// Attach registers the widget with d. It is a no-op when already attached
// or when d is nil.
func (w *Widget) Attach(d driver.Driver) {
	if d == nil || w.Attached() {
		return
	}
	w.driver = d
	if err := w.lifecycle.Event(context.Background(), EventAttach); err != nil {
		w.logger.Debug("attach ignored", "error", err)
	}
}

// Detach releases the frame subscription. Repeated calls, or calls on a
// widget that was never attached, do nothing.
func (w *Widget) Detach() {
	if !w.Attached() {
		return
	}
	if err := w.lifecycle.Event(context.Background(), EventDetach); err != nil {
		w.logger.Debug("detach ignored", "error", err)
	}
}

func (w *Widget) onEnterAttached(_ context.Context, _ *fsm.Event) {
	w.sub = w.driver.Register(w.handleFrame)
	w.logger.Debug("countdown attached", "sub", w.sub)
}

func (w *Widget) onEnterDetached(_ context.Context, _ *fsm.Event) {
	sub := w.sub
	w.sub = driver.Subscription{}
	w.driver.Unregister(sub)
	w.logger.Debug("countdown detached", "sub", sub, "frames", w.frames)
}

// handleFrame is the driver callback.
func (w *Widget) handleFrame(sub driver.Subscription) {
	if !w.sub.Valid() || sub != w.sub {
		w.stale++
		w.logger.Debug("stale frame ignored", "sub", sub, "active", w.sub)
		return
	}
	w.OnFrameTick()
}

// Paint answers a host paint request for a width x height area. The first
// paint attaches the widget to its configured driver. The returned shape is
// current as of this call.
func (w *Widget) Paint(width, height float64) Shape {
	w.width, w.height = width, height
	if w.driver != nil && !w.Attached() {
		w.Attach(w.driver)
	}
	w.OnFrameTick()
	return w.shape
}

// OnFrameTick recomputes the progress angle from the clock and rebuilds the
// wedge around the centre of the last painted area.
func (w *Widget) OnFrameTick() {
	angle, err := ComputeProgress(w.clock.Now(), w.cfg.BaseTime, w.cfg.Interval)
	if err != nil {
		w.logger.Error("progress computation failed", "error", err)
		return
	}
	center := Point{X: w.width / 2, Y: w.height / 2}
	w.shape = Shape{
		Angle:       angle,
		Path:        BuildWedgePath(angle, center, w.cfg.Radius),
		Fill:        w.cfg.FillColor,
		Stroke:      w.cfg.StrokeColor,
		StrokeWidth: w.cfg.StrokeWidth,
		Width:       w.width,
		Height:      w.height,
	}
	w.frames++
}

// Shape returns the most recently computed shape.
func (w *Widget) Shape() Shape {
	return w.shape
}

// Remaining returns the time left in the current cycle.
func (w *Widget) Remaining() time.Duration {
	d, err := Remaining(w.clock.Now(), w.cfg.BaseTime, w.cfg.Interval)
	if err != nil {
		return 0
	}
	return d
}
