package app

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/clock"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/config"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/countdown"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/render"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/theme"
)

// Options configures a Model.
type Options struct {
	Config   *config.Config // normalized and validated
	Renderer *render.Renderer
	Clock    clock.Clock  // nil means clock.Real
	Logger   *slog.Logger // nil discards
	Zones    *zone.Manager // nil creates one
}

// ring is one countdown box.
type ring struct {
	id     string
	cfg    config.RingConfig
	widget *countdown.Widget
	last   ringFrame
}

// ringFrame is the last rendered image of a ring and what it was drawn from.
type ringFrame struct {
	key frameKey
	out string
}

type frameKey struct {
	widget     *countdown.Widget
	angle      float64
	cols, rows int
	side       int
}

// Model is the root bubbletea model.
type Model struct {
	rings    []*ring
	focused  int
	expanded int // -1 when no ring is expanded

	drv      *TeaDriver
	renderer *render.Renderer
	zones    *zone.Manager
	theme    theme.Theme
	keys     keyMap
	help     help.Model
	clock    clock.Clock
	logger   *slog.Logger

	showReadout bool
	showTrack   bool
	supersample int

	width, height int
	quitting      bool
}

// New builds a model with one widget per configured ring. Widgets are
// attached to the model's TeaDriver on their first paint.
func New(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
		if err := cfg.Normalize(opts.Logger); err != nil {
			return nil, err
		}
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("app: renderer is required")
	}
	m := &Model{
		expanded:    -1,
		drv:         NewTeaDriver(cfg.General.FPS, opts.Logger),
		renderer:    opts.Renderer,
		zones:       opts.Zones,
		theme:       theme.Get(cfg.Display.Theme),
		keys:        defaultKeyMap(),
		help:        help.New(),
		clock:       opts.Clock,
		logger:      opts.Logger,
		showReadout: cfg.Display.ShowReadout,
		showTrack:   cfg.Display.ShowTrack,
		supersample: cfg.General.Supersample,
	}
	if m.clock == nil {
		m.clock = clock.Real{}
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.zones == nil {
		m.zones = zone.New()
	}

	for i, rc := range cfg.Rings {
		r := &ring{id: fmt.Sprintf("ring-%d", i), cfg: rc}
		if err := m.build(r, nil); err != nil {
			return nil, err
		}
		m.rings = append(m.rings, r)
	}
	m.applyHelpStyles()
	return m, nil
}

// build (re)creates r's widget from its ring config and the current theme.
// When prev is set it is detached and its base time carried over.
func (m *Model) build(r *ring, prev *countdown.Widget) error {
	wc, err := r.cfg.WidgetConfig(m.theme)
	if err != nil {
		return err
	}
	if prev != nil {
		prev.Detach()
		wc.BaseTime = prev.Config().BaseTime
	}
	w, err := countdown.New(wc,
		countdown.WithClock(m.clock),
		countdown.WithDriver(m.drv),
		countdown.WithLogger(m.logger.With("ring", r.cfg.Name)),
	)
	if err != nil {
		return fmt.Errorf("ring %q: %w", r.cfg.Name, err)
	}
	r.widget = w
	return nil
}

// Init paints every ring once, which attaches it, and starts the frame ticks.
func (m *Model) Init() tea.Cmd {
	m.paintAll()
	return m.drv.Arm()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameEvent:
		return m, m.drv.Dispatch(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.paintAll()
		return m, m.drv.Arm()

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			for i, r := range m.rings {
				if m.zones.Get(r.id).InBounds(msg) {
					m.FocusRing(i)
					break
				}
			}
		}
		return m, nil

	case FocusEvent:
		m.FocusRing(msg.Index)
		return m, nil

	case ThemeChangeEvent:
		return m, m.SetTheme(msg.Theme)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Shutdown()
		return tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.CycleFocusForward()
	case key.Matches(msg, m.keys.Prev):
		m.CycleFocusBackward()
	case key.Matches(msg, m.keys.Expand):
		m.ToggleExpand()
	case key.Matches(msg, m.keys.Collapse):
		m.expanded = -1
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Theme):
		return m.SetTheme(m.nextThemeName())
	}
	return nil
}

// SetTheme switches the palette and rebuilds every widget in it. Unknown
// names fall back to the default theme.
func (m *Model) SetTheme(name string) tea.Cmd {
	m.theme = theme.Get(name)
	m.applyHelpStyles()
	for _, r := range m.rings {
		if err := m.build(r, r.widget); err != nil {
			m.logger.Error("rebuild ring", "ring", r.cfg.Name, "error", err)
		}
	}
	m.paintAll()
	m.logger.Debug("theme changed", "theme", m.theme.Name)
	return m.drv.Arm()
}

func (m *Model) nextThemeName() string {
	names := theme.Names()
	for i, n := range names {
		if n == m.theme.Name {
			return names[(i+1)%len(names)]
		}
	}
	return "default"
}

// Shutdown detaches every widget. The model stops ticking afterwards.
func (m *Model) Shutdown() {
	m.quitting = true
	for _, r := range m.rings {
		r.widget.Detach()
	}
}

// paintAll paints every ring in the square ring space. Output scaling to
// the terminal happens at rasterization.
func (m *Model) paintAll() {
	for _, r := range m.rings {
		r.widget.Paint(config.UnitSize, config.UnitSize)
	}
}

// Width returns the terminal width.
func (m *Model) Width() int { return m.width }

// Height returns the terminal height.
func (m *Model) Height() int { return m.height }

// Driver returns the model's frame driver.
func (m *Model) Driver() *TeaDriver { return m.drv }

// Theme returns the active theme.
func (m *Model) Theme() theme.Theme { return m.theme }

// Widgets returns the ring widgets in display order.
func (m *Model) Widgets() []*countdown.Widget {
	ws := make([]*countdown.Widget, len(m.rings))
	for i, r := range m.rings {
		ws[i] = r.widget
	}
	return ws
}
