package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/components"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/raster"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/terminal"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/theme"
)

// Box chrome: a one-cell border on each side plus the title line.
const (
	borderCells = 2
	titleLines  = 1
	minBoxCols  = 6
	minBoxRows  = 4
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting || m.width <= 0 || m.height <= 0 {
		return ""
	}

	helpView := m.help.View(m.keys)
	bodyH := m.height - lipgloss.Height(helpView)
	if bodyH < minBoxRows {
		bodyH = m.height
		helpView = ""
	}

	var body string
	if m.expanded >= 0 && m.expanded < len(m.rings) {
		body = m.renderBox(m.expanded, m.width, bodyH)
	} else {
		body = m.renderRow(m.width, bodyH)
	}

	out := body
	if helpView != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, body, helpView)
	}
	return m.zones.Scan(out)
}

// renderRow lays the rings out side by side, sharing width evenly. The
// last box absorbs the remainder.
func (m *Model) renderRow(width, height int) string {
	n := len(m.rings)
	if n == 0 {
		return ""
	}
	boxW := width / n
	boxes := make([]string, 0, n)
	for i := range m.rings {
		w := boxW
		if i == n-1 {
			w = width - boxW*(n-1)
		}
		boxes = append(boxes, m.renderBox(i, w, height))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// renderBox draws ring i in a bordered box of outer size width x height.
func (m *Model) renderBox(i, width, height int) string {
	r := m.rings[i]
	innerW, innerH := width-borderCells, height-borderCells
	if width < minBoxCols || height < minBoxRows {
		return lipgloss.NewStyle().Width(max(width, 0)).Height(max(height, 0)).Render("")
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.theme.Title)).
		Render(components.Fit(r.cfg.Name, innerW))

	lines := []string{title}
	ringRows := innerH - titleLines
	var readout string
	if m.showReadout && ringRows > 1 {
		readout = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Readout)).
			Render(components.Fit(components.Readout(r.widget.Remaining(), r.widget.Config().Interval), innerW))
		ringRows--
	}

	lines = append(lines, lipgloss.Place(innerW, ringRows, lipgloss.Center, lipgloss.Center, m.renderRing(i, innerW, ringRows)))
	if readout != "" {
		lines = append(lines, readout)
	}

	border := m.theme.Border
	if i == m.focused {
		border = m.theme.BorderFocus
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(innerW).
		Height(innerH).
		Render(strings.Join(lines, "\n"))
	return m.zones.Mark(r.id, box)
}

// renderRing rasterizes ring i into the largest square that fits the cell
// area. With image output disabled it draws a progress bar instead. A ring
// whose angle and area are unchanged since the last call reuses its output.
func (m *Model) renderRing(i, cols, rows int) string {
	r := m.rings[i]
	w := r.widget
	shape := w.Shape()

	if m.renderer.Protocol() == terminal.ProtocolNone {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.RingFill)).
			Render(components.ProgressBar(shape.Angle/360, cols))
	}

	c, rw, side := m.renderer.SquareArea(cols, rows)
	if side == 0 {
		return ""
	}
	key := frameKey{widget: w, angle: shape.Angle, cols: c, rows: rw, side: side}
	if r.last.out != "" && r.last.key == key {
		return r.last.out
	}

	img := raster.Rasterize(shape, side, side, m.rasterOptions())
	out, err := m.renderer.Render(img, c, rw)
	if err != nil {
		m.logger.Error("render ring", "ring", r.cfg.Name, "error", err)
		return ""
	}
	r.last = ringFrame{key: key, out: out}
	return out
}

func (m *Model) rasterOptions() raster.Options {
	return ringRasterOptions(m.theme, m.showTrack, m.supersample)
}

// ringRasterOptions returns rasterizer options for a theme. The background
// stays transparent so the terminal's own shows through.
func ringRasterOptions(th theme.Theme, track bool, supersample int) raster.Options {
	opts := raster.Options{Supersample: supersample}
	if track {
		if c, err := theme.ParseHex(th.RingTrack); err == nil {
			opts.Track = c
		}
	}
	return opts
}

// applyHelpStyles colours the help line from the theme.
func (m *Model) applyHelpStyles() {
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.HelpKey))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.HelpDesc))
	sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Dim))

	m.help.Styles.ShortKey = keyStyle
	m.help.Styles.ShortDesc = descStyle
	m.help.Styles.ShortSeparator = sepStyle
	m.help.Styles.FullKey = keyStyle
	m.help.Styles.FullDesc = descStyle
	m.help.Styles.FullSeparator = sepStyle
}
