// Package render converts ring images into terminal output: Unicode half
// blocks for any terminal, or inline images through go-termimg where the
// terminal speaks kitty, iTerm2 or sixel.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/disintegration/imaging"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/terminal"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/theme"
)

// ErrDisabled is returned by Render when the protocol is ProtocolNone.
var ErrDisabled = errors.New("render: image output disabled")

// visibleAlpha is the lowest alpha a half-block pixel needs to be drawn.
const visibleAlpha = 0x20

const (
	upperHalf = "▀"
	lowerHalf = "▄"
	fullBlock = "█"
)

// Renderer turns images into terminal strings for one output terminal.
type Renderer struct {
	protocol terminal.GraphicsProtocol
	profile  termenv.Profile
	cellW    int
	cellH    int
	cache    *Cache
	logger   *slog.Logger
}

// NewRenderer creates a renderer for caps. caps.Protocol must already be
// resolved; ProtocolAuto is treated as half blocks.
func NewRenderer(caps terminal.Capabilities, cacheMB int, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	proto := caps.Protocol
	if proto == terminal.ProtocolAuto {
		proto = terminal.ProtocolHalfblocks
	}
	cw, ch := caps.Size.CellPixels()
	return &Renderer{
		protocol: proto,
		profile:  caps.Profile,
		cellW:    cw,
		cellH:    ch,
		cache:    NewCache(cacheMB),
		logger:   logger,
	}
}

// Protocol returns the output protocol.
func (r *Renderer) Protocol() terminal.GraphicsProtocol {
	return r.protocol
}

// Cache returns the renderer's output cache.
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// PixelSize returns the image size that fills a cols x rows cell area
// exactly: two pixels per cell vertically for half blocks, the terminal's
// cell pixel size for inline images.
func (r *Renderer) PixelSize(cols, rows int) (w, h int) {
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	switch r.protocol {
	case terminal.ProtocolNone:
		return 0, 0
	case terminal.ProtocolKitty, terminal.ProtocolITerm2, terminal.ProtocolSixel:
		return cols * r.cellW, rows * r.cellH
	default:
		return cols, rows * 2
	}
}

// SquareArea returns the largest square image, side pixels wide, that fits
// a cols x rows cell area, and the cell area it covers.
func (r *Renderer) SquareArea(cols, rows int) (c, rw, side int) {
	pw, ph := r.PixelSize(cols, rows)
	side = min(pw, ph)
	if side <= 0 {
		return 0, 0, 0
	}
	switch r.protocol {
	case terminal.ProtocolKitty, terminal.ProtocolITerm2, terminal.ProtocolSixel:
		c = (side + r.cellW - 1) / r.cellW
		rw = (side + r.cellH - 1) / r.cellH
	default:
		side &^= 1
		if side == 0 {
			return 0, 0, 0
		}
		c, rw = side, side/2
	}
	return c, rw, side
}

// Render draws img into a cols x rows cell area.
func (r *Renderer) Render(img image.Image, cols, rows int) (string, error) {
	if img == nil {
		return "", errors.New("render: image is nil")
	}
	if r.protocol == terminal.ProtocolNone {
		return "", ErrDisabled
	}
	if cols <= 0 || rows <= 0 {
		return "", nil
	}

	key := CacheKey{Protocol: r.protocol.String(), Cols: cols, Rows: rows, ImageHash: HashImage(img)}
	if out, ok := r.cache.Get(key); ok {
		return out, nil
	}

	var (
		out string
		err error
	)
	switch r.protocol {
	case terminal.ProtocolKitty:
		out, err = renderTermimg(img, termimg.Kitty, cols, rows)
	case terminal.ProtocolITerm2:
		out, err = renderTermimg(img, termimg.ITerm2, cols, rows)
	case terminal.ProtocolSixel:
		out, err = renderTermimg(img, termimg.Sixel, cols, rows)
	default:
		out = r.halfblocks(img, cols, rows)
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", r.protocol, err)
	}

	r.cache.Put(key, out)
	r.logger.Debug("frame rendered", "key", key, "bytes", len(out))
	return out, nil
}

func renderTermimg(img image.Image, proto termimg.Protocol, cols, rows int) (string, error) {
	ti := termimg.New(img)
	if ti == nil {
		return "", errors.New("go-termimg: failed to wrap image")
	}
	ti.Protocol(proto).Size(cols, rows).Scale(termimg.ScaleFit)
	return ti.Render()
}

// halfblocks renders img as rows lines of cols cells. Each cell shows two
// vertically stacked pixels: the upper one as the foreground of an upper
// half block, the lower one as its background. Colours go through the
// terminal's profile, so 256 and 16 colour terminals get the nearest match
// and colourless terminals still see the ring's silhouette.
func (r *Renderer) halfblocks(img image.Image, cols, rows int) string {
	var src *image.NRGBA
	if b := img.Bounds(); b.Dx() == cols && b.Dy() == rows*2 {
		if n, ok := img.(*image.NRGBA); ok {
			src = n
		}
	}
	if src == nil {
		src = imaging.Resize(img, cols, rows*2, imaging.Box)
	}
	b := src.Bounds()

	var sb strings.Builder
	sb.Grow(cols * rows * 24)
	for y := 0; y < rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			top := src.NRGBAAt(b.Min.X+x, b.Min.Y+2*y)
			bot := src.NRGBAAt(b.Min.X+x, b.Min.Y+2*y+1)
			sb.WriteString(r.cell(top, bot))
		}
	}
	return sb.String()
}

// cell returns one styled half-block cell.
func (r *Renderer) cell(top, bot color.NRGBA) string {
	tv, bv := top.A >= visibleAlpha, bot.A >= visibleAlpha
	switch {
	case !tv && !bv:
		return " "
	case !bv:
		return r.profile.String(upperHalf).Foreground(r.color(top)).String()
	case !tv:
		return r.profile.String(lowerHalf).Foreground(r.color(bot)).String()
	case top == bot || r.profile == termenv.Ascii:
		return r.profile.String(fullBlock).Foreground(r.color(top)).String()
	default:
		return r.profile.String(upperHalf).
			Foreground(r.color(top)).
			Background(r.color(bot)).
			String()
	}
}

func (r *Renderer) color(c color.NRGBA) termenv.Color {
	return r.profile.Color(theme.Hex(c))
}
