package terminal

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Capabilities summarises what the output terminal can do.
type Capabilities struct {
	Term     Terminal
	Protocol GraphicsProtocol // never ProtocolAuto
	Size     Size
	Profile  termenv.Profile
	TTY      bool
	SSH      bool
}

// DetectCapabilities inspects the terminal behind out. override forces a
// graphics protocol unless it is ProtocolAuto. When out is not a terminal
// images fall back to half blocks and the colour profile to what the
// environment advertises.
func DetectCapabilities(out *os.File, override GraphicsProtocol) Capabilities {
	t := Detect()
	tty := out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()))

	profile := termenv.EnvColorProfile()
	if tty {
		profile = termenv.NewOutput(out).EnvColorProfile()
	}
	if profile > termenv.TrueColor && t.SupportsTrueColor() {
		profile = termenv.TrueColor
	}

	proto := Resolve(t, override)
	if !tty && override == ProtocolAuto {
		proto = ProtocolHalfblocks
	}

	return Capabilities{
		Term:     t,
		Protocol: proto,
		Size:     GetSize(out),
		Profile:  profile,
		TTY:      tty,
		SSH:      isSSH(),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
