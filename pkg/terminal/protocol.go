package terminal

import (
	"fmt"
	"strings"
)

// GraphicsProtocol identifies how ring images reach the screen.
type GraphicsProtocol int

const (
	ProtocolAuto       GraphicsProtocol = iota // pick from detection
	ProtocolHalfblocks                         // Unicode half blocks with ANSI colour
	ProtocolKitty                              // Kitty graphics protocol
	ProtocolITerm2                             // iTerm2 inline images
	ProtocolSixel                              // Sixel
	ProtocolNone                               // images disabled
)

var protocolNames = [...]string{
	ProtocolAuto:       "auto",
	ProtocolHalfblocks: "halfblocks",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
	ProtocolNone:       "none",
}

// String returns the protocol name as accepted by ParseProtocol.
func (p GraphicsProtocol) String() string {
	if int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// ParseProtocol maps a configuration value to a protocol. The empty string
// means ProtocolAuto.
func ParseProtocol(s string) (GraphicsProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ProtocolAuto, nil
	case "halfblocks", "half-blocks", "unicode":
		return ProtocolHalfblocks, nil
	case "kitty":
		return ProtocolKitty, nil
	case "iterm2":
		return ProtocolITerm2, nil
	case "sixel":
		return ProtocolSixel, nil
	case "none", "off", "disabled":
		return ProtocolNone, nil
	default:
		return ProtocolAuto, fmt.Errorf("unknown graphics protocol %q", s)
	}
}

// SelectProtocol returns the best protocol for term. Over SSH every image
// protocol degrades to half blocks, which always survive the hop.
func SelectProtocol(term Terminal) GraphicsProtocol {
	var proto GraphicsProtocol
	switch term {
	case TermGhostty, TermKitty, TermWezTerm:
		proto = ProtocolKitty
	case TermITerm2:
		proto = ProtocolITerm2
	default:
		proto = ProtocolHalfblocks
	}
	if isSSH() {
		return ProtocolHalfblocks
	}
	return proto
}

// Resolve returns override unless it is ProtocolAuto, in which case the
// protocol is selected from term.
func Resolve(term Terminal, override GraphicsProtocol) GraphicsProtocol {
	if override != ProtocolAuto {
		return override
	}
	return SelectProtocol(term)
}
