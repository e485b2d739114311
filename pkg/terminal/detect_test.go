package terminal

import (
	"os"
	"testing"
)

// termEnvVars lists every environment variable inspected during detection.
var termEnvVars = []string{
	"TERM_PROGRAM", "TERM", "COLORTERM",
	"KITTY_WINDOW_ID", "ITERM_SESSION_ID", "WEZTERM_EXECUTABLE",
	"VTE_VERSION", "LC_TERMINAL", "TMUX", "STY",
	"SSH_TTY", "SSH_CONNECTION", "SSH_CLIENT",
	"COLUMNS", "LINES",
}

// clearTermEnv unsets all terminal-related env vars. t.Setenv registers the
// restore, Unsetenv makes the variable truly absent for the test.
func clearTermEnv(t *testing.T) {
	t.Helper()
	for _, v := range termEnvVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Terminal
	}{
		{"nothing set", nil, TermGeneric},
		{"ghostty term program", map[string]string{"TERM_PROGRAM": "ghostty"}, TermGhostty},
		{"ghostty term", map[string]string{"TERM": "xterm-ghostty"}, TermGhostty},
		{"kitty term", map[string]string{"TERM": "xterm-kitty"}, TermKitty},
		{"kitty window id", map[string]string{"KITTY_WINDOW_ID": "1"}, TermKitty},
		{"wezterm", map[string]string{"TERM_PROGRAM": "WezTerm"}, TermWezTerm},
		{"wezterm executable", map[string]string{"WEZTERM_EXECUTABLE": "/usr/bin/wezterm"}, TermWezTerm},
		{"iterm2", map[string]string{"TERM_PROGRAM": "iTerm.app"}, TermITerm2},
		{"iterm2 over lc_terminal", map[string]string{"LC_TERMINAL": "iTerm2"}, TermITerm2},
		{"alacritty", map[string]string{"TERM": "alacritty"}, TermAlacritty},
		{"vte", map[string]string{"VTE_VERSION": "7600"}, TermVTE},
		{"vscode", map[string]string{"TERM_PROGRAM": "vscode"}, TermVSCode},
		{"tmux", map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0"}, TermTmux},
		{"screen", map[string]string{"STY": "1234.pts-0"}, TermScreen},
		{"term program wins over tmux", map[string]string{"TERM_PROGRAM": "kitty", "TMUX": "x"}, TermKitty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTermEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := Detect(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTerminalString(t *testing.T) {
	if TermKitty.String() != "kitty" {
		t.Errorf("expected kitty, got %q", TermKitty.String())
	}
	if Terminal(99).String() != "unknown" {
		t.Errorf("expected unknown, got %q", Terminal(99).String())
	}
}

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		in   string
		want GraphicsProtocol
	}{
		{"", ProtocolAuto},
		{"auto", ProtocolAuto},
		{"Kitty", ProtocolKitty},
		{"iterm2", ProtocolITerm2},
		{"sixel", ProtocolSixel},
		{"unicode", ProtocolHalfblocks},
		{" halfblocks ", ProtocolHalfblocks},
		{"off", ProtocolNone},
	}
	for _, tt := range tests {
		got, err := ParseProtocol(tt.in)
		if err != nil {
			t.Errorf("ParseProtocol(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseProtocol(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := ParseProtocol("braille"); err == nil {
		t.Error("expected an error for an unknown protocol")
	}
}

func TestSelectProtocol(t *testing.T) {
	clearTermEnv(t)
	tests := []struct {
		term Terminal
		want GraphicsProtocol
	}{
		{TermGhostty, ProtocolKitty},
		{TermKitty, ProtocolKitty},
		{TermWezTerm, ProtocolKitty},
		{TermITerm2, ProtocolITerm2},
		{TermAlacritty, ProtocolHalfblocks},
		{TermGeneric, ProtocolHalfblocks},
	}
	for _, tt := range tests {
		if got := SelectProtocol(tt.term); got != tt.want {
			t.Errorf("SelectProtocol(%v): expected %v, got %v", tt.term, tt.want, got)
		}
	}
}

func TestSelectProtocolOverSSH(t *testing.T) {
	clearTermEnv(t)
	t.Setenv("SSH_CONNECTION", "10.0.0.1 22 10.0.0.2 50000")
	if got := SelectProtocol(TermKitty); got != ProtocolHalfblocks {
		t.Errorf("expected halfblocks over ssh, got %v", got)
	}
}

func TestResolveOverride(t *testing.T) {
	clearTermEnv(t)
	if got := Resolve(TermGeneric, ProtocolSixel); got != ProtocolSixel {
		t.Errorf("expected override to win, got %v", got)
	}
	if got := Resolve(TermKitty, ProtocolAuto); got != ProtocolKitty {
		t.Errorf("expected auto to select kitty, got %v", got)
	}
}

func TestGetSizeFallsBackToEnv(t *testing.T) {
	clearTermEnv(t)
	t.Setenv("COLUMNS", "132")
	t.Setenv("LINES", "43")

	s := GetSize(nil)
	if s.Cols != 132 || s.Rows != 43 {
		t.Errorf("expected 132x43, got %dx%d", s.Cols, s.Rows)
	}

	t.Setenv("COLUMNS", "wide")
	os.Unsetenv("LINES")
	s = GetSize(nil)
	if s.Cols != 80 || s.Rows != 24 {
		t.Errorf("expected 80x24 default, got %dx%d", s.Cols, s.Rows)
	}
}

func TestCellPixelsDefaults(t *testing.T) {
	w, h := Size{Cols: 80, Rows: 24}.CellPixels()
	if w != DefaultCellW || h != DefaultCellH {
		t.Errorf("expected %dx%d, got %dx%d", DefaultCellW, DefaultCellH, w, h)
	}
	w, h = Size{CellW: 10, CellH: 20}.CellPixels()
	if w != 10 || h != 20 {
		t.Errorf("expected 10x20, got %dx%d", w, h)
	}
}

func TestDetectCapabilitiesNonTTY(t *testing.T) {
	clearTermEnv(t)
	t.Setenv("TERM_PROGRAM", "kitty")

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	caps := DetectCapabilities(f, ProtocolAuto)
	if caps.TTY {
		t.Error("expected a regular file not to be a tty")
	}
	if caps.Protocol != ProtocolHalfblocks {
		t.Errorf("expected halfblocks for non-tty output, got %v", caps.Protocol)
	}
	if caps.Term != TermKitty {
		t.Errorf("expected kitty, got %v", caps.Term)
	}

	caps = DetectCapabilities(f, ProtocolSixel)
	if caps.Protocol != ProtocolSixel {
		t.Errorf("expected explicit override to survive, got %v", caps.Protocol)
	}
}
