package terminal

import (
	"os"
	"testing"
)

// termEnvVars lists every variable detection reads.
var termEnvVars = []string{
	"TERM_PROGRAM", "TERM", "COLORTERM",
	"KITTY_WINDOW_ID", "ITERM_SESSION_ID", "WEZTERM_EXECUTABLE",
	"LC_TERMINAL", "TMUX",
	"SSH_TTY", "SSH_CONNECTION", "SSH_CLIENT",
	"COLUMNS", "LINES",
}

// clearTermEnv unsets the detection variables; t.Setenv restores them.
func clearTermEnv(t *testing.T) {
	t.Helper()
	for _, v := range termEnvVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

// --- Detect ---

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Terminal
	}{
		{"ghostty program", map[string]string{"TERM_PROGRAM": "ghostty"}, TermGhostty},
		{"ghostty term", map[string]string{"TERM": "xterm-ghostty"}, TermGhostty},
		{"kitty program", map[string]string{"TERM_PROGRAM": "kitty"}, TermKitty},
		{"kitty term", map[string]string{"TERM": "xterm-kitty"}, TermKitty},
		{"kitty window", map[string]string{"KITTY_WINDOW_ID": "3"}, TermKitty},
		{"wezterm program", map[string]string{"TERM_PROGRAM": "WezTerm"}, TermWezTerm},
		{"wezterm executable", map[string]string{"WEZTERM_EXECUTABLE": "/bin/wezterm"}, TermWezTerm},
		{"iterm2 program", map[string]string{"TERM_PROGRAM": "iTerm.app"}, TermITerm2},
		{"iterm2 session", map[string]string{"ITERM_SESSION_ID": "w0t0p0"}, TermITerm2},
		{"iterm2 over ssh", map[string]string{"LC_TERMINAL": "iTerm2"}, TermITerm2},
		{"vscode", map[string]string{"TERM_PROGRAM": "vscode"}, TermVSCode},
		{"tmux", map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0"}, TermTmux},
		{"program wins over tmux", map[string]string{"TERM_PROGRAM": "ghostty", "TMUX": "x"}, TermGhostty},
		{"generic", map[string]string{"TERM": "xterm-256color"}, TermGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTermEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := Detect(); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminal_String(t *testing.T) {
	if TermGhostty.String() != "ghostty" || TermGeneric.String() != "generic" {
		t.Error("unexpected terminal names")
	}
	if Terminal(99).String() != "unknown" {
		t.Errorf("expected unknown, got %q", Terminal(99).String())
	}
}

func TestTerminal_SupportsTrueColor(t *testing.T) {
	clearTermEnv(t)
	if !TermKitty.SupportsTrueColor() {
		t.Error("kitty supports true color")
	}
	if TermGeneric.SupportsTrueColor() {
		t.Error("generic terminal without COLORTERM should not claim true color")
	}
	t.Setenv("COLORTERM", "24bit")
	if !TermGeneric.SupportsTrueColor() {
		t.Error("COLORTERM=24bit should enable true color")
	}
}

// --- Protocol ---

func TestSelectProtocol(t *testing.T) {
	clearTermEnv(t)
	tests := map[Terminal]GraphicsProtocol{
		TermGhostty: ProtocolKitty,
		TermKitty:   ProtocolKitty,
		TermWezTerm: ProtocolKitty,
		TermITerm2:  ProtocolITerm2,
		TermVSCode:  ProtocolHalfblocks,
		TermTmux:    ProtocolHalfblocks,
		TermGeneric: ProtocolHalfblocks,
	}
	for term, want := range tests {
		if got := SelectProtocol(term); got != want {
			t.Errorf("SelectProtocol(%v) = %v, want %v", term, got, want)
		}
	}
}

func TestSelectProtocol_SSH_Downgrade(t *testing.T) {
	clearTermEnv(t)
	t.Setenv("SSH_TTY", "/dev/pts/0")
	if got := SelectProtocol(TermKitty); got != ProtocolHalfblocks {
		t.Errorf("SelectProtocol(kitty over ssh) = %v, want halfblocks", got)
	}
}

func TestSelectProtocolWithOverride(t *testing.T) {
	clearTermEnv(t)
	tests := []struct {
		override string
		want     GraphicsProtocol
	}{
		{"kitty", ProtocolKitty},
		{"ITERM2", ProtocolITerm2},
		{"sixel", ProtocolSixel},
		{"unicode", ProtocolHalfblocks},
		{"none", ProtocolNone},
		{"", ProtocolKitty},
		{"auto", ProtocolKitty},
		{"bogus", ProtocolKitty},
	}
	for _, tt := range tests {
		if got := SelectProtocolWithOverride(TermGhostty, tt.override); got != tt.want {
			t.Errorf("override %q = %v, want %v", tt.override, got, tt.want)
		}
	}
}

func TestParseProtocol(t *testing.T) {
	if _, auto, err := ParseProtocol("auto"); !auto || err != nil {
		t.Errorf("expected auto, got auto=%v err=%v", auto, err)
	}
	if _, _, err := ParseProtocol("ascii-art"); err == nil {
		t.Error("expected error for unknown protocol")
	}
	for p := ProtocolNone; p <= ProtocolHalfblocks; p++ {
		got, auto, err := ParseProtocol(p.String())
		if err != nil || auto || got != p {
			t.Errorf("ParseProtocol(%q) = %v, %v, %v", p.String(), got, auto, err)
		}
	}
}

// --- Size ---

func TestGetSize_EnvFallback(t *testing.T) {
	clearTermEnv(t)
	t.Setenv("COLUMNS", "120")
	t.Setenv("LINES", "40")
	s := getSizeFromEnv()
	if s.Cols != 120 || s.Rows != 40 {
		t.Errorf("expected 120x40, got %dx%d", s.Cols, s.Rows)
	}
}

func TestGetSize_Defaults(t *testing.T) {
	clearTermEnv(t)
	s := getSizeFromEnv()
	if s.Cols != 80 || s.Rows != 24 {
		t.Errorf("expected 80x24, got %dx%d", s.Cols, s.Rows)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("ONEHAND_TEST_INT", "-3")
	if got := envInt("ONEHAND_TEST_INT", 7); got != 7 {
		t.Errorf("negative value should fall back, got %d", got)
	}
	t.Setenv("ONEHAND_TEST_INT", "12")
	if got := envInt("ONEHAND_TEST_INT", 7); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
}

func TestSize_Cell(t *testing.T) {
	w, h := Size{}.Cell()
	if w != DefaultCellW || h != DefaultCellH {
		t.Errorf("expected default cell, got %dx%d", w, h)
	}
	w, h = Size{CellW: 10, CellH: 22}.Cell()
	if w != 10 || h != 22 {
		t.Errorf("expected 10x22, got %dx%d", w, h)
	}
}

func TestSize_Shrink(t *testing.T) {
	s := Size{Cols: 80, Rows: 24}.Shrink(0, 3)
	if s.Cols != 80 || s.Rows != 21 {
		t.Errorf("expected 80x21, got %dx%d", s.Cols, s.Rows)
	}
	if s := (Size{Cols: 2, Rows: 2}).Shrink(5, 5); s.Cols != 1 || s.Rows != 1 {
		t.Errorf("expected floor of 1x1, got %dx%d", s.Cols, s.Rows)
	}
}

func TestSize_Viewport(t *testing.T) {
	got := Size{Cols: 40, Rows: 10, CellW: 9, CellH: 18}.Viewport()
	if got.W != 360 || got.H != 180 {
		t.Errorf("expected 360x180, got %vx%v", got.W, got.H)
	}
	got = Size{Cols: 40, Rows: 10}.Viewport()
	if got.W != 320 || got.H != 160 {
		t.Errorf("expected default cells 320x160, got %vx%v", got.W, got.H)
	}
}

func TestDetectCapabilities(t *testing.T) {
	clearTermEnv(t)
	t.Setenv("TERM_PROGRAM", "iTerm.app")
	caps := DetectCapabilities("")
	if caps.Term != TermITerm2 || caps.Protocol != ProtocolITerm2 || !caps.TrueColor {
		t.Errorf("unexpected capabilities %+v", caps)
	}
	if caps = DetectCapabilities("none"); caps.Protocol != ProtocolNone {
		t.Errorf("expected override to none, got %v", caps.Protocol)
	}
}
