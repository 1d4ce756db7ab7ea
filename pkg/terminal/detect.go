// Package terminal identifies the terminal the viewer runs in, picks the
// graphics protocol used to draw the image, and reports the window size in
// cells and pixels.
//
// Detection reads environment variables only; it performs no terminal
// queries.
package terminal

import (
	"os"
	"strings"
)

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermGeneric Terminal = iota
	TermGhostty          // kitty graphics
	TermKitty            // kitty graphics
	TermWezTerm          // kitty graphics, sixel
	TermITerm2           // iterm2 inline images
	TermVSCode           // half blocks
	TermTmux             // passthrough unreliable, half blocks
)

var terminalNames = [...]string{
	TermGeneric: "generic",
	TermGhostty: "ghostty",
	TermKitty:   "kitty",
	TermWezTerm: "wezterm",
	TermITerm2:  "iterm2",
	TermVSCode:  "vscode",
	TermTmux:    "tmux",
}

// String returns the terminal name.
func (t Terminal) String() string {
	if int(t) >= 0 && int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// SupportsTrueColor reports whether the terminal renders 24-bit color,
// which the half-block renderer needs.
func (t Terminal) SupportsTrueColor() bool {
	switch t {
	case TermGhostty, TermKitty, TermWezTerm, TermITerm2, TermVSCode:
		return true
	}
	ct := os.Getenv("COLORTERM")
	return ct == "truecolor" || ct == "24bit"
}

// Detect identifies the terminal from TERM_PROGRAM, then TERM, then
// emulator-specific variables, then multiplexer variables.
func Detect() Terminal {
	switch strings.ToLower(os.Getenv("TERM_PROGRAM")) {
	case "ghostty":
		return TermGhostty
	case "kitty":
		return TermKitty
	case "wezterm":
		return TermWezTerm
	case "iterm.app":
		return TermITerm2
	case "vscode":
		return TermVSCode
	case "tmux":
		return TermTmux
	}

	switch os.Getenv("TERM") {
	case "xterm-ghostty":
		return TermGhostty
	case "xterm-kitty":
		return TermKitty
	}

	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "":
		return TermKitty
	case os.Getenv("ITERM_SESSION_ID") != "", os.Getenv("LC_TERMINAL") == "iTerm2":
		return TermITerm2
	case os.Getenv("WEZTERM_EXECUTABLE") != "":
		return TermWezTerm
	case os.Getenv("TMUX") != "":
		return TermTmux
	}
	return TermGeneric
}
