package terminal

import (
	"fmt"
	"os"
	"strings"
)

// GraphicsProtocol is how the image is drawn.
type GraphicsProtocol int

const (
	ProtocolNone       GraphicsProtocol = iota // text status only
	ProtocolKitty                              // kitty graphics protocol
	ProtocolITerm2                             // iTerm2 inline images
	ProtocolSixel                              // sixel
	ProtocolHalfblocks                         // U+2580 with 24-bit color
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
	ProtocolHalfblocks: "halfblocks",
}

// String returns the protocol name used in configuration.
func (p GraphicsProtocol) String() string {
	if int(p) >= 0 && int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// ParseProtocol maps a configuration value to a protocol. "auto" and ""
// return auto=true so the caller falls back to detection.
func ParseProtocol(s string) (p GraphicsProtocol, auto bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ProtocolHalfblocks, true, nil
	case "kitty":
		return ProtocolKitty, false, nil
	case "iterm2":
		return ProtocolITerm2, false, nil
	case "sixel":
		return ProtocolSixel, false, nil
	case "halfblocks", "half-blocks", "unicode":
		return ProtocolHalfblocks, false, nil
	case "none", "off":
		return ProtocolNone, false, nil
	default:
		return ProtocolHalfblocks, false, fmt.Errorf("terminal: unknown protocol %q", s)
	}
}

// SelectProtocol returns the best protocol for term. Over SSH every
// graphics protocol degrades to half blocks.
func SelectProtocol(term Terminal) GraphicsProtocol {
	if isSSH() {
		return ProtocolHalfblocks
	}
	switch term {
	case TermGhostty, TermKitty, TermWezTerm:
		return ProtocolKitty
	case TermITerm2:
		return ProtocolITerm2
	default:
		return ProtocolHalfblocks
	}
}

// SelectProtocolWithOverride applies a configured override, detecting when
// it is empty, "auto" or unrecognized.
func SelectProtocolWithOverride(term Terminal, override string) GraphicsProtocol {
	p, auto, err := ParseProtocol(override)
	if auto || err != nil {
		return SelectProtocol(term)
	}
	return p
}

func isSSH() bool {
	return os.Getenv("SSH_TTY") != "" ||
		os.Getenv("SSH_CONNECTION") != "" ||
		os.Getenv("SSH_CLIENT") != ""
}
