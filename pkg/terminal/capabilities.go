package terminal

// Capabilities summarizes what the viewer can draw in this session.
type Capabilities struct {
	Term      Terminal
	Protocol  GraphicsProtocol
	Size      Size
	TrueColor bool
	SSH       bool
}

// DetectCapabilities inspects the environment and window once. override is
// the configured protocol ("" or "auto" to detect).
func DetectCapabilities(override string) Capabilities {
	term := Detect()
	return Capabilities{
		Term:      term,
		Protocol:  SelectProtocolWithOverride(term, override),
		Size:      GetSize(),
		TrueColor: term.SupportsTrueColor(),
		SSH:       isSSH(),
	}
}
