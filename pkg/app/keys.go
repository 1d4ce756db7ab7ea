package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds keys to viewer actions. Terminals report no key release, so
// the hold bindings toggle a continuous ramp on and off.
type KeyMap struct {
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	ZoomMax     key.Binding
	ZoomMin     key.Binding
	HoldZoomIn  key.Binding
	HoldZoomOut key.Binding

	RotateCW      key.Binding
	RotateCCW     key.Binding
	HoldRotateCW  key.Binding
	HoldRotateCCW key.Binding

	PanUp    key.Binding
	PanDown  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding

	Motion      key.Binding
	Recalibrate key.Binding
	Orientation key.Binding
	TiltUp      key.Binding
	TiltDown    key.Binding
	TiltLeft    key.Binding
	TiltRight   key.Binding

	Reset     key.Binding
	Clear     key.Binding
	NextImage key.Binding
	PrevImage key.Binding

	BuyPro     key.Binding
	BuyExtreme key.Binding
	Restore    key.Binding
	Accept     key.Binding
	Dismiss    key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		ZoomMax:     key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "max zoom")),
		ZoomMin:     key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "min zoom")),
		HoldZoomIn:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "hold zoom in")),
		HoldZoomOut: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "hold zoom out")),

		RotateCW:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rotate")),
		RotateCCW:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rotate back")),
		HoldRotateCW:  key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "hold rotate")),
		HoldRotateCCW: key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "hold rotate back")),

		PanUp:    key.NewBinding(key.WithKeys("k"), key.WithHelp("hjkl", "pan")),
		PanDown:  key.NewBinding(key.WithKeys("j")),
		PanLeft:  key.NewBinding(key.WithKeys("h")),
		PanRight: key.NewBinding(key.WithKeys("l")),

		Motion:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "motion")),
		Recalibrate: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "recalibrate")),
		Orientation: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "orientation")),
		TiltUp:      key.NewBinding(key.WithKeys("up"), key.WithHelp("←↑↓→", "tilt")),
		TiltDown:    key.NewBinding(key.WithKeys("down")),
		TiltLeft:    key.NewBinding(key.WithKeys("left")),
		TiltRight:   key.NewBinding(key.WithKeys("right")),

		Reset:     key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		Clear:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		NextImage: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next image")),
		PrevImage: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous image")),

		BuyPro:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "buy pro")),
		BuyExtreme: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "buy extreme")),
		Restore:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "restore")),
		Accept:     key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "buy")),
		Dismiss:    key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "not now")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.RotateCW, k.Motion, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.ZoomMax, k.ZoomMin, k.HoldZoomIn, k.HoldZoomOut},
		{k.RotateCW, k.RotateCCW, k.HoldRotateCW, k.HoldRotateCCW, k.PanUp},
		{k.Motion, k.Recalibrate, k.Orientation, k.TiltUp},
		{k.Reset, k.Clear, k.NextImage, k.PrevImage},
		{k.BuyPro, k.BuyExtreme, k.Restore, k.Help, k.Quit},
	}
}
