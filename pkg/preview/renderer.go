package preview

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/blacktop/go-termimg"

	"gitlab.com/tinyland/lab/onehand/pkg/ingest"
	"gitlab.com/tinyland/lab/onehand/pkg/terminal"
)

// ErrDisabled is returned when the protocol is ProtocolNone.
var ErrDisabled = errors.New("preview: image output disabled")

var errNoImage = errors.New("preview: no image")

// maxCanvasEdge caps the pixel canvas for graphics protocols.
const maxCanvasEdge = 2048

// Renderer turns the displayed asset and transform into terminal output.
// Rendered frames are cached by asset, size and transform.
type Renderer struct {
	protocol terminal.GraphicsProtocol
	cellW    int
	cellH    int
	composer Composer
	cache    *ingest.VariantCache
}

// NewRenderer returns a Renderer for protocol. cellW and cellH are the
// terminal cell size in pixels (0 uses 8x16). cache may be nil.
func NewRenderer(protocol terminal.GraphicsProtocol, cellW, cellH int, cache *ingest.VariantCache) *Renderer {
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	return &Renderer{
		protocol: protocol,
		cellW:    cellW,
		cellH:    cellH,
		composer: DefaultComposer(),
		cache:    cache,
	}
}

// Protocol returns the output protocol.
func (r *Renderer) Protocol() terminal.GraphicsProtocol {
	return r.protocol
}

// Canvas returns the pixel canvas used for a cols x rows cell area.
// Half blocks give one pixel per column and two per row.
func (r *Renderer) Canvas(cols, rows int) image.Point {
	if cols <= 0 || rows <= 0 {
		return image.Point{}
	}
	if r.protocol == terminal.ProtocolHalfblocks {
		return image.Pt(cols, rows*2)
	}
	w, h := cols*r.cellW, rows*r.cellH
	if long := max(w, h); long > maxCanvasEdge {
		f := float64(maxCanvasEdge) / float64(long)
		w = max(1, int(math.Round(float64(w)*f)))
		h = max(1, int(math.Round(float64(h)*f)))
	}
	return image.Pt(w, h)
}

// Render draws asset under t into a cols x rows cell area.
func (r *Renderer) Render(asset *ingest.Asset, t Transform, cols, rows int) (string, error) {
	if r.protocol == terminal.ProtocolNone {
		return "", ErrDisabled
	}
	if asset == nil || asset.Image == nil {
		return "", errNoImage
	}
	if cols <= 0 || rows <= 0 {
		return "", nil
	}

	key := ingest.VariantKey{
		Asset:     asset.ID,
		Kind:      r.protocol.String(),
		Width:     cols,
		Height:    rows,
		Transform: transformKey(t),
	}
	if r.cache != nil {
		if s, ok := r.cache.Get(key); ok {
			return s, nil
		}
	}

	canvas := r.composer.Compose(asset.Image, t, r.Canvas(cols, rows))

	var out string
	var err error
	switch r.protocol {
	case terminal.ProtocolKitty:
		out, err = renderTermimg(canvas, termimg.Kitty, cols, rows)
	case terminal.ProtocolITerm2:
		out, err = renderTermimg(canvas, termimg.ITerm2, cols, rows)
	case terminal.ProtocolSixel:
		out, err = renderTermimg(canvas, termimg.Sixel, cols, rows)
	default:
		out = Halfblocks(canvas)
	}
	if err != nil {
		return "", fmt.Errorf("preview: render %s: %w", r.protocol, err)
	}

	if r.cache != nil {
		r.cache.Put(key, out)
	}
	return out, nil
}

func renderTermimg(img image.Image, proto termimg.Protocol, cols, rows int) (string, error) {
	ti := termimg.New(img)
	if ti == nil {
		return "", fmt.Errorf("go-termimg: failed to create image wrapper")
	}
	return ti.Protocol(proto).Size(cols, rows).Scale(termimg.ScaleFit).Render()
}

// transformKey quantizes t so sub-pixel jitter does not defeat the cache.
func transformKey(t Transform) string {
	return fmt.Sprintf("%.3f/%.2f/%.1f,%.1f/%gx%g",
		t.Scale, t.Rotation, t.Offset.X, t.Offset.Y, t.Viewport.W, t.Viewport.H)
}
