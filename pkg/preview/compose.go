// Package preview draws the viewport into a terminal: it composes the
// working image under the current transform onto a canvas and encodes the
// canvas with half-block characters or a terminal graphics protocol.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"gitlab.com/tinyland/lab/onehand/pkg/boundary"
)

// Transform is the view transform to draw with. Offset is expressed in
// Viewport units; the canvas may be a different size and is scaled to
// match.
type Transform struct {
	Scale    float64
	Rotation float64
	Offset   boundary.Offset
	Viewport boundary.Size
}

// Composer draws a source image under a Transform.
type Composer struct {
	Interpolator xdraw.Interpolator
	Background   color.Color
}

// DefaultComposer uses approximate bilinear sampling on a black canvas.
func DefaultComposer() Composer {
	return Composer{Interpolator: xdraw.ApproxBiLinear, Background: color.Black}
}

// Matrix returns the source-to-canvas affine transform: fit the image into
// the viewport, zoom by Scale, rotate clockwise by Rotation degrees about
// the image center, then translate to the canvas center plus Offset.
func Matrix(src image.Rectangle, t Transform, canvas image.Point) f64.Aff3 {
	srcSize := boundary.Size{W: float64(src.Dx()), H: float64(src.Dy())}
	view := t.Viewport
	if view.Empty() {
		view = boundary.Size{W: float64(canvas.X), H: float64(canvas.Y)}
	}
	fit := boundary.FitSize(srcSize, view)
	if srcSize.Empty() || fit.Empty() {
		return f64.Aff3{}
	}

	// viewport units -> canvas pixels
	unit := math.Min(float64(canvas.X)/view.W, float64(canvas.Y)/view.H)
	k := fit.W / srcSize.W * t.Scale * unit

	rad := t.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	cx := float64(src.Min.X) + srcSize.W/2
	cy := float64(src.Min.Y) + srcSize.H/2
	tx := float64(canvas.X)/2 + t.Offset.X*unit
	ty := float64(canvas.Y)/2 + t.Offset.Y*unit

	a, b := k*cos, -k*sin
	d, e := k*sin, k*cos
	return f64.Aff3{
		a, b, tx - a*cx - b*cy,
		d, e, ty - d*cx - e*cy,
	}
}

// Compose returns a canvas of the given size with src drawn under t.
func (c Composer) Compose(src image.Image, t Transform, canvas image.Point) *image.NRGBA {
	if canvas.X <= 0 || canvas.Y <= 0 {
		return image.NewNRGBA(image.Rectangle{})
	}
	dst := image.NewNRGBA(image.Rect(0, 0, canvas.X, canvas.Y))
	bg := c.Background
	if bg == nil {
		bg = color.Black
	}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	if src == nil || t.Scale <= 0 {
		return dst
	}

	m := Matrix(src.Bounds(), t, canvas)
	if m == (f64.Aff3{}) {
		return dst
	}
	interp := c.Interpolator
	if interp == nil {
		interp = xdraw.ApproxBiLinear
	}
	interp.Transform(dst, m, src, src.Bounds(), xdraw.Over, nil)
	return dst
}
