// Package ingest turns a freshly picked image into a working copy sized for
// the viewport: downsampled to the device memory budget and recompressed
// with a quality chosen from the output pixel count.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/disintegration/imaging"

	"gitlab.com/tinyland/lab/onehand/pkg/boundary"
)

// ErrNilImage is returned when Ingest is called without an image.
var ErrNilImage = errors.New("ingest: nil image")

// Quality steps keyed by output pixel count.
const (
	qualityLarge  = 0.6
	qualityMedium = 0.7
	qualitySmall  = 0.8

	largePixels  = 4_000_000
	mediumPixels = 2_000_000
)

// QualityFor returns the compression quality (0..1) for an output of the
// given pixel count.
func QualityFor(pixels int) float64 {
	switch {
	case pixels > largePixels:
		return qualityLarge
	case pixels > mediumPixels:
		return qualityMedium
	default:
		return qualitySmall
	}
}

// Asset is the working copy of one picked image.
type Asset struct {
	// ID is unique per ingest and keys derived render caches.
	ID uint64
	// Image is the working bitmap the viewport displays.
	Image image.Image
	// NativeSize is the size of the image as picked.
	NativeSize boundary.Size
	// WorkingSize is the size of Image.
	WorkingSize boundary.Size
	// Budget is the memory tier the asset was prepared for.
	Budget Budget
	// Quality is the compression quality applied, 0 when Fallback is set.
	Quality float64
	// Fallback is set when compression failed and Image is the original.
	Fallback bool
}

// codec round-trips an image through a lossy encoding.
type codec interface {
	compress(img image.Image, quality float64) (image.Image, error)
}

type jpegCodec struct{}

func (jpegCodec) compress(img image.Image, quality float64) (image.Image, error) {
	var buf bytes.Buffer
	q := int(math.Round(quality * 100))
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
		return nil, fmt.Errorf("ingest: encode: %w", err)
	}
	out, err := imaging.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("ingest: decode: %w", err)
	}
	return out, nil
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for ingest results and fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// withCodec replaces the compression step; tests use it to force failures.
func withCodec(c codec) Option {
	return func(p *Pipeline) { p.codec = c }
}

// Pipeline prepares working copies. It is safe for concurrent use.
type Pipeline struct {
	codec  codec
	logger *slog.Logger
	nextID atomic.Uint64
}

// NewPipeline returns a Pipeline that compresses with JPEG.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{codec: jpegCodec{}, logger: slog.Default()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// TargetSize returns the working size for an image of size src under
// budget. Images that already fit are returned unchanged; larger ones are
// scaled uniformly by budget/longEdge. It never upscales.
func TargetSize(src boundary.Size, budget Budget) boundary.Size {
	long := src.LongEdge()
	limit := float64(budget.MaxLongEdge())
	if long <= limit || long <= 0 {
		return src
	}
	f := limit / long
	w := math.Max(1, math.Round(src.W*f))
	h := math.Max(1, math.Round(src.H*f))
	return boundary.Size{W: math.Min(w, limit), H: math.Min(h, limit)}
}

// Ingest produces the working copy of img for budget. The result is
// deterministic for a given input and budget. A compression failure is not
// an error: the original image is returned with Fallback set.
func (p *Pipeline) Ingest(img image.Image, budget Budget) (*Asset, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	b := img.Bounds()
	native := boundary.Size{W: float64(b.Dx()), H: float64(b.Dy())}
	if native.Empty() {
		return nil, fmt.Errorf("ingest: empty image %dx%d", b.Dx(), b.Dy())
	}

	id := p.nextID.Add(1)
	target := TargetSize(native, budget)

	var working image.Image = img
	if target != native {
		working = imaging.Resize(img, int(target.W), int(target.H), imaging.Lanczos)
	}

	wb := working.Bounds()
	quality := QualityFor(wb.Dx() * wb.Dy())
	compressed, err := p.codec.compress(working, quality)
	if err != nil {
		p.logger.Warn("compression failed, keeping original",
			"asset", id, "native", fmt.Sprintf("%gx%g", native.W, native.H), "error", err)
		return &Asset{
			ID:          id,
			Image:       img,
			NativeSize:  native,
			WorkingSize: native,
			Budget:      budget,
			Fallback:    true,
		}, nil
	}

	cb := compressed.Bounds()
	asset := &Asset{
		ID:          id,
		Image:       compressed,
		NativeSize:  native,
		WorkingSize: boundary.Size{W: float64(cb.Dx()), H: float64(cb.Dy())},
		Budget:      budget,
		Quality:     quality,
	}
	p.logger.Info("image ingested",
		"asset", id,
		"native", fmt.Sprintf("%gx%g", native.W, native.H),
		"working", fmt.Sprintf("%gx%g", asset.WorkingSize.W, asset.WorkingSize.H),
		"budget", budget.String(),
		"quality", quality)
	return asset, nil
}
