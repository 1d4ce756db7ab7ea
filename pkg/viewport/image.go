package viewport

import (
	"fmt"
	"image"

	"gitlab.com/tinyland/lab/onehand/pkg/ingest"
)

// BeginIngest starts a new image selection and returns its generation.
// Results for older generations are dropped by ApplyIngest.
func (v *Viewport) BeginIngest() uint64 {
	v.generation++
	return v.generation
}

// Generation returns the current image selection generation.
func (v *Viewport) Generation() uint64 {
	return v.generation
}

// ApplyIngest installs asset as the displayed image and resets the
// transform, in one step. It reports false when gen has been superseded by
// a later selection or by ResetAll.
func (v *Viewport) ApplyIngest(gen uint64, asset *ingest.Asset) bool {
	if gen != v.generation || asset == nil {
		v.logger.Debug("dropping stale ingest result", "generation", gen, "current", v.generation)
		return false
	}
	v.resetTransform()
	v.asset = asset
	if v.cache != nil {
		v.cache.RetainOnly(asset.ID)
	}
	v.notify()
	return true
}

// SelectImage ingests img synchronously and displays the result.
func (v *Viewport) SelectImage(img image.Image, budget ingest.Budget) error {
	gen := v.BeginIngest()
	asset, err := v.pipeline.Ingest(img, budget)
	if err != nil {
		return fmt.Errorf("select image: %w", err)
	}
	v.ApplyIngest(gen, asset)
	return nil
}

// SelectImages handles a multi-pick: only the last image is kept.
func (v *Viewport) SelectImages(imgs []image.Image, budget ingest.Budget) error {
	if len(imgs) == 0 {
		return nil
	}
	return v.SelectImage(imgs[len(imgs)-1], budget)
}
