// Operations on the color source: identity, grayscale, resize and rotation
package algorithms

import (
	"image"

	"gocv.io/x/gocv"

	"image-processing-steps/internal/core"
)

const (
	// ResizeWidth and ResizeHeight are the fixed resize target. Aspect ratio
	// is not preserved.
	ResizeWidth  = 300
	ResizeHeight = 300

	RotationAngle = 45.0
	RotationScale = 1.0
)

// Original returns a copy of the color source.
type Original struct{}

func NewOriginal() *Original { return &Original{} }

func (o *Original) Key() string         { return "original" }
func (o *Original) Label() string       { return "Original Image" }
func (o *Original) Description() string { return "The uploaded image, unchanged" }

func (o *Original) Apply(src *core.SourceImage) (gocv.Mat, error) {
	return run(o.Key(), src, func(dst *gocv.Mat) {
		color := src.Color()
		color.CopyTo(dst)
	})
}

// Grayscale is the luminance-weighted single channel version of the source.
type Grayscale struct{}

func NewGrayscale() *Grayscale { return &Grayscale{} }

func (g *Grayscale) Key() string         { return "grayscale" }
func (g *Grayscale) Label() string       { return "Grayscale Image" }
func (g *Grayscale) Description() string { return "Luminance-weighted reduction to one channel" }

func (g *Grayscale) Apply(src *core.SourceImage) (gocv.Mat, error) {
	return run(g.Key(), src, func(dst *gocv.Mat) {
		gocv.CvtColor(src.Color(), dst, gocv.ColorBGRToGray)
	})
}

// Resize stretches the color source onto a fixed canvas.
type Resize struct {
	size image.Point
}

func NewResize() *Resize {
	return &Resize{size: image.Pt(ResizeWidth, ResizeHeight)}
}

func (r *Resize) Key() string         { return "resize" }
func (r *Resize) Label() string       { return "Resized Image" }
func (r *Resize) Description() string { return "Bilinear resample to 300x300" }

func (r *Resize) Apply(src *core.SourceImage) (gocv.Mat, error) {
	return run(r.Key(), src, func(dst *gocv.Mat) {
		gocv.Resize(src.Color(), dst, r.size, 0, 0, gocv.InterpolationLinear)
	})
}

// Rotation turns the color source about its center without growing the
// canvas, so corners are clipped and uncovered pixels are black.
type Rotation struct {
	angle float64
	scale float64
}

func NewRotation() *Rotation {
	return &Rotation{angle: RotationAngle, scale: RotationScale}
}

func (r *Rotation) Key() string         { return "rotate" }
func (r *Rotation) Label() string       { return "Rotated Image" }
func (r *Rotation) Description() string { return "45 degree rotation about the center" }

func (r *Rotation) Apply(src *core.SourceImage) (gocv.Mat, error) {
	return run(r.Key(), src, func(dst *gocv.Mat) {
		color := src.Color()
		center := image.Pt(color.Cols()/2, color.Rows()/2)

		m := gocv.GetRotationMatrix2D(center, r.angle, r.scale)
		defer m.Close()

		gocv.WarpAffine(color, dst, m, image.Pt(color.Cols(), color.Rows()))
	})
}
