// Operations on the grayscale source: blur, edges, threshold, equalization
package algorithms

import (
	"image"

	"gocv.io/x/gocv"

	"image-processing-steps/internal/core"
)

const (
	GaussianKernelSize = 7

	CannyLowThreshold  = 100
	CannyHighThreshold = 200

	ThresholdLevel = 127
	ThresholdMax   = 255
)

// GaussianFilter smooths the grayscale source. A zero sigma makes OpenCV
// derive the standard deviation from the kernel size.
type GaussianFilter struct {
	kernel image.Point
	sigma  float64
}

func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{
		kernel: image.Pt(GaussianKernelSize, GaussianKernelSize),
		sigma:  0,
	}
}

func (g *GaussianFilter) Key() string         { return "gaussian" }
func (g *GaussianFilter) Label() string       { return "Gaussian Blur Image" }
func (g *GaussianFilter) Description() string { return "7x7 Gaussian blur of the grayscale image" }

func (g *GaussianFilter) Apply(src *core.SourceImage) (gocv.Mat, error) {
	return run(g.Key(), src, func(dst *gocv.Mat) {
		gocv.GaussianBlur(src.Gray(), dst, g.kernel, g.sigma, g.sigma, gocv.BorderDefault)
	})
}

// CannyEdges is a binary edge map with hysteresis thresholds.
type CannyEdges struct {
	low, high float32
}

func NewCannyEdges() *CannyEdges {
	return &CannyEdges{low: CannyLowThreshold, high: CannyHighThreshold}
}

func (c *CannyEdges) Key() string         { return "canny" }
func (c *CannyEdges) Label() string       { return "Edge Detection Image" }
func (c *CannyEdges) Description() string { return "Canny edges with thresholds 100/200" }

func (c *CannyEdges) Apply(src *core.SourceImage) (gocv.Mat, error) {
	return run(c.Key(), src, func(dst *gocv.Mat) {
		gocv.Canny(src.Gray(), dst, c.low, c.high)
	})
}

// BinaryThreshold maps pixels at or above the level to the max value and the
// rest to zero.
type BinaryThreshold struct {
	level    int
	maxValue float32
}

func NewBinaryThreshold() *BinaryThreshold {
	return &BinaryThreshold{level: ThresholdLevel, maxValue: ThresholdMax}
}

func (b *BinaryThreshold) Key() string         { return "threshold" }
func (b *BinaryThreshold) Label() string       { return "Thresholding Image" }
func (b *BinaryThreshold) Description() string { return "Binary threshold at 127" }

func (b *BinaryThreshold) Apply(src *core.SourceImage) (gocv.Mat, error) {
	return run(b.Key(), src, func(dst *gocv.Mat) {
		// OpenCV keeps pixels strictly above thresh; on 8-bit data > level-1 is >= level.
		gocv.Threshold(src.Gray(), dst, float32(b.level-1), b.maxValue, gocv.ThresholdBinary)
	})
}

// HistogramEqualization spreads the grayscale histogram over the full range.
type HistogramEqualization struct{}

func NewHistogramEqualization() *HistogramEqualization { return &HistogramEqualization{} }

func (h *HistogramEqualization) Key() string   { return "equalize" }
func (h *HistogramEqualization) Label() string { return "Histogram Equalization Image" }
func (h *HistogramEqualization) Description() string {
	return "Histogram equalization of the grayscale image"
}

func (h *HistogramEqualization) Apply(src *core.SourceImage) (gocv.Mat, error) {
	return run(h.Key(), src, func(dst *gocv.Mat) {
		gocv.EqualizeHist(src.Gray(), dst)
	})
}
