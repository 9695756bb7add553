// Source image decoding and validation
package core

import (
	"fmt"

	"gocv.io/x/gocv"
)

// maxDimension bounds decoded rasters to keep memory use predictable.
const maxDimension = 16384

// Metadata describes a raster without exposing its pixels.
type Metadata struct {
	Width    int
	Height   int
	Channels int
	Type     gocv.MatType
}

// MetadataOf reads the shape of a Mat.
func MetadataOf(mat gocv.Mat) Metadata {
	if mat.Empty() {
		return Metadata{}
	}
	return Metadata{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Type:     mat.Type(),
	}
}

// SourceImage is the decoded upload every operation reads from. It holds the
// 3-channel BGR raster and the grayscale raster derived from it once. Neither
// is written to after DecodeSource returns.
type SourceImage struct {
	color    gocv.Mat
	gray     gocv.Mat
	metadata Metadata
}

// DecodeSource decodes JPEG or PNG bytes into a SourceImage. Every failure is
// a *DecodeError.
func DecodeSource(data []byte) (src *SourceImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			src = nil
			err = &DecodeError{Reason: fmt.Sprintf("panic in decoder: %v", r)}
		}
	}()

	if len(data) == 0 {
		return nil, &DecodeError{Reason: "upload is empty"}
	}

	color, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if err := ValidateSource(color); err != nil {
		color.Close()
		return nil, &DecodeError{Err: err}
	}

	gray := gocv.NewMat()
	gocv.CvtColor(color, &gray, gocv.ColorBGRToGray)
	if gray.Empty() {
		color.Close()
		gray.Close()
		return nil, &DecodeError{Reason: "grayscale conversion failed"}
	}

	return &SourceImage{
		color:    color,
		gray:     gray,
		metadata: MetadataOf(color),
	}, nil
}

// Color returns the 3-channel BGR raster. Callers must not modify or close it.
func (s *SourceImage) Color() gocv.Mat { return s.color }

// Gray returns the 1-channel luminance raster. Callers must not modify or close it.
func (s *SourceImage) Gray() gocv.Mat { return s.gray }

func (s *SourceImage) Metadata() Metadata {
	if s == nil {
		return Metadata{}
	}
	return s.metadata
}

func (s *SourceImage) Width() int    { return s.Metadata().Width }
func (s *SourceImage) Height() int   { return s.Metadata().Height }
func (s *SourceImage) Channels() int { return s.Metadata().Channels }

// Close releases the native memory behind both rasters.
func (s *SourceImage) Close() {
	if s == nil {
		return
	}
	if !s.color.Empty() {
		s.color.Close()
	}
	if !s.gray.Empty() {
		s.gray.Close()
	}
	s.color = gocv.NewMat()
	s.gray = gocv.NewMat()
	s.metadata = Metadata{}
}

// ValidateSource checks that a decoded Mat can serve as a source: a
// non-empty 3-channel raster no larger than maxDimension on either side.
func ValidateSource(mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("decoded raster is empty")
	}

	width, height := mat.Cols(), mat.Rows()
	switch {
	case width <= 0 || height <= 0:
		return fmt.Errorf("decoded raster has no pixels: %dx%d", width, height)
	case width > maxDimension || height > maxDimension:
		return fmt.Errorf("decoded raster is %dx%d, limit is %d per side", width, height, maxDimension)
	}

	if channels := mat.Channels(); channels != 3 {
		return fmt.Errorf("decoded raster has %d channels, want 3", channels)
	}
	return nil
}
