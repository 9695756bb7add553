package io

import (
	"bytes"
	"fmt"
	"strings"

	"gocv.io/x/gocv"

	"image-processing-steps/internal/core"
)

const DownloadExtension = ".png"

// EncodePNG serializes an 8-bit 1- or 3-channel raster as a single PNG frame.
// Color rasters are held in BGR order, which is what the OpenCV PNG writer
// expects, so channels are written without swapping.
func EncodePNG(mat gocv.Mat) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = &core.EncodeError{Reason: fmt.Sprintf("panic in encoder: %v", r)}
		}
	}()

	if mat.Empty() {
		return nil, &core.EncodeError{Reason: "image is empty"}
	}

	switch mat.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3:
	default:
		return nil, &core.EncodeError{Reason: fmt.Sprintf(
			"unsupported raster: %d channels, type %d", mat.Channels(), int(mat.Type()))}
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		return nil, &core.EncodeError{Err: err}
	}
	defer buf.Close()

	encoded := buf.GetBytes()
	if len(encoded) == 0 {
		return nil, &core.EncodeError{Reason: "encoder produced no data"}
	}
	return bytes.Clone(encoded), nil
}

// SuggestedFilename derives the download name from a result label:
// "Gaussian Blur Image" becomes "gaussian_blur_image.png".
func SuggestedFilename(label string) string {
	return strings.ToLower(strings.ReplaceAll(label, " ", "_")) + DownloadExtension
}
