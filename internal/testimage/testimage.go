// Package testimage generates deterministic encoded images for tests.
package testimage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// Pattern returns a width x height RGBA image with gradients in each channel
// and a bright square in the middle, so every step has structure to work on.
func Pattern(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			c := color.RGBA{
				R: uint8(x * 255 / max(width-1, 1)),
				G: uint8(y * 255 / max(height-1, 1)),
				B: uint8((x + y) % 256),
				A: 255,
			}
			if x > width/4 && x < 3*width/4 && y > height/4 && y < 3*height/4 {
				c = color.RGBA{R: 250, G: 250, B: 250, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func PNG(width, height int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Pattern(width, height)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func JPEG(width, height int) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Pattern(width, height), &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Text returns bytes that are not an image in any format.
func Text() []byte {
	return []byte("this is a plain text file pretending to be a picture\n")
}

// UniformPNG returns a PNG where every pixel is the gray level v.
func UniformPNG(width, height int, v uint8) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// ColumnsPNG returns a PNG with one column per entry of levels, each column
// filled with that gray level.
func ColumnsPNG(height int, levels []uint8) []byte {
	img := image.NewRGBA(image.Rect(0, 0, len(levels), height))
	for y := range height {
		for x, v := range levels {
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return encodePNG(img)
}

// StepPNG returns a PNG whose left half is black and right half is gray level v.
func StepPNG(width, height int, v uint8) []byte {
	levels := make([]uint8, width)
	for x := width / 2; x < width; x++ {
		levels[x] = v
	}
	return ColumnsPNG(height, levels)
}

// SquarePNG returns a black PNG with a white rectangle r.
func SquarePNG(width, height int, r image.Rectangle) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			c := color.RGBA{A: 255}
			if image.Pt(x, y).In(r) {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
