package session

import (
	"bytes"
	"errors"
	"image"
	_ "image/png"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-processing-steps/internal/core"
	"image-processing-steps/internal/pipeline"
	"image-processing-steps/internal/testimage"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := New(pipeline.NewBuilder(logger), logger)
	t.Cleanup(s.Close)
	return s
}

func currentLabel(t *testing.T, s *Session) string {
	t.Helper()
	entry, err := s.Current()
	require.NoError(t, err)
	return entry.Label
}

func TestEmptySession(t *testing.T) {
	s := newSession(t)

	assert.False(t, s.Loaded())
	assert.NotEmpty(t, s.ID())

	_, err := s.Current()
	assert.ErrorIs(t, err, ErrNoImage)
	_, err = s.Download()
	assert.ErrorIs(t, err, ErrNoImage)

	s.Next()
	s.Previous()
	cursor, total := s.Step()
	assert.Zero(t, cursor)
	assert.Zero(t, total)
}

func TestLoadAndNavigate(t *testing.T) {
	s := newSession(t)

	changed, err := s.Load("photo.jpg", testimage.JPEG(500, 400))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, s.Loaded())
	assert.Equal(t, "photo.jpg", s.Name())

	cursor, total := s.Step()
	assert.Equal(t, 0, cursor)
	assert.Equal(t, 8, total)
	assert.Equal(t, "Original Image", currentLabel(t, s))

	s.Next()
	s.Next()
	s.Next()
	entry, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "Gaussian Blur Image", entry.Label)
	assert.Equal(t, 500, entry.Width())
	assert.Equal(t, 400, entry.Height())
	assert.Equal(t, 1, entry.Channels())
}

func TestPreviousWrapsToLast(t *testing.T) {
	s := newSession(t)
	_, err := s.Load("photo.png", testimage.PNG(50, 40))
	require.NoError(t, err)

	s.Previous()
	cursor, _ := s.Step()
	assert.Equal(t, 7, cursor)
	assert.Equal(t, "Rotated Image", currentLabel(t, s))
}

func TestReloadSameBytesKeepsCursor(t *testing.T) {
	s := newSession(t)
	data := testimage.PNG(50, 40)
	_, err := s.Load("photo.png", data)
	require.NoError(t, err)
	s.Next()
	s.Next()

	changed, err := s.Load("photo.png", data)
	require.NoError(t, err)
	assert.False(t, changed)
	cursor, _ := s.Step()
	assert.Equal(t, 2, cursor)
}

func TestNewUploadResetsCursor(t *testing.T) {
	s := newSession(t)
	_, err := s.Load("a.png", testimage.PNG(50, 40))
	require.NoError(t, err)
	s.Next()
	s.Next()

	changed, err := s.Load("b.png", testimage.PNG(60, 30))
	require.NoError(t, err)
	assert.True(t, changed)
	cursor, _ := s.Step()
	assert.Equal(t, 0, cursor)
	assert.Equal(t, "b.png", s.Name())

	entry, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, 60, entry.Width())
}

func TestFailedUploadKeepsPreviousState(t *testing.T) {
	s := newSession(t)
	_, err := s.Load("a.png", testimage.PNG(50, 40))
	require.NoError(t, err)
	s.Next()
	s.Next()
	s.Next()

	changed, err := s.Load("notes.png", testimage.Text())
	assert.False(t, changed)
	var decodeErr *core.DecodeError
	require.True(t, errors.As(err, &decodeErr), "got %v", err)

	cursor, total := s.Step()
	assert.Equal(t, 3, cursor)
	assert.Equal(t, 8, total)
	assert.Equal(t, "a.png", s.Name())
	assert.Equal(t, "Gaussian Blur Image", currentLabel(t, s))
}

func TestFailedFirstUpload(t *testing.T) {
	s := newSession(t)
	_, err := s.Load("notes.png", testimage.Text())
	var decodeErr *core.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.False(t, s.Loaded())
}

func TestDownloadEveryStep(t *testing.T) {
	s := newSession(t)
	_, err := s.Load("photo.png", testimage.PNG(80, 60))
	require.NoError(t, err)

	wantNames := []string{
		"original_image.png",
		"grayscale_image.png",
		"resized_image.png",
		"gaussian_blur_image.png",
		"edge_detection_image.png",
		"thresholding_image.png",
		"histogram_equalization_image.png",
		"rotated_image.png",
	}
	for i, want := range wantNames {
		d, err := s.Download()
		require.NoError(t, err)
		assert.Equal(t, want, d.Filename)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(d.Data))
		require.NoError(t, err, d.Filename)
		assert.Equal(t, "png", format)
		if i == 2 {
			assert.Equal(t, 300, cfg.Width)
			assert.Equal(t, 300, cfg.Height)
		} else {
			assert.Equal(t, 80, cfg.Width)
			assert.Equal(t, 60, cfg.Height)
		}

		cursor, _ := s.Step()
		assert.Equal(t, i, cursor, "download must not move the cursor")
		s.Next()
	}
}

func TestClose(t *testing.T) {
	s := newSession(t)
	_, err := s.Load("photo.png", testimage.PNG(20, 20))
	require.NoError(t, err)

	s.Close()
	assert.False(t, s.Loaded())
	_, err = s.Current()
	assert.ErrorIs(t, err, ErrNoImage)
}
