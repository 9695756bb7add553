package gui

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-processing-steps/internal/algorithms"
	"image-processing-steps/internal/config"
	"image-processing-steps/internal/core"
	"image-processing-steps/internal/pipeline"
	"image-processing-steps/internal/session"
	"image-processing-steps/internal/testimage"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	return newTestApplicationWith(t, algorithms.Sequence())
}

func newTestApplicationWith(t *testing.T, ops []algorithms.Operation) *Application {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sess := session.New(pipeline.NewBuilderWithOperations(logger, ops), logger)
	t.Cleanup(sess.Close)

	return NewApplication(test.NewTempApp(t), sess, logger, config.Default().Window)
}

// floatOperation yields a 32-bit float raster, which can be neither
// rendered nor encoded as PNG.
type floatOperation struct{}

func (floatOperation) Key() string         { return "float" }
func (floatOperation) Label() string       { return "Float Image" }
func (floatOperation) Description() string { return "Grayscale as 32-bit floats" }

func (floatOperation) Apply(src *core.SourceImage) (gocv.Mat, error) {
	gray := src.Gray()
	out := gocv.NewMat()
	gray.ConvertTo(&out, gocv.MatTypeCV32F)
	return out, nil
}

func TestEmptyState(t *testing.T) {
	a := newTestApplication(t)

	assert.Equal(t, WindowTitle, a.Window().Title())
	assert.True(t, a.placeholder.Visible())
	assert.False(t, a.image.Visible())
	assert.Empty(t, a.title.Text)
	assert.True(t, a.downloadBtn.Disabled())
	assert.True(t, a.prevBtn.Disabled())
	assert.True(t, a.nextBtn.Disabled())
	assert.False(t, a.openBtn.Disabled())
}

func TestLoadAndNavigate(t *testing.T) {
	a := newTestApplication(t)
	require.NoError(t, a.LoadBytes("photo.png", testimage.PNG(60, 40)))

	assert.Equal(t, "Original Image", a.title.Text)
	assert.Equal(t, algorithms.NewOriginal().Description(), a.description.Text)
	assert.Equal(t, "Step 1 of 8", a.stepLabel.Text)
	assert.False(t, a.placeholder.Visible())
	assert.True(t, a.image.Visible())
	assert.NotNil(t, a.image.Image)
	assert.False(t, a.downloadBtn.Disabled())

	test.Tap(a.nextBtn)
	assert.Equal(t, "Grayscale Image", a.title.Text)
	assert.Equal(t, algorithms.NewGrayscale().Description(), a.description.Text)
	assert.Equal(t, "Step 2 of 8", a.stepLabel.Text)

	test.Tap(a.prevBtn)
	test.Tap(a.prevBtn)
	assert.Equal(t, "Rotated Image", a.title.Text)
	assert.Equal(t, "Step 8 of 8", a.stepLabel.Text)

	bounds := a.image.Image.Bounds()
	assert.Equal(t, 60, bounds.Dx())
	assert.Equal(t, 40, bounds.Dy())
}

func TestRejectedUploadKeepsView(t *testing.T) {
	a := newTestApplication(t)
	require.NoError(t, a.LoadBytes("photo.png", testimage.PNG(60, 40)))
	test.Tap(a.nextBtn)

	assert.Error(t, a.LoadBytes("notes.png", testimage.Text()))
	assert.Equal(t, "Grayscale Image", a.title.Text)
	assert.Equal(t, "Step 2 of 8", a.stepLabel.Text)
}

func TestLoadFile(t *testing.T) {
	a := newTestApplication(t)
	path := filepath.Join(t.TempDir(), "input.jpg")
	require.NoError(t, os.WriteFile(path, testimage.JPEG(30, 30), 0o644))

	require.NoError(t, a.LoadFile(path))
	assert.Equal(t, "Original Image", a.title.Text)

	assert.Error(t, a.LoadFile(filepath.Join(t.TempDir(), "missing.jpg")))
}

func TestRenderFailureUpdatesLabels(t *testing.T) {
	a := newTestApplicationWith(t, []algorithms.Operation{algorithms.NewOriginal(), floatOperation{}})
	require.NoError(t, a.LoadBytes("photo.png", testimage.PNG(20, 20)))
	assert.True(t, a.image.Visible())

	test.Tap(a.nextBtn)
	assert.Equal(t, "Float Image", a.title.Text)
	assert.Equal(t, "Grayscale as 32-bit floats", a.description.Text)
	assert.Equal(t, "Step 2 of 2", a.stepLabel.Text)
	assert.False(t, a.image.Visible())
	assert.Nil(t, a.image.Image)
	assert.True(t, a.placeholder.Visible())
	assert.Equal(t, renderMessage, a.placeholder.Text)
	assert.False(t, a.nextBtn.Disabled())
}

func TestDownloadFailureDisablesButton(t *testing.T) {
	a := newTestApplicationWith(t, []algorithms.Operation{algorithms.NewOriginal(), floatOperation{}})
	require.NoError(t, a.LoadBytes("photo.png", testimage.PNG(20, 20)))

	test.Tap(a.nextBtn)
	require.False(t, a.downloadBtn.Disabled())

	test.Tap(a.downloadBtn)
	assert.True(t, a.downloadBtn.Disabled())
	assert.Equal(t, "Float Image", a.title.Text, "a failed download must not move the cursor")
	cursor, _ := a.session.Step()
	assert.Equal(t, 1, cursor)

	test.Tap(a.nextBtn)
	assert.Equal(t, "Original Image", a.title.Text)
	assert.False(t, a.downloadBtn.Disabled())
	assert.True(t, a.image.Visible())
}

func TestDownloadSuccessKeepsButtonEnabled(t *testing.T) {
	a := newTestApplication(t)
	require.NoError(t, a.LoadBytes("photo.png", testimage.PNG(20, 20)))

	test.Tap(a.downloadBtn)
	assert.False(t, a.downloadBtn.Disabled())
	assert.Equal(t, "Original Image", a.title.Text)
}
