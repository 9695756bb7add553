// Step viewer window: open, render, download and navigate results
package gui

import (
	"errors"
	"fmt"
	"image"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-processing-steps/internal/config"
	"image-processing-steps/internal/core"
	imgio "image-processing-steps/internal/io"
	"image-processing-steps/internal/pipeline"
	"image-processing-steps/internal/session"
)

const (
	WindowTitle = "Image Processing Operations"

	caption = "A single image is uploaded and used as the input for all processing. " +
		"Each time Next is clicked a different operation is applied to the same original image: " +
		"grayscale conversion, resizing, blurring, edge detection, thresholding, " +
		"histogram equalization or rotation. One processed image is shown at a time " +
		"and the displayed result can be downloaded."

	emptyMessage  = "Upload an image to begin"
	renderMessage = "Could not render this step"
)

// Application is the desktop front end of one session.
type Application struct {
	app     fyne.App
	window  fyne.Window
	logger  *logrus.Logger
	session *session.Session

	title       *widget.Label
	description *widget.Label
	stepLabel   *widget.Label
	placeholder *widget.Label
	image       *canvas.Image

	openBtn     *widget.Button
	downloadBtn *widget.Button
	prevBtn     *widget.Button
	nextBtn     *widget.Button
}

func NewApplication(app fyne.App, sess *session.Session, logger *logrus.Logger, cfg config.WindowConfig) *Application {
	window := app.NewWindow(WindowTitle)
	window.Resize(fyne.NewSize(cfg.Width, cfg.Height))

	a := &Application{
		app:     app,
		window:  window,
		logger:  logger,
		session: sess,
	}

	a.initializeGUI()
	a.setupLayout()
	a.refresh()

	return a
}

func (a *Application) initializeGUI() {
	a.title = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	a.description = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	a.stepLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	a.placeholder = widget.NewLabelWithStyle(emptyMessage, fyne.TextAlignCenter, fyne.TextStyle{})

	a.image = canvas.NewImageFromImage(nil)
	a.image.FillMode = canvas.ImageFillContain
	a.image.SetMinSize(fyne.NewSize(480, 480))

	a.openBtn = widget.NewButtonWithIcon("Upload an image (JPG / PNG)", theme.FolderOpenIcon(), a.openImage)
	a.openBtn.Importance = widget.HighImportance

	a.downloadBtn = widget.NewButtonWithIcon("Download Image", theme.DownloadIcon(), a.downloadImage)
	a.prevBtn = widget.NewButtonWithIcon("Previous", theme.NavigateBackIcon(), a.Previous)
	a.nextBtn = widget.NewButtonWithIcon("Next", theme.NavigateNextIcon(), a.Next)
	a.nextBtn.IconPlacement = widget.ButtonIconTrailingText
}

func (a *Application) setupLayout() {
	heading := widget.NewLabelWithStyle(WindowTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	description := widget.NewLabel(caption)
	description.Wrapping = fyne.TextWrapWord

	header := container.NewVBox(
		heading,
		description,
		a.openBtn,
		widget.NewSeparator(),
		a.title,
		a.description,
		a.stepLabel,
	)

	footer := container.NewVBox(
		a.downloadBtn,
		container.NewGridWithColumns(2, a.prevBtn, a.nextBtn),
	)

	a.window.SetContent(container.NewBorder(
		header,
		footer,
		nil,
		nil,
		container.NewStack(a.placeholder, a.image),
	))
}

func (a *Application) Window() fyne.Window { return a.window }

// LoadFile reads path and loads it into the session.
func (a *Application) LoadFile(path string) error {
	name, data, err := imgio.ReadUpload(path)
	if err != nil {
		a.showError("Failed to Read File", err)
		return err
	}
	return a.LoadBytes(name, data)
}

// LoadBytes loads an upload. On failure the current result stays on screen.
func (a *Application) LoadBytes(name string, data []byte) error {
	if _, err := a.session.Load(name, data); err != nil {
		var decodeErr *core.DecodeError
		if errors.As(err, &decodeErr) {
			a.showError("Could Not Read Image", err)
		} else {
			a.showError("Processing Error", err)
		}
		return err
	}
	a.refresh()
	return nil
}

func (a *Application) Next() {
	a.session.Next()
	a.refresh()
}

func (a *Application) Previous() {
	a.session.Previous()
	a.refresh()
}

// refresh renders the current entry from the session's cached results.
func (a *Application) refresh() {
	entry, err := a.session.Current()
	if err != nil {
		a.title.SetText("")
		a.description.SetText("")
		a.stepLabel.SetText("")
		a.showPlaceholder(emptyMessage)
		a.downloadBtn.Disable()
		a.prevBtn.Disable()
		a.nextBtn.Disable()
		return
	}

	cursor, total := a.session.Step()
	a.title.SetText(entry.Label)
	a.description.SetText(entry.Description)
	a.stepLabel.SetText(fmt.Sprintf("Step %d of %d", cursor+1, total))

	a.downloadBtn.Enable()
	a.prevBtn.Enable()
	a.nextBtn.Enable()

	rendered, err := toImage(entry)
	if err != nil {
		a.showPlaceholder(renderMessage)
		a.showError("Render Error", err)
		return
	}

	a.image.Image = rendered
	a.image.Refresh()
	a.placeholder.Hide()
	a.image.Show()
}

func (a *Application) showPlaceholder(message string) {
	a.image.Image = nil
	a.image.Hide()
	a.placeholder.SetText(message)
	a.placeholder.Show()
}

func toImage(entry pipeline.Entry) (image.Image, error) {
	mat := entry.Image
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", entry.Label, err)
	}
	return img, nil
}

func (a *Application) openImage() {
	a.logger.Info("GUI: opening file dialog for image loading")

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			a.showError("Failed to Read File", err)
			return
		}
		_ = a.LoadBytes(reader.URI().Name(), data)
	}, a.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(imgio.SupportedExtensions()))
	fileDialog.Show()
}

func (a *Application) downloadImage() {
	download, err := a.session.Download()
	if err != nil {
		a.downloadBtn.Disable()
		a.showError("Download Failed", err)
		return
	}

	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.showError("File Dialog Error", err)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if _, err := writer.Write(download.Data); err != nil {
			a.showError("Failed to Save Image", err)
			return
		}

		a.logger.WithFields(logrus.Fields{
			"path":  writer.URI().Path(),
			"bytes": len(download.Data),
		}).Info("GUI: image saved")
	}, a.window)

	fileDialog.SetFileName(download.Filename)
	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{imgio.DownloadExtension}))
	fileDialog.Show()
}

func (a *Application) ShowAndRun() {
	a.logger.Info("GUI: showing main window")

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

func (a *Application) cleanup() {
	a.logger.Info("GUI: releasing session resources")
	a.session.Close()
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(err, a.window)
}
