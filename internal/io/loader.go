// Upload validation and image file reading
package io

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"image-processing-steps/internal/core"
)

var (
	supportedExtensions = []string{".jpg", ".jpeg", ".png"}
	supportedMIMETypes  = []string{"image/jpeg", "image/png"}
)

// SupportedExtensions lists the accepted upload extensions, for file dialogs.
func SupportedExtensions() []string {
	return slices.Clone(supportedExtensions)
}

// ValidateUpload checks the file name and sniffed content of an upload before
// any decoding happens. Rejections are *core.DecodeError.
func ValidateUpload(name string, data []byte) error {
	if len(data) == 0 {
		return &core.DecodeError{Name: name, Reason: "upload is empty"}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(supportedExtensions, ext) {
		return &core.DecodeError{Name: name, Reason: fmt.Sprintf("unsupported file extension %q", ext)}
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), supportedMIMETypes...) {
		return &core.DecodeError{Name: name, Reason: fmt.Sprintf("unsupported content type %q", mtype.String())}
	}

	return nil
}

// ReadUpload reads one file from disk and returns its base name and bytes.
func ReadUpload(path string) (string, []byte, error) {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return name, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return name, data, nil
}
