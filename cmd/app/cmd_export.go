package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	imgio "image-processing-steps/internal/io"
	"image-processing-steps/internal/pipeline"
	"image-processing-steps/internal/session"
)

func newExportCmd(rc *runtimeContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <image>",
		Short: "Write the download of every step to a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := runExport(rc.logger, args[0], outDir)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	return cmd
}

// runExport loads one image and walks every step once from the first,
// writing each step's download into outDir.
func runExport(logger *logrus.Logger, imagePath, outDir string) ([]string, error) {
	name, data, err := imgio.ReadUpload(imagePath)
	if err != nil {
		return nil, err
	}

	sess := session.New(pipeline.NewBuilder(logger), logger)
	defer sess.Close()

	if _, err := sess.Load(name, data); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	_, total := sess.Step()
	written := make([]string, 0, total)
	for range total {
		download, err := sess.Download()
		if err != nil {
			return written, err
		}

		path := filepath.Join(outDir, download.Filename)
		if err := os.WriteFile(path, download.Data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		logger.WithFields(logrus.Fields{
			"path":  path,
			"bytes": len(download.Data),
		}).Info("EXPORT: step written")

		written = append(written, path)
		sess.Next()
	}

	return written, nil
}
