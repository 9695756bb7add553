package main

import (
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/spf13/cobra"

	"image-processing-steps/internal/gui"
	"image-processing-steps/internal/pipeline"
	"image-processing-steps/internal/session"
)

func newViewCmd(rc *runtimeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "view [image]",
		Short: "Open the step viewer window, optionally with an image loaded",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fyneApp := app.NewWithID(AppID)
			fyneApp.SetIcon(theme.DocumentIcon())
			fyneApp.Settings().SetTheme(theme.DefaultTheme())

			sess := session.New(pipeline.NewBuilder(rc.logger), rc.logger)
			viewer := gui.NewApplication(fyneApp, sess, rc.logger, rc.cfg.Window)

			if len(args) == 1 {
				// The window reports the failure; the viewer still opens empty.
				_ = viewer.LoadFile(args[0])
			}

			viewer.ShowAndRun()
			rc.logger.Info("Application shutting down gracefully")
			return nil
		},
	}
}
