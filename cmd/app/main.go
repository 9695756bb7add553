// Image Processing Steps - upload one image and step through fixed transformations
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-processing-steps/internal/config"
)

const (
	AppName    = "Image Processing Steps"
	AppID      = "com.imageprocessing.steps"
	AppVersion = "1.0.0"
)

// runtimeContext is filled in before any subcommand runs.
type runtimeContext struct {
	configPath string
	debugMode  bool

	cfg    config.Config
	logger *logrus.Logger
}

func newRootCmd() *cobra.Command {
	rc := &runtimeContext{}

	root := &cobra.Command{
		Use:           "steps",
		Short:         "Step through image processing operations applied to one image",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rc.configPath)
			if err != nil {
				return err
			}
			rc.cfg = cfg
			rc.logger = initLogger(cfg, rc.debugMode)
			rc.logger.WithFields(logrus.Fields{
				"version":    AppVersion,
				"debug_mode": rc.debugMode,
				"command":    cmd.Name(),
			}).Info("Starting " + AppName)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rc.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVar(&rc.debugMode, "debug", false, "Enable debug mode with verbose logging")

	root.AddCommand(newViewCmd(rc))
	root.AddCommand(newExportCmd(rc))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger initializes the logger from config; debug mode overrides the
// configured level and forces the text formatter
func initLogger(cfg config.Config, debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
		return logger
	}

	logger.SetLevel(cfg.LogLevel())
	if cfg.Log.Format == config.FormatText {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}
