package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-enhance/internal/codec"
	"github.com/ironsheep/image-enhance/internal/config"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:               "image-enhance",
	Short:             "Apply image enhancement operations from the command line or over MCP",
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: rootPersistentPreRun,
}

var configPath string

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"image-enhance {{.Version}}\n  Build time: %s\n  Git commit: %s\n", BuildTime, GitCommit))

	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c",
		"", "Configuration file",
	)
	rootCmd.PersistentFlags().StringVarP(
		&config.Config.Main.LogLevel, "level", "l",
		config.Config.Main.LogLevel, "Log level",
	)
}

func rootPersistentPreRun(cmd *cobra.Command, _ []string) error {
	// Flags win over the configuration file.
	level := config.Config.Main.LogLevel
	if err := config.LoadConfiguration(configPath); err != nil {
		return fmt.Errorf("error loading configuration (%s)", err)
	}
	if cmd.Flags().Changed("level") {
		config.Config.Main.LogLevel = level
	}

	// Logs go to stderr, stdout carries the MCP protocol.
	log.SetOutput(os.Stderr)
	lvl, err := log.ParseLevel(config.Config.Main.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.WithFields(log.Fields{
		"version": Version,
		"commit":  GitCommit,
	}).Debug("image-enhance starting")
	return nil
}

func newLoader() codec.Loader {
	return codec.Loader{
		Width:     config.Config.Canvas.Width,
		Height:    config.Config.Canvas.Height,
		MaxPixels: config.Config.Canvas.MaxPixels,
	}
}

func newSaver() codec.Saver {
	return codec.Saver{JPEGQuality: config.Config.Output.JPEGQuality}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
