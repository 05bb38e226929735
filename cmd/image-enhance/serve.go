package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-enhance/internal/config"
	"github.com/ironsheep/image-enhance/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP tool server on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	srv := server.New(server.Options{
		Loader:   newLoader(),
		Saver:    newSaver(),
		Defaults: config.Config.Operations,
		Version:  Version,
	})

	log.WithFields(log.Fields{
		"canvas": config.Config.Canvas,
	}).Info("serving MCP on stdio")
	return srv.Run()
}
