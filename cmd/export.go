/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fittrack/apiserver/config"
	"github.com/fittrack/apiserver/internal/export"
	"github.com/fittrack/apiserver/internal/observability"
	"github.com/fittrack/apiserver/internal/server"
	"github.com/fittrack/apiserver/internal/storage"
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON snapshot of all users and trainings to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := slog.Default()

		backend, err := server.OpenBackend(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = backend.Close()
		}()

		objects, err := storage.Open(cmd.Context(), cfg.ObjectStorage)
		if err != nil {
			return fmt.Errorf("open object storage: %w", err)
		}
		defer func() {
			_ = objects.Close()
		}()

		location, err := export.NewExporter(backend.Users, backend.Trainings, objects, logger).Export(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), location)

		if cfg.Metrics.PushgatewayURL == "" {
			logger.Debug("PUSHGATEWAY_URL not set, export metrics not pushed")
			return nil
		}
		if err := observability.PushExport(cmd.Context(), cfg.Metrics.PushgatewayURL); err != nil {
			logger.Warn("failed to push export metrics", "error", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
