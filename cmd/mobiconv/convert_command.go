package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JVHannila/MoBI-project/pkg/logger"
	"github.com/JVHannila/MoBI-project/pkg/mobi"
	"github.com/JVHannila/MoBI-project/pkg/mobi/export"
	"github.com/JVHannila/MoBI-project/pkg/mobi/montage"
)

func newConvertCommand() *cobra.Command {
	var manifestPath string
	var catalogPath string
	var montagePath string
	var overwrite bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Run a batch conversion from a TOML manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := mobi.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			opts := []mobi.Option{
				mobi.WithWriter(&export.Writer{Overwrite: overwrite}),
				mobi.WithDryRun(dryRun),
			}
			if catalogPath != "" {
				opts = append(opts, mobi.WithCatalogPath(catalogPath))
			}
			if montagePath != "" {
				preset, err := montage.Load(montagePath)
				if err != nil {
					return err
				}
				opts = append(opts, mobi.WithPresetMontage(preset))
			}

			service, err := mobi.NewService(opts...)
			if err != nil {
				return err
			}
			defer service.Close()

			summary, err := service.ConvertBatch(cmd.Context(), manifest)
			if err != nil {
				return err
			}
			if summary.RunID != "" {
				logger.Infof("Catalog run: %s", summary.RunID)
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d conversions failed", summary.Failed, summary.Attempted)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "batch.toml", "Batch manifest file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "SQLite conversion journal (disabled when empty)")
	cmd.Flags().StringVar(&montagePath, "montage", "", "Digitization file applied to every recording instead of embedded metadata")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace files from a previous run")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Assemble every recording but write nothing")

	return cmd
}
