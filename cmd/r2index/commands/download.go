package commands

import (
	"fmt"

	"github.com/elaunira/r2index/internal/config"
	rerrors "github.com/elaunira/r2index/internal/errors"
	"github.com/spf13/cobra"
)

func NewDownloadCommand(cfg *config.Config) *cobra.Command {
	var (
		manifestPath string
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download files from a transfer manifest",
		Long: `Download every file listed in a transfer manifest.

Items are processed independently: a missing object or an unwritable
destination fails only its own item.

Example manifest:

  bucket: datasets
  downloads:
    - category: example
      entity: sample-data
      source_path: example/data
      source_filename: data.csv
      source_version: "2024-01-01"
      destination: ./in/data.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cfg); err != nil {
				return err
			}

			manifest, err := config.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
			if len(manifest.Downloads) == 0 {
				return rerrors.UserError{
					Message:    "Manifest contains no downloads",
					Suggestion: "Add a 'downloads:' section to the manifest",
				}
			}

			ctx := cmd.Context()
			orch, err := buildOrchestrator(ctx, cfg, manifest.Bucket)
			if err != nil {
				return err
			}

			results := orch.DownloadAll(ctx, manifest.Downloads)

			if jsonOutput {
				if err := printResultsJSON(results); err != nil {
					return err
				}
			} else {
				for i, r := range results {
					if r.Success {
						cfg.Logger.Info("Downloaded %s", r.StorageKey)
					} else {
						cfg.Logger.Error("Download %d failed (%s): %v", i, r.Kind, r.Err)
					}
				}
			}

			if failed := failedCount(results); failed > 0 {
				return fmt.Errorf("%d/%d downloads failed", failed, len(results))
			}
			cfg.Logger.Info("Downloaded %d files", len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Transfer manifest path (required)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}
