package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/elaunira/r2index/internal/config"
	rerrors "github.com/elaunira/r2index/internal/errors"
	"github.com/elaunira/r2index/internal/transfer"
	"github.com/spf13/cobra"
)

func NewUploadCommand(cfg *config.Config) *cobra.Command {
	var (
		manifestPath string
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload files from a transfer manifest",
		Long: `Upload every file listed in a transfer manifest and register each
one with the indexing API.

Items are processed independently: one failed item does not abort its
siblings. An item whose object was stored but whose index registration
failed is reported as failed with its storage key, so the registration
can be retried without re-uploading.

Example manifest:

  bucket: datasets
  uploads:
    - source: ./out/data.csv
      category: example
      entity: sample-data
      extension: csv
      media_type: text/csv
      destination_path: example/data
      destination_filename: data.csv
      destination_version: "2024-01-01"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cfg); err != nil {
				return err
			}

			manifest, err := config.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
			if len(manifest.Uploads) == 0 {
				return rerrors.UserError{
					Message:    "Manifest contains no uploads",
					Suggestion: "Add an 'uploads:' section to the manifest",
				}
			}

			ctx := cmd.Context()
			orch, err := buildOrchestrator(ctx, cfg, manifest.Bucket)
			if err != nil {
				return err
			}

			results := orch.UploadAll(ctx, manifest.Uploads)

			if jsonOutput {
				if err := printResultsJSON(results); err != nil {
					return err
				}
			} else {
				for i, r := range results {
					if r.Success {
						cfg.Logger.Info("Uploaded %s (record %s)", r.StorageKey, r.RecordID)
					} else {
						cfg.Logger.Error("Upload %d failed (%s): %v", i, r.Kind, r.Err)
					}
				}
			}

			if failed := failedCount(results); failed > 0 {
				return fmt.Errorf("%d/%d uploads failed", failed, len(results))
			}
			cfg.Logger.Info("Uploaded %d files", len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Transfer manifest path (required)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

// printResultsJSON renders results for scripting; errors become strings.
func printResultsJSON(results []transfer.Result) error {
	type jsonResult struct {
		Success    bool   `json:"success"`
		StorageKey string `json:"storage_key,omitempty"`
		RecordID   string `json:"record_id,omitempty"`
		Kind       string `json:"error_kind,omitempty"`
		Error      string `json:"error,omitempty"`
	}

	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{
			Success:    r.Success,
			StorageKey: r.StorageKey,
			RecordID:   r.RecordID,
			Kind:       string(r.Kind),
		}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
