package commands

import (
	"encoding/json"
	"os"

	"github.com/elaunira/r2index/internal/config"
	"github.com/elaunira/r2index/internal/index"
	"github.com/spf13/cobra"
)

func NewListCommand(cfg *config.Config) *cobra.Command {
	var (
		query      index.Query
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List index records matching a filter",
		Long: `Query the indexing API for registered files. All filters are
optional; without any, the newest records are listed up to the limit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cfg); err != nil {
				return err
			}

			resolver, inputs, err := buildResolver(cfg)
			if err != nil {
				return err
			}
			bundle, err := resolver.Resolve(cmd.Context(), inputs)
			if err != nil {
				return err
			}

			client := index.NewHTTPClient(bundle.APIURL, bundle.APIToken)
			records, err := client.List(cmd.Context(), query)
			if err != nil {
				return err
			}

			if jsonOutput {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(records)
			}

			for _, rec := range records {
				cfg.Logger.Info("%s  %s", rec.ID, rec.StorageKey)
			}
			cfg.Logger.Info("%d records", len(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&query.Category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&query.Entity, "entity", "", "Filter by entity")
	cmd.Flags().StringVar(&query.Extension, "extension", "", "Filter by extension")
	cmd.Flags().StringArrayVar(&query.Tags, "tag", nil, "Filter by tag (repeatable)")
	cmd.Flags().IntVar(&query.Limit, "limit", 50, "Maximum records to return")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output records as JSON")

	return cmd
}
