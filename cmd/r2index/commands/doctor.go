package commands

import (
	"fmt"

	"github.com/elaunira/r2index/internal/config"
	"github.com/elaunira/r2index/internal/validation"
	"github.com/spf13/cobra"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check credential resolution for the configured connection",
		Long: `Resolve credentials for the configured connection and report which
mode was selected. Secret values are never printed.

Use this to verify a vault mapping or environment setup before running
transfers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cfg); err != nil {
				return err
			}

			resolver, inputs, err := buildResolver(cfg)
			if err != nil {
				return err
			}

			mode := inputs.Mode()
			cfg.Logger.Info("Resolution mode: %s", mode)

			bundle, err := resolver.Resolve(cmd.Context(), inputs)
			if err != nil {
				return err
			}

			cfg.Logger.Info("Credential bundle complete")
			cfg.Logger.Info("Index API URL: %s", bundle.APIURL)
			cfg.Logger.Info("Storage endpoint: %s", bundle.EndpointURL)
			cfg.Logger.Debug("API token: %s, secret access key: %s",
				bundle.APIToken, bundle.SecretAccessKey)

			check := validation.ValidateBundle(bundle)
			for _, warning := range check.Warnings {
				cfg.Logger.Warn("%s", warning)
			}
			for _, issue := range check.Errors {
				cfg.Logger.Error("%s", issue)
			}
			if !check.Valid {
				return fmt.Errorf("credential bundle failed %d validation check(s)", len(check.Errors))
			}

			cfg.Logger.Info("All checks passed")
			return nil
		},
	}

	return cmd
}
