package main

import (
	"fmt"
	"os"

	"github.com/elaunira/r2index/cmd/r2index/commands"
	"github.com/elaunira/r2index/internal/config"
	"github.com/elaunira/r2index/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "r2index",
		Short: "Categorized, versioned file transfers against R2 and the R2Index API",
		Long: `r2index resolves storage and API credentials from a vault-backed,
direct or environment-variable connection and runs indexed uploads and
downloads against the object-storage backend.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Logger = logging.New(debug, noColor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "r2index.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewUploadCommand(cfg),
		commands.NewDownloadCommand(cfg),
		commands.NewListCommand(cfg),
		commands.NewDoctorCommand(cfg),
	)

	return rootCmd.Execute()
}
