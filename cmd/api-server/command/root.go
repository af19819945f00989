package command

// root.go defines the root command of the blog API binary.
// serve is the default action; migrate and seed are operator tasks.

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"blogapi/internal/config"
	"blogapi/internal/logging"
)

var autoMigrate bool // Global flag: run migrations before serving or seeding

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blogapi",
	Short: "blogapi - blog platform backend",
	Long: `blogapi serves the blog platform HTTP API: accounts, authentication,
articles, threaded comments, notifications and the activity log.

Configuration is read from the environment and an optional .env file.
Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&autoMigrate, "migrate", true, "apply schema migrations on start")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// bootstrap loads and validates the configuration and installs the default logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
