package command

import (
	"github.com/spf13/cobra"

	"blogapi/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}

		db, err := database.Open(cfg, logger)
		if err != nil {
			return err
		}
		defer database.Close(db)

		return database.Migrate(db, logger)
	},
}
