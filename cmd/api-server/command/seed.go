package command

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"blogapi/database"
)

var seedOpts database.SeedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo users, articles and comments",
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

		if autoMigrate {
			if err := database.Migrate(db, logger); err != nil {
				return err
			}
		}

		result, err := database.Seed(cmd.Context(), db, seedOpts)
		if err != nil {
			color.Red("✗ seeding failed: %v", err)
			return err
		}

		color.Green("✓ seeded %d users, %d articles, %d comments", result.Users, result.Articles, result.Comments)
		fmt.Println()
		color.Cyan("Demo accounts (password %s):", database.DemoPassword)
		for _, email := range result.Emails {
			fmt.Printf("  %s\n", email)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Users, "users", 5, "number of demo users")
	seedCmd.Flags().IntVar(&seedOpts.ArticlesPerUser, "articles", 3, "articles per user")
	seedCmd.Flags().IntVar(&seedOpts.CommentsPerPost, "comments", 4, "comments per article")
}
