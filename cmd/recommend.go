package cmd

import (
	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend stored jobs for a list of skills",
	Example: `  jobmatch recommend --skill python --skill sql
  jobmatch recommend --skill "machine learning,k8s" --limit 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, err := app.RequireApp(ctx)
		if err != nil {
			return err
		}
		skills, _ := cmd.Flags().GetStringSlice("skill")

		store, err := application.Store(ctx)
		if err != nil {
			return err
		}
		jobs, err := store.ListAll(ctx)
		if err != nil {
			return err
		}

		results, err := application.Engine.Recommend(skills, jobs)
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		printResults(cmd, results, offset, limit)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringSlice("skill", nil, "Skill name or synonym (repeatable)")
	recommendCmd.Flags().Int("limit", 0, "Show at most this many jobs (0 for all)")
	recommendCmd.Flags().Int("offset", 0, "Skip this many jobs")
	_ = recommendCmd.MarkFlagRequired("skill")
}
