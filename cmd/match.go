package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/khrees2412/jobmatch/internal/resume"
	"github.com/khrees2412/jobmatch/pkg/models"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <resume-file>",
	Short: "Rank stored jobs against a résumé",
	Long: `Extract skills from a résumé (PDF, DOCX, TXT or Markdown) and rank every
stored job that shares at least one of them.`,
	Example: `  jobmatch match ~/cv.pdf
  jobmatch match cv.docx --limit 10 --offset 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, err := app.RequireApp(ctx)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read résumé: %w", err)
		}
		text, err := resume.ExtractText(filepath.Base(args[0]), data)
		if err != nil {
			return fmt.Errorf("read résumé: %w", err)
		}

		store, err := application.Store(ctx)
		if err != nil {
			return err
		}
		jobs, err := store.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}

		profile, results := application.Engine.MatchText(text, jobs)
		printProfile(cmd, profile)

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		printResults(cmd, results, offset, limit)
		return nil
	},
}

func printProfile(cmd *cobra.Command, profile models.CVSkillProfile) {
	cmd.Println(titleStyle.Render("Your Skills"))
	if len(profile) == 0 {
		cmd.Println("No known skills found in the résumé.")
		return
	}
	names := make([]string, 0, len(profile))
	for name := range profile {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if profile[names[i]] != profile[names[j]] {
			return profile[names[i]] > profile[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		cmd.Printf("  %s %s\n", labelStyle.Render(name+":"), valueStyle.Render(fmt.Sprint(profile[name])))
	}
}

func printResults(cmd *cobra.Command, results []models.MatchResult, offset, limit int) {
	if len(results) == 0 {
		cmd.Println("\nNo matching jobs.")
		return
	}
	cmd.Println(titleStyle.Render(fmt.Sprintf("Matching Jobs (%d)", len(results))))
	for i, r := range page(results, offset, limit) {
		printJobSummary(cmd.Printf, offset+i+1, r.Job)
		cmd.Printf("   %s %s\n", labelStyle.Render("Match:"), scoreStyle(r.MatchPercentage).Render(fmt.Sprintf("%d%%", r.MatchPercentage)))
	}
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().Int("limit", 0, "Show at most this many matches (0 for all)")
	matchCmd.Flags().Int("offset", 0, "Skip this many matches")
}
