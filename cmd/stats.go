package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/khrees2412/jobmatch/pkg/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show which skills stored jobs ask for",
	Long:  "Display skill demand across stored jobs and how their scores are distributed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, err := app.RequireApp(ctx)
		if err != nil {
			return err
		}
		store, err := application.Store(ctx)
		if err != nil {
			return err
		}
		jobs, err := store.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}
		if len(jobs) == 0 {
			cmd.Println("No jobs yet. Harvest some with 'jobmatch scrape'")
			return nil
		}

		top, _ := cmd.Flags().GetInt("top")
		stats := calculateStats(jobs)

		cmd.Println(titleStyle.Render("Job Statistics"))
		cmd.Printf("\n%s\n", labelStyle.Render("Overview"))
		cmd.Printf("  Total Jobs: %d\n", stats.Total)
		cmd.Printf("  Without Skills: %d\n", stats.NoSkills)
		cmd.Printf("  Average Score: %.1f\n", stats.AvgScore)

		cmd.Printf("\n%s\n", labelStyle.Render("Score Distribution"))
		for i, n := range stats.Buckets {
			lo := i * 20
			hi := lo + 19
			if i == len(stats.Buckets)-1 {
				hi = 100
			}
			cmd.Printf("  %3d-%-3d %s %d\n", lo, hi, strings.Repeat("█", bar(n, stats.Total, 30)), n)
		}

		cmd.Printf("\n%s\n", labelStyle.Render("Most Requested Skills"))
		for i, d := range stats.Demand {
			if top > 0 && i >= top {
				break
			}
			pct := float64(d.Jobs) / float64(stats.Total) * 100
			cmd.Printf("  %-24s %3d jobs (%.0f%%)\n", d.Skill, d.Jobs, pct)
		}
		return nil
	},
}

type skillDemand struct {
	Skill string
	Jobs  int
}

type jobStats struct {
	Total    int
	NoSkills int
	AvgScore float64
	Buckets  [5]int // 0-19, 20-39, 40-59, 60-79, 80-100
	Demand   []skillDemand
}

func calculateStats(jobs []*models.JobPosting) jobStats {
	stats := jobStats{Total: len(jobs)}
	counts := map[string]int{}
	sum := 0

	for _, job := range jobs {
		sum += job.Score
		bucket := job.Score / 20
		if bucket >= len(stats.Buckets) {
			bucket = len(stats.Buckets) - 1
		}
		if bucket < 0 {
			bucket = 0
		}
		stats.Buckets[bucket]++

		if len(job.Skills) == 0 {
			stats.NoSkills++
		}
		for _, s := range job.Skills {
			counts[s.Skill]++
		}
	}
	if stats.Total > 0 {
		stats.AvgScore = float64(sum) / float64(stats.Total)
	}

	for skill, n := range counts {
		stats.Demand = append(stats.Demand, skillDemand{Skill: skill, Jobs: n})
	}
	sort.Slice(stats.Demand, func(i, j int) bool {
		if stats.Demand[i].Jobs != stats.Demand[j].Jobs {
			return stats.Demand[i].Jobs > stats.Demand[j].Jobs
		}
		return stats.Demand[i].Skill < stats.Demand[j].Skill
	})
	return stats
}

func bar(n, total, width int) int {
	if total == 0 {
		return 0
	}
	return n * width / total
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Int("top", 15, "Number of skills to list (0 for all)")
}
