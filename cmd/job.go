package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage harvested job postings",
	Long:  "List, view, and remove stored job postings",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored jobs",
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
			cmd.Println("No jobs found. Harvest some with 'jobmatch scrape'")
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		cmd.Println(titleStyle.Render(fmt.Sprintf("Stored Jobs (%d)", len(jobs))))
		for i, job := range page(jobs, offset, limit) {
			printJobSummary(cmd.Printf, offset+i+1, job)
		}
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show details of a specific job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		jobID, err := parseJobID(args[0])
		if err != nil {
			return err
		}
		application, err := app.RequireApp(ctx)
		if err != nil {
			return err
		}
		store, err := application.Store(ctx)
		if err != nil {
			return err
		}

		job, err := store.Get(ctx, jobID)
		if err != nil {
			if errors.Is(err, app.ErrNotFound) {
				return fmt.Errorf("job %d not found", jobID)
			}
			return fmt.Errorf("fetch job: %w", err)
		}

		cmd.Println(titleStyle.Render(job.Title))
		cmd.Printf("%s %s\n", labelStyle.Render("Company:"), job.CompanyName)
		cmd.Printf("%s %s\n", labelStyle.Render("Rating:"), job.Rating)
		cmd.Printf("%s %s\n", labelStyle.Render("Location:"), job.Location)
		if job.Link != "" {
			cmd.Printf("%s %s\n", labelStyle.Render("URL:"), job.Link)
		}
		cmd.Printf("%s %d\n", labelStyle.Render("Score:"), job.Score)
		cmd.Printf("%s %s\n", labelStyle.Render("Skills:"), formatSkills(job.Skills))
		if !job.CreatedAt.IsZero() {
			cmd.Printf("%s %s\n", labelStyle.Render("Added:"), job.CreatedAt.Format("Jan 2, 2006 15:04"))
		}

		cmd.Println(labelStyle.Render("\nDescription:"))
		cmd.Println(job.Description)
		return nil
	},
}

var removeJobCmd = &cobra.Command{
	Use:   "remove <job-id>",
	Short: "Remove a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		jobID, err := parseJobID(args[0])
		if err != nil {
			return err
		}
		application, err := app.RequireApp(ctx)
		if err != nil {
			return err
		}
		store, err := application.Store(ctx)
		if err != nil {
			return err
		}

		job, err := store.Get(ctx, jobID)
		if err != nil {
			if errors.Is(err, app.ErrNotFound) {
				return fmt.Errorf("job %d not found", jobID)
			}
			return fmt.Errorf("fetch job: %w", err)
		}
		if err := store.Delete(ctx, jobID); err != nil {
			return fmt.Errorf("remove job: %w", err)
		}

		cmd.Printf("✓ Removed job: %s at %s\n", job.Title, job.CompanyName)
		return nil
	},
}

func parseJobID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job ID: must be a positive number")
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(listJobsCmd)
	jobCmd.AddCommand(showJobCmd)
	jobCmd.AddCommand(removeJobCmd)

	listJobsCmd.Flags().Int("limit", 0, "Show at most this many jobs (0 for all)")
	listJobsCmd.Flags().Int("offset", 0, "Skip this many jobs")
}
