package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/khrees2412/jobmatch/pkg/models"
	"github.com/spf13/cobra"
)

const browsePageSize = 10

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored jobs interactively",
	Long:  "Page through stored jobs and open any of them for the full description",
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
		runBrowser(cmd, jobs, bufio.NewReader(cmd.InOrStdin()))
		return nil
	},
}

func runBrowser(cmd *cobra.Command, jobs []*models.JobPosting, reader *bufio.Reader) {
	offset := 0
	for {
		cmd.Println(titleStyle.Render(fmt.Sprintf("Job Browser (%d-%d of %d)",
			offset+1, min(offset+browsePageSize, len(jobs)), len(jobs))))
		for i, job := range page(jobs, offset, browsePageSize) {
			cmd.Printf("%d. %s at %s %s\n", offset+i+1, job.Title, job.CompanyName,
				valueStyle.Render(fmt.Sprintf("[%d]", job.Score)))
		}
		cmd.Println("\nEnter a job number, 'n' next page, 'p' previous page, 'q' quit")
		cmd.Print("> ")

		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))
		if err == io.EOF && input == "" {
			return
		}

		switch input {
		case "q":
			return
		case "n":
			if offset+browsePageSize < len(jobs) {
				offset += browsePageSize
			}
			continue
		case "p":
			offset = max(offset-browsePageSize, 0)
			continue
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(jobs) {
			cmd.Println("Invalid selection")
			continue
		}
		showJobDetails(cmd, jobs[n-1])
		cmd.Print("\nPress Enter to go back ")
		if _, err := reader.ReadString('\n'); err != nil {
			return
		}
	}
}

func showJobDetails(cmd *cobra.Command, job *models.JobPosting) {
	cmd.Println("\n" + strings.Repeat("=", 60))
	cmd.Println(titleStyle.Render(job.Title))
	cmd.Printf("%s %s\n", labelStyle.Render("Company:"), job.CompanyName)
	cmd.Printf("%s %s\n", labelStyle.Render("Rating:"), job.Rating)
	cmd.Printf("%s %s\n", labelStyle.Render("Location:"), job.Location)
	if job.Link != "" {
		cmd.Printf("%s %s\n", labelStyle.Render("URL:"), job.Link)
	}
	cmd.Printf("%s %d\n", labelStyle.Render("Score:"), job.Score)
	cmd.Printf("%s %s\n", labelStyle.Render("Skills:"), formatSkills(job.Skills))
	cmd.Println(labelStyle.Render("\nDescription:"))
	cmd.Println(job.Description)
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
