package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/khrees2412/jobmatch/internal/scraper"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const pendingLinksFile = "pending_links.json"

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Harvest job postings from the configured search page",
	Long: `Open the search results page in a headless browser, load every listing,
extract the skills each posting asks for and store it.

An interrupted run (Ctrl+C) saves the links it did not reach; pass --resume
to pick them up again.`,
	Example: `  jobmatch scrape
  jobmatch scrape --url "https://www.glassdoor.com/Job/remote-go-jobs-SRCH_IL.0,6_IS11047_KO7,9.htm"
  jobmatch scrape --max-load-more 3
  jobmatch scrape --resume`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, err := app.RequireApp(ctx)
		if err != nil {
			return err
		}
		cfg := application.Config.Scraper

		searchURL, _ := cmd.Flags().GetString("url")
		if searchURL == "" {
			searchURL = cfg.SearchURL
		}
		policy := cfg.Policy()
		if cmd.Flags().Changed("max-load-more") {
			policy.MaxLoadMore, _ = cmd.Flags().GetInt("max-load-more")
		}
		resume, _ := cmd.Flags().GetBool("resume")

		unlock, err := application.LockScrape()
		if err != nil {
			return err
		}
		defer unlock()

		pendingPath := filepath.Join(application.Config.DataDir, pendingLinksFile)
		var pending []string
		if resume {
			pending, err = readPendingLinks(pendingPath)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				cmd.Println("Nothing to resume.")
				return nil
			}
		}

		store, err := application.Store(ctx)
		if err != nil {
			return err
		}

		browser, err := scraper.NewBrowser(ctx, scraper.BrowserOptions{
			Headless:  cfg.Headless,
			UserAgent: cfg.UserAgent,
		}, application.Logger)
		if err != nil {
			return err
		}
		defer browser.Close()

		h := scraper.NewHarvester(browser, store, application.Engine.Extractor(), policy, cfg.Selectors, application.Logger)

		var report *scraper.Report
		if resume {
			cmd.Printf("Resuming %d pending listings...\n", len(pending))
			report, err = h.Harvest(ctx, pending)
		} else {
			cmd.Printf("Harvesting from %s\n", searchURL)
			report, err = h.Run(ctx, searchURL)
		}

		if report != nil {
			printReport(cmd, report)
			if werr := writePendingLinks(pendingPath, report.Remaining); werr != nil {
				application.Logger.Warn("Could not save pending links", zap.Error(werr))
			} else if len(report.Remaining) > 0 {
				cmd.Printf("\n%d listings left; run 'jobmatch scrape --resume' to continue.\n", len(report.Remaining))
			}
		}
		if scraper.IsInterrupted(err) {
			return errors.New("scrape interrupted")
		}
		return err
	},
}

func printReport(cmd *cobra.Command, r *scraper.Report) {
	cmd.Println(titleStyle.Render("Harvest Report"))
	cmd.Printf("%s %d\n", labelStyle.Render("Load-more clicks:"), r.Clicks)
	cmd.Printf("%s %d\n", labelStyle.Render("Batches:"), r.Batches)
	cmd.Printf("%s %d\n", labelStyle.Render("Discovered:"), r.Discovered)
	cmd.Printf("%s %d\n", labelStyle.Render("Stored:"), r.Persisted)
	cmd.Printf("%s %d\n", labelStyle.Render("Already known:"), r.Skipped)
	cmd.Printf("%s %d\n", labelStyle.Render("Failed:"), len(r.Failed))
	for _, f := range r.Failed {
		cmd.Printf("  %s %s\n", valueStyle.Render(f.Link), errorStyle.Render(f.Err))
	}
}

func readPendingLinks(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pending links: %w", err)
	}
	var links []string
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("decode pending links: %w", err)
	}
	return links, nil
}

// writePendingLinks stores links for a later --resume, removing the file
// when there is nothing left.
func writePendingLinks(path string, links []string) error {
	if len(links) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	data, err := json.MarshalIndent(links, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().String("url", "", "Search results URL (defaults to scraper.search_url)")
	scrapeCmd.Flags().Int("max-load-more", 0, "Maximum load-more clicks, 0 to harvest the first page only")
	scrapeCmd.Flags().Bool("resume", false, "Harvest the links left over by an interrupted run")
}
