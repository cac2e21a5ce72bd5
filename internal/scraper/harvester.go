package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/khrees2412/jobmatch/internal/extractor"
	"github.com/khrees2412/jobmatch/internal/logger"
	"github.com/khrees2412/jobmatch/internal/matcher"
	"github.com/khrees2412/jobmatch/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// JobSink is the part of the store the harvester writes to
type JobSink interface {
	HasLink(ctx context.Context, link string) (bool, error)
	AppendIfNew(ctx context.Context, job *models.JobPosting) (id int64, inserted bool, err error)
}

// ItemFailure records one listing that could not be harvested
type ItemFailure struct {
	Link string `json:"link"`
	Err  string `json:"error"`
}

// Report summarises a harvesting session
type Report struct {
	Clicks     int           `json:"clicks"`
	Batches    int           `json:"batches"`
	Discovered int           `json:"discovered"`
	Persisted  int           `json:"persisted"`
	Skipped    int           `json:"skipped"`
	Failed     []ItemFailure `json:"failed"`
	// Remaining holds links left unprocessed by a cancelled run; pass them
	// back to Harvest to resume.
	Remaining []string `json:"remaining,omitempty"`
}

// Harvester walks a search page and stores every listing it finds
type Harvester struct {
	page      Page
	sink      JobSink
	extractor *extractor.Extractor
	policy    Policy
	selectors Selectors
	logger    *zap.Logger
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewHarvester creates a harvester. Empty selectors fall back to
// DefaultSelectors.
func NewHarvester(page Page, sink JobSink, ex *extractor.Extractor, policy Policy, selectors Selectors, logger *zap.Logger) *Harvester {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if policy.ItemInterval > 0 {
		limit = rate.Every(policy.ItemInterval)
	}
	return &Harvester{
		page:      page,
		sink:      sink,
		extractor: ex,
		policy:    policy,
		selectors: selectors.withDefaults(),
		logger:    logger,
		limiter:   rate.NewLimiter(limit, 1),
		now:       time.Now,
	}
}

// Run opens searchURL, dismisses the consent pop-up, loads every listing
// and harvests them.
func (h *Harvester) Run(ctx context.Context, searchURL string) (*Report, error) {
	h.logger.Info("Opening search page", zap.String("url", searchURL))
	if err := h.page.Navigate(ctx, searchURL); err != nil {
		return nil, fmt.Errorf("failed to open search page: %w", err)
	}

	clicked, err := h.page.WaitForAndClick(ctx, h.selectors.CookieConsent, h.policy.WaitTimeout)
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		h.logger.Warn("Cookie pop-up dismissal failed", zap.Error(err))
	case clicked:
		h.logger.Debug("Cookie pop-up dismissed")
	default:
		h.logger.Debug("No cookie pop-up")
	}

	load := &Report{}
	links, err := h.loadAll(ctx, load)
	if err != nil {
		load.Discovered = len(links)
		load.Remaining = links
		return load, err
	}

	report, err := h.Harvest(ctx, links)
	report.Clicks = load.Clicks
	report.Batches = load.Batches
	return report, err
}

// LoadAll clicks "load more" until the control disappears, times out or
// the click budget is spent, and returns the union of every batch of
// listing links in first-seen order.
func (h *Harvester) LoadAll(ctx context.Context) ([]string, error) {
	return h.loadAll(ctx, &Report{})
}

func (h *Harvester) loadAll(ctx context.Context, report *Report) ([]string, error) {
	seen := make(map[string]bool)
	links := []string{}

	for {
		batch, err := h.page.Links(ctx, h.selectors.ListingLink)
		if err != nil {
			return links, fmt.Errorf("failed to collect listing links: %w", err)
		}
		report.Batches++
		for _, link := range batch {
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}

		if report.Clicks >= h.policy.MaxLoadMore {
			h.logger.Info("Load-more budget spent", zap.Int("clicks", report.Clicks))
			break
		}

		clicked, err := h.page.WaitForAndClick(ctx, h.selectors.LoadMore, h.policy.WaitTimeout)
		if ctx.Err() != nil {
			return links, ctx.Err()
		}
		if err != nil {
			h.logger.Warn("Load-more click failed", zap.Error(err))
			break
		}
		if !clicked {
			break
		}
		report.Clicks++
		h.logger.Debug("Loading more listings", zap.Int("clicks", report.Clicks), zap.Int("links", len(links)))

		if err := waitFor(ctx, h.policy.ClickDelay); err != nil {
			return links, err
		}
	}

	h.logger.Info("All listings loaded",
		zap.Int("batches", report.Batches),
		zap.Int("links", len(links)),
	)
	return links, nil
}

// Harvest fetches, scores and stores each link in order. A failing listing
// is logged and recorded without stopping the rest. On cancellation the
// unprocessed links are returned in Report.Remaining along with ctx.Err().
func (h *Harvester) Harvest(ctx context.Context, links []string) (*Report, error) {
	report := &Report{Discovered: len(links), Failed: []ItemFailure{}}

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return h.interrupted(report, links[i:], err)
		}

		if h.policy.SkipKnown {
			known, err := h.sink.HasLink(ctx, link)
			if err != nil {
				h.fail(report, i, len(links), link, err)
				continue
			}
			if known {
				report.Skipped++
				h.logger.Debug("Skipping known listing", zap.String("link", link))
				continue
			}
		}

		if err := h.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return h.interrupted(report, links[i:], ctx.Err())
			}
			return h.interrupted(report, links[i:], err)
		}

		job, inserted, err := h.harvestOne(ctx, link)
		if err != nil {
			if ctx.Err() != nil {
				return h.interrupted(report, links[i:], ctx.Err())
			}
			h.fail(report, i, len(links), link, err)
			continue
		}
		if !inserted {
			report.Skipped++
			continue
		}
		report.Persisted++
		h.logger.Info("Listing stored",
			zap.Int("index", i+1),
			zap.Int("total", len(links)),
			zap.String("title", logger.TruncateForLog(job.Title, 60)),
			zap.String("company", job.CompanyName),
			zap.Int("score", job.Score),
		)
	}

	return report, nil
}

func (h *Harvester) interrupted(report *Report, remaining []string, err error) (*Report, error) {
	report.Remaining = append([]string(nil), remaining...)
	h.logger.Warn("Harvest interrupted", zap.Int("remaining", len(remaining)), zap.Error(err))
	return report, err
}

func (h *Harvester) fail(report *Report, i, total int, link string, err error) {
	report.Failed = append(report.Failed, ItemFailure{Link: link, Err: err.Error()})
	h.logger.Warn("Listing skipped",
		zap.Int("index", i+1),
		zap.Int("total", total),
		zap.String("link", link),
		zap.Error(err),
	)
}

// harvestOne runs a single fetch-extract-persist cycle. Panics are turned
// into errors so one bad page cannot end the batch.
func (h *Harvester) harvestOne(ctx context.Context, link string) (job *models.JobPosting, inserted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while harvesting: %v", r)
		}
	}()

	if err := h.page.Navigate(ctx, link); err != nil {
		return nil, false, err
	}
	fields, err := h.page.ExtractFields(ctx, h.selectors, h.policy.ItemTimeout)
	if err != nil {
		return nil, false, err
	}

	job = h.buildPosting(fields, link)
	if _, inserted, err = h.sink.AppendIfNew(ctx, job); err != nil {
		return nil, false, fmt.Errorf("failed to store listing: %w", err)
	}
	return job, inserted, nil
}

func (h *Harvester) buildPosting(fields Fields, link string) *models.JobPosting {
	name, rating := SplitCompanyInfo(fields.CompanyInfo)
	skills := h.extractor.Extract(fields.Description)
	return &models.JobPosting{
		Title:       orPlaceholder(fields.Title, TitleUnavailable),
		CompanyName: name,
		Rating:      rating,
		Location:    orPlaceholder(fields.Location, LocationUnavailable),
		Description: orPlaceholder(fields.Description, DescriptionUnavailable),
		Skills:      skills,
		Score:       matcher.Normalize(skills),
		Link:        link,
		CreatedAt:   h.now().UTC(),
	}
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}

// waitFor sleeps for d or until ctx is done
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsInterrupted reports whether err ended a harvest early through
// cancellation or deadline.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
