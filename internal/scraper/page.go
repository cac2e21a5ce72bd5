// Package scraper harvests job listings from a search page into the store.
package scraper

import (
	"context"
	"time"
)

// Page is the browser surface the harvester drives. Implementations treat
// a missing element as a signal, not a failure.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// WaitForAndClick returns false, nil when selector does not show up
	// within timeout.
	WaitForAndClick(ctx context.Context, selector string, timeout time.Duration) (bool, error)
	// Links returns the absolute hrefs of every element matching selector
	Links(ctx context.Context, selector string) ([]string, error)
	// ExtractFields waits up to timeout for the description and reads the
	// detail fields, substituting placeholders for missing ones.
	ExtractFields(ctx context.Context, selectors Selectors, timeout time.Duration) (Fields, error)
}

// Placeholders stored when a detail field is missing from the page
const (
	TitleUnavailable       = "Title not available"
	CompanyUnavailable     = "Company not available"
	RatingUnavailable      = "Rating not available"
	LocationUnavailable    = "Location not available"
	DescriptionUnavailable = "Description not available"
)

// Fields holds the raw text of one listing's detail page
type Fields struct {
	Title       string
	CompanyInfo string // company name, then rating on the next line
	Location    string
	Description string
}

// Selectors are the CSS selectors of the listings site
type Selectors struct {
	CookieConsent string `mapstructure:"cookie_consent"`
	LoadMore      string `mapstructure:"load_more"`
	ListingLink   string `mapstructure:"listing_link"`
	Title         string `mapstructure:"title"`
	Company       string `mapstructure:"company"`
	Location      string `mapstructure:"location"`
	Description   string `mapstructure:"description"`
}

// DefaultSelectors matches the Glassdoor search and listing pages
func DefaultSelectors() Selectors {
	return Selectors{
		CookieConsent: `button[aria-label="Accepter les cookies"]`,
		LoadMore:      `button[data-test="load-more"]`,
		ListingLink:   `a[href*="/partner/jobListing"]`,
		Title:         `h1.heading_Heading__BqX5J`,
		Company:       `a[class*="EmployerProfile_profileContainer"]`,
		Location:      `div[class*="JobDetails_location"]`,
		Description:   `div[class*="jobDescription"]`,
	}
}

// withDefaults fills empty selectors from DefaultSelectors
func (s Selectors) withDefaults() Selectors {
	d := DefaultSelectors()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.CookieConsent, d.CookieConsent)
	fill(&s.LoadMore, d.LoadMore)
	fill(&s.ListingLink, d.ListingLink)
	fill(&s.Title, d.Title)
	fill(&s.Company, d.Company)
	fill(&s.Location, d.Location)
	fill(&s.Description, d.Description)
	return s
}

// Policy bounds one harvesting session
type Policy struct {
	// MaxLoadMore caps load-more clicks; 0 disables clicking
	MaxLoadMore  int
	WaitTimeout  time.Duration // per wait-for-element step
	ClickDelay   time.Duration // pause after each load-more click
	ItemTimeout  time.Duration // detail page field extraction
	ItemInterval time.Duration // minimum spacing between listings
	SkipKnown    bool          // skip links the store already holds
}

// DefaultPolicy mirrors the pacing of the listings site
func DefaultPolicy() Policy {
	return Policy{
		MaxLoadMore:  50,
		WaitTimeout:  5 * time.Second,
		ClickDelay:   3 * time.Second,
		ItemTimeout:  10 * time.Second,
		ItemInterval: time.Second,
		SkipKnown:    true,
	}
}
