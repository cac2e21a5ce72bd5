package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const pageLoadTimeout = 30 * time.Second

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// BrowserOptions configures the headless Chrome instance
type BrowserOptions struct {
	Headless  bool
	UserAgent string
}

// Browser drives one Chrome tab through chromedp and implements Page
type Browser struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

// createBrowserContext creates a new browser context with appropriate options
func createBrowserContext(parent context.Context, opts BrowserOptions, logger *zap.Logger) (context.Context, context.CancelFunc) {
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("excludeSwitches", "enable-automation"),
		chromedp.Flag("useAutomationExtension", false),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancel2 := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		msg := fmt.Sprintf(format, v...)
		// Filter out noisy unmarshal warnings
		if strings.Contains(msg, "could not unmarshal event") ||
			strings.Contains(msg, "unknown PrivateNetworkRequestPolicy") ||
			strings.Contains(msg, "unknown ClientNavigationReason") {
			return
		}
		logger.Debug("chromedp", zap.String("message", msg))
	}))

	return ctx, func() {
		cancel2()
		cancel()
	}
}

// NewBrowser launches Chrome. The browser lives until Close or until
// parent is cancelled.
func NewBrowser(parent context.Context, opts BrowserOptions, logger *zap.Logger) (*Browser, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := createBrowserContext(parent, opts, logger)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return &Browser{ctx: ctx, cancel: cancel, logger: logger}, nil
}

// Close shuts the browser down
func (b *Browser) Close() {
	b.cancel()
}

// run executes actions on the browser tab, stopping early when ctx ends
func (b *Browser) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	if err := b.run(ctx, pageLoadTimeout, chromedp.Navigate(url)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (b *Browser) WaitForAndClick(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	err := b.run(ctx, timeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	switch {
	case err == nil:
		return true, nil
	case ctx.Err() != nil:
		return false, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		return false, nil
	default:
		return false, fmt.Errorf("failed to click %s: %w", selector, err)
	}
}

func (b *Browser) Links(ctx context.Context, selector string) ([]string, error) {
	var html, location string
	err := b.run(ctx, pageLoadTimeout,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	return ParseListingLinks(html, location, selector)
}

func (b *Browser) ExtractFields(ctx context.Context, selectors Selectors, timeout time.Duration) (Fields, error) {
	sel := selectors.withDefaults()

	var html string
	err := b.run(ctx, timeout,
		chromedp.WaitReady(sel.Description, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return Fields{}, ctx.Err()
		}
		return Fields{}, fmt.Errorf("description not found: %w", err)
	}
	return ParseDetail(html, sel)
}
