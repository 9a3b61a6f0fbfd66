// Package browser drives the headless rendering session for the listing.
//
// The listing is an Angular application: page content only exists after
// client-side rendering, and pagination happens in place by activating a
// "Next" control rather than by URL. The session owns one browser for the
// whole run and must be closed on every exit path.
package browser

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/chromedp"

	"acc3scraper/pkg/config"
	"acc3scraper/pkg/logger"
)

// AdvanceResult is the outcome of one pagination step
type AdvanceResult int

const (
	// Advanced means the next page was activated and has rendered.
	Advanced AdvanceResult = iota
	// EndOfListing means the next control did not become interactable within
	// the wait timeout. This is the expected end-of-data signal; it is not
	// distinguishable from a page that silently broke mid-listing.
	EndOfListing
	// NavigationFailed means the session itself errored.
	NavigationFailed
)

func (r AdvanceResult) String() string {
	switch r {
	case Advanced:
		return "advanced"
	case EndOfListing:
		return "end_of_listing"
	case NavigationFailed:
		return "navigation_failed"
	default:
		return "unknown"
	}
}

const (
	// nextControl matches the pagination link's label span.
	nextControl = `//span[contains(@class, "ecl-link__label") and text()="Next"]`
	// listingReady is the readiness signal: at least one rendered entry block.
	listingReady = "article.ng-star-inserted"
)

// Session owns a headless browser displaying one page of the listing
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	waitTimeout time.Duration
	settleDelay time.Duration
	log         logger.Logger
}

// NewSession launches a browser. The caller must Close the session on every
// exit path.
func NewSession(cfg *config.NavigationConfig) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(1440, 1080),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	return &Session{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		waitTimeout: cfg.WaitTimeout,
		settleDelay: cfg.SettleDelay,
		log:         logger.GetLogger(),
	}, nil
}

// Load navigates to the listing and waits, bounded by the wait timeout, for
// the first entry block to render.
func (s *Session) Load(url string) error {
	s.log.InfoWithFields("Loading listing", map[string]interface{}{
		"url": url,
	})

	loadCtx, cancel := context.WithTimeout(s.ctx, s.waitTimeout+s.settleDelay)
	defer cancel()

	return chromedp.Run(loadCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.WaitVisible(listingReady, chromedp.ByQuery),
	)
}

// Content returns the current rendered HTML of the displayed page
func (s *Session) Content() (string, error) {
	var html string
	err := chromedp.Run(s.ctx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

// Advance activates the next-page control and waits for the listing to
// re-render. A wait timeout on the control is a definitive signal, not a
// transient error: it is reported as EndOfListing and never retried.
func (s *Session) Advance() (AdvanceResult, error) {
	waitCtx, cancel := context.WithTimeout(s.ctx, s.waitTimeout)
	err := chromedp.Run(waitCtx,
		chromedp.WaitVisible(nextControl, chromedp.BySearch),
		chromedp.ScrollIntoView(nextControl, chromedp.BySearch),
		chromedp.Click(nextControl, chromedp.BySearch),
	)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.Debug("Next control not interactable within timeout")
			return EndOfListing, nil
		}
		return NavigationFailed, err
	}

	// The listing re-renders in place, so the readiness selector matches both
	// the old and the new page. Poll for it anyway (it catches a page that
	// navigated away entirely), then allow a short settle for the swap.
	settleCtx, cancel := context.WithTimeout(s.ctx, s.waitTimeout)
	err = chromedp.Run(settleCtx,
		chromedp.WaitVisible(listingReady, chromedp.ByQuery),
	)
	cancel()
	if err != nil {
		s.log.WithError(err).Warn("Listing did not re-render after page transition")
	}
	time.Sleep(s.settleDelay)

	return Advanced, nil
}

// Close releases the browser session
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}
