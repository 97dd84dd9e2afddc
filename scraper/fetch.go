package scraper

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/use-agent/listify/models"
)

// asinPattern is the strict domain-layer form: exactly 10 upper-case
// alphanumerics. The API handlers apply a separate, lenient length-only
// check; the two checks are intentionally distinct and must not be unified.
var asinPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// listingURL is the canonical desktop listing address for an ASIN.
func listingURL(asin string) string {
	return "https://www.amazon.com/dp/" + asin
}

// mobileURL is the lightweight mobile rendering of the same listing.
func mobileURL(asin string) string {
	return "https://www.amazon.com/gp/aw/d/" + asin
}

// fetchFunc retrieves and extracts a listing for an ASIN via one strategy.
type fetchFunc func(ctx context.Context, asin string) (*models.Listing, error)

// Product fetches and extracts the listing for the given ASIN.
//
// The rendered browser path runs first. If it fails for any reason —
// navigation fault, robot check, missing title — the whole extraction is
// retried once over plain HTTP. If the static retry also fails, the original
// rendering-path error is the one surfaced: it is the richer diagnostic.
func (s *Scraper) Product(ctx context.Context, asin string) (*models.Listing, error) {
	return fetchListing(ctx, asin, s.renderedListing, s.staticListing)
}

// fetchListing validates the ASIN before any network activity, then applies
// the rendered-then-static retry policy.
func fetchListing(ctx context.Context, asin string, rendered, static fetchFunc) (*models.Listing, error) {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	if !asinPattern.MatchString(asin) {
		return nil, models.NewAppError(
			models.ErrCodeInvalidASIN,
			"invalid ASIN format: must be 10 alphanumeric characters",
			nil,
		)
	}

	listing, renderErr := rendered(ctx, asin)
	if renderErr == nil {
		return listing, nil
	}
	slog.Warn("rendered fetch failed, retrying via static fetch",
		"asin", asin, "error", renderErr)

	listing, staticErr := static(ctx, asin)
	if staticErr != nil {
		slog.Debug("static fallback also failed", "asin", asin, "error", staticErr)
		return nil, renderErr
	}
	return listing, nil
}

// renderedListing drives a browser session through the listing page and
// extracts its fields. The session is torn down on every exit path.
func (s *Scraper) renderedListing(ctx context.Context, asin string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.scraperCfg.NavigationTimeout)
	defer cancel()

	sess, err := s.openSession(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if navErr := sess.Navigate(listingURL(asin)); navErr != nil {
		return nil, categorizeError(navErr, "navigation to listing page failed")
	}

	// Best-effort waits: the title anchors the above-the-fold content, the
	// scroll plus the aplus wait coax lazy description modules into the DOM.
	sess.WaitVisible(selTitle, s.scraperCfg.TitleWait)
	sess.ScrollBottom(s.scraperCfg.SettleDelay)
	sess.WaitVisible(selAplusRegion, s.scraperCfg.ContentWait)

	rawHTML, htmlErr := sess.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to capture rendered markup")
	}

	fields, err := extractFields(rawHTML)
	if err != nil {
		return nil, err
	}

	if fields.description == "" {
		fields.description = resolveDescription(sess, rawHTML, func() string {
			return s.mobileDescription(ctx, asin)
		})
	}

	return &models.Listing{
		ASIN:        asin,
		Title:       fields.title,
		Bullets:     fields.bullets,
		Description: fields.description,
	}, nil
}

// staticListing retries the whole extraction over a single HTTP GET, with a
// reduced iframe-discovery variant: iframe addresses found in the markup are
// fetched directly instead of read from live frame handles.
func (s *Scraper) staticListing(ctx context.Context, asin string) (*models.Listing, error) {
	body, err := s.httpFetcher.fetch(ctx, listingURL(asin), "", s.scraperCfg.FetchTimeout)
	if err != nil {
		return nil, models.NewAppError(models.ErrCodeNavigation, "static fetch of listing page failed", err)
	}

	rawHTML := string(body)
	fields, err := extractFields(rawHTML)
	if err != nil {
		return nil, err
	}

	if fields.description == "" {
		fields.description = s.staticIframeDescription(ctx, rawHTML)
	}

	return &models.Listing{
		ASIN:        asin,
		Title:       fields.title,
		Bullets:     fields.bullets,
		Description: fields.description,
	}, nil
}

// mobileDescription fetches the mobile page variant and runs the mobile
// selector patterns against it. Best-effort: any failure yields "".
func (s *Scraper) mobileDescription(ctx context.Context, asin string) string {
	body, err := s.httpFetcher.fetch(ctx, mobileURL(asin), mobileUA, s.scraperCfg.FetchTimeout)
	if err != nil {
		slog.Debug("mobile variant fetch failed", "asin", asin, "error", err)
		return ""
	}
	return descriptionFromHTML(string(body), mobilePatterns)
}

// categorizeError wraps raw errors into typed AppErrors so the API layer can
// map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewAppError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewAppError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewAppError(models.ErrCodeNavigation, msg, err)
	}
}
