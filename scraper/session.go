package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/listify/models"
	"github.com/ysmood/gson"
)

// Session is the surface the extraction pipeline needs from a rendering
// engine: navigate, bounded best-effort waits, scroll-and-settle, markup
// capture and frame enumeration. The rod binding below is one
// implementation; tests substitute stubs.
type Session interface {
	Navigate(url string) error
	// WaitVisible blocks until the selector matches at least one element or
	// the timeout expires. Failure is tolerated.
	WaitVisible(selector string, timeout time.Duration)
	// ScrollBottom scrolls to the bottom of the document and pauses so
	// lazy-loaded content regions get a chance to render.
	ScrollBottom(settle time.Duration)
	HTML() (string, error)
	Frames() []Frame
	Close()
}

// Frame is a live embedded document within a session.
type Frame interface {
	URL() string
	Name() string
	HTML() (string, error)
}

// openSession borrows a page from the pool and prepares it for a listing
// fetch: stealth script, randomized user agent, English headers, fixed
// viewport, resource blocking. The caller MUST Close the session on every
// exit path; a leaked page is a leaked browser tab.
func (s *Scraper) openSession(ctx context.Context) (Session, error) {
	s.activePages.Add(1)

	page, acquireErr := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		s.activePages.Add(-1)
		return nil, models.NewAppError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// Stealth and fingerprint overrides must be installed before the
	// navigation they are meant to affect.
	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth",
			"error", evalErr,
		)
	}

	_ = proto.NetworkSetUserAgentOverride{
		UserAgent: randomUserAgent(),
	}.Call(page)

	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: proto.NetworkHeaders{
			"Accept-Language": gson.New("en-US,en;q=0.9"),
		},
	}.Call(page)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            800,
		DeviceScaleFactor: 1,
	}); err != nil {
		slog.Debug("viewport override failed", "error", err)
	}

	router := setupHijack(page, s.scraperCfg.BlockedResourceTypes)

	return &rodSession{
		scraper: s,
		page:    page,
		bound:   page.Context(ctx),
		router:  router,
	}, nil
}

// rodSession binds a pooled rod page to one extraction request.
type rodSession struct {
	scraper *Scraper
	page    *rod.Page // original reference, used for cleanup
	bound   *rod.Page // request-context-bound reference
	router  *rod.HijackRouter
}

func (rs *rodSession) Navigate(url string) error {
	return rs.bound.Navigate(url)
}

func (rs *rodSession) WaitVisible(selector string, timeout time.Duration) {
	if err := rs.bound.Timeout(timeout).WaitElementsMoreThan(selector, 0); err != nil {
		slog.Debug("element wait expired", "selector", selector, "error", err)
	}
}

func (rs *rodSession) ScrollBottom(settle time.Duration) {
	if _, err := rs.bound.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		slog.Debug("scroll to bottom failed", "error", err)
		return
	}
	select {
	case <-time.After(settle):
	case <-rs.bound.GetContext().Done():
	}
}

func (rs *rodSession) HTML() (string, error) {
	return rs.bound.HTML()
}

// Frames enumerates the page's live iframes. Each frame carries the iframe
// element's src and name/id so callers can match against them without
// touching the frame document.
func (rs *rodSession) Frames() []Frame {
	elements, err := rs.bound.Elements("iframe")
	if err != nil {
		slog.Debug("frame enumeration failed", "error", err)
		return nil
	}

	frames := make([]Frame, 0, len(elements))
	for _, el := range elements {
		src := attrOrEmpty(el, "src")
		name := attrOrEmpty(el, "name")
		if name == "" {
			name = attrOrEmpty(el, "id")
		}
		frames = append(frames, &rodFrame{el: el, src: src, name: name})
	}
	return frames
}

// Close returns the page to the pool. The about:blank reset uses the
// ORIGINAL page reference (without request context) so cleanup succeeds even
// after the request context has expired.
func (rs *rodSession) Close() {
	if rs.router != nil {
		_ = rs.router.Stop()
	}
	if navErr := rs.page.Navigate("about:blank"); navErr != nil {
		slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
	}
	rs.scraper.pagePool.Put(rs.page)
	rs.scraper.activePages.Add(-1)
}

type rodFrame struct {
	el   *rod.Element
	src  string
	name string
}

func (f *rodFrame) URL() string  { return f.src }
func (f *rodFrame) Name() string { return f.name }

func (f *rodFrame) HTML() (string, error) {
	framePage, err := f.el.Frame()
	if err != nil {
		return "", err
	}
	return framePage.HTML()
}

func attrOrEmpty(el *rod.Element, name string) string {
	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}
