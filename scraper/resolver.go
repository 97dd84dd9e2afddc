package scraper

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// productDescSrc matches iframe addresses that carry description content.
var productDescSrc = regexp.MustCompile(`(?i)product.*description`)

// resolveDescription consults auxiliary sources when the primary document
// yields no description. Sources are tried in fixed priority order, stopping
// at the first that produces text:
//
//  1. live embedded frames whose address or name mentions both "product"
//     and "description"
//  2. noscript fallback blocks in the primary document
//  3. the lightweight mobile page variant
//
// Every step is independently best-effort; a failure in one step only means
// the next one runs.
func resolveDescription(sess Session, rawHTML string, mobile func() string) string {
	if text := frameDescription(sess); text != "" {
		return text
	}
	if text := noscriptDescription(rawHTML); text != "" {
		return text
	}
	return mobile()
}

// frameDescription scans the session's live frames for a product-description
// frame and concatenates text from the generic frame selectors.
func frameDescription(sess Session) string {
	for _, frame := range sess.Frames() {
		if !isDescriptionFrame(frame.URL(), frame.Name()) {
			continue
		}
		frameHTML, err := frame.HTML()
		if err != nil {
			slog.Debug("frame capture failed", "url", frame.URL(), "error", err)
			continue
		}
		if text := descriptionFromSelectors(frameHTML, frameSelectors); text != "" {
			return text
		}
	}
	return ""
}

func isDescriptionFrame(url, name string) bool {
	url = strings.ToLower(url)
	name = strings.ToLower(name)
	return (strings.Contains(url, "product") && strings.Contains(url, "description")) ||
		(strings.Contains(name, "product") && strings.Contains(name, "description"))
}

// noscriptDescription collects text from noscript blocks, which sometimes
// carry the description markup meant for non-script rendering contexts.
func noscriptDescription(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	var buf strings.Builder
	doc.Find("noscript").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			buf.WriteString(text)
			buf.WriteString("\n\n")
		}
	})
	return collapseWhitespace(buf.String())
}

// staticIframeDescription is the reduced frame-discovery variant used on the
// static path: description-frame addresses found in the markup are fetched
// over HTTP instead of read through live frame handles.
func (s *Scraper) staticIframeDescription(ctx context.Context, rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var srcs []string
	doc.Find("iframe").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		id, _ := sel.Attr("id")
		id = strings.ToLower(id)
		if productDescSrc.MatchString(src) ||
			(strings.Contains(id, "product") && strings.Contains(id, "description")) {
			if strings.HasPrefix(src, "http") {
				srcs = append(srcs, src)
			}
		}
	})

	for _, src := range srcs {
		body, fetchErr := s.httpFetcher.fetch(ctx, src, "", s.scraperCfg.FetchTimeout/2)
		if fetchErr != nil {
			slog.Debug("iframe fetch failed", "src", src, "error", fetchErr)
			continue
		}
		if text := descriptionFromSelectors(string(body), staticIframeSelectors); text != "" {
			return text
		}
	}
	return ""
}

// staticIframeSelectors is the reduced selector list applied to HTTP-fetched
// iframe documents.
var staticIframeSelectors = []string{
	"#productDescription",
	"p",
	"div",
	".aplus",
	".aplus p",
}
