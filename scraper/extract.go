package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/listify/models"
)

const (
	selTitle       = "#productTitle"
	selBullets     = "#feature-bullets ul li span.a-list-item"
	selAplusRegion = "#aplus_feature_div"
)

// descPattern is one declarative description matcher: a precompiled CSS
// selector tagged with the layout family it belongs to. New layout variants
// are supported by appending patterns, not by editing control flow.
type descPattern struct {
	family  string
	matcher goquery.Matcher
}

func pat(family, selector string) descPattern {
	return descPattern{family: family, matcher: cascadia.MustCompile(selector)}
}

// descriptionPatterns covers the known desktop layout variants in priority
// order. Listing pages render description content in mutually exclusive
// layouts, so extraction stops at the first pattern yielding any text and
// never merges text across families.
var descriptionPatterns = []descPattern{
	pat("product-description", "#productDescription"),
	pat("product-description", "#productDescription p"),
	pat("product-description", "#productDescription .a-expander-content"),
	pat("product-description", "#productDescription li"),
	pat("aplus", "#aplus"),
	pat("aplus", "#aplus p"),
	pat("aplus", "#aplus li"),
	pat("aplus-module", "#aplus_feature_div"),
	pat("aplus-module", "#aplus_feature_div p"),
	pat("aplus-module", "#aplus_feature_div li"),
	pat("aplus-3p", "#aplus3p_feature_div"),
	pat("aplus-3p", "#aplus3p_feature_div p"),
	pat("aplus-3p", "#aplus3p_feature_div li"),
	pat("dpx-aplus", "#dpx-aplus-product-description_feature_div"),
	pat("dpx-aplus", "#dpx-aplus-product-description_feature_div p"),
	pat("dpx-aplus", "#dpx-aplus-product-description_feature_div li"),
	pat("aplus-any", `div[id*="aplus"] p`),
	pat("aplus-any", `div[id*="aplus"] li`),
}

// mobilePatterns covers the lightweight mobile page variant.
var mobilePatterns = []descPattern{
	pat("mobile-description", "#description"),
	pat("mobile-description", "#description p"),
	pat("mobile-description-any", `div[id*="description"]`),
	pat("mobile-description-any", `div[id*="description"] p`),
	pat("mobile-aplus", `div[id*="aplus"]`),
	pat("mobile-aplus", `div[id*="aplus"] p`),
	pat("mobile-expander", ".a-expander-content"),
	pat("mobile-expander", ".a-expander-content p"),
}

// frameSelectors is the generic selector list evaluated inside embedded
// product-description frames, which carry none of the desktop page ids.
var frameSelectors = []string{
	"#productDescription",
	"#productDescription p",
	"p",
	"div",
	".aplus",
	".aplus p",
	".aplus div",
}

var whitespaceRuns = regexp.MustCompile(`\s{3,}`)

// collapseWhitespace squeezes runs of 3+ whitespace characters to a single
// space and trims the result.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}

// listingFields is the raw output of field extraction, assembled into an
// immutable models.Listing only after secondary resolution has run.
type listingFields struct {
	title       string
	bullets     []string
	description string
}

// extractFields pulls title, bullets and description out of raw listing
// markup. An empty title means the page is not a product listing (not found,
// or access denied) and short-circuits before any bullet or description work.
func extractFields(rawHTML string) (*listingFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewAppError(models.ErrCodeExtraction, "failed to parse listing markup", err)
	}

	title := strings.TrimSpace(doc.Find(selTitle).Text())
	if title == "" {
		return nil, models.NewAppError(models.ErrCodeNotFound, "product not found or access denied", nil)
	}

	// Bullets keep authored order and repetition; dedup is the optimizer's
	// concern, not extraction's.
	var bullets []string
	doc.Find(selBullets).Each(func(_ int, s *goquery.Selection) {
		if b := strings.TrimSpace(s.Text()); b != "" {
			bullets = append(bullets, b)
		}
	})

	return &listingFields{
		title:       title,
		bullets:     bullets,
		description: descriptionFromPatterns(doc, descriptionPatterns),
	}, nil
}

// descriptionFromHTML parses raw markup and applies the given pattern list.
func descriptionFromHTML(rawHTML string, patterns []descPattern) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	return descriptionFromPatterns(doc, patterns)
}

// descriptionFromPatterns walks the pattern list in priority order and
// returns the concatenated text of the first pattern that yields anything.
func descriptionFromPatterns(doc *goquery.Document, patterns []descPattern) string {
	for _, p := range patterns {
		var buf strings.Builder
		doc.FindMatcher(p.matcher).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				buf.WriteString(text)
				buf.WriteString("\n\n")
			}
		})
		if buf.Len() > 0 {
			return collapseWhitespace(buf.String())
		}
	}
	return ""
}

// descriptionFromSelectors concatenates non-empty text across ALL the given
// selectors. Used for frame documents, where the generic selectors overlap
// and the union is wanted.
func descriptionFromSelectors(rawHTML string, selectors []string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	var buf strings.Builder
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				buf.WriteString(text)
				buf.WriteString("\n\n")
			}
		})
	}
	return collapseWhitespace(buf.String())
}
