package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/use-agent/listify/models"
)

func countingFetch(listing *models.Listing, err error, calls *int) fetchFunc {
	return func(context.Context, string) (*models.Listing, error) {
		*calls++
		return listing, err
	}
}

func TestFetchListing_InvalidASINBeforeIO(t *testing.T) {
	invalid := []string{"", "short", "B00!INVALID", "b00-badchr", "toolongasin1234"}
	for _, asin := range invalid {
		var rendered, static int
		_, err := fetchListing(context.Background(), asin,
			countingFetch(nil, nil, &rendered),
			countingFetch(nil, nil, &static),
		)
		if err == nil {
			t.Errorf("asin %q: expected validation error", asin)
			continue
		}
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeInvalidASIN {
			t.Errorf("asin %q: expected %s, got %v", asin, models.ErrCodeInvalidASIN, err)
		}
		if rendered != 0 || static != 0 {
			t.Errorf("asin %q: fetch ran before validation (rendered=%d static=%d)", asin, rendered, static)
		}
	}
}

func TestFetchListing_NormalizesASIN(t *testing.T) {
	var got string
	rendered := func(_ context.Context, asin string) (*models.Listing, error) {
		got = asin
		return &models.Listing{ASIN: asin, Title: "x"}, nil
	}
	var static int
	if _, err := fetchListing(context.Background(), "  b07pxgqc1q ", rendered, countingFetch(nil, nil, &static)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "B07PXGQC1Q" {
		t.Errorf("asin passed to fetch = %q", got)
	}
}

func TestFetchListing_RenderedSuccessSkipsStatic(t *testing.T) {
	want := &models.Listing{ASIN: "B07PXGQC1Q", Title: "x"}
	var rendered, static int
	got, err := fetchListing(context.Background(), "B07PXGQC1Q",
		countingFetch(want, nil, &rendered),
		countingFetch(nil, nil, &static),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("got %v", got)
	}
	if rendered != 1 || static != 0 {
		t.Errorf("rendered=%d static=%d", rendered, static)
	}
}

func TestFetchListing_StaticRetryOnce(t *testing.T) {
	want := &models.Listing{ASIN: "B07PXGQC1Q", Title: "x"}
	var rendered, static int
	got, err := fetchListing(context.Background(), "B07PXGQC1Q",
		countingFetch(nil, errors.New("browser crashed"), &rendered),
		countingFetch(want, nil, &static),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("got %v", got)
	}
	if rendered != 1 || static != 1 {
		t.Errorf("rendered=%d static=%d", rendered, static)
	}
}

func TestFetchListing_OriginalErrorSurfaces(t *testing.T) {
	renderErr := models.NewAppError(models.ErrCodeTimeout, "navigation timed out", nil)
	staticErr := errors.New("HTTP 503")
	var rendered, static int
	_, err := fetchListing(context.Background(), "B07PXGQC1Q",
		countingFetch(nil, renderErr, &rendered),
		countingFetch(nil, staticErr, &static),
	)
	if !errors.Is(err, renderErr) {
		t.Errorf("surfaced error = %v, want the rendering-path error", err)
	}
	if rendered != 1 || static != 1 {
		t.Errorf("rendered=%d static=%d", rendered, static)
	}
}

func TestCategorizeError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, models.ErrCodeTimeout},
		{context.Canceled, models.ErrCodeTimeout},
		{errors.New("net::ERR_NAME_NOT_RESOLVED"), models.ErrCodeNavigation},
	}
	for _, tc := range cases {
		got := categorizeError(tc.err, "msg")
		if got.Code != tc.want {
			t.Errorf("categorizeError(%v) = %s, want %s", tc.err, got.Code, tc.want)
		}
	}
}

func TestListingURLs(t *testing.T) {
	if got := listingURL("B07PXGQC1Q"); got != "https://www.amazon.com/dp/B07PXGQC1Q" {
		t.Errorf("listingURL = %q", got)
	}
	if got := mobileURL("B07PXGQC1Q"); got != "https://www.amazon.com/gp/aw/d/B07PXGQC1Q" {
		t.Errorf("mobileURL = %q", got)
	}
}
