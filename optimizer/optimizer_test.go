package optimizer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
)

// stubCompleter answers each prompt from a canned table and can fail on
// selected prompt substrings.
type stubCompleter struct {
	answers   map[string]string // prompt substring → answer
	failOn    string            // prompt substring that errors, "" for none
	available bool
	calls     atomic.Int32
}

func (s *stubCompleter) Available() bool { return s.available }

func (s *stubCompleter) Complete(_ context.Context, prompt string, _ int) (string, error) {
	s.calls.Add(1)
	if s.failOn != "" && strings.Contains(prompt, s.failOn) {
		return "", errors.New("completion refused")
	}
	for sub, answer := range s.answers {
		if strings.Contains(prompt, sub) {
			return answer, nil
		}
	}
	return "", errors.New("unexpected prompt")
}

func TestOptimize_NilClientUsesFallback(t *testing.T) {
	o := New(nil)
	got := o.Optimize(context.Background(), airpodsListing())
	want := Synthesize(airpodsListing())
	if !reflect.DeepEqual(got, want) {
		t.Errorf("nil client did not produce fallback output")
	}
}

func TestOptimize_UnavailableClientUsesFallback(t *testing.T) {
	stub := &stubCompleter{available: false}
	o := New(stub)
	got := o.Optimize(context.Background(), airpodsListing())
	if stub.calls.Load() != 0 {
		t.Errorf("unavailable client was called %d times", stub.calls.Load())
	}
	if !reflect.DeepEqual(got, Synthesize(airpodsListing())) {
		t.Errorf("unavailable client did not produce fallback output")
	}
}

func TestOptimize_AllTasksSucceed(t *testing.T) {
	stub := &stubCompleter{
		available: true,
		answers: map[string]string{
			"following product title":       "Sleek Widget Pro, Bluetooth, Long Battery",
			"following product bullet":      `["Point one", "Point two"]`,
			"following product description": "A fine widget for all occasions.",
			"Amazon SEO specialist":         `["widget", "bluetooth"]`,
		},
	}
	o := New(stub)
	got := o.Optimize(context.Background(), airpodsListing())

	if got.Title != "Sleek Widget Pro, Bluetooth, Long Battery" {
		t.Errorf("title = %q", got.Title)
	}
	if !reflect.DeepEqual(got.Bullets, []string{"Point one", "Point two"}) {
		t.Errorf("bullets = %v", got.Bullets)
	}
	if got.Description != "A fine widget for all occasions." {
		t.Errorf("description = %q", got.Description)
	}
	if !reflect.DeepEqual(got.Keywords, []string{"widget", "bluetooth"}) {
		t.Errorf("keywords = %v", got.Keywords)
	}
	if n := stub.calls.Load(); n != 4 {
		t.Errorf("expected 4 completion calls, got %d", n)
	}
}

func TestOptimize_SingleFailureDiscardsAll(t *testing.T) {
	stub := &stubCompleter{
		available: true,
		failOn:    "Amazon SEO specialist",
		answers: map[string]string{
			"following product title":       "Sleek Widget Pro",
			"following product bullet":      `["Point one"]`,
			"following product description": "A fine widget.",
		},
	}
	o := New(stub)
	got := o.Optimize(context.Background(), airpodsListing())

	// No partial results: the whole record comes from fallback synthesis.
	if !reflect.DeepEqual(got, Synthesize(airpodsListing())) {
		t.Errorf("partial generation results leaked into output: %#v", got)
	}
	// All four tasks ran to completion despite the failure.
	if n := stub.calls.Load(); n != 4 {
		t.Errorf("expected 4 completion calls, got %d", n)
	}
}
