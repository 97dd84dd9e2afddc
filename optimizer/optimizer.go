// Package optimizer produces rewritten listing content, either through an
// external text-generation capability or through deterministic rule-based
// synthesis when that capability is unavailable.
package optimizer

import (
	"context"
	"log/slog"

	"github.com/use-agent/listify/models"
	"golang.org/x/sync/errgroup"
)

// Completer is the text-generation capability: one instruction in, free text
// out, all-or-nothing per call.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	Available() bool
}

// Optimizer orchestrates the four generation sub-tasks.
type Optimizer struct {
	llm Completer
}

// New creates an Optimizer. llm may be nil, in which case every request uses
// fallback synthesis.
func New(llm Completer) *Optimizer {
	return &Optimizer{llm: llm}
}

// Optimize produces rewritten content for the listing. The four sub-tasks
// (title, bullets, description, keywords) run concurrently and are joined
// before proceeding; a failed sub-task does not cancel the others, but any
// single fault discards all four results in favor of full fallback synthesis
// on the original listing. Partial results never survive — the caller always
// gets a coherent record from exactly one producer.
func (o *Optimizer) Optimize(ctx context.Context, listing *models.Listing) *models.Optimized {
	if o.llm == nil || !o.llm.Available() {
		slog.Info("generation capability unavailable, using fallback synthesis",
			"asin", listing.ASIN)
		return Synthesize(listing)
	}

	var (
		title       string
		bullets     []string
		description string
		keywords    []string
	)

	// Plain errgroup.Group, no derived context: the join barrier must not
	// propagate cancellation from one failed call to its siblings.
	var g errgroup.Group

	g.Go(func() error {
		out, err := o.llm.Complete(ctx, titlePrompt(listing), 200)
		if err != nil {
			return err
		}
		title = out
		return nil
	})
	g.Go(func() error {
		out, err := o.llm.Complete(ctx, bulletsPrompt(listing), 1000)
		if err != nil {
			return err
		}
		bullets = parseList(out)
		return nil
	})
	g.Go(func() error {
		out, err := o.llm.Complete(ctx, descriptionPrompt(listing), 1000)
		if err != nil {
			return err
		}
		description = out
		return nil
	})
	g.Go(func() error {
		out, err := o.llm.Complete(ctx, keywordsPrompt(listing), 200)
		if err != nil {
			return err
		}
		keywords = parseList(out)
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Warn("generation failed, discarding partial results for fallback synthesis",
			"asin", listing.ASIN, "error", err)
		return Synthesize(listing)
	}

	return &models.Optimized{
		Title:       title,
		Bullets:     bullets,
		Description: description,
		Keywords:    keywords,
	}
}
