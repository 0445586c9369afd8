// Package pipeline orchestrates the per-document extraction run: truth
// sheet extraction, content distillation, and image verification feed a
// schema-constrained hydration step, and validated products are assembled
// into the output collection.
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/prodex"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultConcurrency bounds parallel document processing when unset.
const DefaultConcurrency = 4

// DefaultHydrateTimeout bounds a single generation attempt.
const DefaultHydrateTimeout = 60 * time.Second

// Pipeline runs the extraction stages over a batch of documents.
// Documents are independent: each produces its own truth sheet, distilled
// content, and candidate list in isolation, so processing order never
// affects output content.
type Pipeline struct {
	Sheets    prodex.SheetExtractor
	Distiller prodex.Distiller
	Images    prodex.ImageExtractor
	Hydrator  prodex.Hydrator

	// ImageConfig holds the quality thresholds; zero value means defaults.
	ImageConfig *prodex.ImageFilterConfig

	// Concurrency bounds parallel document processing.
	Concurrency int

	// HydrateTimeout bounds a single generation attempt.
	HydrateTimeout time.Duration

	// RetryDelays configures hydration retry backoff. Nil means defaults.
	RetryDelays []time.Duration

	// Limiter gates generation requests. Nil means unlimited.
	Limiter *rate.Limiter
}

// Result holds the outcome of a pipeline run.
type Result struct {
	Collection *prodex.Collection
	Failures   []prodex.Failure
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Source    string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// docResult holds the outcome of processing a single document.
type docResult struct {
	position int
	source   string
	product  *prodex.Product
	stage    string
	err      error
}

// Run processes every document and returns the assembled collection plus
// the recorded per-document failures. Per-document failures never abort
// the batch; an empty input is a run-level error.
func (p *Pipeline) Run(ctx context.Context, docs []*prodex.RawDocument, progress ProgressFunc) (*Result, error) {
	if len(docs) == 0 {
		return nil, prodex.Errorf(prodex.EINVALID, "no documents to process")
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan docResult, len(docs))

	var completed atomic.Int64
	total := len(docs)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, doc := range docs {
			i, doc := i, doc
			g.Go(func() error {
				resultCh <- p.processDocument(gctx, i, doc)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results into one slot per document so concurrent insertion
	// never contends and input order survives.
	results := make([]docResult, len(docs))
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Completed: int(completed.Load()),
			Total:     total,
			Source:    result.source,
		}
		if result.err != nil {
			event.Type = ProgressFailed
			event.Error = result.err
		} else {
			event.Type = ProgressCompleted
		}
		progress(event)
	}

	collection := prodex.NewCollection()
	var failures []prodex.Failure

	for _, result := range results {
		if result.err != nil {
			failures = append(failures, prodex.Failure{
				Source:  result.source,
				Stage:   result.stage,
				Message: prodex.ErrorMessage(result.err),
			})
			continue
		}
		if result.product == nil {
			// Cancelled before processing; dropped without a failure record.
			continue
		}
		if err := collection.Add(result.product); err != nil {
			failures = append(failures, prodex.Failure{
				Source:  result.source,
				Stage:   "collect",
				Message: prodex.ErrorMessage(err),
			})
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return &Result{Collection: collection, Failures: failures}, nil
}

// processDocument runs the per-document sequence. The three extraction
// stages have no data dependency on each other and run concurrently; the
// hydration step joins on all three.
func (p *Pipeline) processDocument(ctx context.Context, position int, doc *prodex.RawDocument) docResult {
	result := docResult{position: position, source: doc.Name}

	if ctx.Err() != nil {
		return result
	}

	if err := doc.Validate(); err != nil {
		result.stage = "load"
		result.err = err
		return result
	}

	var (
		sheet      *prodex.TruthSheet
		distilled  string
		candidates []prodex.ImageCandidate
	)

	// Stage failures are recovered locally as empty partials; only the
	// generation step can fail a document.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		sheet = p.Sheets.ExtractSheet(doc.HTML)
		return nil
	})
	g.Go(func() error {
		content, err := p.Distiller.Distill(doc.HTML)
		if err == nil {
			distilled = content
		}
		return nil
	})
	g.Go(func() error {
		candidates = p.Images.ExtractImages(doc.HTML)
		return nil
	})
	_ = g.Wait()

	if sheet == nil {
		sheet = prodex.NewTruthSheet()
	}

	cfg := prodex.DefaultImageFilterConfig()
	if p.ImageConfig != nil {
		cfg = *p.ImageConfig
	}
	verified := prodex.VerifyImageCandidates(candidates, cfg)

	input := &prodex.HydrationInput{
		Source:    doc.Name,
		Sheet:     sheet,
		Distilled: distilled,
		Images:    verified,
	}

	product, err := p.hydrate(ctx, input)
	if err != nil {
		result.stage = "hydrate"
		result.err = err
		return result
	}

	product.ID = ProductID(doc.Name)
	result.product = product
	return result
}

// hydrate runs the generation call under the rate limiter, per-attempt
// timeout, and bounded retry policy.
func (p *Pipeline) hydrate(ctx context.Context, input *prodex.HydrationInput) (*prodex.Product, error) {
	timeout := p.HydrateTimeout
	if timeout <= 0 {
		timeout = DefaultHydrateTimeout
	}

	attempt := func(ctx context.Context, input *prodex.HydrationInput) (*prodex.Product, error) {
		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p.Hydrator.Hydrate(attemptCtx, input)
	}

	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	return HydrateWithRetryDelays(ctx, input, attempt, nil, delays)
}

// ProductID derives a stable, collection-unique identifier from the source
// document name. Identical inputs produce identical IDs across runs.
func ProductID(name string) string {
	return fmt.Sprintf("p-%016x", xxhash.Sum64String(name))
}
