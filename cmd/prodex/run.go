package main

import (
	"fmt"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/goquery"
	"github.com/fwojciec/prodex/htmltomarkdown"
	"github.com/fwojciec/prodex/pipeline"
	"github.com/fwojciec/prodex/readability"
	"github.com/fwojciec/prodex/trafilatura"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	docs, err := deps.Loader.LoadDocuments(deps.Ctx, c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodex.ErrorMessage(err))
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no HTML files found in %q\n", c.Dir)
		return prodex.Errorf(prodex.ENOTFOUND, "no HTML files found in %q", c.Dir)
	}

	converter := htmltomarkdown.NewConverter()

	p := &pipeline.Pipeline{
		Sheets: goquery.NewSheetExtractor(),
		Distiller: prodex.DistillerChain{
			trafilatura.NewDistiller(converter),
			readability.NewDistiller(converter),
		},
		Images:      goquery.NewImageExtractor(),
		Hydrator:    deps.Hydrator,
		Concurrency: c.Concurrency,
	}
	if c.RPS > 0 {
		p.Limiter = pipeline.NewLimiter(c.RPS)
	}

	progress := func(event pipeline.ProgressEvent) {
		switch event.Type {
		case pipeline.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Processing %d documents\n", event.Total)
		case pipeline.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.Source, event.Error)
		case pipeline.ProgressFinished:
			// Summary printed after the run completes
		}
	}

	result, err := p.Run(deps.Ctx, docs, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodex.ErrorMessage(err))
		return err
	}

	writer := deps.NewWriter(c.Out)
	if err := writer.WriteCollection(deps.Ctx, result.Collection); err != nil {
		fmt.Fprintf(deps.Stderr, "error writing collection: %v\n", err)
		return err
	}

	if err := deps.Products.SaveRun(deps.Ctx, result.Collection, result.Failures); err != nil {
		fmt.Fprintf(deps.Stderr, "error saving run: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Saved %d products to %s (%d failures)\n",
		result.Collection.Len(), c.Out, len(result.Failures))

	return nil
}
