package main

import (
	"fmt"

	"github.com/fwojciec/prodex"
)

// Run executes the failures command.
func (c *FailuresCmd) Run(deps *Dependencies) error {
	failures, err := deps.Products.FindFailures(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodex.ErrorMessage(err))
		return err
	}

	if len(failures) == 0 {
		fmt.Fprintln(deps.Stdout, "No failures in the latest run.")
		return nil
	}

	for _, f := range failures {
		fmt.Fprintf(deps.Stdout, "%s  [%s]  %s\n", f.Source, f.Stage, f.Message)
	}

	return nil
}
