package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/prodex"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	product, err := deps.Products.FindProductByID(deps.Ctx, c.ID)
	if err != nil {
		if prodex.ErrorCode(err) == prodex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: product %q not found. Use 'prodex list' to see available products.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", prodex.ErrorMessage(err))
		}
		return err
	}

	data, err := json.MarshalIndent(product, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}
