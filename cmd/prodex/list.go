package main

import (
	"fmt"

	"github.com/fwojciec/prodex"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	products, err := deps.Products.FindProducts(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodex.ErrorMessage(err))
		return err
	}

	if len(products) == 0 {
		fmt.Fprintln(deps.Stdout, "No products found. Use 'prodex run' to extract some.")
		return nil
	}

	for _, p := range products {
		price := "-"
		if p.Price != nil {
			price = fmt.Sprintf("%.2f %s", p.Price.Amount, p.Price.Currency)
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", p.ID, p.Name, price)
	}

	return nil
}
