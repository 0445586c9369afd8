package main

import (
	"context"
	"io"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Products  prodex.ProductService
	Loader    prodex.DocumentLoader
	NewWriter func(path string) prodex.CollectionWriter
	Hydrator  prodex.Hydrator
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run      RunCmd      `cmd:"" help:"Extract products from a directory of HTML pages"`
	List     ListCmd     `cmd:"" help:"List products from the latest run"`
	Show     ShowCmd     `cmd:"" help:"Show a product from the latest run as JSON"`
	Failures FailuresCmd `cmd:"" help:"List failures from the latest run"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Dir         string  `arg:"" help:"Directory of saved product HTML pages"`
	Out         string  `short:"o" default:"products.json" help:"Output collection path"`
	Concurrency int     `short:"c" default:"4" help:"Concurrent document limit"`
	Model       string  `help:"Generation model (defaults to gemini-2.5-flash)"`
	RPS         float64 `name:"rps" default:"2" help:"Generation requests per second"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Product ID"`
}

// FailuresCmd is the "failures" subcommand.
type FailuresCmd struct{}
