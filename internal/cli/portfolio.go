package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/config"
	"github.com/cloud-ru/finsim-go/internal/report"
	"github.com/cloud-ru/finsim-go/internal/validators"
)

type portfolioCmd struct {
	file  string
	price float64
	raw   bool
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "roll up trading sessions into a portfolio report" }
func (*portfolioCmd) Usage() string {
	return `finsim portfolio -f <blocks.json> [-price <p>]

  Reads a JSON array of trading blocks and prints per-session and portfolio
  totals. With -price the price ranges are also valued at that price.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "blocks.json", "JSON file with an array of trading blocks.")
	f.Float64Var(&c.price, "price", 0, "Current price for the live valuation.")
	f.BoolVar(&c.raw, "md", false, "Print raw markdown.")
}

// decodeBlocks читает торговые блоки из JSON-файла
func decodeBlocks(path string) ([]calculations.TradingBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var blocks []calculations.TradingBlock
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return blocks, nil
}

func (c *portfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}

	blocks, err := decodeBlocks(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading blocks %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	for i, b := range blocks {
		if err := validators.CheckTradingBlock(cfg, b); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid block %d: %v\n", i+1, err)
			return subcommands.ExitFailure
		}
	}
	if err := validators.CheckNonNegative("price", c.price); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flag: %v\n", err)
		return subcommands.ExitUsageError
	}

	printMarkdown(report.PortfolioMarkdown(blocks, c.price), c.raw)
	return subcommands.ExitSuccess
}
