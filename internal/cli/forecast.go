package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/config"
	"github.com/cloud-ru/finsim-go/internal/report"
	"github.com/cloud-ru/finsim-go/internal/validators"
)

type forecastCmd struct {
	target string
	avg    float64
	total  float64
	days   int
	hours  int
	sheet  bool
	raw    bool

	now func() time.Time
}

func (*forecastCmd) Name() string     { return "forecast" }
func (*forecastCmd) Synopsis() string { return "project a running total to a deadline" }
func (*forecastCmd) Usage() string {
	return `finsim forecast -avg <per day> [-total <current>] [-target <date> | -days <n> -hours <n>] [-sheet]

  Projects the current total linearly at the average daily rate. With -target
  the remaining days and hours are derived from the date. With -sheet the
  linked rows around the average are printed as well.
`
}

func (c *forecastCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.target, "target", "", "Target date, e.g. 2025-03-11T12:00.")
	f.Float64Var(&c.avg, "avg", 0, "Average daily rate.")
	f.Float64Var(&c.total, "total", 0, "Current total.")
	f.IntVar(&c.days, "days", 0, "Whole days left, used without -target.")
	f.IntVar(&c.hours, "hours", 0, "Whole hours left, used without -target.")
	f.BoolVar(&c.sheet, "sheet", false, "Also print the forecast sheet around the average.")
	f.BoolVar(&c.raw, "md", false, "Print raw markdown.")
}

func (c *forecastCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}
	for name, v := range map[string]int{"days": c.days, "hours": c.hours} {
		if err := validators.CheckNonNegative(name, float64(v)); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid flag: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}

	panel := calculations.ForecastPanel{TargetDate: c.target, AvgDaily: c.avg, CurrentTotal: c.total}
	var res calculations.PanelResult
	if c.target != "" {
		if _, ok := calculations.ParseTargetDate(c.target, cfg.Location()); !ok {
			fmt.Fprintf(os.Stderr, "Error parsing target date %q\n", c.target)
			return subcommands.ExitUsageError
		}
		res = panel.Evaluate(now(), cfg.Location())
		c.days, c.hours = res.Remaining.Days, res.Remaining.Hours
	} else {
		in := calculations.ForecastInputs{
			AvgDaily:     c.avg,
			DaysLeft:     float64(c.days),
			HoursLeft:    float64(c.hours),
			CurrentTotal: c.total,
		}
		res = calculations.PanelResult{
			Remaining: calculations.TimeRemaining{Days: c.days, Hours: c.hours},
			Forecast:  in.Total(),
		}
	}

	md := report.PanelMarkdown(panel, res)
	if c.sheet {
		sheet := calculations.NewForecastSheet(calculations.DefaultSheetRows)
		sheet.Average = c.avg
		sheet.TotalCount = c.total
		sheet.DaysLeft = float64(c.days)
		sheet.HoursLeft = float64(c.hours)
		md += "\n" + report.ForecastMarkdown(sheet)
	}
	printMarkdown(md, c.raw)
	return subcommands.ExitSuccess
}
