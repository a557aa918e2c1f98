package report

import (
	"bytes"
	"fmt"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/cloud-ru/finsim-go/internal/calculations"
)

// LoanMarkdown отчет по кредиту: сводка и график платежей.
// maxRows > 0 ограничивает число строк графика.
func LoanMarkdown(in calculations.LoanInputs, result calculations.AmortizationResult, maxRows int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Loan Amortization")
	doc.PlainText(fmt.Sprintf("%s at %g%% over %d years, starting %s",
		FormatBaht(in.Principal), in.AnnualInterestRate, in.TermYears,
		in.StartDate.Format(calculations.StartDateLayout)))

	summaryRows := [][]string{
		{"Total interest", FormatTHB(result.Summary.TotalInterest)},
		{"Total payment", FormatTHB(result.Summary.TotalPayment)},
		{"Payoff date", result.Summary.PayoffDate},
	}
	if in.ExtraPayment > 0 {
		summaryRows = append(summaryRows,
			[]string{"Extra payment", FormatTHB(in.ExtraPayment)},
			[]string{"Savings with extra", FormatTHB(result.Summary.SavingsWithExtra)},
		)
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Monthly payment"), md.Bold(FormatTHB(result.Summary.MonthlyPayment))},
		Rows:      summaryRows,
	})

	if len(result.Schedule) == 0 {
		return doc.String()
	}

	doc.H2("Schedule")
	rows := result.Schedule
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight, md.AlignLeft, md.AlignRight, md.AlignRight,
			md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"#", "Date", "Payment", "Principal", "Interest", "Extra", "Balance"},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(r.Period),
			r.Date,
			FormatBaht(r.Payment),
			FormatBaht(r.Principal),
			FormatBaht(r.Interest),
			FormatBaht(r.ExtraPayment),
			FormatBaht(r.Balance),
		})
	}
	doc.Table(table)
	if hidden := len(result.Schedule) - len(rows); hidden > 0 {
		doc.PlainText(fmt.Sprintf("%d more periods not shown", hidden))
	}

	return doc.String()
}

// PanelMarkdown отчет одиночной панели прогноза
func PanelMarkdown(panel calculations.ForecastPanel, res calculations.PanelResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Forecast")
	rows := [][]string{
		{"Days left", strconv.Itoa(res.Remaining.Days)},
		{"Hours left", strconv.Itoa(res.Remaining.Hours)},
		{"Avg daily", FormatNumber(panel.AvgDaily)},
		{"Current total", FormatNumber(panel.CurrentTotal)},
	}
	if panel.TargetDate != "" {
		rows = append([][]string{{"Target", panel.TargetDate}}, rows...)
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Forecast"), md.Bold(FormatNumber(res.Forecast))},
		Rows:      rows,
	})
	return doc.String()
}

// ForecastMarkdown отчет листа прогнозов; центральная строка выделена
func ForecastMarkdown(sheet calculations.ForecastSheet) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Forecast Sheet")
	doc.PlainText(fmt.Sprintf("Average %s, total %s, %g days %g hours left",
		FormatNumber(sheet.Average), FormatNumber(sheet.TotalCount), sheet.DaysLeft, sheet.HoursLeft))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignLeft},
		Header:    []string{"#", "Avg daily", "Link", "Forecast", "Group", "Mark"},
	}
	for _, l := range sheet.Lines() {
		forecast := FormatNumber(l.Forecast)
		if l.Highlight {
			forecast = md.Bold(forecast)
		}
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(l.Index + 1),
			FormatNumber(l.AvgDaily),
			l.Label,
			forecast,
			l.Group,
			l.Mark,
		})
	}
	doc.Table(table)
	return doc.String()
}

// PortfolioMarkdown отчет по сессиям и портфелю.
// currentPrice > 0 добавляет оценку диапазонов по текущей цене.
func PortfolioMarkdown(blocks []calculations.TradingBlock, currentPrice float64) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	rollup := calculations.RollupPortfolio(blocks)

	doc.H1("Portfolio")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Total net value"), md.Bold(SignedNumber(rollup.TotalNetValue))},
		Rows: [][]string{
			{"Active sessions", strconv.Itoa(rollup.ActiveSessions)},
			{"Total cost", FormatNumber(rollup.TotalCost)},
			{"Activity PNL", SignedNumber(rollup.TotalActivityPnl)},
		},
	})

	if len(rollup.Sessions) == 0 {
		return doc.String()
	}

	doc.H2("Sessions")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Session", "Cost", "Unrealized", "Summary total", "Activity", "Session total"},
	}
	for _, s := range rollup.Sessions {
		table.Rows = append(table.Rows, []string{
			s.Title,
			FormatNumber(s.Cost),
			SignedNumber(s.RangeUnrealized),
			SignedNumber(s.SummaryTotal),
			SignedNumber(s.ActivityNet),
			SignedNumber(s.SessionTotal),
		})
	}
	doc.Table(table)

	if currentPrice > 0 {
		doc.H2(fmt.Sprintf("Live at %s", FormatNumber(currentPrice)))
		live := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Session", "Cost", "Unrealized", "Total"},
		}
		for i, b := range blocks {
			s := calculations.SummarizeRangesLive(b.PriceRanges, currentPrice)
			live.Rows = append(live.Rows, []string{
				rollup.Sessions[i].Title,
				FormatNumber(s.Cost),
				SignedNumber(s.UnrealizedPnl),
				FormatNumber(s.Total),
			})
		}
		doc.Table(live)
	}

	return doc.String()
}
