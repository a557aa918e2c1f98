package calculations

import (
	"errors"
	"fmt"

	"github.com/cloud-ru/finsim-go/pkg/utils"
)

// ErrRowIndex индекс строки вне диапазона блока
var ErrRowIndex = errors.New("row index out of range")

// DefaultPriceRanges стандартные ценовые диапазоны блока (шаг 20)
var DefaultPriceRanges = []string{
	"280 - 299", "300 - 319", "320 - 339", "340 - 359", "360 - 379",
	"380 - 399", "400 - 419", "420 - 439", "440 - 459", "460 - 479",
	"480 - 499", "500 - 519", "520 - 539", "540 - 559",
}

// RangeMode политика агрегации ценовых диапазонов
type RangeMode string

const (
	// RangeModeLive PNL выводится из текущей цены, Total = Cost + Unrealized
	RangeModeLive RangeMode = "live"
	// RangeModeManual PNL вводится вручную, Total = Unrealized - Cost
	RangeModeManual RangeMode = "manual"
)

// ParseRangeMode разбирает название политики
func ParseRangeMode(s string) (RangeMode, error) {
	switch RangeMode(s) {
	case RangeModeLive, RangeModeManual:
		return RangeMode(s), nil
	case "":
		return RangeModeManual, nil
	}
	return "", fmt.Errorf("unknown range mode %q", s)
}

// NewTradingBlock создает блок с одной нулевой строкой на каждый диапазон
// и placeholders пустыми строками журнала
func NewTradingBlock(title string, ranges []string, placeholders int) TradingBlock {
	block := TradingBlock{
		Title:       title,
		PriceRanges: make([]PriceRangeRow, len(ranges)),
		Activities:  make([]ActivityRow, 0, placeholders),
	}
	for i, r := range ranges {
		block.PriceRanges[i] = PriceRangeRow{Range: r}
	}
	for i := 0; i < placeholders; i++ {
		block.Activities = append(block.Activities, ActivityRow{})
	}
	return block
}

// UpdateRange изменяет строку диапазона i; метка диапазона не меняется
func (b *TradingBlock) UpdateRange(i int, shares, cost, pnl float64) error {
	if i < 0 || i >= len(b.PriceRanges) {
		return fmt.Errorf("price range %d: %w", i, ErrRowIndex)
	}
	row := &b.PriceRanges[i]
	row.Shares, row.Cost, row.Pnl = shares, cost, pnl
	return nil
}

// AppendActivity добавляет строку в журнал сделок
func (b *TradingBlock) AppendActivity(row ActivityRow) {
	b.Activities = append(b.Activities, row)
}

// UpdateActivity заменяет строку журнала i
func (b *TradingBlock) UpdateActivity(i int, row ActivityRow) error {
	if i < 0 || i >= len(b.Activities) {
		return fmt.Errorf("activity %d: %w", i, ErrRowIndex)
	}
	b.Activities[i] = row
	return nil
}

// RowPnl PNL строки по текущей цене; пустая позиция дает 0
func RowPnl(shares, cost, currentPrice float64) float64 {
	if shares == 0 {
		return 0
	}
	return currentPrice*shares - cost
}

// NetActivityPnl реализованный результат сделки
func NetActivityPnl(sold, cost float64) float64 {
	return sold - cost
}

// LiveRowPnls PNL каждой строки по текущей цене
func LiveRowPnls(rows []PriceRangeRow, currentPrice float64) []float64 {
	pnls := make([]float64, len(rows))
	for i, r := range rows {
		pnls[i] = RowPnl(r.Shares, r.Cost, currentPrice)
	}
	return pnls
}

// SummarizeRangesLive сводка по текущей цене: Total = Cost + Unrealized
func SummarizeRangesLive(rows []PriceRangeRow, currentPrice float64) RangeSummary {
	var s RangeSummary
	for _, r := range rows {
		shares, cost := utils.OrZero(r.Shares), utils.OrZero(r.Cost)
		s.Cost += cost
		if shares > 0 {
			s.UnrealizedPnl += RowPnl(shares, cost, currentPrice)
		}
	}
	s.Total = s.Cost + s.UnrealizedPnl
	return s
}

// SummarizeRangesManual сводка по введенным вручную PNL: Total = Unrealized - Cost
func SummarizeRangesManual(rows []PriceRangeRow) RangeSummary {
	var s RangeSummary
	for _, r := range rows {
		s.Cost += utils.OrZero(r.Cost)
		s.UnrealizedPnl += utils.OrZero(r.Pnl)
	}
	s.Total = s.UnrealizedPnl - s.Cost
	return s
}

// SummarizeRanges выбирает политику агрегации
func SummarizeRanges(rows []PriceRangeRow, mode RangeMode, currentPrice float64) RangeSummary {
	if mode == RangeModeLive {
		return SummarizeRangesLive(rows, currentPrice)
	}
	return SummarizeRangesManual(rows)
}

// SummarizeActivities сумма реализованных результатов журнала
func SummarizeActivities(rows []ActivityRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += NetActivityPnl(r.Sold, r.Cost)
	}
	return total
}

// RollupSession итоги сессии: (Unrealized - Cost) + результат журнала
func RollupSession(block TradingBlock) SessionRollup {
	ranges := SummarizeRangesManual(block.PriceRanges)
	activity := SummarizeActivities(block.Activities)
	return SessionRollup{
		Title:           block.Title,
		Cost:            ranges.Cost,
		RangeUnrealized: ranges.UnrealizedPnl,
		ActivityNet:     activity,
		SummaryTotal:    ranges.Total,
		SessionTotal:    ranges.Total + activity,
	}
}

// RollupPortfolio суммирует итоги всех сессий
func RollupPortfolio(blocks []TradingBlock) PortfolioRollup {
	p := PortfolioRollup{
		Sessions:       make([]SessionRollup, 0, len(blocks)),
		ActiveSessions: len(blocks),
	}
	for i, b := range blocks {
		s := RollupSession(b)
		if s.Title == "" {
			s.Title = fmt.Sprintf("Session %d", i+1)
		}
		p.TotalCost += s.Cost
		p.TotalActivityPnl += s.ActivityNet
		p.TotalNetValue += s.SessionTotal
		p.Sessions = append(p.Sessions, s)
	}
	return p
}
