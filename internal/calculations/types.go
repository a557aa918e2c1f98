package calculations

import "time"

// LoanInputs содержит условия кредита для построения графика
type LoanInputs struct {
	Principal          float64   `json:"principal"`
	AnnualInterestRate float64   `json:"annual_interest_rate"`
	TermYears          int       `json:"term_years"`
	StartDate          time.Time `json:"start_date"`
	ExtraPayment       float64   `json:"extra_payment"`
}

// AmortizationRow представляет один период графика платежей
type AmortizationRow struct {
	Period       int     `json:"period"`
	Date         string  `json:"date"`
	Payment      float64 `json:"payment"`
	Principal    float64 `json:"principal"`
	Interest     float64 `json:"interest"`
	ExtraPayment float64 `json:"extra_payment"`
	TotalPayment float64 `json:"total_payment"`
	Balance      float64 `json:"balance"`
}

// AmortizationSummary представляет сводку по всему графику
type AmortizationSummary struct {
	MonthlyPayment   float64 `json:"monthly_payment"`
	TotalInterest    float64 `json:"total_interest"`
	TotalPayment     float64 `json:"total_payment"`
	PayoffDate       string  `json:"payoff_date"`
	SavingsWithExtra float64 `json:"savings_with_extra"`
}

// AmortizationResult представляет результат расчета графика
type AmortizationResult struct {
	Schedule []AmortizationRow   `json:"schedule"`
	Summary  AmortizationSummary `json:"summary"`
}

// ChartPoint точка графика остатка и процентов
type ChartPoint struct {
	Period   int     `json:"period"`
	Date     string  `json:"date"`
	Balance  float64 `json:"balance"`
	Interest float64 `json:"interest"`
}

// TimeRemaining оставшееся до цели время
type TimeRemaining struct {
	Days  int `json:"days"`
	Hours int `json:"hours"`
}

// ForecastInputs входные данные линейного прогноза
type ForecastInputs struct {
	AvgDaily     float64 `json:"avg_daily"`
	DaysLeft     float64 `json:"days_left"`
	HoursLeft    float64 `json:"hours_left"`
	CurrentTotal float64 `json:"current_total"`
}

// PriceRangeRow строка ценового диапазона торгового блока
type PriceRangeRow struct {
	Range  string  `json:"range"`
	Shares float64 `json:"shares"`
	Cost   float64 `json:"cost"`
	Pnl    float64 `json:"pnl"`
}

// ActivityRow строка журнала сделок
type ActivityRow struct {
	Activity string  `json:"activity"`
	Share    float64 `json:"share"`
	Cost     float64 `json:"cost"`
	Sold     float64 `json:"sold"`
}

// TradingBlock торговая сессия: фиксированные ценовые диапазоны и журнал сделок.
// Количество и порядок PriceRanges задаются при создании и больше не меняются.
type TradingBlock struct {
	Title       string          `json:"title"`
	PriceRanges []PriceRangeRow `json:"price_ranges"`
	Activities  []ActivityRow   `json:"activities"`
}

// RangeSummary сводка по ценовым диапазонам ("Summary Port")
type RangeSummary struct {
	Cost          float64 `json:"cost"`
	UnrealizedPnl float64 `json:"unrealized_pnl"`
	Total         float64 `json:"total"`
}

// SessionRollup итоги одной сессии
type SessionRollup struct {
	Title           string  `json:"title"`
	Cost            float64 `json:"cost"`
	RangeUnrealized float64 `json:"range_unrealized"`
	ActivityNet     float64 `json:"activity_net"`
	SummaryTotal    float64 `json:"summary_total"`
	SessionTotal    float64 `json:"session_total"`
}

// PortfolioRollup итоги по всем сессиям
type PortfolioRollup struct {
	Sessions         []SessionRollup `json:"sessions"`
	ActiveSessions   int             `json:"active_sessions"`
	TotalCost        float64         `json:"total_cost"`
	TotalActivityPnl float64         `json:"total_activity_pnl"`
	TotalNetValue    float64         `json:"total_net_value"`
}
