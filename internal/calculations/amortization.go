package calculations

import (
	"math"
	"time"
)

const (
	// DateLabelLayout формат подписи периода ("Feb 2024")
	DateLabelLayout = "Jan 2006"
	// StartDateLayout формат даты начала кредита
	StartDateLayout = "2006-01-02"

	// относительная погрешность, ниже которой остаток считается погашенным
	residualTolerance = 1e-9
)

// LevelPayment рассчитывает аннуитетный платеж. При нулевой ставке платеж
// равномерный, при отсутствии периодов возвращается 0.
func LevelPayment(principal, monthlyRate float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	if monthlyRate > 0 {
		factor := math.Pow(1+monthlyRate, float64(n))
		return principal * monthlyRate * factor / (factor - 1)
	}
	return principal / float64(n)
}

// ComputeAmortizationSchedule строит график погашения с учетом досрочных платежей
func ComputeAmortizationSchedule(in LoanInputs) AmortizationResult {
	monthlyRate := in.AnnualInterestRate / 100.0 / 12.0
	n := in.TermYears * 12
	payment := LevelPayment(in.Principal, monthlyRate, n)

	capacity := n
	if capacity < 0 {
		capacity = 0
	}
	schedule := make([]AmortizationRow, 0, capacity)

	tolerance := residualTolerance * math.Max(1, math.Abs(in.Principal))
	balance := in.Principal
	totalInterest := 0.0
	totalPayment := 0.0

	for i := 1; i <= n; i++ {
		if balance <= 0 {
			break
		}

		interest := balance * monthlyRate
		principalPaid := payment - interest
		// последний период гасит накопленную погрешность округления
		if principalPaid > balance || i == n {
			principalPaid = balance
		}

		extra := in.ExtraPayment
		if balance-principalPaid < extra {
			extra = math.Max(0, balance-principalPaid)
		}

		periodTotal := principalPaid + interest + extra
		balance -= principalPaid + extra
		if math.Abs(balance) < tolerance {
			balance = 0
		}

		totalInterest += interest
		totalPayment += periodTotal

		schedule = append(schedule, AmortizationRow{
			Period:       i,
			Date:         PeriodLabel(in.StartDate, i),
			Payment:      payment,
			Principal:    principalPaid,
			Interest:     interest,
			ExtraPayment: extra,
			TotalPayment: periodTotal,
			Balance:      math.Max(0, balance),
		})
	}

	savings := 0.0
	if in.ExtraPayment > 0 {
		savings = payment*float64(n) - in.Principal - totalInterest
		if savings < tolerance {
			savings = 0
		}
	}

	payoff := in.StartDate.Format(StartDateLayout)
	if len(schedule) > 0 {
		payoff = schedule[len(schedule)-1].Date
	}

	return AmortizationResult{
		Schedule: schedule,
		Summary: AmortizationSummary{
			MonthlyPayment:   payment,
			TotalInterest:    totalInterest,
			TotalPayment:     totalPayment,
			PayoffDate:       payoff,
			SavingsWithExtra: savings,
		},
	}
}

// PeriodLabel возвращает подпись периода: дата начала плюс period календарных месяцев
func PeriodLabel(start time.Time, period int) string {
	return start.AddDate(0, period, 0).Format(DateLabelLayout)
}

// SampleForChart прореживает график: каждая 12-я строка и последняя
func SampleForChart(rows []AmortizationRow) []ChartPoint {
	points := make([]ChartPoint, 0, len(rows)/12+2)
	for i, row := range rows {
		if i%12 != 0 && i != len(rows)-1 {
			continue
		}
		points = append(points, ChartPoint{
			Period:   row.Period,
			Date:     row.Date,
			Balance:  row.Balance,
			Interest: row.Interest,
		})
	}
	return points
}
