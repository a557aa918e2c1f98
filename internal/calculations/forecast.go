package calculations

import (
	"math"
	"strings"
	"time"
)

// форматы, в которых принимается целевая дата
var targetLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTargetDate разбирает целевую дату. Даты без зоны трактуются в loc.
func ParseTargetDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range targetLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RemainingTime возвращает целые дни и часы до target. Нулевая цель, а также
// цель в прошлом или ровно сейчас дают {0, 0}.
func RemainingTime(target, now time.Time) TimeRemaining {
	if target.IsZero() {
		return TimeRemaining{}
	}
	diff := target.Sub(now)
	if diff <= 0 {
		return TimeRemaining{}
	}
	day := 24 * time.Hour
	return TimeRemaining{
		Days:  int(diff / day),
		Hours: int((diff % day) / time.Hour),
	}
}

// RemainingTimeFrom то же, что RemainingTime, но для строковой даты.
// Неразборчивая дата дает {0, 0}.
func RemainingTimeFrom(targetDate string, now time.Time, loc *time.Location) TimeRemaining {
	target, ok := ParseTargetDate(targetDate, loc)
	if !ok {
		return TimeRemaining{}
	}
	return RemainingTime(target, now)
}

// ForecastTotal линейный прогноз итогового значения:
// (avgDaily/24)*hoursLeft + avgDaily*daysLeft + currentTotal.
// При нулевом (или NaN) темпе рост не предполагается.
func ForecastTotal(avgDaily, daysLeft, hoursLeft, currentTotal float64) float64 {
	if avgDaily == 0 || math.IsNaN(avgDaily) {
		return currentTotal
	}
	return (avgDaily/24)*hoursLeft + avgDaily*daysLeft + currentTotal
}

// Total вычисляет прогноз по входным данным
func (in ForecastInputs) Total() float64 {
	return ForecastTotal(in.AvgDaily, in.DaysLeft, in.HoursLeft, in.CurrentTotal)
}

// ForecastPanel одиночная панель прогноза: целевая дата, темп и накопленное значение
type ForecastPanel struct {
	TargetDate   string  `json:"target_date"`
	AvgDaily     float64 `json:"avg_daily"`
	CurrentTotal float64 `json:"current_total"`
}

// PanelResult результат панели прогноза
type PanelResult struct {
	Remaining TimeRemaining `json:"remaining"`
	Forecast  float64       `json:"forecast"`
}

// Evaluate пересчитывает панель на момент now
func (p ForecastPanel) Evaluate(now time.Time, loc *time.Location) PanelResult {
	left := RemainingTimeFrom(p.TargetDate, now, loc)
	return PanelResult{
		Remaining: left,
		Forecast:  ForecastTotal(p.AvgDaily, float64(left.Days), float64(left.Hours), p.CurrentTotal),
	}
}
