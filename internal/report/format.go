package report

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency код валюты отчетов
const Currency = money.THB

func currency() money.Currency {
	return *money.New(0, Currency).Currency()
}

// minorUnits переводит значение в целые единицы с округлением до fraction знаков
func minorUnits(v float64, fraction int) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(int32(fraction)).Shift(int32(fraction)).IntPart()
}

// FormatTHB форматирует сумму в батах с двумя знаками после запятой
func FormatTHB(v float64) string {
	cur := currency()
	return cur.Formatter().Format(minorUnits(v, cur.Fraction))
}

// FormatBaht форматирует сумму в батах без дробной части (таблица кредита)
func FormatBaht(v float64) string {
	cur := currency()
	f := money.NewFormatter(0, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(minorUnits(v, 0))
}

// FormatNumber форматирует число с разделителями разрядов:
// целые без дробной части, остальные с двумя знаками
func FormatNumber(v float64) string {
	fraction := 2
	if decimal.NewFromFloat(v).Round(2).IsInteger() {
		fraction = 0
	}
	f := money.NewFormatter(fraction, ".", ",", "", "1")
	return f.Format(minorUnits(v, fraction))
}

// SignedNumber как FormatNumber, но с "+" для положительных значений
func SignedNumber(v float64) string {
	s := FormatNumber(v)
	if minorUnits(v, 2) > 0 {
		return "+" + s
	}
	return s
}
