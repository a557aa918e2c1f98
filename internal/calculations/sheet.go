package calculations

import "fmt"

// DefaultSheetRows количество строк листа прогноза по умолчанию
const DefaultSheetRows = 10

// RowLink привязка строки листа к среднему значению
type RowLink struct {
	Offset    float64
	Highlight bool
}

// Label подпись связанной строки: "(Avg)", "(Avg - 4)", "(Avg + 2)"
func (l RowLink) Label() string {
	switch {
	case l.Offset > 0:
		return fmt.Sprintf("(Avg + %g)", l.Offset)
	case l.Offset < 0:
		return fmt.Sprintf("(Avg - %g)", -l.Offset)
	}
	return "(Avg)"
}

// LinkedRows строки 5..9 вычисляются от среднего; хранимый темп в них игнорируется
var LinkedRows = map[int]RowLink{
	5: {Offset: -4},
	6: {Offset: -2},
	7: {Offset: 0, Highlight: true},
	8: {Offset: 2},
	9: {Offset: 4},
}

// ForecastRow редактируемая строка листа
type ForecastRow struct {
	AvgDaily float64 `json:"avg_daily"`
	Group    string  `json:"group"`
	Mark     string  `json:"mark"`
}

// ForecastSheet лист прогнозов с общими параметрами времени
type ForecastSheet struct {
	Average    float64       `json:"average"`
	TotalCount float64       `json:"total_count"`
	DaysLeft   float64       `json:"days_left"`
	HoursLeft  float64       `json:"hours_left"`
	Rows       []ForecastRow `json:"rows"`
}

// ForecastLine вычисленная строка листа
type ForecastLine struct {
	Index     int     `json:"index"`
	AvgDaily  float64 `json:"avg_daily"`
	Linked    bool    `json:"linked"`
	Label     string  `json:"label,omitempty"`
	Highlight bool    `json:"highlight"`
	Forecast  float64 `json:"forecast"`
	Group     string  `json:"group"`
	Mark      string  `json:"mark"`
}

// NewForecastSheet создает лист с rows пустыми строками (не меньше DefaultSheetRows)
func NewForecastSheet(rows int) ForecastSheet {
	if rows < DefaultSheetRows {
		rows = DefaultSheetRows
	}
	return ForecastSheet{Rows: make([]ForecastRow, rows)}
}

// EffectiveRate темп строки i с учетом привязки к среднему
func (s ForecastSheet) EffectiveRate(i int) (float64, bool) {
	if link, ok := LinkedRows[i]; ok {
		return s.Average + link.Offset, true
	}
	if i < 0 || i >= len(s.Rows) {
		return 0, false
	}
	return s.Rows[i].AvgDaily, false
}

// Lines вычисляет прогноз для каждой строки листа
func (s ForecastSheet) Lines() []ForecastLine {
	lines := make([]ForecastLine, 0, len(s.Rows))
	for i, row := range s.Rows {
		rate, linked := s.EffectiveRate(i)
		line := ForecastLine{
			Index:    i,
			AvgDaily: rate,
			Linked:   linked,
			Forecast: ForecastTotal(rate, s.DaysLeft, s.HoursLeft, s.TotalCount),
			Group:    row.Group,
			Mark:     row.Mark,
		}
		if linked {
			link := LinkedRows[i]
			line.Label = link.Label()
			line.Highlight = link.Highlight
		}
		lines = append(lines, line)
	}
	return lines
}
