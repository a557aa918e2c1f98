package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls счетчик вызовов инструментов
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_total",
			Help: "Общее количество вызовов инструментов",
		},
		[]string{"tool_name", "status"},
	)

	// CalculationErrors счетчик ошибок расчетов
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_errors_total",
			Help: "Количество ошибок расчетов",
		},
		[]string{"tool_name", "error_type"},
	)

	// APICalls счетчик вызовов API
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_calls_total",
			Help: "Вызовы API инструментов",
		},
		[]string{"service", "endpoint", "status"},
	)

	// CountdownDays оставшиеся целые дни до цели обратного отсчета
	CountdownDays = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "countdown_days_remaining",
			Help: "Целые дни до цели обратного отсчета",
		},
	)

	// CountdownHours оставшиеся часы (0..23) сверх целых дней
	CountdownHours = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "countdown_hours_remaining",
			Help: "Часы сверх целых дней до цели",
		},
	)

	// RequestDuration длительность HTTP-запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Длительность обработки HTTP-запросов",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)
