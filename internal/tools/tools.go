package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/config"
	"github.com/cloud-ru/finsim-go/internal/metrics"
	"github.com/cloud-ru/finsim-go/internal/validators"
	"github.com/cloud-ru/finsim-go/pkg/utils"
)

// ToolHandler представляет обработчик инструмента
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// Clock источник текущего времени
type Clock func() time.Time

// Названия инструментов
const (
	ToolAmortizationSchedule = "amortization_schedule"
	ToolRemainingTime        = "remaining_time"
	ToolForecastTotal        = "forecast_total"
	ToolForecastPanel        = "forecast_panel"
	ToolForecastSheet        = "forecast_sheet"
	ToolRangeSummary         = "range_summary"
	ToolSessionRollup        = "session_rollup"
	ToolPortfolioRollup      = "portfolio_rollup"
)

// calcFunc тело инструмента; span уже открыт и снабжен метриками
type calcFunc func(ctx context.Context, span trace.Span, p Params) (interface{}, error)

// instrument оборачивает расчет спаном и счетчиками
func instrument(tracer trace.Tracer, toolName string, fn calcFunc) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, span := tracer.Start(ctx, toolName)
		defer span.End()

		metrics.APICalls.WithLabelValues("tools", toolName, "started").Inc()

		result, err := fn(ctx, span, Params(params))
		if err != nil {
			kind := "error"
			errType := "calculation"
			var perr *ParamError
			if errors.As(err, &perr) {
				kind = perr.Kind
				errType = "validation"
			}
			span.SetAttributes(attribute.String("error", kind))
			metrics.ToolCalls.WithLabelValues(toolName, kind).Inc()
			metrics.CalculationErrors.WithLabelValues(toolName, errType).Inc()
			metrics.APICalls.WithLabelValues("tools", toolName, "error").Inc()
			return nil, err
		}

		span.SetAttributes(attribute.Bool("success", true))
		metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
		metrics.APICalls.WithLabelValues("tools", toolName, "success").Inc()
		return result, nil
	}
}

// AmortizationResponse график платежей с данными для графика баланса
type AmortizationResponse struct {
	Schedule []calculations.AmortizationRow   `json:"schedule"`
	Summary  calculations.AmortizationSummary `json:"summary"`
	Chart    []calculations.ChartPoint        `json:"chart"`
}

// ParseLoanInputs извлекает и проверяет условия кредита
func ParseLoanInputs(cfg *config.Config, p Params) (calculations.LoanInputs, error) {
	var in calculations.LoanInputs
	var err error

	if in.Principal, err = p.Float("principal"); err != nil {
		return in, err
	}
	if in.AnnualInterestRate, err = p.Float("annual_interest_rate"); err != nil {
		return in, err
	}
	if in.TermYears, err = p.Int("term_years"); err != nil {
		return in, err
	}
	if in.ExtraPayment, err = p.OptionalFloat("extra_payment", 0); err != nil {
		return in, err
	}
	start, err := p.String("start_date")
	if err != nil {
		return in, err
	}
	if in.StartDate, err = validators.CheckStartDate(start); err != nil {
		return in, validationError(err)
	}
	if err := validators.CheckLoan(cfg, in); err != nil {
		return in, validationError(err)
	}
	return in, nil
}

// AmortizationScheduleHandler строит график аннуитетных платежей
func AmortizationScheduleHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, ToolAmortizationSchedule, func(ctx context.Context, span trace.Span, p Params) (interface{}, error) {
		in, err := ParseLoanInputs(cfg, p)
		if err != nil {
			return nil, err
		}

		span.SetAttributes(
			attribute.Float64("principal", in.Principal),
			attribute.Float64("annual_interest_rate", in.AnnualInterestRate),
			attribute.Int("term_years", in.TermYears),
			attribute.Float64("extra_payment", in.ExtraPayment),
		)

		result := calculations.ComputeAmortizationSchedule(in)

		span.SetAttributes(
			attribute.Float64("monthly_payment", utils.Round2(result.Summary.MonthlyPayment)),
			attribute.Float64("total_interest", utils.Round2(result.Summary.TotalInterest)),
			attribute.Int("periods", len(result.Schedule)),
		)

		return AmortizationResponse{
			Schedule: result.Schedule,
			Summary:  result.Summary,
			Chart:    calculations.SampleForChart(result.Schedule),
		}, nil
	})
}

// RemainingTimeHandler считает дни и часы до целевой даты
func RemainingTimeHandler(cfg *config.Config, tracer trace.Tracer, clock Clock) ToolHandler {
	return instrument(tracer, ToolRemainingTime, func(ctx context.Context, span trace.Span, p Params) (interface{}, error) {
		target, err := p.String("target_date")
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("target_date", target))

		left := calculations.RemainingTimeFrom(target, clock(), cfg.Location())
		span.SetAttributes(attribute.Int("days", left.Days), attribute.Int("hours", left.Hours))
		return left, nil
	})
}

// ForecastResponse результат линейного прогноза
type ForecastResponse struct {
	Forecast float64 `json:"forecast"`
}

func parseForecastInputs(p Params) (calculations.ForecastInputs, error) {
	var in calculations.ForecastInputs
	var err error
	if in.AvgDaily, err = p.Float("avg_daily"); err != nil {
		return in, err
	}
	if in.DaysLeft, err = p.OptionalFloat("days_left", 0); err != nil {
		return in, err
	}
	if in.HoursLeft, err = p.OptionalFloat("hours_left", 0); err != nil {
		return in, err
	}
	if in.CurrentTotal, err = p.OptionalFloat("current_total", 0); err != nil {
		return in, err
	}
	for name, v := range map[string]float64{"avg_daily": in.AvgDaily, "current_total": in.CurrentTotal} {
		if err := validators.CheckFinite(name, v); err != nil {
			return in, validationError(err)
		}
	}
	for name, v := range map[string]float64{"days_left": in.DaysLeft, "hours_left": in.HoursLeft} {
		if err := validators.CheckNonNegative(name, v); err != nil {
			return in, validationError(err)
		}
	}
	return in, nil
}

// ForecastTotalHandler линейный прогноз итогового значения
func ForecastTotalHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, ToolForecastTotal, func(ctx context.Context, span trace.Span, p Params) (interface{}, error) {
		in, err := parseForecastInputs(p)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(
			attribute.Float64("avg_daily", in.AvgDaily),
			attribute.Float64("days_left", in.DaysLeft),
			attribute.Float64("hours_left", in.HoursLeft),
			attribute.Float64("current_total", in.CurrentTotal),
		)
		return ForecastResponse{Forecast: in.Total()}, nil
	})
}

// ForecastPanelHandler пересчитывает панель прогноза на текущий момент
func ForecastPanelHandler(cfg *config.Config, tracer trace.Tracer, clock Clock) ToolHandler {
	return instrument(tracer, ToolForecastPanel, func(ctx context.Context, span trace.Span, p Params) (interface{}, error) {
		var panel calculations.ForecastPanel
		var err error
		if panel.TargetDate, err = p.String("target_date"); err != nil {
			return nil, err
		}
		if panel.AvgDaily, err = p.Float("avg_daily"); err != nil {
			return nil, err
		}
		if panel.CurrentTotal, err = p.OptionalFloat("current_total", 0); err != nil {
			return nil, err
		}
		span.SetAttributes(
			attribute.String("target_date", panel.TargetDate),
			attribute.Float64("avg_daily", panel.AvgDaily),
		)
		return panel.Evaluate(clock(), cfg.Location()), nil
	})
}

// SheetResponse вычисленные строки листа прогнозов
type SheetResponse struct {
	Lines []calculations.ForecastLine `json:"lines"`
}

// ForecastSheetHandler пересчитывает лист прогнозов со связанными строками
func ForecastSheetHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, ToolForecastSheet, func(ctx context.Context, span trace.Span, p Params) (interface{}, error) {
		var rows []calculations.ForecastRow
		if p.Has("rows") {
			if err := p.Decode("rows", &rows); err != nil {
				return nil, err
			}
		}

		sheet := calculations.NewForecastSheet(len(rows))
		copy(sheet.Rows, rows)

		var err error
		if sheet.Average, err = p.Float("average"); err != nil {
			return nil, err
		}
		if sheet.TotalCount, err = p.OptionalFloat("total_count", 0); err != nil {
			return nil, err
		}
		if sheet.DaysLeft, err = p.OptionalFloat("days_left", 0); err != nil {
			return nil, err
		}
		if sheet.HoursLeft, err = p.OptionalFloat("hours_left", 0); err != nil {
			return nil, err
		}
		if err := validators.CheckNonNegative("days_left", sheet.DaysLeft); err != nil {
			return nil, validationError(err)
		}
		if err := validators.CheckNonNegative("hours_left", sheet.HoursLeft); err != nil {
			return nil, validationError(err)
		}

		span.SetAttributes(
			attribute.Float64("average", sheet.Average),
			attribute.Int("rows", len(sheet.Rows)),
		)
		return SheetResponse{Lines: sheet.Lines()}, nil
	})
}

// RangeSummaryResponse сводка ценовых диапазонов
type RangeSummaryResponse struct {
	calculations.RangeSummary
	Mode    calculations.RangeMode `json:"mode"`
	RowPnls []float64              `json:"row_pnls,omitempty"`
}

// RangeSummaryHandler агрегирует ценовые диапазоны по выбранной политике
func RangeSummaryHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, ToolRangeSummary, func(ctx context.Context, span trace.Span, p Params) (interface{}, error) {
		var rows []calculations.PriceRangeRow
		if err := p.Decode("rows", &rows); err != nil {
			return nil, err
		}
		modeName, err := p.OptionalString("mode", string(calculations.RangeModeManual))
		if err != nil {
			return nil, err
		}
		mode, err := calculations.ParseRangeMode(modeName)
		if err != nil {
			return nil, validationError(err)
		}
		block := calculations.TradingBlock{PriceRanges: rows}
		if err := validators.CheckTradingBlock(cfg, block); err != nil {
			return nil, validationError(err)
		}

		span.SetAttributes(
			attribute.String("mode", string(mode)),
			attribute.Int("rows", len(rows)),
		)

		if mode == calculations.RangeModeManual {
			return RangeSummaryResponse{
				RangeSummary: calculations.SummarizeRangesManual(rows),
				Mode:         mode,
			}, nil
		}

		price, err := p.Float("current_price")
		if err != nil {
			return nil, err
		}
		if err := validators.CheckNonNegative("current_price", price); err != nil {
			return nil, validationError(err)
		}
		span.SetAttributes(attribute.Float64("current_price", price))
		return RangeSummaryResponse{
			RangeSummary: calculations.SummarizeRangesLive(rows, price),
			Mode:         mode,
			RowPnls:      calculations.LiveRowPnls(rows, price),
		}, nil
	})
}

// SessionRollupHandler итоги одной торговой сессии
func SessionRollupHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, ToolSessionRollup, func(ctx context.Context, span trace.Span, p Params) (interface{}, error) {
		var block calculations.TradingBlock
		if err := p.Decode("block", &block); err != nil {
			return nil, err
		}
		if err := validators.CheckTradingBlock(cfg, block); err != nil {
			return nil, validationError(err)
		}
		rollup := calculations.RollupSession(block)
		span.SetAttributes(
			attribute.String("title", block.Title),
			attribute.Float64("session_total", utils.Round2(rollup.SessionTotal)),
		)
		return rollup, nil
	})
}

// PortfolioRollupHandler итоги портфеля по всем сессиям
func PortfolioRollupHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, ToolPortfolioRollup, func(ctx context.Context, span trace.Span, p Params) (interface{}, error) {
		var blocks []calculations.TradingBlock
		if err := p.Decode("blocks", &blocks); err != nil {
			return nil, err
		}
		for i, b := range blocks {
			if err := validators.CheckTradingBlock(cfg, b); err != nil {
				return nil, validationError(fmt.Errorf("blocks[%d]: %w", i, err))
			}
		}
		rollup := calculations.RollupPortfolio(blocks)
		span.SetAttributes(
			attribute.Int("sessions", rollup.ActiveSessions),
			attribute.Float64("total_net_value", utils.Round2(rollup.TotalNetValue)),
		)
		return rollup, nil
	})
}
