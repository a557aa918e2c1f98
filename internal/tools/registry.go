package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/finsim-go/internal/config"
)

// ErrUnknownTool запрошен незарегистрированный инструмент
var ErrUnknownTool = errors.New("unknown tool")

// Registry набор именованных инструментов
type Registry struct {
	handlers map[string]ToolHandler
}

// NewRegistry регистрирует все инструменты; clock задает текущее время
func NewRegistry(cfg *config.Config, tracer trace.Tracer, clock Clock) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{handlers: map[string]ToolHandler{
		ToolAmortizationSchedule: AmortizationScheduleHandler(cfg, tracer),
		ToolRemainingTime:        RemainingTimeHandler(cfg, tracer, clock),
		ToolForecastTotal:        ForecastTotalHandler(tracer),
		ToolForecastPanel:        ForecastPanelHandler(cfg, tracer, clock),
		ToolForecastSheet:        ForecastSheetHandler(tracer),
		ToolRangeSummary:         RangeSummaryHandler(cfg, tracer),
		ToolSessionRollup:        SessionRollupHandler(cfg, tracer),
		ToolPortfolioRollup:      PortfolioRollupHandler(cfg, tracer),
	}}
}

// Names возвращает отсортированные имена инструментов
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call вызывает инструмент по имени
func (r *Registry) Call(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	return handler(ctx, params)
}
