package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/metrics"
)

// Snapshot последнее вычисленное состояние обратного отсчета
type Snapshot struct {
	Target      time.Time                  `json:"target"`
	Remaining   calculations.TimeRemaining `json:"remaining"`
	EvaluatedAt time.Time                  `json:"evaluated_at"`
}

// Ticker периодически пересчитывает оставшееся до цели время
type Ticker struct {
	mu       sync.RWMutex
	target   time.Time
	snapshot Snapshot

	schedule string
	clock    func() time.Time
	cron     *cron.Cron
	log      logrus.FieldLogger
}

// NewTicker создает счетчик с расписанием cron (например "@every 1m").
// clock == nil означает time.Now.
func NewTicker(target time.Time, schedule string, clock func() time.Time, log logrus.FieldLogger) *Ticker {
	if clock == nil {
		clock = time.Now
	}
	return &Ticker{
		target:   target,
		schedule: schedule,
		clock:    clock,
		cron:     cron.New(),
		log:      log,
	}
}

// Refresh пересчитывает снимок и обновляет метрики
func (t *Ticker) Refresh() Snapshot {
	t.mu.Lock()
	now := t.clock()
	t.snapshot = Snapshot{
		Target:      t.target,
		Remaining:   calculations.RemainingTime(t.target, now),
		EvaluatedAt: now,
	}
	snap := t.snapshot
	t.mu.Unlock()

	metrics.CountdownDays.Set(float64(snap.Remaining.Days))
	metrics.CountdownHours.Set(float64(snap.Remaining.Hours))
	t.log.WithFields(logrus.Fields{
		"days":  snap.Remaining.Days,
		"hours": snap.Remaining.Hours,
	}).Debug("countdown refreshed")
	return snap
}

// Snapshot возвращает последний снимок без пересчета
func (t *Ticker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot
}

// SetTarget заменяет цель и сразу пересчитывает снимок
func (t *Ticker) SetTarget(target time.Time) Snapshot {
	t.mu.Lock()
	t.target = target
	t.mu.Unlock()
	t.log.WithField("target", target).Info("countdown target updated")
	return t.Refresh()
}

// Start выполняет первый пересчет и запускает расписание
func (t *Ticker) Start() error {
	t.Refresh()
	if _, err := t.cron.AddFunc(t.schedule, func() { t.Refresh() }); err != nil {
		return fmt.Errorf("invalid countdown schedule %q: %w", t.schedule, err)
	}
	t.cron.Start()
	t.log.WithField("schedule", t.schedule).Info("countdown started")
	return nil
}

// Stop останавливает расписание; контекст завершается, когда текущий пересчет окончен
func (t *Ticker) Stop() context.Context {
	return t.cron.Stop()
}
