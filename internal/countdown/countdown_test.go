package countdown

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/metrics"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestTickerRefresh(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)}
	target := clock.now.Add(3*24*time.Hour + 5*time.Hour)
	ticker := NewTicker(target, "@every 1m", clock.Now, quietLogger())

	assert.Equal(t, Snapshot{}, ticker.Snapshot(), "no snapshot before first refresh")

	snap := ticker.Refresh()
	assert.Equal(t, calculations.TimeRemaining{Days: 3, Hours: 5}, snap.Remaining)
	assert.Equal(t, clock.now, snap.EvaluatedAt)
	assert.Equal(t, snap, ticker.Snapshot())
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.CountdownDays))
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.CountdownHours))

	clock.Advance(6 * time.Hour)
	snap = ticker.Refresh()
	assert.Equal(t, calculations.TimeRemaining{Days: 2, Hours: 23}, snap.Remaining)

	clock.Advance(10 * 24 * time.Hour)
	snap = ticker.Refresh()
	assert.Equal(t, calculations.TimeRemaining{}, snap.Remaining)
}

func TestTickerSetTarget(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)}
	ticker := NewTicker(time.Time{}, "@every 1m", clock.Now, quietLogger())

	assert.Equal(t, calculations.TimeRemaining{}, ticker.Refresh().Remaining, "zero target")

	snap := ticker.SetTarget(clock.now.Add(36 * time.Hour))
	assert.Equal(t, calculations.TimeRemaining{Days: 1, Hours: 12}, snap.Remaining)
	assert.Equal(t, clock.now.Add(36*time.Hour), snap.Target)
}

func TestTickerStartStop(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)}
	ticker := NewTicker(clock.now.Add(48*time.Hour), "@every 1h", clock.Now, quietLogger())

	require.NoError(t, ticker.Start())
	assert.Equal(t, 2, ticker.Snapshot().Remaining.Days, "start refreshes immediately")

	select {
	case <-ticker.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
}

func TestTickerInvalidSchedule(t *testing.T) {
	ticker := NewTicker(time.Time{}, "every now and then", nil, quietLogger())
	assert.Error(t, ticker.Start())
}
