package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sadopc/habitr/internal/clock"
	"github.com/sadopc/habitr/internal/habit"
	"github.com/sadopc/habitr/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTracker(t *testing.T, c *Collector) *habit.Tracker {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	tr, err := habit.Open(s,
		habit.WithClock(clock.NewFixed(time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local))),
		habit.WithOperationHook(c.Observe),
	)
	require.NoError(t, err)
	c.SetSource(tr)
	return tr
}

func TestCollectorGauges(t *testing.T) {
	c := NewCollector(nil)
	tr := newTracker(t, c)
	a, _ := tr.Create("Water", habit.Health, "")
	tr.Create("Read", habit.Learning, "")
	tr.Toggle(a.ID)

	expected := `
# HELP habitr_completed_today Habits marked complete today.
# TYPE habitr_completed_today gauge
habitr_completed_today 1
# HELP habitr_habits Number of tracked habits.
# TYPE habitr_habits gauge
habitr_habits 2
# HELP habitr_success_rate Percent of habits completed today.
# TYPE habitr_success_rate gauge
habitr_success_rate 50
# HELP habitr_streak_total Sum of all habit streaks.
# TYPE habitr_streak_total gauge
habitr_streak_total 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"habitr_completed_today", "habitr_habits", "habitr_success_rate", "habitr_streak_total")
	assert.NoError(t, err)

	// One per-habit streak series each.
	assert.Equal(t, 2, testutil.CollectAndCount(c, "habitr_habit_streak"))
}

func TestCollectorDuplicateNames(t *testing.T) {
	c := NewCollector(nil)
	tr := newTracker(t, c)
	tr.Create("Water", habit.Health, "")
	tr.Create("Water", habit.Health, "")

	reg := NewRegistry(c)
	_, err := reg.Gather()
	assert.NoError(t, err, "same-named habits must not collide")
}

func TestOperationCounter(t *testing.T) {
	c := NewCollector(nil)
	tr := newTracker(t, c)
	tr.Create("Water", habit.Health, "")
	tr.Create("", habit.Health, "")
	tr.Delete("missing")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("create", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("delete", "not_found")))
}

func TestCollectorWithoutSource(t *testing.T) {
	c := NewCollector(nil)
	assert.Equal(t, 0, testutil.CollectAndCount(c, "habitr_habits"))
}

func TestServe(t *testing.T) {
	c := NewCollector(nil)
	tr := newTracker(t, c)
	tr.Create("Water", habit.Health, "")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, NewRegistry(c)) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "habitr_habits 1")
	assert.Contains(t, string(body), `habit="Water"`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeBadAddr(t *testing.T) {
	err := Serve(context.Background(), "256.0.0.1:bad", NewRegistry(NewCollector(nil)))
	assert.Error(t, err)
}
