// Package metrics exposes tracker state in the Prometheus text format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sadopc/habitr/internal/habit"
)

const namespace = "habitr"

// Source is the read side of a habit tracker.
type Source interface {
	List(category habit.Category) []habit.Habit
	Stats() habit.Summary
}

var (
	habitsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "habits"),
		"Number of tracked habits.", nil, nil,
	)
	completedDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "completed_today"),
		"Habits marked complete today.", nil, nil,
	)
	streakTotalDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "streak_total"),
		"Sum of all habit streaks.", nil, nil,
	)
	successDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "success_rate"),
		"Percent of habits completed today.", nil, nil,
	)
	habitStreakDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "habit_streak"),
		"Current streak per habit.", []string{"id", "habit", "category"}, nil,
	)
)

// Collector reads the tracker on every scrape.
type Collector struct {
	src Source
	ops *prometheus.CounterVec
}

func NewCollector(src Source) *Collector {
	return &Collector{
		src: src,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Tracker operations by outcome.",
		}, []string{"op", "result"}),
	}
}

// Observe matches habit.OperationHook.
func (c *Collector) Observe(op, result string) {
	c.ops.WithLabelValues(op, result).Inc()
}

// SetSource attaches the tracker once it is open. The collector is built
// first so its Observe hook can be passed to habit.Open.
func (c *Collector) SetSource(src Source) {
	c.src = src
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- habitsDesc
	ch <- completedDesc
	ch <- streakTotalDesc
	ch <- successDesc
	ch <- habitStreakDesc
	c.ops.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.ops.Collect(ch)
	if c.src == nil {
		return
	}

	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(habitsDesc, prometheus.GaugeValue, float64(s.TotalHabits))
	ch <- prometheus.MustNewConstMetric(completedDesc, prometheus.GaugeValue, float64(s.CompletedToday))
	ch <- prometheus.MustNewConstMetric(streakTotalDesc, prometheus.GaugeValue, float64(s.TotalStreak))
	ch <- prometheus.MustNewConstMetric(successDesc, prometheus.GaugeValue, float64(s.SuccessRate))

	for _, h := range c.src.List("") {
		ch <- prometheus.MustNewConstMetric(habitStreakDesc, prometheus.GaugeValue,
			float64(h.Streak), h.ID, h.Name, string(h.Category))
	}
}

// NewRegistry returns a registry holding c plus the Go runtime collectors.
func NewRegistry(c *Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(c)
	reg.MustRegister(collectors.NewGoCollector())
	return reg
}

// Serve exposes reg on addr at /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return serve(ctx, ln, reg)
}

func serve(ctx context.Context, ln net.Listener, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
