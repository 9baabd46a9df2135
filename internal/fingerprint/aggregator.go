// Package fingerprint merges collector outcomes and passive page context into
// a Record.
package fingerprint

import (
	"context"
	"errors"
	"strings"
	"time"

	"fingerprint-agent/internal/collector"
	"fingerprint-agent/internal/metrics"
	"fingerprint-agent/internal/timing"
	"fingerprint-agent/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// PageInfo is the context available without any probing.
type PageInfo struct {
	Hostname      string   `json:"hostname"`
	Pathname      string   `json:"pathname"`
	UserAgent     string   `json:"userAgent"`
	Referrer      string   `json:"referrer"`
	CookieEnabled bool     `json:"cookieEnabled"`
	JavaEnabled   bool     `json:"javaEnabled"`
	Plugins       []string `json:"plugins"`
	MimeTypes     []string `json:"mimeTypes"`
}

type PageReader interface {
	PageInfo(ctx context.Context) (*PageInfo, error)
}

type Aggregator struct {
	collectors  []collector.Collector
	page        PageReader
	clock       timing.Clock
	concurrency int
	metrics     *metrics.Metrics
	logger      logger.Logger
}

type Option func(*Aggregator)

func WithClock(c timing.Clock) Option {
	return func(a *Aggregator) { a.clock = c }
}

// WithConcurrency bounds how many collectors run at once. Values below 2 run
// them sequentially.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) { a.concurrency = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

func NewAggregator(collectors []collector.Collector, page PageReader, log logger.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		collectors:  collectors,
		page:        page,
		clock:       timing.System(),
		concurrency: 1,
		logger:      log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Collect runs every collector and returns the merged record. It never fails:
// a collector that errors leaves its sentinel, a missing collector leaves the
// failure sentinel, and unreadable page context leaves zero values.
func (a *Aggregator) Collect(ctx context.Context) Record {
	start := time.Now()
	a.logger.Debug("starting fingerprint collection", "collectors", len(a.collectors))

	outcomes := a.runCollectors(ctx)

	var rec Record
	for name := range sentinels {
		rec.setSignal(name, Resolve(name, collector.Fail(errMissing)))
	}
	for i, c := range a.collectors {
		value := Resolve(c.Name(), outcomes[i])
		if outcomes[i].Err != nil {
			a.logger.Debug("signal collection failed", "signal", c.Name(), "value", value, "error", outcomes[i].Err)
			a.metrics.SignalFailed(c.Name())
		}
		rec.setSignal(c.Name(), value)
	}

	a.fillPageContext(ctx, &rec)
	rec.Timestamp = a.clock.Now().UnixMilli()

	a.metrics.ObserveCollect(time.Since(start))
	a.logger.Debug("fingerprints collected", "record", rec)
	return rec
}

func (a *Aggregator) runCollectors(ctx context.Context) []collector.Outcome {
	outcomes := make([]collector.Outcome, len(a.collectors))
	if a.concurrency < 2 {
		for i, c := range a.collectors {
			outcomes[i] = collector.Run(ctx, c)
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, c := range a.collectors {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = collector.Run(ctx, c)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (a *Aggregator) fillPageContext(ctx context.Context, rec *Record) {
	rec.Referrer = DirectReferrer
	if a.page == nil {
		return
	}

	info, err := safePageInfo(ctx, a.page)
	if err != nil || info == nil {
		a.logger.Debug("page context unavailable", "error", err)
		return
	}

	rec.Host = info.Hostname
	rec.Path = info.Pathname
	rec.UserAgent = info.UserAgent
	if info.Referrer != "" {
		rec.Referrer = info.Referrer
	}
	rec.CookieEnabled = info.CookieEnabled
	rec.JavaEnabled = info.JavaEnabled
	rec.Plugins = strings.Join(info.Plugins, ",")
	rec.MimeTypes = strings.Join(info.MimeTypes, ",")
}

var (
	errMissing  = errors.New("no collector registered for signal")
	errPanicked = errors.New("page context reader panicked")
)

func safePageInfo(ctx context.Context, r PageReader) (info *PageInfo, err error) {
	defer func() {
		if p := recover(); p != nil {
			info, err = nil, errPanicked
		}
	}()
	return r.PageInfo(ctx)
}
