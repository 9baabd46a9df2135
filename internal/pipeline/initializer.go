// Package pipeline runs the single collection pass for one page load and
// exposes the collect and send halves to callers that want them separately.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"fingerprint-agent/internal/collector"
	"fingerprint-agent/internal/delivery"
	"fingerprint-agent/internal/fingerprint"
	"fingerprint-agent/internal/timing"
	"fingerprint-agent/pkg/logger"

	"github.com/google/uuid"
)

const journalTimeout = 5 * time.Second

// Document reports DOM readiness of the page being fingerprinted. WaitReady
// returns at once when the document is past "loading".
type Document interface {
	WaitReady(ctx context.Context) error
}

type Collector interface {
	Collect(ctx context.Context) fingerprint.Record
}

type Sender interface {
	Send(ctx context.Context, record interface{}) delivery.Report
}

// Result describes one finished pass.
type Result struct {
	RunID     string
	States    []State
	Record    fingerprint.Record
	Collected bool
	Report    delivery.Report
	StartedAt time.Time
	ReadyAt   time.Time
	Duration  time.Duration
	Err       error
}

type Initializer struct {
	doc         Document
	helper      collector.HelperLoader
	collector   Collector
	sender      Sender
	clock       timing.Clock
	settleDelay time.Duration
	journal     Journal
	endpoint    string
	logger      logger.Logger
}

type InitOption func(*Initializer)

// WithHelper adds the LoadingHelper state. Load failures are logged and the
// pass continues.
func WithHelper(l collector.HelperLoader) InitOption {
	return func(i *Initializer) { i.helper = l }
}

func WithInitClock(c timing.Clock) InitOption {
	return func(i *Initializer) { i.clock = c }
}

func NewInitializer(doc Document, c Collector, s Sender, settle time.Duration, log logger.Logger, opts ...InitOption) *Initializer {
	i := &Initializer{
		doc:         doc,
		collector:   c,
		sender:      s,
		clock:       timing.System(),
		settleDelay: settle,
		logger:      log,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run makes one full pass. Nothing escapes it: failures end up in Result.Err
// and the debug log.
func (i *Initializer) Run(ctx context.Context) (res Result) {
	res.RunID = uuid.NewString()
	res.StartedAt = i.clock.Now()
	log := i.logger.With("run_id", res.RunID)

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("fingerprint pass panicked: %v", r)
			log.Debug("fingerprint pass aborted", "error", res.Err)
		}
		res.Duration = i.clock.Now().Sub(res.StartedAt)
		i.record(ctx, log, res)
	}()

	enter := func(s State) {
		res.States = append(res.States, s)
		log.Debug("entering state", "state", s.String())
	}

	enter(WaitingForDOM)
	if err := i.doc.WaitReady(ctx); err != nil {
		res.Err = fmt.Errorf("wait for dom: %w", err)
		log.Debug("document never became ready", "error", err)
		return res
	}
	res.ReadyAt = i.clock.Now()
	log.Debug("initializing fingerprint collection")

	if i.helper != nil {
		enter(LoadingHelper)
		if _, err := i.helper.Load(ctx); err != nil {
			log.Debug("fingerprint helper unavailable, canvas signal disabled", "error", err)
		}
	}

	if err := i.clock.Sleep(ctx, i.settleDelay); err != nil {
		res.Err = fmt.Errorf("settle delay: %w", err)
		return res
	}

	enter(Collecting)
	res.Record = i.collector.Collect(ctx)
	res.Collected = true

	enter(Delivering)
	res.Report = i.sender.Send(ctx, res.Record)
	if !res.Report.Delivered {
		res.Err = res.Report.Err
	}

	enter(Done)
	log.Debug("fingerprint pass finished", "delivered", res.Report.Delivered, "attempts", res.Report.Attempts)
	return res
}

func (i *Initializer) record(ctx context.Context, log logger.Logger, res Result) {
	if i.journal == nil {
		return
	}
	// An interrupted pass is still journaled.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()
	if err := i.journal.SaveRun(saveCtx, runFromResult(res, i.endpoint)); err != nil {
		log.Warn("failed to journal fingerprint pass", "error", err)
	}
}
