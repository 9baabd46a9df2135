// Package delivery posts a serialized record to the collection endpoint with
// bounded retries and exponential backoff.
package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fingerprint-agent/internal/metrics"
	"fingerprint-agent/internal/timing"
	"fingerprint-agent/pkg/logger"
)

// ErrExhausted is the Report error when every attempt failed.
var ErrExhausted = errors.New("delivery: retries exhausted")

// Transport performs one POST of payload. Any non-nil error, including a
// non-2xx status, counts as a failed attempt.
type Transport interface {
	Post(ctx context.Context, payload []byte) error
}

type TransportFunc func(ctx context.Context, payload []byte) error

func (f TransportFunc) Post(ctx context.Context, payload []byte) error {
	return f(ctx, payload)
}

type Policy struct {
	Timeout time.Duration
	Retries int
}

// Report is the state of one delivery sequence.
type Report struct {
	Delivered bool
	Attempts  int
	Waited    time.Duration
	Err       error
}

type Agent struct {
	transport Transport
	policy    Policy
	clock     timing.Clock
	metrics   *metrics.Metrics
	logger    logger.Logger
}

func NewAgent(t Transport, policy Policy, clock timing.Clock, m *metrics.Metrics, log logger.Logger) *Agent {
	if policy.Retries < 1 {
		policy.Retries = 1
	}
	if clock == nil {
		clock = timing.System()
	}
	return &Agent{
		transport: t,
		policy:    policy,
		clock:     clock,
		metrics:   m,
		logger:    log,
	}
}

// Deliver sends record and reports whether any attempt succeeded.
func (a *Agent) Deliver(ctx context.Context, record interface{}) bool {
	return a.Send(ctx, record).Delivered
}

// Send serializes record once and posts the same bytes on every attempt.
func (a *Agent) Send(ctx context.Context, record interface{}) Report {
	payload, err := json.Marshal(record)
	if err != nil {
		a.logger.Debug("failed to serialize fingerprints", "error", err)
		return Report{Err: fmt.Errorf("serialize record: %w", err)}
	}
	return a.SendPayload(ctx, payload)
}

func (a *Agent) SendPayload(ctx context.Context, payload []byte) Report {
	var report Report
	defer func() { a.metrics.DeliveryFinished(report.Delivered) }()

	for attempt := 1; ; attempt++ {
		report.Attempts = attempt
		a.logger.Debug("sending fingerprints", "attempt", attempt)

		err := a.post(ctx, payload)
		if err == nil {
			report.Delivered = true
			report.Err = nil
			a.logger.Debug("fingerprints sent successfully", "attempt", attempt)
			return report
		}
		report.Err = err
		a.logger.Debug("failed to send fingerprints", "attempt", attempt, "error", err)

		if attempt >= a.policy.Retries {
			report.Err = fmt.Errorf("%w after %d attempts: %v", ErrExhausted, attempt, err)
			a.logger.Debug("giving up on fingerprint delivery", "attempts", attempt)
			return report
		}

		delay := timing.Backoff(attempt)
		a.logger.Debug("retrying fingerprint delivery", "delay_ms", delay.Milliseconds())
		if err := a.clock.Sleep(ctx, delay); err != nil {
			report.Err = fmt.Errorf("backoff interrupted: %w", err)
			return report
		}
		report.Waited += delay
	}
}

func (a *Agent) post(ctx context.Context, payload []byte) error {
	a.metrics.AttemptMade()

	reqCtx := ctx
	if a.policy.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, a.policy.Timeout)
		defer cancel()
	}
	return a.transport.Post(reqCtx, payload)
}
