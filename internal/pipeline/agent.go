package pipeline

import (
	"context"

	"fingerprint-agent/internal/config"
	"fingerprint-agent/internal/fingerprint"
)

// Agent is the surface offered to callers that drive the halves of the pass
// themselves instead of Initializer.Run.
type Agent struct {
	cfg       config.Config
	collector Collector
	sender    Sender
}

func NewAgent(cfg config.Config, c Collector, s Sender) *Agent {
	return &Agent{cfg: cfg, collector: c, sender: s}
}

// Collect runs the collectors only.
func (a *Agent) Collect(ctx context.Context) fingerprint.Record {
	return a.collector.Collect(ctx)
}

// Send runs delivery only.
func (a *Agent) Send(ctx context.Context, rec fingerprint.Record) bool {
	return a.sender.Send(ctx, rec).Delivered
}

// Config returns a copy of the configuration the agent was built with.
func (a *Agent) Config() config.Config {
	return a.cfg
}
