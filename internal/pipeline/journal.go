package pipeline

import (
	"context"

	"fingerprint-agent/internal/fingerprint"
	"fingerprint-agent/internal/storage"
)

// Journal keeps an audit trail of passes. It never sees signal values.
type Journal interface {
	SaveRun(ctx context.Context, run storage.Run) error
}

func WithJournal(j Journal, endpoint string) InitOption {
	return func(i *Initializer) {
		i.journal = j
		i.endpoint = endpoint
	}
}

func runFromResult(res Result, endpoint string) storage.Run {
	run := storage.Run{
		RunID:      res.RunID,
		Host:       res.Record.Host,
		Path:       res.Record.Path,
		Endpoint:   endpoint,
		Delivered:  res.Report.Delivered,
		Attempts:   res.Report.Attempts,
		BackoffMs:  res.Report.Waited.Milliseconds(),
		DurationMs: res.Duration.Milliseconds(),
		CreatedAt:  res.StartedAt,
	}
	for _, s := range res.States {
		run.States = append(run.States, s.String())
	}
	if res.Err != nil {
		run.Error = res.Err.Error()
	}
	if res.Collected {
		for _, name := range fingerprint.Signals {
			if v, err := res.Record.Signal(name); err == nil && fingerprint.IsSentinel(name, v) {
				run.FailedSignals = append(run.FailedSignals, name)
			}
		}
	}
	return run
}
