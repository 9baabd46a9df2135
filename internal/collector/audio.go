package collector

import (
	"context"
	"encoding/json"
	"fmt"
)

// AudioInfo holds the static capabilities read off a throwaway audio graph.
type AudioInfo struct {
	SampleRate      float64 `json:"sampleRate"`
	MaxChannelCount int     `json:"maxChannelCount"`
	NumberOfInputs  int     `json:"numberOfInputs"`
	NumberOfOutputs int     `json:"numberOfOutputs"`
	ChannelCount    int     `json:"channelCount"`
}

// AudioProber builds and tears down the graph itself. It returns
// ErrUnsupported when the host has no AudioContext.
type AudioProber interface {
	Audio(ctx context.Context) (*AudioInfo, error)
}

type Audio struct {
	prober AudioProber
}

func NewAudio(p AudioProber) *Audio {
	return &Audio{prober: p}
}

func (a *Audio) Name() string { return SignalAudio }

func (a *Audio) Collect(ctx context.Context) Outcome {
	info, err := a.prober.Audio(ctx)
	if err != nil {
		return Fail(fmt.Errorf("probe audio: %w", err))
	}
	if info == nil {
		return Fail(ErrUnsupported)
	}

	data, err := json.Marshal(info)
	if err != nil {
		return Fail(err)
	}
	return Ok(string(data))
}
