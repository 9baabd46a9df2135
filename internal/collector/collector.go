// Package collector holds the signal collectors. Each one reads a single
// characteristic of the host browser and reports it as an Outcome; none of
// them share state, so they can run in any order or concurrently.
package collector

import (
	"context"
	"errors"
	"fmt"
)

// Signal names double as record keys.
const (
	SignalCanvas  = "canvas"
	SignalBrowser = "browser"
	SignalWebGL   = "webgl"
	SignalAudio   = "audio"
	SignalFonts   = "fonts"
)

// ErrUnsupported reports that the host lacks the capability a collector needs.
var ErrUnsupported = errors.New("collector: capability not supported")

// Outcome is either a value or the reason there is none.
type Outcome struct {
	Value string
	Err   error
}

func Ok(value string) Outcome {
	return Outcome{Value: value}
}

func Fail(err error) Outcome {
	return Outcome{Err: err}
}

func (o Outcome) Unsupported() bool {
	return errors.Is(o.Err, ErrUnsupported)
}

type Collector interface {
	Name() string
	Collect(ctx context.Context) Outcome
}

// Run invokes c and converts a panic into a failed Outcome.
func Run(ctx context.Context, c Collector) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Fail(fmt.Errorf("%s collector panicked: %v", c.Name(), r))
		}
	}()
	return c.Collect(ctx)
}

// Host is everything the standard collector set needs from the browser.
type Host interface {
	CanvasRenderer
	EnvironmentReader
	GraphicsProber
	AudioProber
	TextMeasurer
}

// Standard returns the five collectors in record order.
func Standard(host Host, fonts []string) []Collector {
	return []Collector{
		NewCanvas(host),
		NewBrowser(host),
		NewWebGL(host),
		NewAudio(host),
		NewFonts(host, fonts),
	}
}
