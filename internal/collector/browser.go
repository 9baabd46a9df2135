package collector

import (
	"context"
	"encoding/json"
	"fmt"
)

// EnvironmentInfo are the static descriptors of the browser and screen.
type EnvironmentInfo struct {
	ScreenWidth         int     `json:"screenWidth"`
	ScreenHeight        int     `json:"screenHeight"`
	ColorDepth          int     `json:"colorDepth"`
	Timezone            string  `json:"timezone"`
	Language            string  `json:"language"`
	Platform            string  `json:"platform"`
	CookieEnabled       bool    `json:"cookieEnabled"`
	DoNotTrack          *string `json:"doNotTrack"`
	HardwareConcurrency int     `json:"hardwareConcurrency"`
}

type EnvironmentReader interface {
	Environment(ctx context.Context) (*EnvironmentInfo, error)
}

// browserSignal fixes the key order of the serialized descriptor.
type browserSignal struct {
	Screen              string      `json:"screen"`
	Timezone            string      `json:"timezone"`
	Language            string      `json:"language"`
	Platform            string      `json:"platform"`
	CookieEnabled       bool        `json:"cookieEnabled"`
	DoNotTrack          *string     `json:"doNotTrack"`
	HardwareConcurrency interface{} `json:"hardwareConcurrency"`
}

type Browser struct {
	reader EnvironmentReader
}

func NewBrowser(r EnvironmentReader) *Browser {
	return &Browser{reader: r}
}

func (b *Browser) Name() string { return SignalBrowser }

func (b *Browser) Collect(ctx context.Context) Outcome {
	info, err := b.reader.Environment(ctx)
	if err != nil {
		return Fail(fmt.Errorf("read environment: %w", err))
	}
	if info == nil {
		return Fail(ErrUnsupported)
	}

	sig := browserSignal{
		Screen:              fmt.Sprintf("%dx%dx%d", info.ScreenWidth, info.ScreenHeight, info.ColorDepth),
		Timezone:            info.Timezone,
		Language:            info.Language,
		Platform:            info.Platform,
		CookieEnabled:       info.CookieEnabled,
		DoNotTrack:          info.DoNotTrack,
		HardwareConcurrency: info.HardwareConcurrency,
	}
	if info.HardwareConcurrency <= 0 {
		sig.HardwareConcurrency = "unknown"
	}

	data, err := json.Marshal(sig)
	if err != nil {
		return Fail(err)
	}
	return Ok(string(data))
}
