package collector

import (
	"context"
	"encoding/json"
	"fmt"
)

// GraphicsInfo is what the WebGL context exposes about the driver. Vendor and
// Renderer are "unknown" when the debug renderer extension is unavailable.
// MaxViewportDims serializes as a [width, height] array, not the
// {"0":w,"1":h} object a typed array stringifies to.
type GraphicsInfo struct {
	Vendor                 string `json:"vendor"`
	Renderer               string `json:"renderer"`
	Version                string `json:"version"`
	ShadingLanguageVersion string `json:"shadingLanguageVersion"`
	MaxTextureSize         int    `json:"maxTextureSize"`
	MaxViewportDims        []int  `json:"maxViewportDims"`
}

// GraphicsProber returns ErrUnsupported when no WebGL context can be created.
type GraphicsProber interface {
	Graphics(ctx context.Context) (*GraphicsInfo, error)
}

type WebGL struct {
	prober GraphicsProber
}

func NewWebGL(p GraphicsProber) *WebGL {
	return &WebGL{prober: p}
}

func (w *WebGL) Name() string { return SignalWebGL }

func (w *WebGL) Collect(ctx context.Context) Outcome {
	info, err := w.prober.Graphics(ctx)
	if err != nil {
		return Fail(fmt.Errorf("probe webgl: %w", err))
	}
	if info == nil {
		return Fail(ErrUnsupported)
	}
	if info.Vendor == "" {
		info.Vendor = "unknown"
	}
	if info.Renderer == "" {
		info.Renderer = "unknown"
	}

	data, err := json.Marshal(info)
	if err != nil {
		return Fail(err)
	}
	return Ok(string(data))
}
