package collector

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// CanvasRenderer draws the fixed test scene on a fresh offscreen surface and
// returns its encoded data URL.
type CanvasRenderer interface {
	RenderCanvas(ctx context.Context) (string, error)
}

type Canvas struct {
	renderer CanvasRenderer
}

func NewCanvas(r CanvasRenderer) *Canvas {
	return &Canvas{renderer: r}
}

func (c *Canvas) Name() string { return SignalCanvas }

func (c *Canvas) Collect(ctx context.Context) Outcome {
	dataURL, err := c.renderer.RenderCanvas(ctx)
	if err != nil {
		return Fail(fmt.Errorf("render canvas: %w", err))
	}
	if dataURL == "" {
		return Fail(errors.New("render canvas: empty data url"))
	}
	return Ok(RollingHash(dataURL))
}

// Helper is a loaded external fingerprinting library.
type Helper interface {
	Generate(ctx context.Context) (string, error)
}

// HelperLoader returns the helper, loading it on first use. Implementations
// cache the result so later calls do not reload.
type HelperLoader interface {
	Load(ctx context.Context) (Helper, error)
}

// DefaultGenerateTimeout bounds a helper generate call when none is given.
const DefaultGenerateTimeout = 5 * time.Second

// HelperCanvas takes the canvas signal from the external helper instead of
// rendering locally. A generate call that outlives timeout fails the signal.
type HelperCanvas struct {
	loader  HelperLoader
	timeout time.Duration
}

func NewHelperCanvas(loader HelperLoader, timeout time.Duration) *HelperCanvas {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	return &HelperCanvas{loader: loader, timeout: timeout}
}

func (c *HelperCanvas) Name() string { return SignalCanvas }

func (c *HelperCanvas) Collect(ctx context.Context) Outcome {
	helper, err := c.loader.Load(ctx)
	if err != nil {
		return Fail(fmt.Errorf("load helper: %w", err))
	}

	genCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	value, err := helper.Generate(genCtx)
	if err != nil {
		return Fail(fmt.Errorf("helper generate: %w", err))
	}
	if value == "" {
		return Fail(errors.New("helper generate: empty value"))
	}
	return Ok(value)
}
