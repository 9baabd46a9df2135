package browser

import (
	"context"
	"fmt"

	"fingerprint-agent/internal/collector"
	"fingerprint-agent/internal/fingerprint"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// PageHost answers collector probes by evaluating scripts in a live page.
type PageHost struct {
	page *rod.Page
}

func NewPageHost(page *rod.Page) *PageHost {
	return &PageHost{page: page}
}

func (h *PageHost) eval(ctx context.Context, js string, args ...interface{}) (*proto.RuntimeRemoteObject, error) {
	return h.page.Context(ctx).Eval(js, args...)
}

// evalInto runs js and decodes its result into v. A null result maps to
// collector.ErrUnsupported.
func (h *PageHost) evalInto(ctx context.Context, v interface{}, js string, args ...interface{}) error {
	res, err := h.eval(ctx, js, args...)
	if err != nil {
		return err
	}
	if res.Value.Nil() {
		return collector.ErrUnsupported
	}
	if err := res.Value.Unmarshal(v); err != nil {
		return fmt.Errorf("decode script result: %w", err)
	}
	return nil
}

func (h *PageHost) RenderCanvas(ctx context.Context) (string, error) {
	var dataURL string
	if err := h.evalInto(ctx, &dataURL, canvasJS); err != nil {
		return "", err
	}
	return dataURL, nil
}

func (h *PageHost) Environment(ctx context.Context) (*collector.EnvironmentInfo, error) {
	var info collector.EnvironmentInfo
	if err := h.evalInto(ctx, &info, environmentJS); err != nil {
		return nil, err
	}
	return &info, nil
}

func (h *PageHost) Graphics(ctx context.Context) (*collector.GraphicsInfo, error) {
	var info collector.GraphicsInfo
	if err := h.evalInto(ctx, &info, webglJS); err != nil {
		return nil, err
	}
	return &info, nil
}

func (h *PageHost) Audio(ctx context.Context) (*collector.AudioInfo, error) {
	var info collector.AudioInfo
	if err := h.evalInto(ctx, &info, audioJS); err != nil {
		return nil, err
	}
	return &info, nil
}

func (h *PageHost) MeasureText(ctx context.Context, fonts []string, text string) ([]float64, error) {
	var widths []float64
	if err := h.evalInto(ctx, &widths, measureTextJS, fonts, text); err != nil {
		return nil, err
	}
	return widths, nil
}

func (h *PageHost) PageInfo(ctx context.Context) (*fingerprint.PageInfo, error) {
	var info fingerprint.PageInfo
	if err := h.evalInto(ctx, &info, pageInfoJS); err != nil {
		return nil, err
	}
	return &info, nil
}

// WaitReady resolves once the document has left the "loading" state.
func (h *PageHost) WaitReady(ctx context.Context) error {
	if _, err := h.eval(ctx, readyJS); err != nil {
		return fmt.Errorf("wait for DOMContentLoaded: %w", err)
	}
	return nil
}

func (h *PageHost) UserAgent(ctx context.Context) string {
	res, err := h.eval(ctx, `() => navigator.userAgent`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}
