package collector

import (
	"context"
	"errors"
	"strings"
)

var errBoom = errors.New("boom")

// fakeHost answers every probe from fixed fields; a nil info with a nil error
// stands for an absent capability.
type fakeHost struct {
	dataURL  string
	canvas   error
	env      *EnvironmentInfo
	envErr   error
	gfx      *GraphicsInfo
	gfxErr   error
	audio    *AudioInfo
	audioErr error
	widths   func(font string) float64
	measure  error
	calls    map[string]int
}

func (h *fakeHost) hit(name string) {
	if h.calls == nil {
		h.calls = map[string]int{}
	}
	h.calls[name]++
}

func (h *fakeHost) RenderCanvas(context.Context) (string, error) {
	h.hit("canvas")
	return h.dataURL, h.canvas
}

func (h *fakeHost) Environment(context.Context) (*EnvironmentInfo, error) {
	h.hit("env")
	return h.env, h.envErr
}

func (h *fakeHost) Graphics(context.Context) (*GraphicsInfo, error) {
	h.hit("webgl")
	if h.gfx == nil && h.gfxErr == nil {
		return nil, ErrUnsupported
	}
	return h.gfx, h.gfxErr
}

func (h *fakeHost) Audio(context.Context) (*AudioInfo, error) {
	h.hit("audio")
	if h.audio == nil && h.audioErr == nil {
		return nil, ErrUnsupported
	}
	return h.audio, h.audioErr
}

func (h *fakeHost) MeasureText(_ context.Context, fonts []string, text string) ([]float64, error) {
	h.hit("fonts")
	if h.measure != nil {
		return nil, h.measure
	}
	out := make([]float64, len(fonts))
	for i, f := range fonts {
		out[i] = h.widths(f)
	}
	return out, nil
}

// widthsWith reports every base-only width as 100 and gives the listed
// candidates a distinct width when layered over the named base.
func widthsWith(present map[string]string) func(string) float64 {
	return func(font string) float64 {
		spec := strings.TrimPrefix(font, "72px ")
		parts := strings.SplitN(spec, ", ", 2)
		if len(parts) == 2 {
			if base, ok := present[parts[0]]; ok && (base == "*" || base == parts[1]) {
				return 123.5
			}
		}
		return 100
	}
}
