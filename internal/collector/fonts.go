package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const (
	fontTestString = "mmmmmmmmmmlli"
	fontTestSize   = "72px"
)

var BaseFonts = []string{"monospace", "sans-serif", "serif"}

var DefaultFonts = []string{
	"Arial", "Arial Black", "Arial Narrow", "Arial Rounded MT Bold",
	"Calibri", "Cambria", "Comic Sans MS", "Consolas", "Courier",
	"Courier New", "Georgia", "Helvetica", "Impact", "Lucida Console",
	"Lucida Sans Unicode", "Microsoft Sans Serif", "MS Gothic",
	"MS PGothic", "MS Sans Serif", "MS Serif", "Palatino Linotype",
	"Segoe UI", "Tahoma", "Times", "Times New Roman", "Trebuchet MS",
	"Verdana", "Wingdings",
}

// TextMeasurer measures text rendered in each CSS font shorthand and returns
// the widths in the same order.
type TextMeasurer interface {
	MeasureText(ctx context.Context, fonts []string, text string) ([]float64, error)
}

type Fonts struct {
	measurer   TextMeasurer
	candidates []string
}

func NewFonts(m TextMeasurer, candidates []string) *Fonts {
	if len(candidates) == 0 {
		candidates = DefaultFonts
	}
	return &Fonts{measurer: m, candidates: uniqueFonts(candidates)}
}

func (f *Fonts) Name() string { return SignalFonts }

// Collect measures the base families alone, then every candidate layered over
// every base family, in one round trip.
func (f *Fonts) Collect(ctx context.Context) Outcome {
	specs := make([]string, 0, len(BaseFonts)*(len(f.candidates)+1))
	for _, base := range BaseFonts {
		specs = append(specs, fontTestSize+" "+base)
	}
	for _, candidate := range f.candidates {
		for _, base := range BaseFonts {
			specs = append(specs, fontTestSize+" "+candidate+", "+base)
		}
	}

	widths, err := f.measurer.MeasureText(ctx, specs, fontTestString)
	if err != nil {
		return Fail(fmt.Errorf("measure fonts: %w", err))
	}
	if len(widths) != len(specs) {
		return Fail(fmt.Errorf("measure fonts: got %d widths for %d fonts", len(widths), len(specs)))
	}

	baseline := widths[:len(BaseFonts)]
	var available []string
	for i, candidate := range f.candidates {
		offset := len(BaseFonts) + i*len(BaseFonts)
		for j := range BaseFonts {
			if widths[offset+j] != baseline[j] {
				available = append(available, candidate)
				break
			}
		}
	}

	sort.Strings(available)
	return Ok(strings.Join(available, ","))
}

// uniqueFonts drops repeated names, keeping first occurrences in order.
func uniqueFonts(fonts []string) []string {
	seen := make(map[string]struct{}, len(fonts))
	out := make([]string, 0, len(fonts))
	for _, f := range fonts {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
