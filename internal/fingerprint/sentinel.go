package fingerprint

import "fingerprint-agent/internal/collector"

type sentinel struct {
	unsupported string
	failed      string
}

var sentinels = map[string]sentinel{
	collector.SignalCanvas:  {unsupported: "canvas_error", failed: "canvas_error"},
	collector.SignalBrowser: {unsupported: "browser_error", failed: "browser_error"},
	collector.SignalWebGL:   {unsupported: "webgl_not_supported", failed: "webgl_error"},
	collector.SignalAudio:   {unsupported: "audio_not_supported", failed: "audio_error"},
	collector.SignalFonts:   {unsupported: "font_error", failed: "font_error"},
}

// Resolve maps a collector outcome to the string stored in the record.
func Resolve(signal string, out collector.Outcome) string {
	if out.Err == nil {
		return out.Value
	}
	s, ok := sentinels[signal]
	if !ok {
		return signal + "_error"
	}
	if out.Unsupported() {
		return s.unsupported
	}
	return s.failed
}

// IsSentinel reports whether value is a failure marker for signal.
func IsSentinel(signal, value string) bool {
	s, ok := sentinels[signal]
	if !ok {
		return value == signal+"_error"
	}
	return value == s.unsupported || value == s.failed
}
