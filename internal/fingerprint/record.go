package fingerprint

import "fmt"

// Record is one collection pass. Every field is always serialized, so the
// key set never depends on which collectors succeeded.
type Record struct {
	Canvas  string `json:"canvas"`
	Browser string `json:"browser"`
	WebGL   string `json:"webgl"`
	Audio   string `json:"audio"`
	Fonts   string `json:"fonts"`

	Host          string `json:"host"`
	Path          string `json:"path"`
	UserAgent     string `json:"userAgent"`
	Timestamp     int64  `json:"timestamp"`
	Referrer      string `json:"referrer"`
	CookieEnabled bool   `json:"cookieEnabled"`
	JavaEnabled   bool   `json:"javaEnabled"`
	Plugins       string `json:"plugins"`
	MimeTypes     string `json:"mimeTypes"`
}

// Keys lists the record keys in serialization order.
var Keys = []string{
	"canvas", "browser", "webgl", "audio", "fonts",
	"host", "path", "userAgent", "timestamp", "referrer",
	"cookieEnabled", "javaEnabled", "plugins", "mimeTypes",
}

// Signals are the record keys filled by collectors.
var Signals = Keys[:5]

// DirectReferrer stands in for an empty document.referrer.
const DirectReferrer = "direct"

// Signal returns the value stored for a signal name.
func (r Record) Signal(name string) (string, error) {
	switch name {
	case "canvas":
		return r.Canvas, nil
	case "browser":
		return r.Browser, nil
	case "webgl":
		return r.WebGL, nil
	case "audio":
		return r.Audio, nil
	case "fonts":
		return r.Fonts, nil
	}
	return "", fmt.Errorf("unknown signal %q", name)
}

func (r *Record) setSignal(name, value string) {
	switch name {
	case "canvas":
		r.Canvas = value
	case "browser":
		r.Browser = value
	case "webgl":
		r.WebGL = value
	case "audio":
		r.Audio = value
	case "fonts":
		r.Fonts = value
	}
}
