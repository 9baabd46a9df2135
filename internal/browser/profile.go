package browser

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// ApplyProfile makes the page present the configured environment: stealth
// patches, viewport, user agent, timezone and locale. Everything here must run
// before navigation so the collectors see it from the first script.
func (m *Manager) ApplyProfile(page *rod.Page) error {
	if m.config.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			return err
		}
	}

	if m.config.Viewport.Width > 0 && m.config.Viewport.Height > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             m.config.Viewport.Width,
			Height:            m.config.Viewport.Height,
			DeviceScaleFactor: 1,
			Mobile:            false,
		})
		if err != nil {
			return err
		}
	}

	if m.config.UserAgent != "" || m.config.Language != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      m.userAgent(),
			AcceptLanguage: m.config.Language,
		})
		if err != nil {
			return err
		}
	}

	if m.config.Timezone != "" {
		if err := (proto.EmulationSetTimezoneOverride{TimezoneID: m.config.Timezone}).Call(page); err != nil {
			return err
		}
	}

	if m.config.Language != "" {
		if err := (proto.EmulationSetLocaleOverride{Locale: m.config.Language}).Call(page); err != nil {
			return err
		}
	}

	return nil
}

// userAgent keeps the browser's own agent string when only the language is
// overridden.
func (m *Manager) userAgent() string {
	if m.config.UserAgent != "" {
		return m.config.UserAgent
	}
	v, err := m.browser.Version()
	if err != nil {
		return ""
	}
	return v.UserAgent
}
