package browser

import (
	"context"
	"fmt"

	"fingerprint-agent/internal/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type Manager struct {
	browser  *rod.Browser
	config   *config.BrowserConfig
	launcher *launcher.Launcher
}

func NewManager(ctx context.Context, cfg *config.BrowserConfig) (*Manager, error) {
	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Leakless(false)

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}
	if cfg.Language != "" {
		l = l.Set("lang", cfg.Language)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Manager{
		browser:  browser,
		config:   cfg,
		launcher: l,
	}, nil
}

// Open creates a page with the configured profile applied and navigates it to
// url. It does not wait for the load; readiness is the Document's job.
func (m *Manager) Open(ctx context.Context, url string) (*rod.Page, error) {
	page, err := m.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if err := m.ApplyProfile(page); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to apply browser profile: %w", err)
	}

	if err := page.Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return page, nil
}

func (m *Manager) Close() error {
	err := m.browser.Close()
	m.launcher.Cleanup()
	return err
}
