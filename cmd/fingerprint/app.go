package main

import (
	"context"
	"fmt"

	"fingerprint-agent/internal/browser"
	"fingerprint-agent/internal/collector"
	"fingerprint-agent/internal/config"
	"fingerprint-agent/internal/delivery"
	"fingerprint-agent/internal/fingerprint"
	"fingerprint-agent/internal/metrics"
	"fingerprint-agent/internal/pipeline"
	"fingerprint-agent/internal/storage"
	"fingerprint-agent/internal/timing"
	"fingerprint-agent/pkg/logger"

	"github.com/go-rod/rod"
)

type App struct {
	config  *config.Config
	browser *browser.Manager
	storage *storage.DB
	metrics *metrics.Metrics
	clock   timing.Clock

	logger logger.Logger
}

func NewApp(cfg *config.Config) (*App, error) {
	level := cfg.Logging.Level
	if cfg.Debug {
		level = "debug"
	}
	log := logger.New(level, cfg.Logging.Format)

	app := &App{
		config:  cfg,
		metrics: metrics.New(),
		clock:   timing.System(),
		logger:  log,
	}

	if cfg.Storage.MongoDB.Enabled {
		db, err := storage.New(&storage.Config{
			URI:      cfg.Storage.MongoDB.URI,
			Database: cfg.Storage.MongoDB.Database,
			Timeout:  cfg.Storage.MongoDB.Timeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init storage: %w", err)
		}
		app.storage = db
	}

	return app, nil
}

func (a *App) Close() {
	if a.browser != nil {
		a.browser.Close()
	}
	if a.storage != nil {
		a.storage.Close()
	}
	if err := a.metrics.WriteTextfile(a.config.Metrics.TextfilePath); err != nil {
		a.logger.Warn("metrics not written", "error", err)
	}
}

// page launches the browser on first use and opens url in a fresh tab.
func (a *App) page(ctx context.Context, url string) (*rod.Page, *browser.PageHost, error) {
	if a.browser == nil {
		m, err := browser.NewManager(ctx, &a.config.Browser)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init browser: %w", err)
		}
		a.browser = m
	}

	page, err := a.browser.Open(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return page, browser.NewPageHost(page), nil
}

func (a *App) helperLoader(page *rod.Page) *browser.HelperLoader {
	h := a.config.Helper
	if !h.Enabled {
		return nil
	}
	return browser.NewHelperLoader(page, h.ScriptURL, h.Global, h.Method, h.LoadTimeout())
}

func (a *App) aggregator(host *browser.PageHost, helper *browser.HelperLoader) *fingerprint.Aggregator {
	collectors := collector.Standard(host, a.config.Collect.Fonts)
	if helper != nil {
		collectors[0] = collector.NewHelperCanvas(helper, a.config.Helper.GenerateTimeout())
	}
	return fingerprint.NewAggregator(collectors, host, a.logger,
		fingerprint.WithClock(a.clock),
		fingerprint.WithConcurrency(a.config.Collect.Concurrency),
		fingerprint.WithMetrics(a.metrics),
	)
}

// sender builds the delivery agent. page may be nil, in which case only the
// HTTP transport is possible.
func (a *App) sender(ctx context.Context, page *rod.Page, host *browser.PageHost, pageURL string) (*delivery.Agent, string, error) {
	d := a.config.Delivery
	endpoint, err := d.ResolveEndpoint(pageURL)
	if err != nil {
		return nil, "", err
	}

	var transport delivery.Transport
	switch {
	case d.Transport == "page" && page != nil:
		transport = browser.NewPageTransport(page, endpoint, d.Timeout())
	case d.Transport == "page":
		return nil, "", fmt.Errorf("delivery.transport %q needs a page; use http for send", d.Transport)
	default:
		var opts []delivery.HTTPOption
		if host != nil {
			if ua := host.UserAgent(ctx); ua != "" {
				opts = append(opts, delivery.WithUserAgent(ua))
			}
		}
		transport = delivery.NewHTTPTransport(endpoint, opts...)
	}

	policy := delivery.Policy{Timeout: d.Timeout(), Retries: d.Retries}
	return delivery.NewAgent(transport, policy, a.clock, a.metrics, a.logger), endpoint, nil
}

// RunPass is the automatic on-load pass against url.
func (a *App) RunPass(ctx context.Context, url string) (pipeline.Result, error) {
	page, host, err := a.page(ctx, url)
	if err != nil {
		return pipeline.Result{}, err
	}
	defer page.Close()

	sender, endpoint, err := a.sender(ctx, page, host, url)
	if err != nil {
		return pipeline.Result{}, err
	}

	helper := a.helperLoader(page)
	opts := []pipeline.InitOption{pipeline.WithInitClock(a.clock)}
	if helper != nil {
		opts = append(opts, pipeline.WithHelper(helper))
	}
	if a.storage != nil {
		opts = append(opts, pipeline.WithJournal(a.storage, endpoint))
	}

	ini := pipeline.NewInitializer(host, a.aggregator(host, helper), sender, a.config.Collect.SettleDelay(), a.logger, opts...)
	return ini.Run(ctx), nil
}

// Agent exposes collect and send separately for url. With an empty url only
// Send over HTTP is usable.
func (a *App) Agent(ctx context.Context, url string) (*pipeline.Agent, func(), error) {
	if url == "" {
		sender, _, err := a.sender(ctx, nil, nil, "")
		if err != nil {
			return nil, nil, err
		}
		return pipeline.NewAgent(*a.config, unavailableCollector{}, sender), func() {}, nil
	}

	page, host, err := a.page(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	if err := host.WaitReady(ctx); err != nil {
		page.Close()
		return nil, nil, err
	}
	if err := a.clock.Sleep(ctx, a.config.Collect.SettleDelay()); err != nil {
		page.Close()
		return nil, nil, err
	}

	sender, _, err := a.sender(ctx, page, host, url)
	if err != nil {
		page.Close()
		return nil, nil, err
	}
	agent := pipeline.NewAgent(*a.config, a.aggregator(host, a.helperLoader(page)), sender)
	return agent, func() { page.Close() }, nil
}

// unavailableCollector stands in when no page was opened; every signal comes
// back as its sentinel.
type unavailableCollector struct{}

func (unavailableCollector) Collect(ctx context.Context) fingerprint.Record {
	return fingerprint.NewAggregator(nil, nil, logger.Nop()).Collect(ctx)
}
