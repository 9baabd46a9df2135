package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fingerprint-agent/internal/collector"

	"github.com/go-rod/rod"
)

var ErrHelperUnavailable = errors.New("fingerprint helper unavailable")

// HelperLoader injects the helper script into the page once and waits for its
// global handle. The outcome, success or failure, is cached for the page's
// lifetime.
type HelperLoader struct {
	page      *rod.Page
	scriptURL string
	global    string
	method    string
	timeout   time.Duration

	mu     sync.Mutex
	done   bool
	helper collector.Helper
	err    error
}

func NewHelperLoader(page *rod.Page, scriptURL, global, method string, timeout time.Duration) *HelperLoader {
	return &HelperLoader{
		page:      page,
		scriptURL: scriptURL,
		global:    global,
		method:    method,
		timeout:   timeout,
	}
}

func (l *HelperLoader) Load(ctx context.Context) (collector.Helper, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return l.helper, l.err
	}

	l.helper, l.err = l.load(ctx)
	l.done = true
	return l.helper, l.err
}

func (l *HelperLoader) load(ctx context.Context) (collector.Helper, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	page := l.page.Context(ctx)

	if err := page.AddScriptTag(l.scriptURL, ""); err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrHelperUnavailable, l.scriptURL, err)
	}
	if err := page.Wait(rod.Eval(helperReadyJS, l.global, l.method)); err != nil {
		return nil, fmt.Errorf("%w: window.%s.%s never appeared: %v", ErrHelperUnavailable, l.global, l.method, err)
	}
	return &pageHelper{page: l.page, global: l.global, method: l.method}, nil
}

type pageHelper struct {
	page   *rod.Page
	global string
	method string
}

func (h *pageHelper) Generate(ctx context.Context) (string, error) {
	res, err := h.page.Context(ctx).Eval(helperGenerateJS, h.global, h.method)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}
