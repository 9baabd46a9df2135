package browser

import (
	"context"
	"fmt"
	"time"

	"fingerprint-agent/internal/delivery"

	"github.com/go-rod/rod"
)

// PageTransport posts from inside the page with fetch, so the request carries
// the page's origin and cookies.
type PageTransport struct {
	page     *rod.Page
	endpoint string
	timeout  time.Duration
}

func NewPageTransport(page *rod.Page, endpoint string, timeout time.Duration) *PageTransport {
	return &PageTransport{page: page, endpoint: endpoint, timeout: timeout}
}

type fetchResult struct {
	OK         bool   `json:"ok"`
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
}

func (t *PageTransport) Post(ctx context.Context, payload []byte) error {
	res, err := t.page.Context(ctx).Eval(postJS, t.endpoint, string(payload), delivery.Headers, t.timeout.Milliseconds())
	if err != nil {
		return fmt.Errorf("in-page fetch: %w", err)
	}

	var out fetchResult
	if err := res.Value.Unmarshal(&out); err != nil {
		return fmt.Errorf("decode fetch result: %w", err)
	}
	if !out.OK {
		return &delivery.StatusError{Code: out.Status, Status: out.StatusText}
	}
	return nil
}
