package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"fingerprint-agent/internal/config"
	"fingerprint-agent/internal/fingerprint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"canvas":"-1a2b","host":"shop.example.com","timestamp":1700000000000,"referrer":"direct"}`), 0o600))

	rec, err := readRecord(path)
	require.NoError(t, err)
	assert.Equal(t, "-1a2b", rec.Canvas)
	assert.Equal(t, "shop.example.com", rec.Host)
	assert.Equal(t, int64(1700000000000), rec.Timestamp)

	_, err = readRecord(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSendWithoutPageUsesHTTP(t *testing.T) {
	var body []byte
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Delivery.BaseURL = srv.URL
	cfg.Metrics.TextfilePath = filepath.Join(t.TempDir(), "fp.prom")
	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Close()

	agent, done, err := app.Agent(context.Background(), "")
	require.NoError(t, err)
	defer done()

	ok := agent.Send(context.Background(), fingerprint.Record{Canvas: "1f", Referrer: "direct"})
	assert.True(t, ok)
	assert.Equal(t, config.DefaultEndpoint, path)
	assert.Contains(t, string(body), `"canvas":"1f"`)
	assert.Equal(t, 3, agent.Config().Delivery.Retries)
}

func TestAgentWithoutPageCollectsSentinels(t *testing.T) {
	cfg := config.Default()
	cfg.Delivery.BaseURL = "http://127.0.0.1:1"
	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Close()

	agent, done, err := app.Agent(context.Background(), "")
	require.NoError(t, err)
	defer done()

	rec := agent.Collect(context.Background())
	assert.Equal(t, "canvas_error", rec.Canvas)
	assert.Equal(t, "font_error", rec.Fonts)
	assert.Equal(t, fingerprint.DirectReferrer, rec.Referrer)
}

func TestSendWithPageTransportNeedsPage(t *testing.T) {
	cfg := config.Default()
	cfg.Delivery.BaseURL = "http://127.0.0.1:1"
	cfg.Delivery.Transport = "page"
	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Close()

	_, _, err = app.Agent(context.Background(), "")
	assert.Error(t, err)
}

func TestSendWithoutBaseFails(t *testing.T) {
	app, err := NewApp(config.Default())
	require.NoError(t, err)
	defer app.Close()

	_, _, err = app.Agent(context.Background(), "")
	assert.Error(t, err, "a relative endpoint needs a base url or a page")
}
