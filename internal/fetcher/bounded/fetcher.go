// Package bounded implements preview.Fetcher as a streaming, size-capped
// HTTP GET. Bodies are consumed chunk by chunk against a fixed byte budget
// and cut on a UTF-8 rune boundary when the budget runs out, so the text
// handed to the parser is valid end-to-end even when truncated.
package bounded

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"previewd/internal/metrics"
	"previewd/internal/preview"
)

const readChunkSize = 32 * 1024

// Config controls fetcher behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	MaxBytes  int
}

// Fetcher issues bounded GET requests through a shared, pooled HTTP client.
type Fetcher struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New builds a Fetcher. Zero-valued config fields fall back to the service
// constants: a 10s request timeout and the preview.MaxFetchBytes cap.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = preview.MaxFetchBytes
	}
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newHTTPTransport(),
		},
		logger: logger,
	}
}

// Fetch executes a GET against rawURL and streams the body into memory,
// stopping once the byte cap is reached. Truncation is silent; request-level
// failures (network, timeout, non-decodable body) abort with an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			f.logger.Debug("body close failed", zap.Error(closeErr))
		}
	}()

	body, truncated, err := f.readCapped(resp.Body)
	if err != nil {
		return "", err
	}
	metrics.ObserveFetch(len(body), truncated)
	if truncated {
		f.logger.Debug("body truncated at cap",
			zap.String("url", rawURL),
			zap.Int("bytes", len(body)),
		)
	}
	return string(body), nil
}

// readCapped consumes r chunk by chunk up to the configured cap. A chunk
// that would overflow the cap is cut to the remaining budget and the
// accumulated tail trimmed back to the last complete rune; further chunks
// are not read.
func (f *Fetcher) readCapped(r io.Reader) ([]byte, bool, error) {
	buf := make([]byte, 0, min(8192, f.cfg.MaxBytes))
	chunk := make([]byte, readChunkSize)
	truncated := false

	for {
		n, readErr := r.Read(chunk)
		if n > 0 {
			remaining := f.cfg.MaxBytes - len(buf)
			if remaining <= 0 {
				truncated = true
				break
			}
			if n <= remaining {
				buf = append(buf, chunk[:n]...)
			} else {
				buf = append(buf, chunk[:remaining]...)
				buf = trimPartialRune(buf)
				truncated = true
				break
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, false, fmt.Errorf("read body: %w", readErr)
		}
	}

	if !utf8.Valid(buf) {
		return nil, false, errors.New("response body is not valid UTF-8")
	}
	return buf, truncated, nil
}

// trimPartialRune drops a trailing incomplete UTF-8 sequence so a cut never
// splits a multi-byte rune. Sequences that are invalid outright are left in
// place for the validity check to reject.
func trimPartialRune(b []byte) []byte {
	end := len(b)
	start := end
	for start > 0 && end-start < utf8.UTFMax && !utf8.RuneStart(b[start-1]) {
		start--
	}
	if start == 0 || end-start >= utf8.UTFMax {
		return b
	}
	if utf8.FullRune(b[start-1 : end]) {
		return b
	}
	return b[:start-1]
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}
