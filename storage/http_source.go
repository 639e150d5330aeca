package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"perfume-dashboard/utils"
)

// HTTPSource downloads a CSV over HTTP(S).
type HTTPSource struct {
	url    string
	client *resty.Client
	retry  *utils.RetryConfig
}

// NewHTTPSource creates a remote source. Zero options fall back to a 30s
// timeout and three attempts.
func NewHTTPSource(url string, opts SourceOptions) *HTTPSource {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := opts.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}

	client := resty.New()
	client.SetTimeout(timeout)

	return &HTTPSource{
		url:    url,
		client: client,
		retry: &utils.RetryConfig{
			MaxAttempts: attempts,
			BaseDelay:   500 * time.Millisecond,
			Logger:      opts.Logger,
		},
	}
}

func (s *HTTPSource) Location() string { return s.url }

// Signature issues a HEAD request and combines the URL with the validators
// the server returns. Servers without validators yield a URL-only signature.
func (s *HTTPSource) Signature(ctx context.Context) (string, error) {
	var sig string
	err := s.retry.DoContext(ctx, "head "+s.url, func() error {
		resp, err := s.client.R().SetContext(ctx).Head(s.url)
		if err != nil {
			return fmt.Errorf("http %q: head: %w", s.url, err)
		}
		if err := checkStatus(s.url, resp.StatusCode()); err != nil {
			return err
		}
		h := resp.Header()
		sig = fmt.Sprintf("%s|%s|%s|%s", s.url,
			h.Get("ETag"), h.Get("Last-Modified"), h.Get("Content-Length"))
		return nil
	})
	if err != nil {
		return "", err
	}
	return sig, nil
}

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	var body []byte
	err := s.retry.DoContext(ctx, "get "+s.url, func() error {
		resp, err := s.client.R().SetContext(ctx).Get(s.url)
		if err != nil {
			return fmt.Errorf("http %q: get: %w", s.url, err)
		}
		if err := checkStatus(s.url, resp.StatusCode()); err != nil {
			return err
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return fmt.Errorf("http %q: status %d: %w: %w", url, code, ErrNotFound, utils.ErrPermanent)
	case code >= 500:
		return fmt.Errorf("http %q: status %d", url, code)
	case code >= 400:
		return fmt.Errorf("http %q: status %d: %w", url, code, utils.ErrPermanent)
	}
	return nil
}
