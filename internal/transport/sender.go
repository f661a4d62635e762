package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"

	"clicktrack/internal/metrics"
)

// ErrUnavailable is returned by a Sender whose delivery primitive does not
// exist in the current runtime (e.g. no navigator.sendBeacon).
var ErrUnavailable = errors.New("transport: sender unavailable")

// Sender delivers one encoded event to path. It is called off the
// caller's goroutine and its outcome is never reported to the page.
type Sender interface {
	Send(ctx context.Context, path string, body []byte) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, path string, body []byte) error

func (f SenderFunc) Send(ctx context.Context, path string, body []byte) error {
	return f(ctx, path, body)
}

// Fallback tries Primary and, if it is unavailable or fails, Secondary.
type Fallback struct {
	Primary   Sender
	Secondary Sender
	Metrics   *metrics.Metrics // optional
}

func (f Fallback) Send(ctx context.Context, path string, body []byte) error {
	if f.Primary != nil {
		err := f.Primary.Send(ctx, path, body)
		if err == nil {
			return nil
		}
		if f.Metrics != nil {
			atomic.AddInt64(&f.Metrics.SendFallbacksTotal, 1)
		}
	}
	if f.Secondary == nil {
		return ErrUnavailable
	}
	return f.Secondary.Send(ctx, path, body)
}

// HTTPSender POSTs the body as application/json.
// A relative path is resolved against Base; the response is drained and ignored.
type HTTPSender struct {
	Client *http.Client
	Base   func() *url.URL // optional
}

func (s *HTTPSender) Send(ctx context.Context, path string, body []byte) error {
	target, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("collect path %q: %w", path, err)
	}
	if s.Base != nil {
		if base := s.Base(); base != nil {
			target = base.ResolveReference(target)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
