package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// HTTPSource fetches a JSON row payload from a URL. A "{symbol}"
// placeholder in the URL is replaced with the escaped symbol.
type HTTPSource struct {
	URL        string
	Client     *http.Client
	Limiter    *rate.Limiter
	MaxElapsed time.Duration
	logger     zerolog.Logger
}

// NewHTTPSource creates an HTTPSource with optional proxy support.
func NewHTTPSource(rawURL, proxyURL string) *HTTPSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPSource{
		URL: rawURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
		MaxElapsed: 30 * time.Second,
		logger:     log.With().Str("component", "http_source").Logger(),
	}
}

func (s *HTTPSource) Name() string { return "http" }

// StatusError is returned for a non-200 response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// FetchRows downloads and decodes the rows, retrying transient failures
// with exponential backoff. Client errors (4xx) are not retried.
func (s *HTTPSource) FetchRows(ctx context.Context, symbol string) ([]Row, error) {
	if err := s.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	target := strings.ReplaceAll(s.URL, "{symbol}", url.QueryEscape(symbol))
	s.logger.Debug().Str("url", target).Msg("fetching rows")

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		resp, err := s.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			serr := &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(serr)
			}
			return serr
		}
		body = data
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = s.MaxElapsed
	notify := func(err error, wait time.Duration) {
		s.logger.Warn().Err(err).Dur("retry_in", wait).Msg("fetch failed, retrying")
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}

	rows, err := decodeRows(body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	s.logger.Debug().Int("rows", len(rows)).Msg("fetched rows")
	return rows, nil
}
