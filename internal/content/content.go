// Package content fetches jokes, advice and facts from public HTTP APIs.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dadjoke-bot/internal/config"
	"dadjoke-bot/internal/metrics"
	"dadjoke-bot/internal/models"
	"dadjoke-bot/pkg/logger"
)

const maxBodySize = 1 << 20

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher issues a single GET per call. It keeps no state between calls and never retries.
type Fetcher struct {
	client  HTTPClient
	sources map[models.ContentSource]Source
	now     func() time.Time
}

type Option func(*Fetcher)

func WithHTTPClient(client HTTPClient) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

func New(cfg config.SourcesConfig, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		sources: DefaultSources(cfg),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *Fetcher) Fetch(ctx context.Context, source models.ContentSource) (*models.Content, error) {
	src, ok := f.sources[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}

	start := time.Now()
	c, err := f.fetch(ctx, src)
	metrics.FetchDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())
	metrics.FetchesTotal.WithLabelValues(string(source), outcome(err)).Inc()

	if err != nil {
		logger.Warn("Failed to fetch content",
			logger.String("source", string(source)),
			logger.String("outcome", outcome(err)),
			logger.Err(err),
		)
		return nil, err
	}

	logger.Debug("Content fetched",
		logger.String("source", string(source)),
		logger.String("id", c.ID),
		logger.Duration("took", time.Since(start)),
	)
	return c, nil
}

func (f *Fetcher) fetch(ctx context.Context, src Source) (*models.Content, error) {
	req, err := f.newRequest(ctx, src)
	if err != nil {
		return nil, &NetworkError{Source: src.Name, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Source: src.Name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &StatusError{Source: src.Name, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{Source: src.Name, Err: err}
	}

	text, id, err := src.decode(body)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Source = src.Name
			return nil, parseErr
		}
		return nil, &ParseError{Source: src.Name, Err: err}
	}

	return &models.Content{
		Source: src.Name,
		Text:   text,
		ID:     id,
	}, nil
}

func (f *Fetcher) newRequest(ctx context.Context, src Source) (*http.Request, error) {
	u, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if src.CacheBust {
		q := u.Query()
		q.Set("timestamp", strconv.FormatInt(f.now().Unix(), 10))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range src.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}
