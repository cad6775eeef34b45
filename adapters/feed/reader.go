// Package feed reads the project blog through the rss2json proxy.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"mandamentos/domain/blog"
	"mandamentos/internal/errors"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

const (
	source = "blog feed"

	DefaultRSSURL = "https://livrodosmandamentos.blogspot.com/feeds/posts/default?alt=rss"
	DefaultAPI    = "https://api.rss2json.com/v1/api.json?rss_url="
)

// Config holds the proxy endpoint and the RSS address it converts
type Config struct {
	API      string        `json:"api"`
	RSSURL   string        `json:"rss_url"`
	Timeout  time.Duration `json:"timeout"`
	MaxBytes int64         `json:"max_bytes"` // zero means DefaultMaxBytes
}

// DefaultMaxBytes bounds a proxy response
const DefaultMaxBytes int64 = 4 << 20

// DefaultConfig points at the public proxy and the project blog
func DefaultConfig() Config {
	return Config{
		API:      DefaultAPI,
		RSSURL:   DefaultRSSURL,
		Timeout:  15 * time.Second,
		MaxBytes: DefaultMaxBytes,
	}
}

// Reader fetches blog posts from the proxy
type Reader struct {
	config     Config
	httpClient *http.Client
	logger     *log.Logger
}

// NewReader creates a feed reader. A nil client gets one with the
// configured timeout.
func NewReader(config Config, client *http.Client, logger *log.Logger) *Reader {
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Reader{
		config:     config,
		httpClient: client,
		logger:     logger.WithPrefix("feed"),
	}
}

// URL is the proxy request address: the API prefix followed by the escaped
// RSS address
func (r *Reader) URL() string {
	return r.config.API + url.QueryEscape(r.config.RSSURL)
}

// Fetch returns the posts in proxy order. A status other than "ok" is
// FEED_STATUS; an ok answer without items is EMPTY_RESULT.
func (r *Reader) Fetch(ctx context.Context) ([]blog.Post, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL(), nil)
	if err != nil {
		return nil, errors.FetchFailed(source, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.FetchFailed(source, err)
	}
	defer resp.Body.Close()

	limit := r.config.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.FetchFailed(source, fmt.Errorf("failed to read response: %w", err))
	}
	if int64(len(body)) > limit {
		return nil, errors.FetchFailed(source, fmt.Errorf("response exceeds %d bytes", limit))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.FetchFailed(source, fmt.Errorf("HTTP status %d", resp.StatusCode))
	}

	items, err := Decode(body)
	if err != nil {
		return nil, err
	}

	r.logger.Info("feed fetched",
		"items", len(items),
		"elapsed", time.Since(startTime).Round(time.Millisecond))

	return items, nil
}

// Decode reads a proxy response body
func Decode(body []byte) ([]blog.Post, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.ParseFailed(source, fmt.Errorf("response is not valid JSON"))
	}

	status := gjson.GetBytes(body, "status")
	if status.String() != "ok" {
		return nil, errors.FeedStatus(status.String())
	}

	items := make([]blog.Post, 0)
	gjson.GetBytes(body, "items").ForEach(func(_, value gjson.Result) bool {
		if raw, ok := value.Value().(map[string]any); ok {
			items = append(items, blog.Post{Raw: raw})
		}
		return true
	})

	if len(items) == 0 {
		return nil, errors.EmptyResult(source)
	}
	return items, nil
}
