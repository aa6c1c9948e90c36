// Package web performs the outbound HTTP requests behind the shell fetch
// command and the browser window.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
)

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// ErrEmptyURL is returned when there is nothing to fetch.
var ErrEmptyURL = errors.New("empty url")

// Config holds the client configuration.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	// MaxBodyBytes caps how much of a response body is kept. Zero keeps all.
	MaxBodyBytes int
	Logger       *log.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:      10 * time.Second,
		UserAgent:    "tuidesk/1.0 (+https://korze.org)",
		MaxBodyBytes: 1 << 20,
	}
}

// Response is the part of an HTTP response the desktop displays.
type Response struct {
	URL        string
	StatusCode int
	Status     string
	Header     http.Header
	Body       string
}

// Client fetches URLs with resty.
type Client struct {
	resty   *resty.Client
	maxBody int
	logger  *log.Logger
}

// NewClient returns a client for cfg.
func NewClient(cfg Config) *Client {
	r := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	return &Client{
		resty:   r,
		maxBody: cfg.MaxBodyBytes,
		logger:  logging.OrDiscard(cfg.Logger),
	}
}

// NormalizeURL trims raw and prefixes https:// when it has no http(s)
// scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || schemeRe.MatchString(raw) {
		return raw
	}
	return "https://" + raw
}

// Fetch performs a GET request. Non-2xx statuses are returned as a Response,
// not an error; only transport failures are errors.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	url := NormalizeURL(rawURL)
	if url == "" {
		return nil, ErrEmptyURL
	}

	start := time.Now()
	resp, err := c.resty.R().SetContext(ctx).Get(url)
	if err != nil {
		c.logger.Debug("fetch failed", "url", url, "err", err)
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	c.logger.Debug("fetched", "url", url, "status", resp.StatusCode(), "took", time.Since(start))

	status := resp.Status()
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode(), http.StatusText(resp.StatusCode()))
	}
	body := resp.Body()
	if c.maxBody > 0 && len(body) > c.maxBody {
		body = body[:c.maxBody]
	}
	return &Response{
		URL:        url,
		StatusCode: resp.StatusCode(),
		Status:     status,
		Header:     resp.Header(),
		Body:       string(body),
	}, nil
}
