// Package feedpull provides a resilient HTTP client for plaintext
// phishing-domain feeds (one URL or domain per line, # comments)
package feedpull

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	perr "phishbowl/internal/platform/errors"
	"phishbowl/internal/platform/logger"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUA        = "phishbowl-feeds"
	defaultMaxRetry  = 4
	defaultRetryBase = 500 * time.Millisecond
	maxLineBytes     = 64 * 1024
)

// Options configures the Client
type Options struct {
	UserAgent string
	Timeout   time.Duration

	// Retry config for transient responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client fetches plaintext feeds with ETag support and retries
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("feedpull"),
		sleep: time.Sleep,
	}
}

// Result is one fetched feed
type Result struct {
	Lines       []string // trimmed, comments and blanks removed
	ETag        string
	NotModified bool
}

// Fetch downloads the feed at url. etagIn is optional and adds
// If-None-Match for conditional requests; a 304 yields NotModified with
// no lines
func (c *Client) Fetch(ctx context.Context, url, etagIn string) (Result, error) {
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Result{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "feedpull new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "text/plain")
		if etagIn != "" {
			req.Header.Set("If-None-Match", etagIn)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			attempts++
			if attempts > c.opts.MaxRetries {
				return Result{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "feedpull fetch %s failed", url)
			}
			c.sleep(c.backoff(attempts))
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotModified:
			_ = resp.Body.Close()
			return Result{ETag: etagIn, NotModified: true}, nil

		case resp.StatusCode == http.StatusOK:
			lines, err := readLines(resp.Body)
			cerr := resp.Body.Close()
			if err != nil {
				return Result{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "feedpull read %s failed", url)
			}
			if cerr != nil {
				return Result{}, cerr
			}
			return Result{Lines: lines, ETag: resp.Header.Get("ETag")}, nil

		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			_ = resp.Body.Close()
			attempts++
			if attempts > c.opts.MaxRetries {
				return Result{}, perr.Unavailablef("feedpull %s returned %d", url, resp.StatusCode)
			}
			c.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempts).Msg("feed fetch retrying")
			c.sleep(c.backoff(attempts))

		default:
			_ = resp.Body.Close()
			return Result{}, perr.Newf(perr.ErrorCodeUnknown, "feedpull %s returned %d", url, resp.StatusCode)
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << (attempt - 1)
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

// readLines scans the body, dropping blanks and # comments
func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 4096), maxLineBytes)

	var out []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Inline comments after whitespace
		if i := strings.IndexAny(line, " \t"); i > 0 {
			line = line[:i]
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
