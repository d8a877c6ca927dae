// Package scraper provides the HTTP client for the source site: archive and
// daily page fetches plus the session/login helpers.
//
// Requests are rate limited with a token bucket so multi-date runs stay
// polite toward the site. Calls are strictly sequential by contract.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client is the HTTP client for the source site.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a Client with a cookie jar and rate limiting. minDelay
// is the enforced minimum gap between requests.
func NewClient(baseURL, userAgent string, minDelay, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	jar, _ := cookiejar.New(nil)
	if minDelay <= 0 {
		minDelay = 500 * time.Millisecond
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(minDelay), 1),
		logger:     logger,
	}
}

// ArchivePage fetches the published results page for a past date.
func (c *Client) ArchivePage(ctx context.Context, year, month, day int) (string, error) {
	path := fmt.Sprintf("/defi-du-jour/archives/%04d/%02d/%02d/", year, month, day)
	return c.get(ctx, path)
}

// DailyPage fetches the live daily challenge page. Personal answers only
// appear when the session is authenticated.
func (c *Client) DailyPage(ctx context.Context) (string, error) {
	return c.get(ctx, "/defi-du-jour/")
}

// get performs a rate-limited GET and returns the body as text.
func (c *Client) get(ctx context.Context, path string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	u := path
	if !strings.HasPrefix(path, "http") {
		u = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s returned %d", path, resp.StatusCode)
	}
	return string(body), nil
}

// postForm performs a rate-limited form POST, following redirects, and
// returns the final response URL and body.
func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values, referer string) (finalURL, body string, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("http post %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("read response body: %w", err)
	}
	return resp.Request.URL.String(), string(b), nil
}

// absoluteURL resolves a possibly-relative href against the base URL.
func (c *Client) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return c.baseURL + href
}
