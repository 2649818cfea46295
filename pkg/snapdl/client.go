package snapdl

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"

	"igdlapi/pkg/errors"
	"igdlapi/pkg/logger"
)

// userAgents is the pool a User-Agent is picked from for every upstream
// request. Rotating the agent keeps the requests looking like ordinary
// browser traffic.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3.1 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0",
}

// Client fetches pages from the third-party downloader site. The
// underlying http.Client is long-lived so connections are reused across
// requests.
type Client struct {
	httpClient *http.Client
	referer    string
	logger     logger.Logger
}

// NewClient creates an upstream client with a fixed request timeout.
func NewClient(timeout time.Duration, referer string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		referer: referer,
		logger:  log,
	}
}

// BuildRequestURL appends the percent-encoded target URL to an endpoint
// template.
func BuildRequestURL(endpoint, targetURL string) string {
	return endpoint + url.QueryEscape(targetURL)
}

// FetchPage requests the downloader page for targetURL and returns the
// HTML body. Non-200 responses and timeouts surface as typed errors.
func (c *Client) FetchPage(ctx context.Context, endpoint, targetURL string) (string, error) {
	reqURL := BuildRequestURL(endpoint, targetURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", errors.Newf(errors.ErrorTypeInternal, "failed to build request: %v", err)
	}

	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Referer", c.referer)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	start := time.Now()
	c.logger.WithFields(map[string]interface{}{
		"url": reqURL,
	}).Debug("fetching upstream page")

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		if isTimeout(err) {
			c.logger.WithFields(map[string]interface{}{
				"url":      reqURL,
				"duration": duration.String(),
			}).Warn("upstream request timed out")
			return "", errors.New(errors.ErrorTypeUpstreamTimeout, "Request timeout")
		}
		c.logger.WithError(err).WithField("url", reqURL).Error("upstream request failed")
		return "", errors.NewUpstream(0, "Failed to reach downloader service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(map[string]interface{}{
			"url":    reqURL,
			"status": resp.StatusCode,
		}).Warn("upstream returned non-200")
		return "", errors.NewUpstream(resp.StatusCode,
			fmt.Sprintf("Failed to load page: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Newf(errors.ErrorTypeInternal, "failed to read upstream body: %v", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"url":      reqURL,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": duration.String(),
	}).Debug("upstream page fetched")

	return string(body), nil
}

// isTimeout reports whether err is a request timeout, either from the
// client deadline or a context deadline.
func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
