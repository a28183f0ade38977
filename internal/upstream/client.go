package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/fystack/lottery-genius/internal/pool"
	"github.com/fystack/lottery-genius/pkg/common/config"
	"github.com/fystack/lottery-genius/pkg/common/logger"
	"github.com/fystack/lottery-genius/pkg/ratelimiter"
)

const maxBodySize = 16 << 20

// Client issues GET requests against the nodes of one source, rotating to the
// next node when one fails.
type Client struct {
	source      string
	httpClient  *http.Client
	pool        *pool.Pool
	endpoint    config.EndpointConfig
	rateLimiter *ratelimiter.PooledRateLimiter
}

func NewClient(source string, endpoint config.EndpointConfig, cfg config.ClientConfig) *Client {
	return &Client{
		source:      source,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		pool:        pool.New(endpoint.URLs(), cfg.NodeCooldown),
		endpoint:    endpoint,
		rateLimiter: ratelimiter.NewPooledRateLimiter(cfg.Throttle.RPS, cfg.Throttle.Burst),
	}
}

// Get fetches path relative to the next healthy node and returns the body of a
// 2xx response. Failures are returned as *UpstreamError.
func (c *Client) Get(ctx context.Context, op, path string) ([]byte, error) {
	node := c.pool.GetNext()
	if node == "" {
		return nil, &UpstreamError{Source: c.source, Op: op, Err: fmt.Errorf("no nodes configured")}
	}

	if err := c.rateLimiter.Wait(ctx, node); err != nil {
		return nil, &UpstreamError{Source: c.source, Op: op, Err: fmt.Errorf("rate limit: %w", err)}
	}

	url, err := requestURL(node, path)
	if err != nil {
		return nil, &UpstreamError{Source: c.source, Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{Source: c.source, Op: op, Err: err}
	}
	for k, v := range c.endpoint.Headers(node) {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.pool.MarkFailed(node)
		return nil, &UpstreamError{Source: c.source, Op: op, Transient: transientNetErr(err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.pool.MarkFailed(node)
		return nil, &UpstreamError{Source: c.source, Op: op, Transient: true, Err: err}
	}

	logger.Debug("Upstream request completed",
		"source", c.source,
		"url", url,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		transient := transientStatus(resp.StatusCode)
		if transient {
			c.pool.MarkFailed(node)
		}
		return nil, &UpstreamError{
			Source:     c.source,
			Op:         op,
			StatusCode: resp.StatusCode,
			Transient:  transient,
			Err:        fmt.Errorf("unexpected status from %s: %s", url, truncate(string(data), 256)),
		}
	}

	c.pool.MarkHealthy(node)
	return data, nil
}

func (c *Client) Source() string { return c.source }

func (c *Client) Stats() map[string]any {
	total, healthy, failed := c.pool.GetStats()
	return map[string]any{
		"nodes_total":   total,
		"nodes_healthy": healthy,
		"nodes_failed":  failed,
		"rate_limit":    c.rateLimiter.GetStats(),
	}
}

// requestURL appends path to the node's path, keeping any query the node
// carries after it.
func requestURL(node, path string) (string, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return node, nil
	}
	u, err := neturl.Parse(node)
	if err != nil {
		return "", fmt.Errorf("invalid node url %q: %w", node, err)
	}
	return u.JoinPath(path).String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
