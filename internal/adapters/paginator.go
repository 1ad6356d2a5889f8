package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/ZanzyTHEbar/github-activity-tracker/internal/errors"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/monitoring"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/transport"
)

// PageMode selects how the paginator finds the next page
type PageMode int

const (
	// FollowLinks follows the rel="next" target of the Link header
	FollowLinks PageMode = iota
	// PageNumbers sets page=1,2,3... on the starting URL
	PageNumbers
)

func (m PageMode) String() string {
	if m == PageNumbers {
		return "page_numbers"
	}
	return "follow_links"
}

const maxErrorBody = 4096

// first upstream rate-limit hit per process gets a warning, the rest go to debug
var rateLimitWarning sync.Once

// Paginator walks a paginated JSON-array resource one page at a time
type Paginator struct {
	apiName string
	pool    *transport.ConnectionPool
	logger  *monitoring.Logger
	metrics *monitoring.Metrics
}

// NewPaginator creates a paginator sending requests through pool
func NewPaginator(apiName string, pool *transport.ConnectionPool, logger *monitoring.Logger, metrics *monitoring.Metrics) *Paginator {
	if logger == nil {
		logger = &monitoring.Logger{Logger: slog.Default()}
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}
	return &Paginator{
		apiName: apiName,
		pool:    pool,
		logger:  logger,
		metrics: metrics,
	}
}

// Collect fetches pages starting at startURL until a page is empty, there is
// no next link (FollowLinks), or maxPages pages have been read (0 means no
// cap). On error the items collected so far are returned with it.
func (p *Paginator) Collect(ctx context.Context, startURL string, mode PageMode, maxPages int) ([]json.RawMessage, error) {
	var items []json.RawMessage
	next := startURL

	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		pageURL := next
		if mode == PageNumbers {
			var err error
			if pageURL, err = withPage(startURL, page); err != nil {
				return items, apperrors.NewInternalError("invalid pagination URL", err)
			}
		}

		var batch []json.RawMessage
		header, err := p.getJSON(ctx, pageURL, &batch)
		if err != nil {
			return items, err
		}

		if len(batch) == 0 {
			return items, nil
		}
		items = append(items, batch...)

		if mode == FollowLinks {
			next = NextLink(header.Get("Link"))
			if next == "" {
				return items, nil
			}
		}
	}

	p.logger.Debug("Page cap reached", "url", startURL, "max_pages", maxPages, "items", len(items))
	return items, nil
}

// Get fetches a single non-paginated JSON document into v
func (p *Paginator) Get(ctx context.Context, rawURL string, v any) error {
	_, err := p.getJSON(ctx, rawURL, v)
	return err
}

func (p *Paginator) getJSON(ctx context.Context, rawURL string, v any) (http.Header, error) {
	endpoint := endpointOf(rawURL)
	start := time.Now()

	resp, err := p.pool.DoRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		p.metrics.RecordGitHubCall(false)
		p.logger.ExternalAPILogger(p.apiName, http.MethodGet, endpoint, 0, time.Since(start), false)
		if ctx.Err() != nil {
			return nil, apperrors.ToAppError(ctx.Err())
		}
		return nil, apperrors.NewNetworkError(fmt.Sprintf("%s request failed", p.apiName), err)
	}
	defer apperrors.SafeClose(resp.Body, "response body")

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	p.metrics.RecordGitHubCall(success)
	p.logger.ExternalAPILogger(p.apiName, http.MethodGet, endpoint, resp.StatusCode, time.Since(start), success)

	if isRateLimited(resp) {
		return nil, p.rateLimited(endpoint, resp)
	}

	if !success {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apperrors.NewFetchError(p.apiName, endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return nil, apperrors.NewExternalAPIError(p.apiName, fmt.Errorf("decode %s: %w", endpoint, err))
	}
	return resp.Header, nil
}

func (p *Paginator) rateLimited(endpoint string, resp *http.Response) error {
	p.metrics.IncrementGitHubRateLimit()
	resetAt := parseReset(resp.Header.Get("X-RateLimit-Reset"))

	warned := false
	rateLimitWarning.Do(func() {
		warned = true
		p.logger.Warn("GitHub API rate limit exceeded, try again later",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"reset_at", resetAt,
		)
	})
	if !warned {
		p.logger.Debug("GitHub API rate limit still exceeded", "endpoint", endpoint)
	}

	return apperrors.NewUpstreamRateLimitError(p.apiName, endpoint, resp.StatusCode, resetAt)
}

// isRateLimited is true for 429, or 403 with an exhausted quota header
func isRateLimited(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return resp.Header.Get("X-RateLimit-Remaining") == "0"
	default:
		return false
	}
}

func parseReset(v string) time.Time {
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

func withPage(rawURL string, page int) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func endpointOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
