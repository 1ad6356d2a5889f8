package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/github-activity-tracker/internal/errors"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/monitoring"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/transport"
)

func newTestPaginator(metrics *monitoring.Metrics) *Paginator {
	pool := transport.NewConnectionPool(2, 4, time.Minute, nil)
	return NewPaginator("GitHub", pool, monitoring.NewLoggerTo(io.Discard, slog.LevelDebug), metrics)
}

func pageBody(page, size int) string {
	items := make([]map[string]string, size)
	for i := range items {
		items[i] = map[string]string{"id": fmt.Sprintf("%d-%d", page, i)}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func ids(t *testing.T, items []json.RawMessage) []string {
	t.Helper()
	out := make([]string, len(items))
	for i, item := range items {
		var v struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(item, &v))
		out[i] = v.ID
	}
	return out
}

func TestPaginator_PageNumbersStopsOnEmptyPage(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		if page > 3 {
			fmt.Fprint(w, "[]")
			return
		}
		fmt.Fprint(w, pageBody(page, 2))
	}))
	defer server.Close()

	items, err := newTestPaginator(nil).Collect(context.Background(), server.URL+"/users/u/repos?per_page=100", PageNumbers, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1-0", "1-1", "2-0", "2-1", "3-0", "3-1"}, ids(t, items))
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestPaginator_FollowLinks(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}
		switch {
		case page <= 3:
			w.Header().Set("Link", fmt.Sprintf(`<%s/events?page=%d>; rel="next"`, server.URL, page+1))
			fmt.Fprint(w, pageBody(page, 1))
		default:
			// still advertises a next page, but the empty body ends the walk
			w.Header().Set("Link", fmt.Sprintf(`<%s/events?page=%d>; rel="next"`, server.URL, page+1))
			fmt.Fprint(w, "[]")
		}
	}))
	defer server.Close()

	items, err := newTestPaginator(nil).Collect(context.Background(), server.URL+"/events", FollowLinks, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"1-0", "2-0", "3-0"}, ids(t, items))
}

func TestPaginator_FollowLinksStopsWithoutNext(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Link", `<https://api.github.com/x?page=1>; rel="first"`)
		fmt.Fprint(w, pageBody(1, 3))
	}))
	defer server.Close()

	items, err := newTestPaginator(nil).Collect(context.Background(), server.URL, FollowLinks, 10)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPaginator_PageCap(t *testing.T) {
	tests := []struct {
		name     string
		mode     PageMode
		maxPages int
		expected int32
	}{
		{name: "follow links capped at 10", mode: FollowLinks, maxPages: 10, expected: 10},
		{name: "page numbers capped at 2", mode: PageNumbers, maxPages: 2, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			var server *httptest.Server
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				w.Header().Set("Link", fmt.Sprintf(`<%s/more?page=%d>; rel="next"`, server.URL, n+1))
				fmt.Fprint(w, pageBody(int(n), 1))
			}))
			defer server.Close()

			items, err := newTestPaginator(nil).Collect(context.Background(), server.URL+"/more", tt.mode, tt.maxPages)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, atomic.LoadInt32(&calls))
			assert.Len(t, items, int(tt.expected))
		})
	}
}

func TestPaginator_FetchErrorKeepsEarlierPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"boom"}`)
			return
		}
		fmt.Fprint(w, pageBody(1, 2))
	}))
	defer server.Close()

	metrics := monitoring.NewMetrics()
	items, err := newTestPaginator(metrics).Collect(context.Background(), server.URL+"/repos", PageNumbers, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsFetchError(err))
	assert.False(t, apperrors.IsRateLimited(err))
	assert.Equal(t, []string{"1-0", "1-1"}, ids(t, items))

	appErr := apperrors.ToAppError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.UpstreamStatus)
	assert.Equal(t, "GitHub API error: status 500", appErr.ErrBuilder.Msg)

	assert.Equal(t, int64(2), metrics.GitHubAPICalls)
	assert.Equal(t, int64(1), metrics.GitHubAPIErrors)
}

func TestPaginator_RateLimit(t *testing.T) {
	reset := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		status      int
		remaining   string
		rateLimited bool
	}{
		{name: "429 is rate limited", status: http.StatusTooManyRequests, rateLimited: true},
		{name: "403 with exhausted quota", status: http.StatusForbidden, remaining: "0", rateLimited: true},
		{name: "403 with quota left is a fetch error", status: http.StatusForbidden, remaining: "12", rateLimited: false},
		{name: "403 without quota header is a fetch error", status: http.StatusForbidden, rateLimited: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.remaining != "" {
					w.Header().Set("X-RateLimit-Remaining", tt.remaining)
				}
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
			}))
			defer server.Close()

			metrics := monitoring.NewMetrics()
			items, err := newTestPaginator(metrics).Collect(context.Background(), server.URL+"/users/u/events/public", FollowLinks, 10)
			require.Error(t, err)
			assert.Empty(t, items)
			assert.Equal(t, tt.rateLimited, apperrors.IsRateLimited(err))
			assert.Equal(t, !tt.rateLimited, apperrors.IsFetchError(err))

			appErr := apperrors.ToAppError(err)
			assert.Equal(t, tt.status, appErr.UpstreamStatus)
			if tt.rateLimited {
				require.NotNil(t, appErr.ResetAt)
				assert.True(t, reset.Equal(*appErr.ResetAt))
				assert.Equal(t, int64(1), metrics.GitHubRateLimitHits)
			} else {
				assert.Equal(t, int64(0), metrics.GitHubRateLimitHits)
			}
		})
	}
}

func TestPaginator_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not":"an array"}`)
	}))
	defer server.Close()

	_, err := newTestPaginator(nil).Collect(context.Background(), server.URL, PageNumbers, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsFetchError(err))
}

func TestPaginator_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestPaginator(nil).Collect(context.Background(), url, PageNumbers, 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.CategoryNetwork, apperrors.ToAppError(err).Category)
}

func TestWithPage(t *testing.T) {
	u, err := withPage("https://api.github.com/repos/o/r/commits?author=u&per_page=100", 3)
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/repos/o/r/commits?author=u&page=3&per_page=100", u)
}
