package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/analysis"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/monitoring"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/transport"
)

const (
	DefaultGitHubBaseURL = "https://api.github.com"

	githubAPIName   = "GitHub"
	githubUserAgent = "GitHub-Activity-Tracker/1.0"
	githubAccept    = "application/vnd.github+json"

	// EventsPageCap bounds the public event feed walk
	EventsPageCap = 10
	perPage       = 100
)

type githubOwner struct {
	Login string `json:"login"`
}

type githubRepo struct {
	Name     string       `json:"name"`
	FullName string       `json:"full_name"`
	Owner    *githubOwner `json:"owner"`
}

// GitHubAdapter reads public activity from the GitHub REST API without
// authentication. It implements analysis.Source.
type GitHubAdapter struct {
	baseURL string
	pool    *transport.ConnectionPool
	pager   *Paginator
}

var _ analysis.Source = (*GitHubAdapter)(nil)

// NewGitHubAdapter creates an adapter rooted at baseURL, or the public API when empty
func NewGitHubAdapter(baseURL string, logger *monitoring.Logger, metrics *monitoring.Metrics) *GitHubAdapter {
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL == "" {
		baseURL = DefaultGitHubBaseURL
	}

	pool := transport.NewConnectionPool(10, 20, 90*time.Second, map[string]string{
		"Accept":     githubAccept,
		"User-Agent": githubUserAgent,
	})

	return &GitHubAdapter{
		baseURL: baseURL,
		pool:    pool,
		pager:   NewPaginator(githubAPIName, pool, logger, metrics),
	}
}

// BaseURL is the API root every request is built on
func (g *GitHubAdapter) BaseURL() string {
	return g.baseURL
}

// PublicEvents walks /users/{u}/events/public by Link header, at most EventsPageCap pages
func (g *GitHubAdapter) PublicEvents(ctx context.Context, username string) ([]analysis.Record, error) {
	endpoint := g.url(nil, "users", username, "events", "public")

	raw, err := g.pager.Collect(ctx, endpoint, FollowLinks, EventsPageCap)
	return toRecords(raw, analysis.KindEvent), err
}

// Repositories lists every repository owned by username, page by page
func (g *GitHubAdapter) Repositories(ctx context.Context, username string) ([]analysis.Repository, error) {
	endpoint := g.url(url.Values{"per_page": {strconv.Itoa(perPage)}}, "users", username, "repos")

	raw, err := g.pager.Collect(ctx, endpoint, PageNumbers, 0)
	repos := make([]analysis.Repository, 0, len(raw))
	for _, item := range raw {
		var r githubRepo
		if json.Unmarshal(item, &r) != nil || r.Name == "" {
			continue
		}
		owner := username
		if r.Owner != nil && r.Owner.Login != "" {
			owner = r.Owner.Login
		}
		fullName := r.FullName
		if fullName == "" {
			fullName = owner + "/" + r.Name
		}
		repos = append(repos, analysis.Repository{Owner: owner, Name: r.Name, FullName: fullName})
	}
	return repos, err
}

// RepositoryCommits lists the commits of owner/repo filtered server-side to author
func (g *GitHubAdapter) RepositoryCommits(ctx context.Context, owner, repo, author string) ([]analysis.Record, error) {
	query := url.Values{
		"author":   {author},
		"per_page": {strconv.Itoa(perPage)},
	}
	endpoint := g.url(query, "repos", owner, repo, "commits")

	raw, err := g.pager.Collect(ctx, endpoint, PageNumbers, 0)
	return toRecords(raw, analysis.KindCommit), err
}

// RepositoryLanguages returns the byte count per language of owner/repo
func (g *GitHubAdapter) RepositoryLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	languages := make(map[string]int64)
	if err := g.pager.Get(ctx, g.url(nil, "repos", owner, repo, "languages"), &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

// GetPoolStats returns connection pool statistics
func (g *GitHubAdapter) GetPoolStats() map[string]interface{} {
	return g.pool.GetStats()
}

// Close closes the connection pool
func (g *GitHubAdapter) Close() error {
	return g.pool.Close()
}

func (g *GitHubAdapter) url(query url.Values, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	u := fmt.Sprintf("%s/%s", g.baseURL, strings.Join(escaped, "/"))
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func toRecords(raw []json.RawMessage, kind analysis.RecordKind) []analysis.Record {
	records := make([]analysis.Record, len(raw))
	for i, item := range raw {
		records[i] = analysis.Record{Kind: kind, Raw: item}
	}
	return records
}
