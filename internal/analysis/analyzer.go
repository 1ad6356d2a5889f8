package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/ZanzyTHEbar/github-activity-tracker/internal/errors"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/types"
)

// Source is everything an analysis run needs from the remote API
type Source interface {
	PublicEvents(ctx context.Context, username string) ([]Record, error)
	Repositories(ctx context.Context, username string) ([]Repository, error)
	RepositoryCommits(ctx context.Context, owner, repo, author string) ([]Record, error)
	RepositoryLanguages(ctx context.Context, owner, repo string) (map[string]int64, error)
}

const (
	msgNoEvents       = "No events found or failed to fetch data."
	msgNoRepositories = "No repositories found or failed to fetch data."
	msgRateLimited    = "GitHub API rate limit exceeded. Please try again later."
)

// Analyzer runs one request through fetch, extraction and aggregation. It
// holds no per-request state and is safe to share.
type Analyzer struct {
	source Source
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer reading from source
func NewAnalyzer(source Source, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{source: source, logger: logger}
}

// Analyze validates req and runs the selected variant. Only input validation
// produces an error; fetch failures are reported through the Result notices
// and flags so every chart can still render its own empty state.
func (a *Analyzer) Analyze(ctx context.Context, req types.AnalyzeRequest) (*Result, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperrors.NewValidationError("Please enter a GitHub username.")
	}

	variant, err := types.ParseVariant(string(req.Variant))
	if err != nil {
		return nil, apperrors.NewValidationError("invalid analysis variant", err)
	}

	start := time.Now()
	res := &Result{
		DisplayName: strings.TrimSpace(req.DisplayName),
		Username:    username,
		Variant:     variant,
		Weekdays:    WeekdayDistribution{}.Ordered(),
		DaySeries:   DaySeries{},
	}

	logger := a.logger.With("username", username, "variant", variant)
	logger.Info("Starting analysis")

	switch variant {
	case types.VariantEvents:
		a.analyzeEvents(ctx, logger, res)
	default:
		a.analyzeRepositories(ctx, logger, res)
	}

	res.Duration = time.Since(start)
	logger.Debug("Analysis finished",
		"records", res.Records,
		"skipped", res.Skipped,
		"days", len(res.DaySeries),
		"partial", res.Partial,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (a *Analyzer) analyzeEvents(ctx context.Context, logger *slog.Logger, res *Result) {
	events, err := a.source.PublicEvents(ctx, res.Username)
	if err != nil {
		a.fetchFailed(logger, res, err)
		events = nil
	}

	if len(events) == 0 {
		res.notice(NoticeError, msgNoEvents)
		return
	}

	a.aggregateDays(logger, res, events)
}

func (a *Analyzer) analyzeRepositories(ctx context.Context, logger *slog.Logger, res *Result) {
	repos, err := a.source.Repositories(ctx, res.Username)
	if err != nil {
		a.fetchFailed(logger, res, err)
		repos = nil
	}

	if len(repos) == 0 {
		res.notice(NoticeError, msgNoRepositories)
		return
	}

	withLanguages := res.Variant == types.VariantRepos
	scan := NewRepoScan()
	var commits []Record

	for i, repo := range repos {
		if err := ctx.Err(); err != nil {
			a.stopScan(logger, res, i, len(repos), err)
			break
		}

		repoCommits, err := a.source.RepositoryCommits(ctx, repo.Owner, repo.Name, res.Username)
		if err != nil {
			if stopsScan(ctx, err) {
				a.stopScan(logger, res, i, len(repos), err)
				break
			}
			logger.Warn("Skipping commits for repository", "repo", repo.FullName, "error", err)
			res.notice(NoticeWarning, fmt.Sprintf("Could not fetch commits for %s: %s", repo.Name, reason(err)))
			repoCommits = nil
		}

		var languages map[string]int64
		if withLanguages {
			languages, err = a.source.RepositoryLanguages(ctx, repo.Owner, repo.Name)
			if err != nil {
				if stopsScan(ctx, err) {
					scan.AddRepository(repo.Name, len(repoCommits), nil)
					commits = append(commits, repoCommits...)
					a.stopScan(logger, res, i+1, len(repos), err)
					break
				}
				logger.Warn("Skipping languages for repository", "repo", repo.FullName, "error", err)
				res.notice(NoticeWarning, fmt.Sprintf("Could not fetch languages for %s: %s", repo.Name, reason(err)))
				languages = nil
			}
		}

		scan.AddRepository(repo.Name, len(repoCommits), languages)
		commits = append(commits, repoCommits...)
	}

	res.Repositories = scan.Repositories()
	if withLanguages {
		res.Contributions = scan.ContributionTable()
		totals := scan.LanguageTotals()
		res.LanguageBytes = totals.Total()
		if shares, ok := LanguageShares(totals); ok {
			res.Languages = shares
		}
	}

	a.aggregateDays(logger, res, commits)
}

func (a *Analyzer) aggregateDays(logger *slog.Logger, res *Result, records []Record) {
	norm := Normalize(records)
	res.Records = len(records)
	res.Skipped = norm.Skipped()
	res.DaySeries = BuildDaySeries(norm.Days)
	res.Weekdays = BuildWeekdayDistribution(norm.Weekdays).Ordered()

	if norm.Malformed > 0 {
		logger.Debug("Dropped records with unparseable dates", "count", norm.Malformed)
	}
}

func (a *Analyzer) fetchFailed(logger *slog.Logger, res *Result, err error) {
	res.FetchFailed = true
	appErr := apperrors.ToAppError(err)
	apperrors.Log(logger, appErr)

	if appErr.Category == apperrors.CategoryRateLimit {
		res.RateLimited = true
		res.notice(NoticeWarning, msgRateLimited)
		return
	}
	res.notice(NoticeError, "Error: "+reason(err))
}

func (a *Analyzer) stopScan(logger *slog.Logger, res *Result, done, total int, err error) {
	res.Partial = true
	apperrors.Log(logger, apperrors.ToAppError(err))

	cause := "the analysis ran out of time"
	if apperrors.IsRateLimited(err) {
		res.RateLimited = true
		cause = "the GitHub rate limit was reached"
	}
	res.notice(NoticeWarning, fmt.Sprintf(
		"Results are partial: %s after %d of %d repositories. Please try again later.",
		cause, done, total))
}

// stopsScan is true for errors every remaining repository would hit too
func stopsScan(ctx context.Context, err error) bool {
	return apperrors.IsRateLimited(err) || apperrors.IsTimeout(err) || ctx.Err() != nil
}

func reason(err error) string {
	return apperrors.ToAppError(err).ErrBuilder.Msg
}
