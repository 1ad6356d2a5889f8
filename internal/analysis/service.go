package analysis

import (
	"context"
	"log/slog"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/monitoring"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/types"
)

// Service wraps an Analyzer with run metrics and the completion log line.
// Every front end (dashboard, JSON API, terminal) goes through it.
type Service struct {
	analyzer *Analyzer
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
}

// NewService creates a service over source
func NewService(source Source, logger *monitoring.Logger, metrics *monitoring.Metrics) *Service {
	if logger == nil {
		logger = &monitoring.Logger{Logger: slog.Default()}
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}
	return &Service{
		analyzer: NewAnalyzer(source, logger.Logger),
		metrics:  metrics,
		logger:   logger,
	}
}

// Run analyzes req. Validation errors are returned unchanged and are not
// counted as runs.
func (s *Service) Run(ctx context.Context, req types.AnalyzeRequest) (*Result, error) {
	res, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAnalysis(string(res.Variant), res.Partial)
	s.logger.AnalysisLogger(res.Username, string(res.Variant), res.Records, res.Skipped, res.Partial, res.Duration)
	return res, nil
}
