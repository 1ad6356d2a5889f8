package analysis

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/monitoring"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/types"
)

func TestService_RecordsRuns(t *testing.T) {
	var buf bytes.Buffer
	metrics := monitoring.NewMetrics()
	src := &fakeSource{
		repos:   []Repository{repo("a"), repo("b")},
		commits: map[string][]Record{"a": commitsOn("2024-03-15")},
		commitErrs: map[string]error{
			"b": rateLimitErr(),
		},
	}
	svc := NewService(src, monitoring.NewLoggerTo(&buf, slog.LevelInfo), metrics)

	res, err := svc.Run(context.Background(), types.AnalyzeRequest{Username: "octocat", Variant: types.VariantCommits})
	require.NoError(t, err)
	assert.True(t, res.Partial)

	stats := metrics.GetAnalysisStats()
	assert.Equal(t, int64(1), stats["total"])
	assert.Equal(t, int64(1), stats["partial"])
	assert.Contains(t, buf.String(), `"msg":"Analysis Completed"`)
	assert.Contains(t, buf.String(), `"variant":"commits"`)
}

func TestService_ValidationIsNotARun(t *testing.T) {
	metrics := monitoring.NewMetrics()
	svc := NewService(&fakeSource{}, nil, metrics)

	_, err := svc.Run(context.Background(), types.AnalyzeRequest{Username: "  "})
	require.Error(t, err)
	assert.Equal(t, int64(0), metrics.GetAnalysisStats()["total"])
}
