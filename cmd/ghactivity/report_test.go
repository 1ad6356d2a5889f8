package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/analysis"
)

func init() {
	color.NoColor = true
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name     string
		series   analysis.DaySeries
		expected string
	}{
		{name: "empty", series: nil, expected: ""},
		{name: "single day", series: analysis.DaySeries{{Day: "2024-03-15", Count: 3}}, expected: "█"},
		{
			name: "scaled to peak",
			series: analysis.DaySeries{
				{Day: "2024-03-15", Count: 1},
				{Day: "2024-03-16", Count: 4},
				{Day: "2024-03-17", Count: 8},
			},
			expected: "▁▄█",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sparkline(tt.series))
		})
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		count, peak, width int
		cells              int
	}{
		{count: 0, peak: 10, width: 40, cells: 0},
		{count: 10, peak: 10, width: 40, cells: 40},
		{count: 5, peak: 10, width: 40, cells: 20},
		{count: 1, peak: 1000, width: 40, cells: 1},
		{count: 3, peak: 0, width: 40, cells: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.count, tt.peak), func(t *testing.T) {
			assert.Equal(t, tt.cells, len([]rune(Bar(tt.count, tt.peak, tt.width))))
		})
	}
}

func TestPrintReport(t *testing.T) {
	t.Run("repos variant", func(t *testing.T) {
		res := &analysis.Result{
			DisplayName:  "Ada",
			Username:     "octocat",
			DaySeries:    analysis.DaySeries{{Day: "2024-03-15", Count: 2}, {Day: "2024-03-16", Count: 1}},
			Weekdays:     analysis.WeekdayDistribution{}.Ordered(),
			Records:      4,
			Skipped:      1,
			Repositories: 2,
			Contributions: []analysis.RepoContribution{
				{Repo: "a", Commits: 3},
				{Repo: "b", Commits: 0},
			},
			Languages: []analysis.LanguageShare{{Language: "Go", Bytes: 2048, Percent: 100}},
			Notices:   []analysis.Notice{{Level: analysis.NoticeWarning, Message: "Could not fetch languages for b"}},
		}
		res.Weekdays[4].Count = 2
		res.Weekdays[5].Count = 1

		var out bytes.Buffer
		require.NoError(t, printReport(&out, res, 10))
		text := out.String()

		assert.Contains(t, text, "Hello, Ada")
		assert.Contains(t, text, "4 records analyzed for octocat, 1 record without a usable date across 2 repositories")
		assert.Contains(t, text, "Could not fetch languages for b")
		assert.Contains(t, text, "2024-03-15 █▄ 2024-03-16")
		assert.Contains(t, text, "2 records on 2024-03-15, busiest day")
		assert.Contains(t, text, "Commits per repository")
		assert.Contains(t, text, "100.00%")
		assert.Contains(t, text, "2.0 kB")
	})

	t.Run("no data", func(t *testing.T) {
		res := &analysis.Result{
			Username: "ghost",
			Weekdays: analysis.WeekdayDistribution{}.Ordered(),
			Notices:  []analysis.Notice{{Level: analysis.NoticeError, Message: "No events found or failed to fetch data."}},
		}

		var out bytes.Buffer
		require.NoError(t, printReport(&out, res, 0))
		text := out.String()

		assert.Contains(t, text, "0 records analyzed for ghost")
		assert.Contains(t, text, "No recent activity found to plot.")
		assert.Contains(t, text, "No weekday data to plot.")
		assert.NotContains(t, text, "Languages")
	})
}

func TestAnalyzeCommand(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/octocat/events/public":
			fmt.Fprint(w, `[{"created_at":"2024-03-15T10:00:00Z"},{"created_at":"2024-03-16T10:00:00Z"}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer api.Close()

	tests := []struct {
		name     string
		args     []string
		hasError bool
		contains string
	}{
		{
			name:     "events",
			args:     []string{"analyze", "@octocat", "--name", "Ada", "--api-url", api.URL},
			contains: "2 records analyzed for octocat",
		},
		{
			name:     "json output",
			args:     []string{"analyze", "octocat", "--json", "--api-url", api.URL},
			contains: `"records": 2`,
		},
		{
			name:     "unknown variant",
			args:     []string{"analyze", "octocat", "--variant", "stars", "--api-url", api.URL},
			hasError: true,
		},
		{
			name:     "invalid username",
			args:     []string{"analyze", "not/a/login", "--api-url", api.URL},
			hasError: true,
		},
		{
			name:     "missing username",
			args:     []string{"analyze"},
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.contains)
		})
	}
}
