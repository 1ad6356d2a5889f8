package render

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/analysis"
)

func TestLineChart(t *testing.T) {
	series := analysis.DaySeries{
		{Day: "2024-03-14", Count: 2},
		{Day: "2024-03-15", Count: 5},
		{Day: "2024-03-17", Count: 1},
	}

	out, err := LineChart(series, "octocat")
	require.NoError(t, err)

	svg := string(out)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "Activity History for octocat")
	for _, dc := range series {
		assert.Contains(t, svg, ">"+dc.Day+"</text>")
	}
	assert.Contains(t, svg, "rotate(-45 ")
	assert.Equal(t, 3, strings.Count(svg, "<circle"))
	assert.NotContains(t, svg, "style=")
}

func TestLineChart_SinglePoint(t *testing.T) {
	out, err := LineChart(analysis.DaySeries{{Day: "2024-03-15", Count: 1}}, "octocat")
	require.NoError(t, err)
	assert.Contains(t, string(out), `d="M416.0 `)
}

func TestLineChart_ThinsLabels(t *testing.T) {
	var series analysis.DaySeries
	for d := 1; d <= 40; d++ {
		series = append(series, analysis.DayCount{Day: "2024-01-" + pad(d), Count: d})
	}

	out, err := LineChart(series, "octocat")
	require.NoError(t, err)

	labels := strings.Count(string(out), "rotate(-45 ")
	assert.LessOrEqual(t, labels, maxDayLabels+1)
	assert.Contains(t, string(out), ">2024-01-40</text>", "last day is always labeled")
}

func TestCharts_EmptyInput(t *testing.T) {
	line, err := LineChart(nil, "octocat")
	require.NoError(t, err)
	assert.Empty(t, line)

	zero := make([]analysis.WeekdayCount, 7)
	bars, err := BarChart(zero, "octocat")
	require.NoError(t, err)
	assert.Empty(t, bars)

	pie, err := PieChart(nil)
	require.NoError(t, err)
	assert.Empty(t, pie)
}

func TestBarChart(t *testing.T) {
	dist := analysis.BuildWeekdayDistribution(nil)
	ordered := dist.Ordered()
	ordered[4].Count = 1200

	out, err := BarChart(ordered, "octocat")
	require.NoError(t, err)

	svg := string(out)
	assert.Contains(t, svg, "Most active days when octocat gets locked in")
	assert.Equal(t, 7, strings.Count(svg, "<rect"))
	assert.Contains(t, svg, `fill="#008080"`)
	assert.Contains(t, svg, ">1,200</text>")
	for _, wd := range analysis.WeekdayOrder {
		assert.Contains(t, svg, ">"+wd.String()+"</text>")
	}
}

func TestPieChart(t *testing.T) {
	shares, ok := analysis.LanguageShares(analysis.LanguageTotals{"Python": 300, "HTML": 100})
	require.True(t, ok)

	out, err := PieChart(shares)
	require.NoError(t, err)

	svg := string(out)
	assert.Equal(t, 2, strings.Count(svg, "<path"))
	assert.Contains(t, svg, "Python 75.00% (300 B)")
	assert.Contains(t, svg, "HTML 25.00% (100 B)")
}

func TestPieChart_SingleLanguageIsFullCircle(t *testing.T) {
	out, err := PieChart([]analysis.LanguageShare{{Language: "Go", Bytes: 2048, Percent: 100}})
	require.NoError(t, err)

	svg := string(out)
	assert.NotContains(t, svg, "<path")
	assert.Contains(t, svg, "<circle")
	assert.Contains(t, svg, "Go 100.00% (2.0 kB)")
}

func TestArcPath(t *testing.T) {
	tests := []struct {
		name     string
		sweep    float64
		expected string
	}{
		{
			name:     "quarter",
			sweep:    math.Pi / 2,
			expected: "M200.0 200.0 L200.0 60.0 A140.0 140.0 0 0 1 299.0 101.0 A140.0 140.0 0 0 1 340.0 200.0 Z",
		},
		{
			name:     "almost full circle",
			sweep:    2 * math.Pi * (1 - 1e-6),
			expected: "M200.0 200.0 L200.0 60.0 A140.0 140.0 0 0 1 200.0 340.0 A140.0 140.0 0 0 1 200.0 60.0 Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, arcPath(200, 200, 140, -math.Pi/2, tt.sweep))
		})
	}
}

func TestPieChart_DominantLanguageStaysVisible(t *testing.T) {
	shares, ok := analysis.LanguageShares(analysis.LanguageTotals{"Go": 99_999_999, "C": 1})
	require.True(t, ok)

	out, err := PieChart(shares)
	require.NoError(t, err)

	svg := string(out)
	assert.Equal(t, 2, strings.Count(svg, "<path"))
	assert.Contains(t, svg, "A140.0 140.0 0 0 1 200.0 340.0")
}

func TestEscapesUserInput(t *testing.T) {
	out, err := LineChart(analysis.DaySeries{{Day: "2024-03-15", Count: 1}}, `<script>alert(1)</script>`)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
}

func TestYScale(t *testing.T) {
	tests := []struct {
		max      int
		wantMax  int
		wantLast string
	}{
		{max: 0, wantMax: 4, wantLast: "4"},
		{max: 1, wantMax: 4, wantLast: "4"},
		{max: 5, wantMax: 8, wantLast: "8"},
		{max: 1000, wantMax: 1000, wantLast: "1,000"},
	}
	for _, tt := range tests {
		scaleMax, ticks := yScale(tt.max, 0, 100)
		assert.Equal(t, tt.wantMax, scaleMax)
		require.Len(t, ticks, yTicks+1)
		assert.Equal(t, "0", ticks[0].Label)
		assert.Equal(t, tt.wantLast, ticks[yTicks].Label)
		assert.InDelta(t, 0, ticks[yTicks].Y, 1e-9)
	}
}

func pad(d int) string {
	if d < 10 {
		return "0" + string(rune('0'+d))
	}
	return string(rune('0'+d/10)) + string(rune('0'+d%10))
}
