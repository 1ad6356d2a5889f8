package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/samber/lo"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/analysis"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/frontend"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/render"
)

const defaultBarWidth = 40

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

var (
	heading = color.New(color.Bold, color.FgCyan)
	dim     = color.New(color.Faint)
	bar     = color.New(color.FgGreen)
)

func printReport(w io.Writer, res *analysis.Result, width int) error {
	if width <= 0 {
		width = defaultBarWidth
	}

	if res.DisplayName != "" {
		fmt.Fprintf(w, "Hello, %s\n\n", res.DisplayName)
	}

	summary := fmt.Sprintf("%s analyzed for %s", frontend.Plural("record", res.Records), res.Username)
	if res.Skipped > 0 {
		summary += fmt.Sprintf(", %s without a usable date", frontend.Plural("record", res.Skipped))
	}
	if res.Repositories > 0 {
		summary += fmt.Sprintf(" across %s", frontend.Plural("repository", res.Repositories))
	}
	fmt.Fprintln(w, summary)

	printNotices(w, res.Notices)

	heading.Fprintf(w, "\n%s\n", render.ActivityTitle(res.Username))
	if len(res.DaySeries) == 0 {
		dim.Fprintln(w, "No recent activity found to plot.")
	} else {
		first, last := res.DaySeries[0], res.DaySeries[len(res.DaySeries)-1]
		fmt.Fprintf(w, "%s %s %s\n", first.Day, bar.Sprint(Sparkline(res.DaySeries)), last.Day)
		peak := lo.MaxBy(res.DaySeries, func(a, b analysis.DayCount) bool { return a.Count > b.Count })
		dim.Fprintf(w, "%s on %s, busiest day\n", frontend.Plural("record", peak.Count), peak.Day)
	}

	heading.Fprintf(w, "\n%s\n", render.WeekdayTitle(res.Username))
	if lo.SumBy(res.Weekdays, func(wc analysis.WeekdayCount) int { return wc.Count }) == 0 {
		dim.Fprintln(w, "No weekday data to plot.")
	} else {
		peak := lo.MaxBy(res.Weekdays, func(a, b analysis.WeekdayCount) bool { return a.Count > b.Count }).Count
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, wc := range res.Weekdays {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", wc.Weekday, bar.Sprint(Bar(wc.Count, peak, width)), humanize.Comma(int64(wc.Count)))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(res.Contributions) > 0 {
		heading.Fprintln(w, "\nCommits per repository")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, rc := range res.Contributions {
			fmt.Fprintf(tw, "%s\t%s\n", rc.Repo, humanize.Comma(int64(rc.Commits)))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(res.Contributions) > 0 || len(res.Languages) > 0 {
		heading.Fprintln(w, "\nLanguages")
		if len(res.Languages) == 0 {
			dim.Fprintln(w, "No language data to plot.")
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, ls := range res.Languages {
			fmt.Fprintf(tw, "%s\t%6.2f%%\t%s\n", ls.Language, ls.Percent, humanize.Bytes(uint64(max(ls.Bytes, 0))))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func printNotices(w io.Writer, notices []analysis.Notice) {
	for _, n := range notices {
		switch n.Level {
		case analysis.NoticeError:
			color.New(color.FgRed).Fprintln(w, n.Message)
		case analysis.NoticeWarning:
			color.New(color.FgYellow).Fprintln(w, n.Message)
		default:
			fmt.Fprintln(w, n.Message)
		}
	}
}

// Sparkline draws one tick per day, scaled to the busiest day
func Sparkline(series analysis.DaySeries) string {
	if len(series) == 0 {
		return ""
	}
	peak := lo.MaxBy(series, func(a, b analysis.DayCount) bool { return a.Count > b.Count }).Count

	var sb strings.Builder
	for _, d := range series {
		idx := 0
		if peak > 0 {
			idx = d.Count * (len(sparkTicks) - 1) / peak
		}
		sb.WriteRune(sparkTicks[idx])
	}
	return sb.String()
}

// Bar is a horizontal bar of at most width cells. Non-zero counts get at least one cell.
func Bar(count, peak, width int) string {
	if count <= 0 || peak <= 0 || width <= 0 {
		return ""
	}
	n := count * width / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
