// Package render draws the dashboard charts as inline SVG. Charts use
// presentation attributes only so they render under a strict
// Content-Security-Policy.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/analysis"
)

const (
	chartWidth  = 800
	chartHeight = 380

	marginLeft   = 56
	marginRight  = 24
	marginTop    = 48
	marginBottom = 96

	maxDayLabels = 16
	legendRow    = 24
	yTicks       = 4

	lineColor = "#1f77b4"
	barColor  = "#008080"
)

// Palette colors the pie slices in order, wrapping when exhausted
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

//go:embed templates/*.svg.tmpl
var templateFS embed.FS

var chartTmpl = template.Must(
	template.New("charts").
		Funcs(template.FuncMap{
			"px":    px,
			"addf":  func(a, b float64) float64 { return a + b },
			"subf":  func(a, b float64) float64 { return a - b },
			"float": func(i int) float64 { return float64(i) },
			"half":  func(i int) float64 { return float64(i) / 2 },
			"legendY": func(base float64, i int) float64 {
				return base + float64(i)*legendRow
			},
		}).
		ParseFS(templateFS, "templates/*.svg.tmpl"),
)

type tick struct {
	Y     float64
	Label string
}

type point struct {
	X, Y  float64
	Count int
	Day   string
}

type axisLabel struct {
	X, Y  float64
	Text  string
	Angle int
}

type lineChartModel struct {
	Width, Height int
	Title         string
	Left, Right   float64
	Top, Bottom   float64
	Color         string
	Path          string
	Points        []point
	Ticks         []tick
	XLabels       []axisLabel
	XTitle        string
	YTitle        string
}

type bar struct {
	X, Y, W, H float64
	LabelX     float64
	Count      int
	CountLabel string
	Weekday    string
}

type barChartModel struct {
	Width, Height int
	Title         string
	Left, Right   float64
	Top, Bottom   float64
	Color         string
	Bars          []bar
	Ticks         []tick
	XLabels       []axisLabel
	YTitle        string
}

type slice struct {
	Path    string
	Color   string
	Label   string
	Percent string
	Bytes   string
}

type pieChartModel struct {
	Width, Height int
	Title         string
	CX, CY, R     float64
	Full          bool
	Slices        []slice
	LegendX       float64
	LegendY       float64
}

// ActivityTitle is the heading of the day-series chart
func ActivityTitle(username string) string {
	return "Activity History for " + username
}

// WeekdayTitle is the heading of the weekday chart
func WeekdayTitle(username string) string {
	return "Most active days when " + username + " gets locked in"
}

// LineChart draws the day series with dates on the x axis rotated 45°.
// An empty series renders nothing.
func LineChart(series analysis.DaySeries, username string) (template.HTML, error) {
	if len(series) == 0 {
		return "", nil
	}

	m := lineChartModel{
		Width:  chartWidth,
		Height: chartHeight,
		Title:  ActivityTitle(username),
		Left:   marginLeft,
		Right:  chartWidth - marginRight,
		Top:    marginTop,
		Bottom: chartHeight - marginBottom,
		Color:  lineColor,
		XTitle: "Date",
		YTitle: "Activity count",
	}

	maxCount := series.Max()
	scaleMax, ticks := yScale(maxCount, m.Top, m.Bottom)
	m.Ticks = ticks

	plotW := m.Right - m.Left
	plotH := m.Bottom - m.Top
	step := labelStep(len(series))

	var path bytes.Buffer
	for i, dc := range series {
		x := m.Left + plotW/2
		if len(series) > 1 {
			x = m.Left + float64(i)*plotW/float64(len(series)-1)
		}
		y := m.Bottom - float64(dc.Count)/float64(scaleMax)*plotH

		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&path, "%s%s %s ", cmd, px(x), px(y))

		m.Points = append(m.Points, point{X: x, Y: y, Count: dc.Count, Day: dc.Day})
		if i%step == 0 || i == len(series)-1 {
			m.XLabels = append(m.XLabels, axisLabel{X: x, Y: m.Bottom + 14, Text: dc.Day, Angle: -45})
		}
	}
	m.Path = string(bytes.TrimSpace(path.Bytes()))

	return execute("line.svg.tmpl", m)
}

// BarChart draws the seven weekday counts Monday to Sunday. A distribution
// with no counts renders nothing.
func BarChart(weekdays []analysis.WeekdayCount, username string) (template.HTML, error) {
	if lo.SumBy(weekdays, func(w analysis.WeekdayCount) int { return w.Count }) == 0 {
		return "", nil
	}

	m := barChartModel{
		Width:  chartWidth,
		Height: chartHeight,
		Title:  WeekdayTitle(username),
		Left:   marginLeft,
		Right:  chartWidth - marginRight,
		Top:    marginTop,
		Bottom: chartHeight - marginBottom,
		Color:  barColor,
		YTitle: "Activity count",
	}

	maxCount := lo.MaxBy(weekdays, func(a, b analysis.WeekdayCount) bool { return a.Count > b.Count }).Count
	scaleMax, ticks := yScale(maxCount, m.Top, m.Bottom)
	m.Ticks = ticks

	plotW := m.Right - m.Left
	plotH := m.Bottom - m.Top
	slot := plotW / float64(len(weekdays))
	width := slot * 0.7

	for i, wd := range weekdays {
		x := m.Left + float64(i)*slot + (slot-width)/2
		h := float64(wd.Count) / float64(scaleMax) * plotH
		center := x + width/2

		m.Bars = append(m.Bars, bar{
			X:          x,
			Y:          m.Bottom - h,
			W:          width,
			H:          h,
			LabelX:     center,
			Count:      wd.Count,
			CountLabel: humanize.Comma(int64(wd.Count)),
			Weekday:    wd.Weekday,
		})
		m.XLabels = append(m.XLabels, axisLabel{X: center, Y: m.Bottom + 14, Text: wd.Weekday, Angle: -45})
	}

	return execute("bar.svg.tmpl", m)
}

// PieChart draws language shares, largest first. No shares renders nothing.
func PieChart(shares []analysis.LanguageShare) (template.HTML, error) {
	if len(shares) == 0 {
		return "", nil
	}

	m := pieChartModel{
		Width:   chartWidth,
		Height:  chartHeight,
		Title:   "Language proportions",
		CX:      200,
		CY:      200,
		R:       140,
		LegendX: 400,
		LegendY: 80,
	}
	m.Full = len(shares) == 1
	m.Height = max(chartHeight, int(m.LegendY)+len(shares)*legendRow+20)

	var total int64
	for _, s := range shares {
		total += s.Bytes
	}

	angle := -math.Pi / 2
	for i, s := range shares {
		sweep := 2 * math.Pi * float64(s.Bytes) / float64(total)
		m.Slices = append(m.Slices, slice{
			Path:    arcPath(m.CX, m.CY, m.R, angle, sweep),
			Color:   Palette[i%len(Palette)],
			Label:   s.Language,
			Percent: strconv.FormatFloat(s.Percent, 'f', 2, 64) + "%",
			Bytes:   humanize.Bytes(uint64(s.Bytes)),
		})
		angle += sweep
	}

	return execute("pie.svg.tmpl", m)
}

func execute(name string, model any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := chartTmpl.ExecuteTemplate(&buf, name, model); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// yScale rounds the axis maximum up to a multiple of yTicks whole steps
func yScale(maxCount int, top, bottom float64) (int, []tick) {
	stepSize := int(math.Ceil(float64(max(maxCount, 1)) / yTicks))
	scaleMax := stepSize * yTicks

	ticks := make([]tick, 0, yTicks+1)
	for i := 0; i <= yTicks; i++ {
		v := i * stepSize
		ticks = append(ticks, tick{
			Y:     bottom - float64(v)/float64(scaleMax)*(bottom-top),
			Label: humanize.Comma(int64(v)),
		})
	}
	return scaleMax, ticks
}

func labelStep(n int) int {
	if n <= maxDayLabels {
		return 1
	}
	return int(math.Ceil(float64(n) / maxDayLabels))
}

func arcPath(cx, cy, r, start, sweep float64) string {
	x1, y1 := polar(cx, cy, r, start)
	xm, ym := polar(cx, cy, r, start+sweep/2)
	x2, y2 := polar(cx, cy, r, start+sweep)

	// two half arcs, so a slice close to the full circle never collapses
	// into an arc whose rounded endpoints coincide
	return fmt.Sprintf("M%s %s L%s %s A%s %s 0 0 1 %s %s A%s %s 0 0 1 %s %s Z",
		px(cx), px(cy), px(x1), px(y1),
		px(r), px(r), px(xm), px(ym),
		px(r), px(r), px(x2), px(y2))
}

func polar(cx, cy, r, angle float64) (float64, float64) {
	return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
