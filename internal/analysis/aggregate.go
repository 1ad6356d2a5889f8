package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
)

// DayCount is one point of a DaySeries
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// DaySeries is a sparse count-per-day series sorted ascending by day
type DaySeries []DayCount

// BuildDaySeries counts occurrences of each day. Days that never occur get no
// entry. ISO days sort lexicographically in chronological order.
func BuildDaySeries(days []string) DaySeries {
	counts := make(map[string]int, len(days))
	for _, d := range days {
		counts[d]++
	}

	keys := lo.Keys(counts)
	sort.Strings(keys)

	series := make(DaySeries, 0, len(keys))
	for _, k := range keys {
		series = append(series, DayCount{Day: k, Count: counts[k]})
	}
	return series
}

// Total sums every count in the series
func (s DaySeries) Total() int {
	return lo.SumBy(s, func(dc DayCount) int { return dc.Count })
}

// Max returns the largest single-day count
func (s DaySeries) Max() int {
	return lo.Max(lo.Map(s, func(dc DayCount, _ int) int { return dc.Count }))
}

// WeekdayOrder is the fixed presentation order, Monday first
var WeekdayOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// WeekdayCount is one bar of the weekday chart
type WeekdayCount struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// WeekdayDistribution counts records per weekday
type WeekdayDistribution map[time.Weekday]int

// BuildWeekdayDistribution counts occurrences of each weekday
func BuildWeekdayDistribution(weekdays []time.Weekday) WeekdayDistribution {
	dist := make(WeekdayDistribution, len(WeekdayOrder))
	for _, wd := range weekdays {
		dist[wd]++
	}
	return dist
}

// Ordered always returns all seven weekdays, Monday to Sunday, with zero for
// days that never occurred.
func (d WeekdayDistribution) Ordered() []WeekdayCount {
	out := make([]WeekdayCount, len(WeekdayOrder))
	for i, wd := range WeekdayOrder {
		out[i] = WeekdayCount{Weekday: wd.String(), Count: d[wd]}
	}
	return out
}

// Total sums every weekday count
func (d WeekdayDistribution) Total() int {
	return lo.Sum(lo.Values(d))
}

// RepoContribution is one row of the contribution table
type RepoContribution struct {
	Repo    string `json:"repo"`
	Commits int    `json:"commits"`
}

// LanguageTotals maps a language name to its cumulative byte count
type LanguageTotals map[string]int64

// LanguageShare is one slice of the language proportion chart
type LanguageShare struct {
	Language string  `json:"language"`
	Bytes    int64   `json:"bytes"`
	Percent  float64 `json:"percent"`
}

// RepoScan accumulates per-repository results in a single pass. Repositories
// are folded in as they are fetched and never revisited.
type RepoScan struct {
	contributions []RepoContribution
	languages     LanguageTotals
}

// NewRepoScan returns an empty accumulator
func NewRepoScan() *RepoScan {
	return &RepoScan{languages: make(LanguageTotals)}
}

// AddRepository folds one repository into the scan. Repositories with zero
// commits are kept; a nil languages map adds nothing to the totals.
func (s *RepoScan) AddRepository(repo string, commits int, languages map[string]int64) {
	s.contributions = append(s.contributions, RepoContribution{Repo: repo, Commits: commits})
	for lang, n := range languages {
		s.languages[lang] += n
	}
}

// Repositories is the number of repositories folded so far
func (s *RepoScan) Repositories() int {
	return len(s.contributions)
}

// ContributionTable returns the table sorted by commit count, highest first.
// The sort is stable so ties keep the order repositories were added in.
func (s *RepoScan) ContributionTable() []RepoContribution {
	table := append([]RepoContribution(nil), s.contributions...)
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Commits > table[j].Commits
	})
	return table
}

// LanguageTotals returns a copy of the accumulated byte totals
func (s *RepoScan) LanguageTotals() LanguageTotals {
	out := make(LanguageTotals, len(s.languages))
	for k, v := range s.languages {
		out[k] = v
	}
	return out
}

// Total is the grand byte total across every language
func (t LanguageTotals) Total() int64 {
	return lo.Sum(lo.Values(t))
}

// LanguageShares converts totals to percentages rounded to two decimals,
// largest first. It reports false when there is nothing to divide by, in
// which case no chart should be drawn.
func LanguageShares(totals LanguageTotals) ([]LanguageShare, bool) {
	grand := totals.Total()
	if grand <= 0 {
		return nil, false
	}

	shares := make([]LanguageShare, 0, len(totals))
	for lang, n := range totals {
		shares = append(shares, LanguageShare{
			Language: lang,
			Bytes:    n,
			Percent:  round2(float64(n) / float64(grand) * 100),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Bytes != shares[j].Bytes {
			return shares[i].Bytes > shares[j].Bytes
		}
		return shares[i].Language < shares[j].Language
	})
	return shares, true
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
