package analysis

import (
	"time"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/types"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is an inline message shown to whoever ran the analysis
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Repository is one repository owned by the analyzed user
type Repository struct {
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type Result struct {
	DisplayName string        `json:"display_name,omitempty"`
	Username    string        `json:"username"`
	Variant     types.Variant `json:"variant"`

	DaySeries     DaySeries          `json:"day_series"`
	Weekdays      []WeekdayCount     `json:"weekdays"`
	Contributions []RepoContribution `json:"contributions,omitempty"`
	Languages     []LanguageShare    `json:"languages,omitempty"`
	LanguageBytes int64              `json:"language_bytes,omitempty"`

	Records      int `json:"records"`
	Skipped      int `json:"skipped"`
	Repositories int `json:"repositories,omitempty"`

	FetchFailed bool `json:"fetch_failed"`
	RateLimited bool `json:"rate_limited"`
	Partial     bool `json:"partial"`

	Notices  []Notice      `json:"notices"`
	Duration time.Duration `json:"duration_ns"`
}

func (r *Result) notice(level NoticeLevel, msg string) {
	r.Notices = append(r.Notices, Notice{Level: level, Message: msg})
}

// Greeting is the cosmetic salutation for the display name
func (r *Result) Greeting() string {
	if r.DisplayName == "" {
		return ""
	}
	return "Hello, " + r.DisplayName + "!"
}

func (r *Result) HasActivity() bool {
	return len(r.DaySeries) > 0
}

func (r *Result) HasWeekdays() bool {
	for _, w := range r.Weekdays {
		if w.Count > 0 {
			return true
		}
	}
	return false
}

func (r *Result) HasContributions() bool {
	return len(r.Contributions) > 0
}

func (r *Result) HasLanguages() bool {
	return len(r.Languages) > 0
}

// ShowsRepositories reports whether the variant produces the per-repository panels
func (r *Result) ShowsRepositories() bool {
	return r.Variant == types.VariantRepos
}
