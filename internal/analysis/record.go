package analysis

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayLayout is the calendar-day prefix of every GitHub ISO-8601 timestamp
const DayLayout = "2006-01-02"

// RecordKind tags where a record keeps its timestamp
type RecordKind int

const (
	// KindEvent records carry a top-level created_at
	KindEvent RecordKind = iota
	// KindCommit records carry commit.author.date
	KindCommit
)

func (k RecordKind) String() string {
	switch k {
	case KindEvent:
		return "event"
	case KindCommit:
		return "commit"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Record is one opaque JSON object returned by the API. Only the timestamp
// path selected by Kind is ever read from it.
type Record struct {
	Kind RecordKind
	Raw  json.RawMessage
}

// HasTimestamp extracts the calendar day of a record, or reports it absent
type HasTimestamp interface {
	Day() (string, bool)
}

// EventRecord is the event-shaped view of a Record
type EventRecord struct {
	CreatedAt *string `json:"created_at"`
}

func (e EventRecord) Day() (string, bool) {
	if e.CreatedAt == nil {
		return "", false
	}
	return dayPrefix(*e.CreatedAt)
}

type commitSignature struct {
	Date *string `json:"date"`
}

type commitDetail struct {
	Author *commitSignature `json:"author"`
}

// CommitRecord is the commit-shaped view of a Record
type CommitRecord struct {
	Commit *commitDetail `json:"commit"`
}

func (c CommitRecord) Day() (string, bool) {
	if c.Commit == nil || c.Commit.Author == nil || c.Commit.Author.Date == nil {
		return "", false
	}
	return dayPrefix(*c.Commit.Author.Date)
}

// View decodes the record into the shape its Kind names. Undecodable or
// unknown records yield nil and are treated as lacking a timestamp.
func (r Record) View() HasTimestamp {
	switch r.Kind {
	case KindEvent:
		var e EventRecord
		if json.Unmarshal(r.Raw, &e) != nil {
			return nil
		}
		return e
	case KindCommit:
		var c CommitRecord
		if json.Unmarshal(r.Raw, &c) != nil {
			return nil
		}
		return c
	default:
		return nil
	}
}

// Day returns the record's calendar day. It never fails; anything that does
// not resolve is reported absent.
func (r Record) Day() (string, bool) {
	view := r.View()
	if view == nil {
		return "", false
	}
	return view.Day()
}

func dayPrefix(ts string) (string, bool) {
	if len(ts) < len(DayLayout) {
		return "", false
	}
	return ts[:len(DayLayout)], true
}

// WeekdayOf parses a YYYY-MM-DD day and returns its weekday
func WeekdayOf(day string) (time.Weekday, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return 0, fmt.Errorf("parse day %q: %w", day, err)
	}
	return t.Weekday(), nil
}

// Normalized is the outcome of extracting days from a batch of records
type Normalized struct {
	Days      []string
	Weekdays  []time.Weekday
	Missing   int
	Malformed int
}

// Skipped is the number of records that contribute to no aggregate
func (n Normalized) Skipped() int {
	return n.Missing + n.Malformed
}

// Normalize extracts the day and weekday of every record. Records without a
// timestamp are counted as missing; records whose day does not parse are
// counted as malformed. Neither kind reaches Days or Weekdays, so both
// aggregates are always built from the same set.
func Normalize(records []Record) Normalized {
	n := Normalized{
		Days:     make([]string, 0, len(records)),
		Weekdays: make([]time.Weekday, 0, len(records)),
	}
	for _, rec := range records {
		day, ok := rec.Day()
		if !ok {
			n.Missing++
			continue
		}
		wd, err := WeekdayOf(day)
		if err != nil {
			n.Malformed++
			continue
		}
		n.Days = append(n.Days, day)
		n.Weekdays = append(n.Weekdays, wd)
	}
	return n
}
