package search

import (
	"strconv"
	"time"

	"github.com/araddon/dateparse"

	"github.com/clcdev/sermon-linebot-go/internal/archive"
)

// DateSpecKind classifies the date field of an instruction.
type DateSpecKind int

const (
	// DateSpecNone means the spec is absent or malformed; the keyword path
	// handles the search instead.
	DateSpecNone DateSpecKind = iota
	// DateSpecDay is a day-precision DD-MM-YYYY spec.
	DateSpecDay
	// DateSpecYear is a bare 4-digit year.
	DateSpecYear
)

// ClassifyDateSpec decides which filter, if any, a date spec selects.
// Anything that is not a 10-character day spec or a 4-digit year degrades to
// no filter rather than erroring.
func ClassifyDateSpec(spec string) DateSpecKind {
	switch {
	case len(spec) == 10:
		return DateSpecDay
	case len(spec) == 4 && isDigits(spec):
		return DateSpecYear
	default:
		return DateSpecNone
	}
}

// FilterByDate returns the records matching a day or year spec, in record
// order, all with the maximum score. Records whose date field does not parse
// are skipped. The second return is false when the spec selects no filter.
func FilterByDate(spec string, records []archive.Record) ([]ScoredRecord, bool) {
	kind := ClassifyDateSpec(spec)
	if kind == DateSpecNone {
		return nil, false
	}

	var matches []ScoredRecord

	switch kind {
	case DateSpecDay:
		target, err := parseDayMonthYear(spec)
		if err != nil {
			return nil, true
		}
		for _, rec := range records {
			d, err := parseDayMonthYear(rec.Date)
			if err != nil {
				continue
			}
			if sameDay(d, target) {
				matches = append(matches, ScoredRecord{Record: rec, Score: 100})
			}
		}

	case DateSpecYear:
		year, err := strconv.Atoi(spec)
		if err != nil {
			return nil, true
		}
		for _, rec := range records {
			d, err := parseDayMonthYear(rec.Date)
			if err != nil {
				continue
			}
			if d.Year() == year {
				matches = append(matches, ScoredRecord{Record: rec, Score: 100})
			}
		}
	}

	return matches, true
}

// parseDayMonthYear parses free-form date text with day-before-month field
// order, matching how the sheet's dates are written.
func parseDayMonthYear(s string) (time.Time, error) {
	return dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
