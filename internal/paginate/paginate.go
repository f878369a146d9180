// Package paginate slices a ranked result list into pages.
package paginate

import "github.com/clcdev/sermon-linebot-go/internal/search"

// Outcome says what a page slice produced.
type Outcome int

const (
	// OutcomePage is a non-empty page of results.
	OutcomePage Outcome = iota
	// OutcomeNoMatch is an empty result on the first attempt (offset 0).
	OutcomeNoMatch
	// OutcomeExhausted is an empty slice after earlier pages were shown.
	OutcomeExhausted
)

// Page is one slice of a ranked list. Start and End are 1-indexed inclusive
// and only meaningful when Outcome is OutcomePage.
type Page struct {
	Records []search.ScoredRecord
	Start   int
	End     int
	Total   int
	Outcome Outcome
}

// Slice cuts [offset, offset+limit) out of ranked. The caller advances its
// stored offset by len(Records), so short final pages move it exactly to the
// end of the list.
func Slice(ranked []search.ScoredRecord, offset, limit int) Page {
	total := len(ranked)
	if offset < 0 {
		offset = 0
	}

	if offset >= total {
		outcome := OutcomeExhausted
		if offset == 0 {
			outcome = OutcomeNoMatch
		}
		return Page{Total: total, Outcome: outcome}
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return Page{
		Records: ranked[offset:end],
		Start:   offset + 1,
		End:     end,
		Total:   total,
		Outcome: OutcomePage,
	}
}
