// Package search implements the retrieval side of the pipeline: fuzzy
// keyword ranking over sermon records and the date-filter alternate path.
package search

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/text/unicode/norm"

	"github.com/clcdev/sermon-linebot-go/internal/archive"
)

// Threshold is the confidence cutoff. A record is a match only when its
// average score is strictly greater than this.
const Threshold = 70

// ScoredRecord pairs a record with its relevance score (0 to 100).
type ScoredRecord struct {
	Record archive.Record
	Score  float64
}

// Match ranks records against comma-separated keywords.
//
// Each term is scored against the record's search surface (title plus
// preacher) with a token-set ratio, so word order and extra words in the
// surface do not hurt. The record's score is the average over all terms.
// Records scoring above Threshold are returned sorted descending, ties
// keeping record-source order. bestScore is the highest average seen across
// all records, kept even when nothing clears the threshold so a miss can be
// explained to the user.
func Match(keywords string, records []archive.Record) (ranked []ScoredRecord, bestScore float64) {
	terms := splitTerms(keywords)
	if len(terms) == 0 {
		return nil, 0
	}

	for _, rec := range records {
		surface := normalizeText(rec.Title + " " + rec.Preacher)

		var sum float64
		for _, term := range terms {
			sum += float64(fuzzy.TokenSetRatio(term, surface))
		}
		score := sum / float64(len(terms))

		if score > bestScore {
			bestScore = score
		}
		if score > Threshold {
			ranked = append(ranked, ScoredRecord{Record: rec, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, bestScore
}

// splitTerms breaks comma-separated keywords into normalized search terms.
func splitTerms(keywords string) []string {
	var terms []string
	for _, raw := range strings.Split(keywords, ",") {
		term := normalizeText(raw)
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// normalizeText lowercases and NFKC-folds text so fullwidth and composed
// forms coming from chat apps compare equal to the sheet's plain ASCII.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}
