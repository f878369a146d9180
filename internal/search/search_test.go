package search

import (
	"testing"

	"github.com/clcdev/sermon-linebot-go/internal/archive"
)

var testRecords = []archive.Record{
	{Title: "The Sage of Grace", Preacher: "J. Smith", Date: "01-01-2023", Link: "linkA"},
	{Title: "Faith Journey", Preacher: "M. Jones", Date: "05-06-2022", Link: "linkB"},
	{Title: "Grace Abounding", Preacher: "A. Brown", Date: "12-03-2023", Link: "linkC"},
}

func TestMatchRanksAboveThreshold(t *testing.T) {
	t.Parallel()
	ranked, best := Match("grace", testRecords)

	if len(ranked) != 2 {
		t.Fatalf("ranked = %d records, want 2", len(ranked))
	}
	for _, sr := range ranked {
		if sr.Score <= Threshold {
			t.Errorf("record %q score %.1f, want > %d", sr.Record.Title, sr.Score, Threshold)
		}
	}
	if best <= Threshold {
		t.Errorf("best = %.1f, want > %d", best, Threshold)
	}
}

func TestMatchNoConfidentResult(t *testing.T) {
	t.Parallel()
	ranked, best := Match("zzzznotfound", testRecords)

	if len(ranked) != 0 {
		t.Errorf("ranked = %d records, want 0", len(ranked))
	}
	if best <= 0 || best > Threshold {
		t.Errorf("best = %.1f, want in (0, %d] as a diagnostic", best, Threshold)
	}
}

func TestMatchEmptyKeywords(t *testing.T) {
	t.Parallel()
	for _, keywords := range []string{"", "  ", ",,,", " , "} {
		ranked, best := Match(keywords, testRecords)
		if len(ranked) != 0 || best != 0 {
			t.Errorf("Match(%q) = %d records, best %.1f; want 0 and 0", keywords, len(ranked), best)
		}
	}
}

func TestMatchAveragesMultipleTerms(t *testing.T) {
	t.Parallel()
	// One perfect term and one miss must average below a lone perfect term.
	lone, _ := Match("grace abounding", testRecords)
	mixed, _ := Match("grace abounding, zzzznotfound", testRecords)

	if len(lone) == 0 {
		t.Fatal("lone term found no match")
	}
	if len(mixed) > 0 && mixed[0].Score >= lone[0].Score {
		t.Errorf("mixed score %.1f not below lone score %.1f", mixed[0].Score, lone[0].Score)
	}
}

func TestMatchStableOrderOnTies(t *testing.T) {
	t.Parallel()
	records := []archive.Record{
		{Title: "Morning Prayer", Preacher: "X", Link: "first"},
		{Title: "Morning Prayer", Preacher: "X", Link: "second"},
	}
	ranked, _ := Match("morning prayer", records)

	if len(ranked) != 2 {
		t.Fatalf("ranked = %d, want 2", len(ranked))
	}
	if ranked[0].Record.Link != "first" || ranked[1].Record.Link != "second" {
		t.Errorf("tie order = %q, %q; want source order", ranked[0].Record.Link, ranked[1].Record.Link)
	}
}

func TestMatchWordOrderInsensitive(t *testing.T) {
	t.Parallel()
	ranked, _ := Match("smith grace sage", testRecords)
	if len(ranked) == 0 || ranked[0].Record.Link != "linkA" {
		t.Fatalf("reordered terms did not match record A: %+v", ranked)
	}
}

func TestClassifyDateSpec(t *testing.T) {
	t.Parallel()
	cases := []struct {
		spec string
		want DateSpecKind
	}{
		{"15-01-2023", DateSpecDay},
		{"2022", DateSpecYear},
		{"", DateSpecNone},
		{"january", DateSpecNone},
		{"20221", DateSpecNone},
		{"20x2", DateSpecNone},
	}
	for _, tc := range cases {
		if got := ClassifyDateSpec(tc.spec); got != tc.want {
			t.Errorf("ClassifyDateSpec(%q) = %v, want %v", tc.spec, got, tc.want)
		}
	}
}

func TestFilterByDateDay(t *testing.T) {
	t.Parallel()
	matches, ok := FilterByDate("01-01-2023", testRecords)
	if !ok {
		t.Fatal("FilterByDate() ok = false, want day filter applied")
	}
	if len(matches) != 1 || matches[0].Record.Link != "linkA" {
		t.Fatalf("matches = %+v, want only record A", matches)
	}
	if matches[0].Score != 100 {
		t.Errorf("Score = %.1f, want 100", matches[0].Score)
	}
}

func TestFilterByDateYear(t *testing.T) {
	t.Parallel()
	matches, ok := FilterByDate("2022", testRecords)
	if !ok {
		t.Fatal("FilterByDate() ok = false, want year filter applied")
	}
	if len(matches) != 1 || matches[0].Record.Link != "linkB" {
		t.Fatalf("matches = %+v, want only record B", matches)
	}
}

func TestFilterByDateSkipsUnparseableRecords(t *testing.T) {
	t.Parallel()
	records := append([]archive.Record{
		{Title: "No Date", Preacher: "X", Date: "unknown", Link: "linkX"},
	}, testRecords...)

	matches, ok := FilterByDate("2023", records)
	if !ok {
		t.Fatal("FilterByDate() ok = false")
	}
	for _, m := range matches {
		if m.Record.Link == "linkX" {
			t.Error("unparseable record included in matches")
		}
	}
	if len(matches) != 2 {
		t.Errorf("matches = %d, want 2 from 2023", len(matches))
	}
}

func TestFilterByDateMalformedSpecFallsThrough(t *testing.T) {
	t.Parallel()
	if _, ok := FilterByDate("last sunday", testRecords); ok {
		t.Error("malformed spec applied a filter, want fall-through to keywords")
	}
}

func TestFilterByDatePreservesRecordOrder(t *testing.T) {
	t.Parallel()
	matches, _ := FilterByDate("2023", testRecords)
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].Record.Link != "linkA" || matches[1].Record.Link != "linkC" {
		t.Errorf("order = %q, %q; want source order", matches[0].Record.Link, matches[1].Record.Link)
	}
}
