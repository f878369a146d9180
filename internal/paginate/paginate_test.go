package paginate

import (
	"strconv"
	"testing"

	"github.com/clcdev/sermon-linebot-go/internal/archive"
	"github.com/clcdev/sermon-linebot-go/internal/search"
)

func ranked(n int) []search.ScoredRecord {
	out := make([]search.ScoredRecord, n)
	for i := range out {
		out[i] = search.ScoredRecord{
			Record: archive.Record{Title: "t" + strconv.Itoa(i)},
			Score:  float64(100 - i),
		}
	}
	return out
}

func TestSliceFirstPage(t *testing.T) {
	t.Parallel()
	p := Slice(ranked(7), 0, 3)

	if p.Outcome != OutcomePage {
		t.Fatalf("Outcome = %v, want OutcomePage", p.Outcome)
	}
	if len(p.Records) != 3 || p.Start != 1 || p.End != 3 || p.Total != 7 {
		t.Errorf("page = %d records, %d-%d of %d; want 3 records, 1-3 of 7", len(p.Records), p.Start, p.End, p.Total)
	}
}

func TestSliceMiddleAndShortFinalPage(t *testing.T) {
	t.Parallel()
	p := Slice(ranked(7), 3, 3)
	if p.Start != 4 || p.End != 6 {
		t.Errorf("middle page range = %d-%d, want 4-6", p.Start, p.End)
	}

	p = Slice(ranked(7), 6, 3)
	if len(p.Records) != 1 || p.Start != 7 || p.End != 7 {
		t.Errorf("final page = %d records, %d-%d; want 1 record, 7-7", len(p.Records), p.Start, p.End)
	}
}

func TestSliceNoMatch(t *testing.T) {
	t.Parallel()
	p := Slice(nil, 0, 10)
	if p.Outcome != OutcomeNoMatch || p.Total != 0 {
		t.Errorf("Slice(empty, 0) = %v total %d, want OutcomeNoMatch total 0", p.Outcome, p.Total)
	}
}

func TestSliceExhausted(t *testing.T) {
	t.Parallel()
	p := Slice(ranked(4), 4, 10)
	if p.Outcome != OutcomeExhausted {
		t.Errorf("Outcome = %v, want OutcomeExhausted", p.Outcome)
	}
	if p.Total != 4 {
		t.Errorf("Total = %d, want 4", p.Total)
	}
}

func TestSliceNegativeOffsetClamped(t *testing.T) {
	t.Parallel()
	p := Slice(ranked(2), -5, 10)
	if p.Outcome != OutcomePage || p.Start != 1 {
		t.Errorf("Slice(-5) = %v start %d, want page starting at 1", p.Outcome, p.Start)
	}
}
