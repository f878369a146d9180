package session

import (
	"reflect"
	"testing"

	"github.com/clcdev/sermon-linebot-go/internal/archive"
	"github.com/clcdev/sermon-linebot-go/internal/search"
)

func TestRememberTopicDistinctOrdered(t *testing.T) {
	t.Parallel()
	st := newState()
	st.RememberTopic("grace")
	st.RememberTopic("faith")
	st.RememberTopic("grace")
	st.RememberTopic("")

	if got := st.History(); !reflect.DeepEqual(got, []string{"grace", "faith"}) {
		t.Errorf("History() = %v, want [grace faith]", got)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	t.Parallel()
	st := newState()
	st.RememberTopic("grace")

	h := st.History()
	h[0] = "mutated"

	if got := st.History(); got[0] != "grace" {
		t.Errorf("History() = %v, mutated through returned slice", got)
	}
}

func TestRankingRoundTrip(t *testing.T) {
	t.Parallel()
	st := newState()

	if _, _, ok := st.Ranking("grace"); ok {
		t.Fatal("Ranking() ok = true before store")
	}

	ranked := []search.ScoredRecord{{Record: archive.Record{Title: "A"}, Score: 90}}
	st.StoreRanking("grace", ranked, 90)

	got, best, ok := st.Ranking("grace")
	if !ok || best != 90 || len(got) != 1 {
		t.Errorf("Ranking() = %v, %.1f, %v", got, best, ok)
	}
}

func TestOffsetAdvance(t *testing.T) {
	t.Parallel()
	st := newState()
	if st.Offset("grace") != 0 {
		t.Fatal("fresh offset != 0")
	}
	st.AdvanceOffset("grace", 3)
	st.AdvanceOffset("grace", 2)
	if got := st.Offset("grace"); got != 5 {
		t.Errorf("Offset() = %d, want 5", got)
	}
	if st.Offset("faith") != 0 {
		t.Error("unrelated topic offset moved")
	}
}

func TestManagerGetAndReset(t *testing.T) {
	t.Parallel()
	m := NewManager()

	st := m.Get("chat1")
	st.RememberTopic("grace")

	if again := m.Get("chat1"); again != st {
		t.Error("Get() returned a different state for the same chat")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}

	m.Reset("chat1")
	if got := m.Get("chat1").History(); len(got) != 0 {
		t.Errorf("history after reset = %v, want empty", got)
	}
}
