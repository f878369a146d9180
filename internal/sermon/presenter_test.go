package sermon

import (
	"strings"
	"testing"

	"github.com/clcdev/sermon-linebot-go/internal/archive"
	"github.com/clcdev/sermon-linebot-go/internal/paginate"
	"github.com/clcdev/sermon-linebot-go/internal/search"
)

func TestRenderPage(t *testing.T) {
	t.Parallel()
	page := paginate.Page{
		Records: []search.ScoredRecord{
			{Record: archive.Record{Title: "Sage of Grace", Preacher: "Smith", Date: "01-01-2023", Link: "linkA"}, Score: 95},
		},
		Start: 1, End: 1, Total: 3,
		Outcome: paginate.OutcomePage,
	}

	got := RenderPage(page)

	if !strings.HasPrefix(got, "Showing results 1 to 1 of 3") {
		t.Errorf("header wrong in %q", got)
	}
	for _, want := range []string{"📖 Title: Sage of Grace", "🎤 Preacher: Smith", "🗓️ Date: 01-01-2023", "🔗 Download Link: linkA"} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered page missing %q:\n%s", want, got)
		}
	}
}

func TestRenderPageBlankFieldsDashed(t *testing.T) {
	t.Parallel()
	page := paginate.Page{
		Records: []search.ScoredRecord{{Record: archive.Record{Title: "Untitled"}}},
		Start:   1, End: 1, Total: 1,
	}
	got := RenderPage(page)
	if !strings.Contains(got, "🎤 Preacher: -") {
		t.Errorf("blank preacher not dashed in %q", got)
	}
}

func TestRenderNoMatchRoundsScore(t *testing.T) {
	t.Parallel()
	got := RenderNoMatch("obscure topic", 42.4)

	if !strings.Contains(got, `"obscure topic"`) {
		t.Errorf("diagnostic missing keywords: %q", got)
	}
	if !strings.Contains(got, "Highest Match Score Found: 42%") {
		t.Errorf("diagnostic missing rounded best score: %q", got)
	}
	if !strings.Contains(got, "Confidence Threshold: 70%") {
		t.Errorf("diagnostic missing threshold: %q", got)
	}
}
