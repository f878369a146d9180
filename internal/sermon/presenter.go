package sermon

import (
	"fmt"
	"math"
	"strings"

	"github.com/clcdev/sermon-linebot-go/internal/paginate"
	"github.com/clcdev/sermon-linebot-go/internal/search"
)

// RenderPage formats one page of results: a range header followed by one
// labeled block per record.
func RenderPage(p paginate.Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Showing results %d to %d of %d", p.Start, p.End, p.Total)

	for _, sr := range p.Records {
		b.WriteString("\n\n")
		b.WriteString(renderRecord(sr))
	}

	return b.String()
}

func renderRecord(sr search.ScoredRecord) string {
	rec := sr.Record
	return fmt.Sprintf("📖 Title: %s\n🎤 Preacher: %s\n🗓️ Date: %s\n🔗 Download Link: %s",
		orDash(rec.Title), orDash(rec.Preacher), orDash(rec.Date), orDash(rec.Link))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RenderNoMatch explains a zero-result keyword search: the keywords as
// interpreted, the best score seen, and the fixed confidence cutoff.
func RenderNoMatch(keywords string, bestScore float64) string {
	return fmt.Sprintf(
		"Sorry, I couldn't find a confident match for \"%s\".\n\nHighest Match Score Found: %d%%\nConfidence Threshold: %d%%\n\nTry different or more specific keywords.",
		keywords, int(math.Round(bestScore)), search.Threshold)
}

// RenderExhausted is the reply when a continuation finds nothing left.
func RenderExhausted() string {
	return "No more results for this search."
}

// RenderDateNoMatch is the reply when a date search finds no records.
func RenderDateNoMatch(spec string) string {
	return fmt.Sprintf("No sermons found for %s.", spec)
}

// RenderArchiveUnavailable is the reply when the record source fails.
func RenderArchiveUnavailable() string {
	return "Sorry, the sermon archive is unavailable right now. Please try again in a few minutes."
}

// WelcomeText greets a new or reset conversation and explains usage.
func WelcomeText() string {
	return "👋 Welcome! I help you find sermons from our archive.\n\n" +
		"Tell me what you're looking for, for example:\n" +
		"• \"sermons about grace\"\n" +
		"• \"messages by Pastor Smith\"\n" +
		"• \"sermons from 2023\" or \"15-01-2023\"\n\n" +
		"Say \"more\" to see further results, or \"reset\" to start over."
}
