package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	domerrors "github.com/clcdev/sermon-linebot-go/internal/errors"
	"github.com/clcdev/sermon-linebot-go/internal/logger"
	"github.com/clcdev/sermon-linebot-go/internal/metrics"
)

// PubHTMLSource reads the archive through the "publish to web" HTML page.
// It is the fallback backend for sheets that are published but not
// link-readable, where the gviz endpoint answers with a sign-in page.
type PubHTMLSource struct {
	client  *Client
	baseURL string
	sheetID string
	gid     string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewPubHTMLSource creates a published-HTML-backed archive source.
func NewPubHTMLSource(client *Client, sheetID, gid string, log *logger.Logger, m *metrics.Metrics) *PubHTMLSource {
	return &PubHTMLSource{
		client:  client,
		baseURL: defaultBaseURL,
		sheetID: sheetID,
		gid:     gid,
		logger:  log.WithModule("archive"),
		metrics: m,
	}
}

// Backend returns "pubhtml".
func (s *PubHTMLSource) Backend() string { return "pubhtml" }

// FetchAll fetches the published page and scrapes the sheet table.
func (s *PubHTMLSource) FetchAll(ctx context.Context) ([]Record, error) {
	url := fmt.Sprintf("%s/spreadsheets/d/%s/pubhtml?gid=%s&single=true", s.baseURL, s.sheetID, s.gid)

	start := time.Now()
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		s.metrics.RecordArchiveFetch(s.Backend(), "error", time.Since(start), 0)
		return nil, wrapArchiveErr(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		s.metrics.RecordArchiveFetch(s.Backend(), "error", time.Since(start), 0)
		return nil, domerrors.NewArchiveError(url, 0, fmt.Errorf("parse html: %w", err))
	}

	records, err := scrapeTable(doc)
	if err != nil {
		s.metrics.RecordArchiveFetch(s.Backend(), "error", time.Since(start), 0)
		return nil, domerrors.NewArchiveError(url, 0, err)
	}

	s.metrics.RecordArchiveFetch(s.Backend(), "success", time.Since(start), len(records))
	s.logger.WithField("records", len(records)).Debug("Archive fetched")
	return records, nil
}

// scrapeTable converts the published sheet table into records. The first
// non-empty row is the header row. Row-number <th> cells are skipped.
func scrapeTable(doc *goquery.Document) ([]Record, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table in published page")
	}

	var headers []string
	var records []Record
	idx := columns{title: -1, preacher: -1, date: -1, link: -1}

	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := rowCells(row)
		if len(cells) == 0 {
			return true
		}

		if headers == nil {
			if allEmpty(cells) {
				return true
			}
			headers = cells
			idx = columnIndex(headers)
			return true
		}

		rec := Record{
			Title:    valueAt(cells, idx.title),
			Preacher: valueAt(cells, idx.preacher),
			Date:     valueAt(cells, idx.date),
			Link:     valueAt(cells, idx.link),
		}
		if rec.Title == "" && rec.Preacher == "" && rec.Link == "" {
			return true
		}
		records = append(records, rec)
		return true
	})

	if headers == nil {
		return nil, fmt.Errorf("published page has no header row")
	}
	if idx.title < 0 || idx.link < 0 {
		return nil, fmt.Errorf("published page is missing required columns (have %v)", headers)
	}

	return records, nil
}

// rowCells extracts the data cells of a row. Hyperlinked cells yield the
// link target rather than the anchor text, so download links survive the
// sheet's display formatting.
func rowCells(row *goquery.Selection) []string {
	var cells []string
	row.Find("td").Each(func(_ int, td *goquery.Selection) {
		if href, ok := td.Find("a").First().Attr("href"); ok && href != "" {
			cells = append(cells, strings.TrimSpace(href))
			return
		}
		cells = append(cells, strings.TrimSpace(td.Text()))
	})
	return cells
}

func valueAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
