package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	domerrors "github.com/clcdev/sermon-linebot-go/internal/errors"
	"github.com/clcdev/sermon-linebot-go/internal/logger"
	"github.com/clcdev/sermon-linebot-go/internal/metrics"
)

// GvizSource reads the archive through the Sheets gviz endpoint, which
// serves the sheet as JSON wrapped in a JS callback. This is the closest
// anonymous-read equivalent of the Sheets API and needs no credentials as
// long as the sheet is link-readable.
type GvizSource struct {
	client  *Client
	baseURL string
	sheetID string
	gid     string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewGvizSource creates a gviz-backed archive source.
func NewGvizSource(client *Client, sheetID, gid string, log *logger.Logger, m *metrics.Metrics) *GvizSource {
	return &GvizSource{
		client:  client,
		baseURL: defaultBaseURL,
		sheetID: sheetID,
		gid:     gid,
		logger:  log.WithModule("archive"),
		metrics: m,
	}
}

// Backend returns "gviz".
func (s *GvizSource) Backend() string { return "gviz" }

// FetchAll fetches and decodes the full sheet.
func (s *GvizSource) FetchAll(ctx context.Context) ([]Record, error) {
	url := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:json&gid=%s", s.baseURL, s.sheetID, s.gid)

	start := time.Now()
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		s.metrics.RecordArchiveFetch(s.Backend(), "error", time.Since(start), 0)
		return nil, wrapArchiveErr(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		s.metrics.RecordArchiveFetch(s.Backend(), "error", time.Since(start), 0)
		return nil, domerrors.NewArchiveError(url, 0, fmt.Errorf("read body: %w", err))
	}

	records, err := parseGviz(body)
	if err != nil {
		s.metrics.RecordArchiveFetch(s.Backend(), "error", time.Since(start), 0)
		return nil, domerrors.NewArchiveError(url, 0, err)
	}

	s.metrics.RecordArchiveFetch(s.Backend(), "success", time.Since(start), len(records))
	s.logger.WithField("records", len(records)).Debug("Archive fetched")
	return records, nil
}

type gvizCell struct {
	V any    `json:"v"`
	F string `json:"f"`
}

type gvizTable struct {
	Cols []struct {
		Label string `json:"label"`
	} `json:"cols"`
	Rows []struct {
		C []*gvizCell `json:"c"`
	} `json:"rows"`
}

type gvizResponse struct {
	Status string    `json:"status"`
	Table  gvizTable `json:"table"`
}

// parseGviz unwraps the setResponse callback and converts the table into
// records. Sheets without a declared header row surface their headers as the
// first data row with empty column labels; both shapes are handled.
func parseGviz(body []byte) ([]Record, error) {
	payload := string(body)
	open := strings.Index(payload, "(")
	closing := strings.LastIndex(payload, ")")
	if open < 0 || closing <= open {
		return nil, fmt.Errorf("response is not a gviz callback")
	}

	var decoded gvizResponse
	if err := json.Unmarshal([]byte(payload[open+1:closing]), &decoded); err != nil {
		return nil, fmt.Errorf("decode gviz payload: %w", err)
	}
	if decoded.Status != "ok" {
		return nil, fmt.Errorf("gviz status %q", decoded.Status)
	}

	headers := make([]string, len(decoded.Table.Cols))
	hasLabels := false
	for i, col := range decoded.Table.Cols {
		headers[i] = strings.TrimSpace(col.Label)
		if headers[i] != "" {
			hasLabels = true
		}
	}

	rows := decoded.Table.Rows
	if !hasLabels && len(rows) > 0 {
		for i, cell := range rows[0].C {
			if i < len(headers) {
				headers[i] = strings.TrimSpace(cellText(cell))
			}
		}
		rows = rows[1:]
	}

	idx := columnIndex(headers)
	if idx.title < 0 || idx.link < 0 {
		return nil, fmt.Errorf("sheet is missing required columns (have %v)", headers)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := Record{
			Title:    cellAt(row.C, idx.title),
			Preacher: cellAt(row.C, idx.preacher),
			Date:     cellAt(row.C, idx.date),
			Link:     cellAt(row.C, idx.link),
		}
		if rec.Title == "" && rec.Preacher == "" && rec.Link == "" {
			continue // blank sheet row
		}
		records = append(records, rec)
	}

	return records, nil
}

type columns struct {
	title, preacher, date, link int
}

// columnIndex maps sheet headers to record fields, case-insensitively.
func columnIndex(headers []string) columns {
	idx := columns{title: -1, preacher: -1, date: -1, link: -1}
	for i, h := range headers {
		switch {
		case strings.EqualFold(h, ColumnTitle):
			idx.title = i
		case strings.EqualFold(h, ColumnPreacher):
			idx.preacher = i
		case strings.EqualFold(h, ColumnDate):
			idx.date = i
		case strings.EqualFold(h, ColumnLink):
			idx.link = i
		}
	}
	return idx
}

func cellAt(cells []*gvizCell, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cellText(cells[i]))
}

// cellText prefers the formatted value: for date cells V is the opaque
// "Date(y,m,d)" constructor while F carries the text as typed in the sheet.
func cellText(c *gvizCell) string {
	if c == nil {
		return ""
	}
	if c.F != "" {
		return c.F
	}
	switch v := c.V.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// wrapArchiveErr ensures client errors carry the archive error class.
func wrapArchiveErr(url string, err error) error {
	var archErr *domerrors.ArchiveError
	if errors.As(err, &archErr) {
		return err
	}
	return domerrors.NewArchiveError(url, 0, err)
}
