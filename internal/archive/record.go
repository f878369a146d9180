// Package archive provides access to the sermon archive: a Google Sheets
// document holding one row per sermon. Records are fetched cold on every
// search; the package never caches results.
package archive

import "context"

// Sheet column headers. The sheet is maintained by hand, so lookups are
// case-insensitive and whitespace-tolerant.
const (
	ColumnTitle    = "Message Title"
	ColumnPreacher = "Preacher"
	ColumnDate     = "Date"
	ColumnLink     = "Download Link"
)

const defaultBaseURL = "https://docs.google.com"

// Record is one sermon row. Date is kept as the raw sheet text; parsing
// happens at search time because the sheet mixes date formats.
type Record struct {
	Title    string `json:"title"`
	Preacher string `json:"preacher"`
	Date     string `json:"date"`
	Link     string `json:"link"`
}

// Source fetches the full current record set.
// Implementations must treat every call as a cold read.
type Source interface {
	// FetchAll returns all records in sheet order.
	FetchAll(ctx context.Context) ([]Record, error)
	// Backend names the implementation for logging and metrics.
	Backend() string
}
