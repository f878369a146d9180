package archive

import (
	"fmt"

	"github.com/clcdev/sermon-linebot-go/internal/logger"
	"github.com/clcdev/sermon-linebot-go/internal/metrics"
)

// NewSource builds the configured archive backend, wrapped with in-flight
// deduplication.
func NewSource(backend string, client *Client, sheetID, gid string, log *logger.Logger, m *metrics.Metrics) (Source, error) {
	switch backend {
	case "gviz":
		return NewDedupSource(NewGvizSource(client, sheetID, gid, log, m)), nil
	case "pubhtml":
		return NewDedupSource(NewPubHTMLSource(client, sheetID, gid, log, m)), nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", backend)
	}
}
