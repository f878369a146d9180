package archive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domerrors "github.com/clcdev/sermon-linebot-go/internal/errors"
	"github.com/clcdev/sermon-linebot-go/internal/logger"
)

const gvizBody = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","reqId":"0","status":"ok","table":{
"cols":[{"id":"A","label":"Message Title","type":"string"},{"id":"B","label":"Preacher","type":"string"},{"id":"C","label":"Date","type":"date"},{"id":"D","label":"Download Link","type":"string"}],
"rows":[
{"c":[{"v":"The Sage of Grace"},{"v":"J. Smith"},{"v":"Date(2023,0,15)","f":"15-01-2023"},{"v":"https://example.org/a.mp3"}]},
{"c":[{"v":"Walking in Faith"},{"v":"M. Jones"},{"v":"Date(2024,5,2)","f":"02-06-2024"},{"v":"https://example.org/b.mp3"}]},
{"c":[{"v":""},{"v":""},null,{"v":""}]}
]}});`

const gvizNoLabelsBody = `google.visualization.Query.setResponse({"version":"0.6","status":"ok","table":{
"cols":[{"id":"A","label":"","type":"string"},{"id":"B","label":"","type":"string"},{"id":"C","label":"","type":"string"},{"id":"D","label":"","type":"string"}],
"rows":[
{"c":[{"v":"Message Title"},{"v":"Preacher"},{"v":"Date"},{"v":"Download Link"}]},
{"c":[{"v":"Hope Restored"},{"v":"A. Brown"},{"v":"03-03-2022"},{"v":"https://example.org/c.mp3"}]}
]}});`

const pubHTMLBody = `<html><body><table class="waffle">
<tr><td>Message Title</td><td>Preacher</td><td>Date</td><td>Download Link</td></tr>
<tr><td>The Sage of Grace</td><td>J. Smith</td><td>15-01-2023</td><td><a href="https://example.org/a.mp3">audio</a></td></tr>
<tr><td>Walking in Faith</td><td>M. Jones</td><td>02-06-2024</td><td>https://example.org/b.mp3</td></tr>
</table></body></html>`

func testLogger() *logger.Logger {
	return logger.NewWithWriter("error", io.Discard, logger.Options{})
}

func TestGvizSourceFetchAll(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tqx") != "out:json" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(gvizBody))
	}))
	defer srv.Close()

	src := NewGvizSource(NewClient(5*time.Second, 0), "sheet1", "0", testLogger(), nil)
	src.baseURL = srv.URL

	records, err := src.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (blank row dropped)", len(records))
	}
	want := Record{
		Title:    "The Sage of Grace",
		Preacher: "J. Smith",
		Date:     "15-01-2023",
		Link:     "https://example.org/a.mp3",
	}
	if records[0] != want {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}
}

func TestParseGvizHeaderInFirstRow(t *testing.T) {
	t.Parallel()
	records, err := parseGviz([]byte(gvizNoLabelsBody))
	if err != nil {
		t.Fatalf("parseGviz() error = %v", err)
	}
	if len(records) != 1 || records[0].Title != "Hope Restored" {
		t.Errorf("records = %+v, want single Hope Restored row", records)
	}
}

func TestParseGvizErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		body string
	}{
		{"not a callback", `<html>sign in</html>`},
		{"bad status", `setResponse({"status":"error","table":{}})`},
		{"missing columns", `setResponse({"status":"ok","table":{"cols":[{"label":"Other"}],"rows":[]}})`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := parseGviz([]byte(tc.body)); err == nil {
				t.Error("parseGviz() error = nil, want error")
			}
		})
	}
}

func TestPubHTMLSourceFetchAll(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(pubHTMLBody))
	}))
	defer srv.Close()

	src := NewPubHTMLSource(NewClient(5*time.Second, 0), "sheet1", "0", testLogger(), nil)
	src.baseURL = srv.URL

	records, err := src.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Link != "https://example.org/a.mp3" {
		t.Errorf("Link = %q, want anchor href", records[0].Link)
	}
	if records[1].Link != "https://example.org/b.mp3" {
		t.Errorf("Link = %q, want plain-text cell", records[1].Link)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 3)
	client.initialDelay = time.Millisecond
	client.maxDelay = 2 * time.Millisecond
	resp, err := client.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 3)
	_, err := client.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Get() error = nil, want archive error")
	}
	if !errors.Is(err, domerrors.ErrArchiveUnavailable) {
		t.Errorf("error %v does not match ErrArchiveUnavailable", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 404)", got)
	}
}

func TestDedupSourceCollapsesConcurrentFetches(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	release := make(chan struct{})
	src := NewDedupSource(&stubSource{fetch: func(context.Context) ([]Record, error) {
		calls.Add(1)
		<-release
		return []Record{{Title: "x"}}, nil
	}})

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := src.FetchAll(context.Background())
			if err != nil || len(records) != 1 {
				t.Errorf("FetchAll() = %v, %v", records, err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("inner fetches = %d, want 1", got)
	}
}

type stubSource struct {
	fetch func(context.Context) ([]Record, error)
}

func (s *stubSource) FetchAll(ctx context.Context) ([]Record, error) { return s.fetch(ctx) }
func (s *stubSource) Backend() string                                { return "stub" }
