// Package testkit provides fixtures and fake upstream servers for tests.
package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Upstream is a fake HTTP source that counts its hits
type Upstream struct {
	*httptest.Server
	hits atomic.Int32
}

// Hits reports how many requests the upstream served
func (u *Upstream) Hits() int { return int(u.hits.Load()) }

// NewUpstream serves body with contentType and status on every path. The
// server is closed when the test ends.
func NewUpstream(t testing.TB, status int, contentType string, body []byte) *Upstream {
	t.Helper()
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(u.Close)
	return u
}

// NewSheetUpstream serves the default synthetic sheet as CSV
func NewSheetUpstream(t testing.TB) *Upstream {
	t.Helper()
	body, err := NewSheetGenerator(DefaultSheetConfig()).CSV()
	if err != nil {
		t.Fatalf("failed to generate sheet: %v", err)
	}
	return NewUpstream(t, http.StatusOK, ContentTypeCSV, body)
}

// FeedBody builds an rss2json response with n posts
func FeedBody(n int) []byte {
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{
			"title":       fmt.Sprintf("Estudo %d", i+1),
			"pubDate":     fmt.Sprintf("2024-01-%02d 09:00:00", i%28+1),
			"link":        fmt.Sprintf("https://livrodosmandamentos.blogspot.com/estudo-%d.html", i+1),
			"author":      "Livro dos Mandamentos",
			"thumbnail":   "",
			"description": fmt.Sprintf("<p>Texto do estudo <b>%d</b>.</p>", i+1),
			"categories":  []string{"Estudos"},
		}
	}
	body, _ := json.Marshal(map[string]any{
		"status": "ok",
		"feed":   map[string]any{"title": "Livro dos Mandamentos"},
		"items":  items,
	})
	return body
}

// NewFeedUpstream serves FeedBody(n) as the proxy would
func NewFeedUpstream(t testing.TB, n int) *Upstream {
	t.Helper()
	return NewUpstream(t, http.StatusOK, "application/json", FeedBody(n))
}
