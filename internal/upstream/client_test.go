package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDoAddsServiceHeaders(t *testing.T) {
	var gotHeaders http.Header
	var gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := New(ts.URL, "secret-key", 5*time.Second)
	resp, err := c.Do(context.Background(), http.MethodPost, "/api/rag", strings.NewReader(`{"query":"q"}`), "alice@example.com")
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	resp.Body.Close()

	if got := gotHeaders.Get(APIKeyHeader); got != "secret-key" {
		t.Errorf("X-API-Key = %q, want secret-key", got)
	}
	if got := gotHeaders.Get(UserEmailHeader); got != "alice@example.com" {
		t.Errorf("X-User-Email = %q", got)
	}
	if got := gotHeaders.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if gotBody != `{"query":"q"}` {
		t.Errorf("body = %q, want caller body verbatim", gotBody)
	}
}

func TestStreamCancellationStopsRead(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-release
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	c := New(ts.URL, "k", time.Second)
	resp, err := c.Stream(ctx, http.MethodPost, "/api/rag", nil, "alice@example.com")
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	defer resp.Body.Close()

	cancel()
	buf := make([]byte, 1)
	if _, err := resp.Body.Read(buf); err == nil {
		t.Error("Read() after cancel error = nil, want context error")
	}
}
