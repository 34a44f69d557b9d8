package infra

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDebugServer_Metrics(t *testing.T) {
	m := NewMetrics("test")
	m.RecordTick(3, time.Millisecond)

	srv := httptest.NewServer(NewDebugServer("localhost:0", m).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "test_feed_updates_emitted_total 3") {
		t.Errorf("Expected emitted counter in output, got:\n%s", body)
	}
}

func TestDebugServer_WithoutMetrics(t *testing.T) {
	srv := httptest.NewServer(NewDebugServer("localhost:0", nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 without metrics, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected healthz 200, got %d", resp.StatusCode)
	}
}
