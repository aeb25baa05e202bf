package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yungbote/postpilot-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(testLogger(t), Config{}); err == nil {
		t.Fatalf("expected error without an API key")
	}
	if _, err := New(nil, Config{APIKey: "k"}); err == nil {
		t.Fatalf("expected error without a logger")
	}
	if _, err := New(testLogger(t), Config{APIKey: "k"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDescribeIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Api-Key") != "test-key" {
			t.Errorf("missing Api-Key header")
		}
		if r.Header.Get("X-Pinecone-Api-Version") == "" {
			t.Errorf("missing api version header")
		}
		if !strings.HasSuffix(r.URL.Path, "/indexes/briefs") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(IndexDescription{Name: "briefs", Host: "briefs.example.io", Dimension: 1536})
	}))
	defer srv.Close()

	pc, err := New(testLogger(t), Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	desc, err := pc.DescribeIndex(context.Background(), "briefs")
	if err != nil {
		t.Fatalf("describe index: %v", err)
	}
	if desc.Host != "briefs.example.io" || desc.Dimension != 1536 {
		t.Fatalf("unexpected description %+v", desc)
	}

	if _, err := pc.DescribeIndex(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty index name")
	}
}

func TestQueryValidatesInput(t *testing.T) {
	pc, err := New(testLogger(t), Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := pc.Query(context.Background(), "", QueryRequest{Vector: []float32{1}}); err == nil {
		t.Fatalf("expected error for empty host")
	}
	if _, err := pc.Query(context.Background(), "host.example.io", QueryRequest{}); err == nil {
		t.Fatalf("expected error for empty vector")
	}
}

func TestQualifyNamespace(t *testing.T) {
	s := &vectorStore{nsPrefix: "pp"}
	if got := s.qualifyNamespace(""); got != "pp" {
		t.Fatalf("expected bare prefix, got %s", got)
	}
	if got := s.qualifyNamespace("user-123"); got != "pp:user-123" {
		t.Fatalf("expected qualified namespace, got %s", got)
	}
}
