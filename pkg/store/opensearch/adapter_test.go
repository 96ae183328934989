package opensearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nimburion/querykit/pkg/observability/logger"
)

func TestCollectAddresses(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    int
		wantErr bool
	}{
		{"single url", Config{URL: "http://localhost:9200"}, 1, false},
		{"url list", Config{URLs: []string{"http://a:9200", "http://b:9200"}}, 2, false},
		{"url plus list", Config{URL: "http://a:9200", URLs: []string{"http://b:9200"}}, 2, false},
		{"trims whitespace", Config{URL: "  http://a:9200  "}, 1, false},
		{"blank entries skipped", Config{URLs: []string{"", "  "}}, 0, true},
		{"missing url", Config{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addresses, err := collectAddresses(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("collectAddresses returned error: %v", err)
			}
			if len(addresses) != tt.want {
				t.Errorf("len(addresses) = %d, want %d", len(addresses), tt.want)
			}
		})
	}
}

func newTestAdapter(t *testing.T, handler http.Handler) (*Adapter, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewAdapter(Config{URL: server.URL}, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("NewAdapter returned error: %v", err)
	}
	return adapter, server
}

func TestAdapterSearch(t *testing.T) {
	var capturedPath string
	var capturedBody map[string]interface{}

	adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			w.Write([]byte(`{"version":{"number":"2.11.0"}}`))
			return
		}
		capturedPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&capturedBody)
		w.Write([]byte(`{"hits":{"total":{"value":1},"hits":[{"_source":{"id":1}}]}}`))
	}))

	raw, err := adapter.Search(context.Background(), "tasks", map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if capturedPath != "/tasks/_search" {
		t.Errorf("path = %q, want /tasks/_search", capturedPath)
	}
	if capturedBody["query"] == nil {
		t.Errorf("body = %#v, missing query", capturedBody)
	}

	var resp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Hits.Total.Value != 1 {
		t.Errorf("total = %d, want 1", resp.Hits.Total.Value)
	}
}

func TestAdapterSearchFailureStatus(t *testing.T) {
	adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"parsing_exception"}`))
	}))

	if _, err := adapter.Search(context.Background(), "tasks", map[string]interface{}{}); err == nil {
		t.Error("expected an error for a failed search")
	}
}

func TestAdapterDeleteMissingDocument(t *testing.T) {
	adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"result":"not_found"}`))
	}))

	if err := adapter.DeleteDocument(context.Background(), "tasks", "missing"); err != nil {
		t.Errorf("deleting a missing document must not fail: %v", err)
	}
}

func TestAdapterHealthCheck(t *testing.T) {
	adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"green"}`))
	}))

	if err := adapter.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck returned error: %v", err)
	}
}
