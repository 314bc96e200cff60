package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/infomedia-harvester/internal/config"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/publishers"
)

// infomediaStub serves one search page and echoes fetched ids as articles.
func infomediaStub(t *testing.T, ids ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/oauth/token":
			_, _ = io.WriteString(w, `{"access_token":"tok","expires_in":3600}`)
		case "/api/v1/article/search":
			arts := make([]map[string]string, 0, len(ids))
			for _, id := range ids {
				arts = append(arts, map[string]string{"ArticleId": id})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"Articles": arts, "NumFound": len(ids)})
		case "/api/v1/article/fetch":
			var requested []string
			_ = json.NewDecoder(r.Body).Decode(&requested)
			arts := make([]map[string]any, 0, len(requested))
			for _, id := range requested {
				arts = append(arts, map[string]any{
					"ArticleId":   id,
					"Heading":     "<p>Heading " + id + "</p>",
					"Source":      "Politiken",
					"PublishDate": "2019-01-13T06:00:00Z",
				})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"Articles": arts})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type sink struct {
	mu     sync.Mutex
	events []publishers.Event
}

func (s *sink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var evt publishers.Event
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.events = append(s.events, evt)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *sink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func testConfig(t *testing.T, infomediaURL, sinkURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	sourcesFile := filepath.Join(dir, "sources.yaml")
	publishersFile := filepath.Join(dir, "publishers.yaml")
	writeFile(t, sourcesFile, "sources:\n  - id: national\n    codes: [pol, bma]\n  - id: regional\n    codes: [jyp]\n    enabled: false\n")
	writeFile(t, publishersFile, fmt.Sprintf("publishers:\n  - id: sink\n    type: http\n    http:\n      url: %s\n", sinkURL))

	return &config.Config{
		AppName:                 "infomedia-harvester",
		LogLevel:                "debug",
		InfomediaURL:            infomediaURL,
		InfomediaUsername:       "user",
		InfomediaPassword:       "secret",
		InfomediaTimingLogLevel: "debug",
		InfomediaPageSize:       300,
		InfomediaTimeout:        2 * time.Second,
		SourcesFile:             sourcesFile,
		PublishersFile:          publishersFile,
		HarvestInterval:         time.Hour,
		HarvestWindow:           24 * time.Hour,
		HarvestConcurrency:      2,
		StorageType:             "bbolt",
		BBoltPath:               filepath.Join(dir, "harvested.db"),
		StorageTTL:              time.Hour,
		StorageCleanupInterval:  time.Hour,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestHarvesterRunOnceDeliversEachArticleOnce(t *testing.T) {
	api := infomediaStub(t, "e70a7343", "e70a7334")
	out := &sink{}
	sinkSrv := httptest.NewServer(out)
	defer sinkSrv.Close()

	h, err := NewHarvester(context.Background(), testConfig(t, api.URL, sinkSrv.URL), nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}
	defer h.Close()

	results, err := h.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(results) != 1 || results[0].SourceID != "national" || results[0].Published != 2 {
		t.Fatalf("unexpected results %+v", results)
	}
	if out.count() != 2 {
		t.Fatalf("expected 2 events delivered, got %d", out.count())
	}
	if out.events[0].Article.Heading != "Heading e70a7334" {
		t.Fatalf("article not normalised: %+v", out.events[0].Article)
	}

	if _, err := h.RunOnce(context.Background()); err != nil {
		t.Fatalf("second RunOnce: %v", err)
	}
	if out.count() != 2 {
		t.Fatalf("harvested articles must not be republished, got %d events", out.count())
	}
}

func TestHarvesterRunOnceRejectsUnknownSource(t *testing.T) {
	api := infomediaStub(t)
	sinkSrv := httptest.NewServer(&sink{})
	defer sinkSrv.Close()

	h, err := NewHarvester(context.Background(), testConfig(t, api.URL, sinkSrv.URL), nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}
	defer h.Close()

	if _, err := h.RunOnce(context.Background(), "missing"); err == nil {
		t.Fatalf("expected unknown source error")
	}
	if _, err := h.RunOnce(context.Background(), "regional"); err != nil {
		t.Fatalf("explicitly named disabled source should run: %v", err)
	}
}

func TestHarvesterRunStopsOnCancel(t *testing.T) {
	api := infomediaStub(t)
	sinkSrv := httptest.NewServer(&sink{})
	defer sinkSrv.Close()

	h, err := NewHarvester(context.Background(), testConfig(t, api.URL, sinkSrv.URL), nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestNewConnectorRequiresCredentials(t *testing.T) {
	if _, err := NewConnector(&config.Config{InfomediaURL: "http://localhost"}, nil); err == nil {
		t.Fatalf("expected missing credentials error")
	}
}
