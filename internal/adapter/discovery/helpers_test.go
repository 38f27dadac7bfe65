package discovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/thushan/olla-explorer/internal/core/domain"
	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
)

const (
	llama2Tags = `{
		"models": [
			{"name": "llama2:latest", "size": 3826793472, "digest": "78e26419b4469263f75331927a00a0284ef6544c1975b826b15abdaef17bb962", "modified_at": "2024-01-15T10:30:00Z"}
		]
	}`

	llama2Show = `{
		"capabilities": ["completion", "tools"],
		"details": {
			"parameter_size": "7B",
			"quantization_level": "Q4_0",
			"family": "llama",
			"format": "gguf",
			"parent_model": ""
		},
		"model_info": {
			"general.architecture": "llama",
			"llama.context_length": 4096
		}
	}`
)

func createTestLogger() logger.StyledLogger {
	return logger.NewPlainStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeOllama serves /api/tags and /api/show from canned bodies, per-model
// show responses can be overridden or failed
type fakeOllama struct {
	server    *httptest.Server
	tags      string
	shows     map[string]string
	showCodes map[string]int
	showDelay time.Duration

	tagsCalls atomic.Int32
	showCalls atomic.Int32

	mu         sync.Mutex
	userAgents []string
}

func newFakeOllama(t *testing.T, tags string, shows map[string]string) *fakeOllama {
	t.Helper()
	f := &fakeOllama{tags: tags, shows: shows, showCodes: map[string]int{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tags", func(w http.ResponseWriter, r *http.Request) {
		f.tagsCalls.Add(1)
		f.recordAgent(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, f.tags)
	})
	mux.HandleFunc("POST /api/show", func(w http.ResponseWriter, r *http.Request) {
		f.showCalls.Add(1)
		f.recordAgent(r)

		var req showRequest
		if err := jsoniter.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if f.showDelay > 0 {
			time.Sleep(f.showDelay)
		}
		if code, ok := f.showCodes[req.Model]; ok {
			http.Error(w, `{"error":"nope"}`, code)
			return
		}
		body, ok := f.shows[req.Model]
		if !ok {
			http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeOllama) URL() string {
	return f.server.URL
}

func (f *fakeOllama) recordAgent(r *http.Request) {
	f.mu.Lock()
	f.userAgents = append(f.userAgents, r.Header.Get("User-Agent"))
	f.mu.Unlock()
}

// closedServerURL returns an address nothing is listening on
func closedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// fakeClient is an in-memory InventoryClient
type fakeClient struct {
	listings  map[string][]domain.ModelSummary
	listErrs  map[string]error
	shows     map[string]string // keyed by server + "|" + model
	showErrs  map[string]error
	listCalls sync.Map // server -> *atomic.Int32
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		listings: map[string][]domain.ModelSummary{},
		listErrs: map[string]error{},
		shows:    map[string]string{},
		showErrs: map[string]error{},
	}
}

func (c *fakeClient) ListModels(_ context.Context, baseURL string) ([]domain.ModelSummary, error) {
	counter, _ := c.listCalls.LoadOrStore(baseURL, &atomic.Int32{})
	counter.(*atomic.Int32).Add(1)

	if err, ok := c.listErrs[baseURL]; ok {
		return nil, err
	}
	listing, ok := c.listings[baseURL]
	if !ok {
		return nil, NewInventoryError(baseURL, OpListModels, 0, 0, &NetworkError{URL: baseURL, Err: errors.New("connection refused")})
	}
	return listing, nil
}

func (c *fakeClient) DescribeModel(_ context.Context, baseURL, name string) ([]byte, error) {
	key := baseURL + "|" + name
	if err, ok := c.showErrs[key]; ok {
		return nil, err
	}
	if body, ok := c.shows[key]; ok {
		return []byte(body), nil
	}
	return []byte(`{}`), nil
}

func (c *fakeClient) listCount(server string) int32 {
	counter, ok := c.listCalls.Load(server)
	if !ok {
		return 0
	}
	return counter.(*atomic.Int32).Load()
}

// recordingStats counts what the pipeline reports
type recordingStats struct {
	runs           atomic.Int32
	serversOK      atomic.Int32
	serversFailed  atomic.Int32
	modelsOK       atomic.Int32
	modelsDegraded atomic.Int32
	lastRunServers atomic.Int32
}

func (s *recordingStats) RecordRun(servers int, _ time.Duration) {
	s.runs.Add(1)
	s.lastRunServers.Store(int32(servers))
}

func (s *recordingStats) RecordServer(_ string, success bool, _ int, _ time.Duration) {
	if success {
		s.serversOK.Add(1)
		return
	}
	s.serversFailed.Add(1)
}

func (s *recordingStats) RecordModel(degraded bool) {
	if degraded {
		s.modelsDegraded.Add(1)
		return
	}
	s.modelsOK.Add(1)
}

func (s *recordingStats) RecordSecurityViolation(ports.SecurityViolation) {}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RequestTimeout = 2 * time.Second
	return cfg
}
