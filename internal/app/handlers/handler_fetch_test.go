package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/core/domain"
)

func TestParseFetchRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []string
		err      error
	}{
		{"empty body", "", nil, domain.ErrInvalidPayload},
		{"not json", "servers=a", nil, domain.ErrInvalidPayload},
		{"array body", `["http://a"]`, nil, domain.ErrInvalidPayload},
		{"string body", `"http://a"`, nil, domain.ErrInvalidPayload},
		{"empty object", `{}`, nil, domain.ErrInvalidPayload},
		{"servers missing", `{"other":1}`, nil, domain.ErrNoServers},
		{"servers null", `{"servers":null}`, nil, domain.ErrNoServers},
		{"servers empty list", `{"servers":[]}`, nil, domain.ErrNoServers},
		{"servers false", `{"servers":false}`, nil, domain.ErrNoServers},
		{"servers empty string", `{"servers":""}`, nil, domain.ErrNoServers},
		{"servers is a string", `{"servers":"http://a"}`, nil, domain.ErrNoValidServers},
		{"servers is a number", `{"servers":5}`, nil, domain.ErrNoValidServers},
		{"only blanks", `{"servers":["", "  ", "/"]}`, nil, domain.ErrNoValidServers},
		{"only non strings", `{"servers":[1, null, {"url":"a"}]}`, nil, domain.ErrNoValidServers},
		{
			name:     "non strings skipped",
			body:     `{"servers":[42, "gpu-box:11434", true]}`,
			expected: []string{"http://gpu-box:11434"},
		},
		{
			name:     "normalised and deduplicated",
			body:     `{"servers":["localhost:11434", "http://localhost:11434/", " https://remote "]}`,
			expected: []string{"http://localhost:11434", "https://remote"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			servers, err := parseFetchRequest([]byte(tt.body))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, servers)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, servers)
		})
	}
}

func TestIsFalsy(t *testing.T) {
	tests := []struct {
		json     string
		expected bool
	}{
		{`null`, true},
		{`false`, true},
		{`0`, true},
		{`""`, true},
		{`[]`, true},
		{`{}`, true},
		{`true`, false},
		{`1`, false},
		{`"x"`, false},
		{`[0]`, false},
		{`{"a":1}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			assert.Equal(t, tt.expected, isFalsy(gjson.Parse(tt.json)))
		})
	}
}

func TestAnyLoopback(t *testing.T) {
	assert.True(t, anyLoopback([]string{"http://remote:11434", "http://localhost:11434"}))
	assert.True(t, anyLoopback([]string{"http://127.0.0.1:11434"}))
	assert.True(t, anyLoopback([]string{"http://[::1]:11434"}))
	assert.False(t, anyLoopback([]string{"http://192.168.1.20:11434", "https://ollama.internal"}))
	assert.False(t, anyLoopback(nil))
}

func TestFetchHandler_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"invalid json", `{"servers":`, http.StatusBadRequest, "Invalid JSON payload"},
		{"empty object", `{}`, http.StatusBadRequest, "Invalid JSON payload"},
		{"no servers", `{"servers":[]}`, http.StatusBadRequest, "No servers provided"},
		{"nothing usable", `{"servers":["  ", 7]}`, http.StatusBadRequest, "No valid servers provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(testConfig(), nil)

			req := httptest.NewRequest(http.MethodPost, constants.PathFetch, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			ta.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Header().Get(constants.ContentTypeHeader), constants.ContentTypeJSON)
			assert.JSONEq(t, `{"error":"`+tt.message+`"}`, rec.Body.String())
			assert.Zero(t, ta.aggregator.callCount())
		})
	}
}

func TestFetchHandler_Success(t *testing.T) {
	ctx := int64(4096)
	result := domain.NewAggregateResult()
	result.Models = append(result.Models, &domain.ModelRecord{
		Name:          "llama2:latest",
		Server:        "http://gpu-box:11434",
		Size:          3826793472,
		SizeFormatted: "3.6 GB",
		ModifiedAt:    "2024-01-15T10:30:00Z",
		Family:        "llama",
		Capabilities:  []string{"completion"},
		ContextLength: &ctx,
	})
	result.Capabilities = []string{"completion"}
	result.Families = []string{"llama"}
	result.ServerResults = append(result.ServerResults,
		domain.ServerOutcome{Server: "http://gpu-box:11434", Success: true, ModelCount: 1},
		domain.ServerOutcome{Server: "http://dead:11434", Error: "Connection failed: refused"},
	)

	ta := newTestApp(testConfig(), result)

	body := `{"servers":["gpu-box:11434", "http://gpu-box:11434/", "dead:11434", 12]}`
	req := httptest.NewRequest(http.MethodPost, constants.PathFetch, strings.NewReader(body))
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"http://gpu-box:11434", "http://dead:11434"}, ta.aggregator.lastCall())

	var decoded domain.AggregateResult
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded.Models, 1)
	assert.Equal(t, "llama2:latest", decoded.Models[0].Name)
	assert.Equal(t, []string{"llama"}, decoded.Families)
	assert.Len(t, decoded.ServerResults, 2)
	assert.Equal(t, 1, decoded.FailedServers())
}

func TestFetchHandler_EmptyResultKeepsArrays(t *testing.T) {
	ta := newTestApp(testConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, constants.PathFetch, strings.NewReader(`{"servers":["a"]}`))
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"models":[],"capabilities":[],"families":[],"server_results":[]}`, rec.Body.String())
}

func TestFetchHandler_MethodNotAllowed(t *testing.T) {
	ta := newTestApp(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, constants.PathFetch, nil)
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	assert.Zero(t, ta.aggregator.callCount())
}

func TestFetchHandler_BodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RequestLimits.MaxBodySize = 32

	ta := newTestApp(cfg, nil)

	body := `{"servers":["` + strings.Repeat("a", 64) + `"]}`
	req := httptest.NewRequest(http.MethodPost, constants.PathFetch, strings.NewReader(body))
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, ta.aggregator.callCount())
	assert.Equal(t, int64(1), ta.collector.GetSecurityStats().SizeLimitViolations)
}

func TestFetchHandler_BodyTooLargeWithoutContentLength(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RequestLimits.MaxBodySize = 32

	ta := newTestApp(cfg, nil)

	body := `{"servers":["` + strings.Repeat("a", 64) + `"]}`
	req := httptest.NewRequest(http.MethodPost, constants.PathFetch, strings.NewReader(body))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"error":"Request body too large"}`, rec.Body.String())
}

func TestFetchHandler_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimits.PerIPRequestsPerMinute = 1
	cfg.Server.RateLimits.BurstSize = 1

	ta := newTestApp(cfg, nil)
	defer ta.app.securityAdapters.Stop()

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, constants.PathFetch, strings.NewReader(`{"servers":["a"]}`))
		rec := httptest.NewRecorder()
		ta.handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send().Code)

	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, ta.aggregator.callCount())
	assert.Equal(t, int64(1), ta.collector.GetSecurityStats().RateLimitViolations)
}
