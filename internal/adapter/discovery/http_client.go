package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/core/domain"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/internal/util"
	"github.com/thushan/olla-explorer/internal/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultMaxIdleConnections        = 32
	DefaultMaxIdleConnectionsPerHost = 4
	DefaultIdleConnTimeout           = 60 * time.Second

	formatTags = "ollama_tags"
	formatShow = "ollama_show"
)

type showRequest struct {
	Model string `json:"model"`
}

// HTTPInventoryClient implements InventoryClient against Ollama's HTTP API
type HTTPInventoryClient struct {
	httpClient *http.Client
	logger     logger.StyledLogger
	metrics    *clientMetrics
	userAgent  string
	config     Config
}

func NewHTTPInventoryClient(cfg Config, log logger.StyledLogger) *HTTPInventoryClient {
	return NewHTTPInventoryClientWithTransport(cfg, &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        DefaultMaxIdleConnections,
		MaxIdleConnsPerHost: DefaultMaxIdleConnectionsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}, log)
}

// NewHTTPInventoryClientWithTransport is mostly for tests. There's no client
// level timeout, every attempt carries its own deadline instead.
func NewHTTPInventoryClientWithTransport(cfg Config, transport http.RoundTripper, log logger.StyledLogger) *HTTPInventoryClient {
	return &HTTPInventoryClient{
		httpClient: &http.Client{Transport: transport},
		logger:     log,
		metrics:    newClientMetrics(),
		userAgent:  version.UserAgent(),
		config:     cfg.withDefaults(),
	}
}

func (c *HTTPInventoryClient) ListModels(ctx context.Context, baseURL string) ([]domain.ModelSummary, error) {
	start := time.Now()
	body, status, err := c.call(ctx, baseURL, OpListModels, http.MethodGet, constants.PathOllamaTags, nil)
	if err != nil {
		return nil, err
	}

	summaries, err := parseTags(body)
	if err != nil {
		return nil, NewInventoryError(baseURL, OpListModels, status, time.Since(start), &ParseError{Format: formatTags, Err: err})
	}
	return summaries, nil
}

// parseTags reads GET /api/tags field by field. Servers in the wild send
// float sizes, odd name types and half-filled entries, one bad entry must
// not cost us the rest of the listing. Only a body that isn't an object, or
// a models value that isn't an array, fails the server.
func parseTags(body []byte) ([]domain.ModelSummary, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, errors.New("expected a JSON object")
	}

	models := root.Get("models")
	if !models.Exists() || models.Type == gjson.Null {
		return []domain.ModelSummary{}, nil
	}
	if !models.IsArray() {
		return nil, errors.New("models is not an array")
	}

	entries := models.Array()
	summaries := make([]domain.ModelSummary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsObject() {
			continue
		}
		summaries = append(summaries, domain.ModelSummary{
			Name:       scalarText(entry.Get("name")),
			Size:       wholeBytes(entry.Get("size")),
			Digest:     stringOnly(entry.Get("digest")),
			ModifiedAt: stringOnly(entry.Get("modified_at")),
		})
	}
	return summaries, nil
}

// scalarText renders strings, numbers and booleans as text, anything else
// is treated as absent
func scalarText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number, gjson.True, gjson.False:
		return v.Raw
	}
	return ""
}

func stringOnly(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return ""
}

// wholeBytes accepts integer and float sizes (1.5e9), a fraction is dropped.
// Negative or non-numeric sizes count as 0.
func wholeBytes(v gjson.Result) int64 {
	if v.Type != gjson.Number || v.Num <= 0 {
		return 0
	}
	if n := v.Int(); float64(n) == v.Num {
		return n
	}
	if v.Num >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v.Num)
}

func (c *HTTPInventoryClient) DescribeModel(ctx context.Context, baseURL, name string) ([]byte, error) {
	start := time.Now()
	payload, err := json.Marshal(showRequest{Model: name})
	if err != nil {
		return nil, NewInventoryError(baseURL, OpDescribeModel, 0, 0, err)
	}

	body, status, err := c.call(ctx, baseURL, OpDescribeModel, http.MethodPost, constants.PathOllamaShow, payload)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		parseErr := &ParseError{Format: formatShow, Err: errors.New("expected a JSON object")}
		return nil, NewInventoryError(baseURL, OpDescribeModel, status, time.Since(start), parseErr)
	}
	return body, nil
}

// GetMetrics returns a copy of the request counters
func (c *HTTPInventoryClient) GetMetrics() InventoryMetrics {
	return c.metrics.snapshot()
}

// call runs a request with the configured retries. Only recoverable errors
// are retried and the caller's context always wins.
func (c *HTTPInventoryClient) call(ctx context.Context, baseURL, operation, method, path string, payload []byte) ([]byte, int, error) {
	target := util.ResolveURLPath(baseURL, path)

	var lastErr error
	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			c.metrics.retries.Inc()
			wait := util.CalculateExponentialBackoff(attempt, c.config.RetryBackoff, c.config.RetryBackoff*maxBackoffFactor, backoffJitter)
			c.logger.Debug("Retrying upstream call",
				"server", baseURL,
				"operation", operation,
				"attempt", attempt,
				"wait", wait)

			select {
			case <-ctx.Done():
				return nil, 0, lastErr
			case <-time.After(wait):
			}
		}

		body, status, err := c.attempt(ctx, baseURL, operation, method, target, payload)
		if err == nil {
			return body, status, nil
		}

		lastErr = err
		c.metrics.recordFailure(baseURL)
		if !IsRecoverable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, 0, lastErr
}

func (c *HTTPInventoryClient) attempt(ctx context.Context, baseURL, operation, method, target string, payload []byte) ([]byte, int, error) {
	start := time.Now()

	attemptCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, target, reqBody)
	if err != nil {
		return nil, 0, NewInventoryError(baseURL, operation, 0, time.Since(start), err)
	}
	req.Header.Set(constants.UserAgentHeader, c.userAgent)
	req.Header.Set(constants.AcceptHeader, constants.ContentTypeJSON)
	if payload != nil {
		req.Header.Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, NewInventoryError(baseURL, operation, 0, time.Since(start), &NetworkError{URL: target, Err: err})
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		// drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		return nil, resp.StatusCode, NewInventoryError(baseURL, operation, resp.StatusCode, time.Since(start), statusErr)
	}

	// read one byte past the cap so oversized bodies are caught rather than truncated
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize+1))
	if err != nil {
		return nil, resp.StatusCode, NewInventoryError(baseURL, operation, resp.StatusCode, time.Since(start), &NetworkError{URL: target, Err: err})
	}
	if int64(len(body)) > c.config.MaxResponseSize {
		tooLarge := fmt.Errorf("response exceeds %d bytes", c.config.MaxResponseSize)
		return nil, resp.StatusCode, NewInventoryError(baseURL, operation, resp.StatusCode, time.Since(start), &ParseError{Format: operation, Err: tooLarge})
	}

	c.metrics.recordSuccess(time.Since(start))
	return body, resp.StatusCode, nil
}
