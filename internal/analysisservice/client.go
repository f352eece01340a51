package analysisservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrAnalyzerUnavailable is returned when the analysis service does not
// respond within the request timeout, per SPEC_FULL.md §7.
var ErrAnalyzerUnavailable = errors.New("analysisservice: analyzer unavailable")

// Client talks to a Server over the HTTP loopback wire protocol of §6.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client against baseURL (e.g. "http://127.0.0.1:8787").
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// Health performs the /health readiness probe.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IndexBatch calls /index/batch, retrying once with a halved batch on
// timeout and aborting (returning ErrAnalyzerUnavailable) on a second
// failure, per §5's timeout policy.
func (c *Client) IndexBatch(ctx context.Context, classFiles []string) ([]IndexResult, error) {
	resp, err := c.indexBatchOnce(ctx, classFiles)
	if err == nil {
		return resp.Results, nil
	}
	if !errors.Is(err, ErrAnalyzerUnavailable) || len(classFiles) <= 1 {
		return nil, err
	}

	mid := len(classFiles) / 2
	var results []IndexResult
	for _, half := range [][]string{classFiles[:mid], classFiles[mid:]} {
		r, err := c.indexBatchOnce(ctx, half)
		if err != nil {
			return nil, fmt.Errorf("%w: retry with halved batch: %v", ErrAnalyzerUnavailable, err)
		}
		results = append(results, r.Results...)
	}
	return results, nil
}

func (c *Client) indexBatchOnce(ctx context.Context, classFiles []string) (*IndexBatchResponse, error) {
	var resp IndexBatchResponse
	req := IndexRequest{ClassFiles: classFiles}
	if err := c.post(ctx, "/index/batch", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analyze calls /analyze, applying the same retry-once-halved policy on
// timeout as IndexBatch.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) ([]AnalyzedClass, error) {
	resp, err := c.analyzeOnce(ctx, req)
	if err == nil {
		return resp.Classes, nil
	}
	if !errors.Is(err, ErrAnalyzerUnavailable) || len(req.ClassFiles) <= 1 {
		return nil, err
	}

	mid := len(req.ClassFiles) / 2
	var classes []AnalyzedClass
	for _, half := range [][]string{req.ClassFiles[:mid], req.ClassFiles[mid:]} {
		halfReq := req
		halfReq.ClassFiles = half
		r, err := c.analyzeOnce(ctx, halfReq)
		if err != nil {
			return nil, fmt.Errorf("%w: retry with halved batch: %v", ErrAnalyzerUnavailable, err)
		}
		classes = append(classes, r.Classes...)
	}
	return classes, nil
}

func (c *Client) analyzeOnce(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	var resp AnalyzeResponse
	if err := c.post(ctx, "/analyze", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Shutdown calls /shutdown.
func (c *Client) Shutdown(ctx context.Context) error {
	var resp ShutdownResponse
	return c.post(ctx, "/shutdown", struct{}{}, &resp)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(httpReq, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())
	return c.do(httpReq, out)
}

func (c *Client) do(httpReq *http.Request, out any) error {
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAnalyzerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		var envelope ErrorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return fmt.Errorf("analyzer internal error: %s", envelope.Error)
	}
	if resp.StatusCode >= 400 {
		var envelope ErrorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return fmt.Errorf("analyzer rejected request: %s", envelope.Error)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
