// Package rest is the HTTP transport for the Firestore REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/firequery/internal/domain"
	"github.com/kailas-cloud/firequery/internal/domain/document"
	"github.com/kailas-cloud/firequery/internal/domain/query"
	"github.com/kailas-cloud/firequery/internal/metrics"
)

const (
	opRunQuery    = "run_query"
	opGetDocument = "get_document"
	opPing        = "ping"

	maxErrorBody    = 64 << 10
	defaultTimeout  = 30 * time.Second
	defaultAgent    = "firequery"
	contentTypeJSON = "application/json"
)

// Config holds transport settings.
type Config struct {
	HTTPClient *http.Client
	Timeout    time.Duration // used only when HTTPClient is nil
	UserAgent  string
	Logger     *zap.Logger
}

// Client performs the two calls the query layer needs. It holds no
// endpoint configuration: callers pass complete URLs.
type Client struct {
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewClient creates a transport client.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{http: hc, userAgent: ua, logger: logger}
}

// RunQuery posts a structured query and returns the raw response entries.
func (c *Client) RunQuery(ctx context.Context, url string, body query.RunQueryBody) ([]document.Entry, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode structured query: %w", err)
	}

	var entries []document.Entry
	if err := c.do(ctx, opRunQuery, http.MethodPost, url, payload, &entries); err != nil {
		return nil, err
	}
	metrics.FirestoreDocumentsTotal.WithLabelValues(opRunQuery).Add(float64(countDocuments(entries)))
	return entries, nil
}

// GetDocument fetches a single document. A 404 answer wraps domain.ErrNotFound.
func (c *Client) GetDocument(ctx context.Context, url string) (*document.Raw, error) {
	var doc document.Raw
	if err := c.do(ctx, opGetDocument, http.MethodGet, url, nil, &doc); err != nil {
		return nil, err
	}
	metrics.FirestoreDocumentsTotal.WithLabelValues(opGetDocument).Inc()
	return &doc, nil
}

// Ping checks that the endpoint answers. Any status below 500 counts as
// reachable: an unauthenticated probe may well be refused.
func (c *Client) Ping(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", opPing, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.FirestoreRequestDuration.WithLabelValues(opPing).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FirestoreRequestsTotal.WithLabelValues(opPing, "error").Inc()
		return fmt.Errorf("%s: %w: %w", opPing, domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode >= 500 {
		metrics.FirestoreRequestsTotal.WithLabelValues(opPing, "http_5xx").Inc()
		return fmt.Errorf("%s: %w", opPing, domain.NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode), ""))
	}
	metrics.FirestoreRequestsTotal.WithLabelValues(opPing, "success").Inc()
	return nil
}

func (c *Client) do(ctx context.Context, op, method, url string, payload []byte, out any) error {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	metrics.FirestoreRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		metrics.FirestoreRequestsTotal.WithLabelValues(op, "error").Inc()
		c.logger.Warn("firestore request failed",
			zap.String("op", op),
			zap.String("url", url),
			zap.Duration("latency", duration),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("firestore request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.FirestoreRequestsTotal.WithLabelValues(op, "http_"+statusClass(resp.StatusCode)).Inc()
		apiErr := parseAPIError(resp)
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrNotFound, apiErr)
		}
		return fmt.Errorf("%s: %w", op, apiErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.FirestoreRequestsTotal.WithLabelValues(op, "malformed").Inc()
		return fmt.Errorf("%s: %w: %w", op, domain.ErrMalformedResponse, err)
	}
	metrics.FirestoreRequestsTotal.WithLabelValues(op, "success").Inc()
	return nil
}

// parseAPIError reads the Google API error envelope when there is one.
func parseAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var parsed struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &parsed) == nil && parsed.Error.Message != "" {
		return domain.NewAPIError(resp.StatusCode, parsed.Error.Status, parsed.Error.Message)
	}
	return domain.NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode), string(bytes.TrimSpace(raw)))
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "other"
	}
}

func countDocuments(entries []document.Entry) int {
	n := 0
	for _, e := range entries {
		if e.Document != nil {
			n++
		}
	}
	return n
}
