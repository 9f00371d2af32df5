package firequery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/firequery/internal/domain/document"
	"github.com/kailas-cloud/firequery/internal/domain/query"
	"github.com/kailas-cloud/firequery/internal/transport/rest"
	"github.com/kailas-cloud/firequery/internal/usecase/records"
)

const defaultUserAgent = "firequery-go"

// Internal interface, replaced in tests.
type recordUseCase interface {
	List(ctx context.Context, collectionPath string, opts query.Options) ([]document.Record, error)
	Get(ctx context.Context, collectionPath, id string) (document.Record, error)
	GetMany(ctx context.Context, collectionPath string, ids []string) ([]document.Record, error)
	Ping(ctx context.Context) error
	Endpoint() records.Endpoint
	SetEndpoint(records.Endpoint)
}

// Client is the firequery SDK entry point. Each Client holds its own
// endpoint; several may coexist.
type Client struct {
	svc recordUseCase
	obs *observer
}

// New creates a Client for the given project.
func New(projectID string, opts ...Option) (*Client, error) {
	if err := validateProjectID(projectID); err != nil {
		return nil, err
	}

	cfg := &clientConfig{
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.baseURL == "" {
		cfg.baseURL = DefaultBaseURL
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	transport := rest.NewClient(rest.Config{
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		UserAgent:  cfg.userAgent,
	})
	svc := records.New(transport, records.Endpoint{
		BaseURL:   cfg.baseURL,
		ProjectID: projectID,
	}).WithMaxConcurrency(cfg.maxConcurrency)

	return &Client{svc: svc, obs: obs}, nil
}

func validateProjectID(id string) error {
	if id == "" {
		return errors.New("firequery: project id required")
	}
	if strings.Contains(id, "/") {
		return fmt.Errorf("firequery: project id must not contain '/': %q", id)
	}
	return nil
}

// BaseURL returns the endpoint base URL.
func (c *Client) BaseURL() string { return c.svc.Endpoint().BaseURL }

// ProjectID returns the project the client queries.
func (c *Client) ProjectID() string { return c.svc.Endpoint().ProjectID }

// SetBaseURL replaces the endpoint base URL for subsequent calls.
// An empty url restores DefaultBaseURL.
func (c *Client) SetBaseURL(url string) {
	if url == "" {
		url = DefaultBaseURL
	}
	e := c.svc.Endpoint()
	e.BaseURL = url
	c.svc.SetEndpoint(e)
}

// SetProjectID replaces the project for subsequent calls.
func (c *Client) SetProjectID(id string) error {
	if err := validateProjectID(id); err != nil {
		return err
	}
	e := c.svc.Endpoint()
	e.ProjectID = id
	c.svc.SetEndpoint(e)
	return nil
}

// Ping checks that the endpoint answers. Authorization is not verified.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", "", start, 0, err) }()

	if err = c.svc.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// List runs a query against collectionPath and returns the matching records
// in server order. Each record carries its document id under IDField.
// An empty result is an empty, non-nil slice.
func (c *Client) List(ctx context.Context, collectionPath string, opts *QueryOptions) (recs []Record, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list", collectionPath, start, len(recs), err) }()

	domOpts, err := toDomainOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collectionPath, err)
	}
	out, err := c.svc.List(ctx, collectionPath, domOpts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collectionPath, err)
	}
	return toRecords(out), nil
}

// Get fetches one document. It returns (nil, nil) when the document does not
// exist or has no fields. The record has no injected id.
func (c *Client) Get(ctx context.Context, collectionPath, id string) (rec Record, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if rec != nil {
			n = 1
		}
		c.obs.observe("get", collectionPath, start, n, err)
	}()

	out, err := c.svc.Get(ctx, collectionPath, id)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collectionPath, id, err)
	}
	if out == nil {
		return nil, nil
	}
	return Record(out), nil
}

// GetMany fetches several documents of one collection concurrently. The
// result has one entry per id, in order; missing documents are nil.
func (c *Client) GetMany(ctx context.Context, collectionPath string, ids []string) (recs []Record, err error) {
	start := time.Now()
	defer func() {
		n := 0
		for _, r := range recs {
			if r != nil {
				n++
			}
		}
		c.obs.observe("get_many", collectionPath, start, n, err)
	}()

	out, err := c.svc.GetMany(ctx, collectionPath, ids)
	if err != nil {
		return nil, fmt.Errorf("get many %s: %w", collectionPath, err)
	}
	return toRecords(out), nil
}

// Query starts a fluent query on collectionPath.
func (c *Client) Query(collectionPath string) *QueryBuilder {
	return &QueryBuilder{client: c, path: collectionPath}
}
