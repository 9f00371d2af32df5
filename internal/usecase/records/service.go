package records

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/firequery/internal/domain"
	"github.com/kailas-cloud/firequery/internal/domain/document"
	"github.com/kailas-cloud/firequery/internal/domain/query"
	"github.com/kailas-cloud/firequery/internal/logger"
)

const defaultMaxConcurrency = 8

// Endpoint locates a Firestore database.
type Endpoint struct {
	BaseURL   string
	ProjectID string
}

// Service runs list and point-lookup operations.
//
// The endpoint is read on every call and SetEndpoint is not synchronized:
// changing it while calls are in flight is the caller's responsibility.
type Service struct {
	transport      Transport
	endpoint       Endpoint
	maxConcurrency int
}

// New creates a records service.
func New(transport Transport, endpoint Endpoint) *Service {
	if endpoint.BaseURL == "" {
		endpoint.BaseURL = query.DefaultBaseURL
	}
	return &Service{
		transport:      transport,
		endpoint:       endpoint,
		maxConcurrency: defaultMaxConcurrency,
	}
}

// WithMaxConcurrency bounds the number of parallel lookups in GetMany.
func (s *Service) WithMaxConcurrency(n int) *Service {
	if n > 0 {
		s.maxConcurrency = n
	}
	return s
}

// Endpoint returns the current endpoint.
func (s *Service) Endpoint() Endpoint { return s.endpoint }

// SetEndpoint replaces the endpoint used by subsequent calls.
func (s *Service) SetEndpoint(e Endpoint) { s.endpoint = e }

// List runs a structured query and returns the decoded records in server
// order. Invalid options fail before any request is made.
func (s *Service) List(ctx context.Context, collectionPath string, opts query.Options) ([]document.Record, error) {
	req, err := query.Build(collectionPath, opts)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	url := query.RunQueryURL(s.endpoint.BaseURL, s.endpoint.ProjectID, req.Parent)
	entries, err := s.transport.RunQuery(ctx, url, req.Body())
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}

	recs := document.FilterEntries(entries)
	logger.FromContext(ctx).Debug("query completed",
		zap.String("collection", collectionPath),
		zap.Int("entries", len(entries)),
		zap.Int("records", len(recs)),
	)
	return recs, nil
}

// Get fetches one document. It returns a nil record, and no error, when the
// document does not exist or has no fields. The record carries no injected
// id: the caller already knows it.
func (s *Service) Get(ctx context.Context, collectionPath, id string) (document.Record, error) {
	if _, _, err := query.SplitPath(collectionPath); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidQuery)
	}

	url := query.DocumentURL(s.endpoint.BaseURL, s.endpoint.ProjectID, collectionPath, id)
	doc, err := s.transport.GetDocument(ctx, url)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.FromContext(ctx).Debug("document not found",
				zap.String("collection", collectionPath),
				zap.String("id", id),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return document.Decode(doc.Fields, ""), nil
}

// Ping checks that the database endpoint answers.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.transport.Ping(ctx, query.DatabaseURL(s.endpoint.BaseURL, s.endpoint.ProjectID)); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// GetMany fetches several documents of one collection concurrently.
// Results follow the order of ids; missing documents are nil entries.
// The first failure cancels the remaining lookups.
func (s *Service) GetMany(ctx context.Context, collectionPath string, ids []string) ([]document.Record, error) {
	out := make([]document.Record, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			rec, err := s.Get(gctx, collectionPath, id)
			if err != nil {
				return fmt.Errorf("document %q: %w", id, err)
			}
			out[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
