package firequery

import (
	"context"

	"github.com/kailas-cloud/firequery/internal/domain/document"
	"github.com/kailas-cloud/firequery/internal/domain/query"
	"github.com/kailas-cloud/firequery/internal/usecase/records"
)

// --- recordUseCase mock ---

type mockRecordUC struct {
	listFn    func(ctx context.Context, path string, opts query.Options) ([]document.Record, error)
	getFn     func(ctx context.Context, path, id string) (document.Record, error)
	getManyFn func(ctx context.Context, path string, ids []string) ([]document.Record, error)
	pingFn    func(ctx context.Context) error
	endpoint  records.Endpoint
}

func (m *mockRecordUC) List(ctx context.Context, path string, opts query.Options) ([]document.Record, error) {
	return m.listFn(ctx, path, opts)
}

func (m *mockRecordUC) Get(ctx context.Context, path, id string) (document.Record, error) {
	return m.getFn(ctx, path, id)
}

func (m *mockRecordUC) GetMany(ctx context.Context, path string, ids []string) ([]document.Record, error) {
	return m.getManyFn(ctx, path, ids)
}

func (m *mockRecordUC) Ping(ctx context.Context) error { return m.pingFn(ctx) }

func (m *mockRecordUC) Endpoint() records.Endpoint { return m.endpoint }

func (m *mockRecordUC) SetEndpoint(e records.Endpoint) { m.endpoint = e }

func newMockClient(m *mockRecordUC) *Client {
	return &Client{svc: m}
}
