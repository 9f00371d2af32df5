package records

import (
	"context"

	"github.com/kailas-cloud/firequery/internal/domain/document"
	"github.com/kailas-cloud/firequery/internal/domain/query"
)

// Transport performs the network calls against the document endpoint.
type Transport interface {
	RunQuery(ctx context.Context, url string, body query.RunQueryBody) ([]document.Entry, error)
	GetDocument(ctx context.Context, url string) (*document.Raw, error)
	Ping(ctx context.Context, url string) error
}
