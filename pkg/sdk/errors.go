package firequery

import (
	"github.com/kailas-cloud/firequery/internal/domain"
	"github.com/kailas-cloud/firequery/internal/domain/query"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery        = domain.ErrInvalidQuery
	ErrInvalidPath         = query.ErrInvalidPath
	ErrUnsupportedOperator = query.ErrUnsupportedOperator
	ErrInvalidDirection    = query.ErrInvalidDirection
	ErrInvalidLimit        = query.ErrInvalidLimit
	ErrInvalidOffset       = query.ErrInvalidOffset
	ErrTransport           = domain.ErrTransport
	ErrMalformedResponse   = domain.ErrMalformedResponse
)

// APIError is a non-2xx answer from Firestore. Use errors.As() to inspect
// the status code.
type APIError = domain.APIError
