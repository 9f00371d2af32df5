package chi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/firequery/internal/domain"
	"github.com/kailas-cloud/firequery/internal/domain/document"
	"github.com/kailas-cloud/firequery/internal/domain/query"
	healthuc "github.com/kailas-cloud/firequery/internal/usecase/health"
)

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	Collection string       `json:"collection"`
	Options    *OptionsBody `json:"options,omitempty"`
}

// OptionsBody mirrors query.Options on the wire. Where clauses are
// [field, operator, value] triples.
type OptionsBody struct {
	Group     bool         `json:"group,omitempty"`
	Select    []string     `json:"select,omitempty"`
	Where     []ClauseBody `json:"where,omitempty"`
	OrderBy   string       `json:"orderBy,omitempty"`
	Direction string       `json:"direction,omitempty"`
	Limit     *int         `json:"limit,omitempty"`
	Offset    *int         `json:"offset,omitempty"`
}

// ClauseBody is one [field, operator, value] triple.
type ClauseBody struct {
	Field string
	Op    string
	Value any
}

// UnmarshalJSON implements json.Unmarshaler. Numbers keep their textual
// form so that integers survive unchanged.
func (c *ClauseBody) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var triple []any
	if err := dec.Decode(&triple); err != nil {
		return fmt.Errorf("where clause must be a [field, operator, value] array: %w", err)
	}
	if len(triple) != 3 {
		return fmt.Errorf("where clause must have 3 elements, got %d", len(triple))
	}
	field, ok := triple[0].(string)
	if !ok {
		return fmt.Errorf("where clause field must be a string")
	}
	op, ok := triple[1].(string)
	if !ok {
		return fmt.Errorf("where clause operator must be a string")
	}
	*c = ClauseBody{Field: field, Op: op, Value: triple[2]}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c ClauseBody) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Field, c.Op, c.Value})
}

func (b *OptionsBody) toDomain() (query.Options, error) {
	if b == nil {
		return query.Options{}, nil
	}
	dir, err := query.ParseDirection(b.Direction)
	if err != nil {
		return query.Options{}, err
	}
	opts := query.Options{
		Group:     b.Group,
		Select:    b.Select,
		OrderBy:   b.OrderBy,
		Direction: dir,
		Limit:     b.Limit,
		Offset:    b.Offset,
	}
	for i, w := range b.Where {
		c, err := query.NewClause(w.Field, w.Op, w.Value)
		if err != nil {
			return query.Options{}, fmt.Errorf("where[%d]: %w", i, err)
		}
		opts.Where = append(opts.Where, c)
	}
	return opts, nil
}

// QueryResponse is the body returned by POST /v1/query.
type QueryResponse struct {
	Records []document.Record `json:"records"`
	Count   int               `json:"count"`
}

// BatchGetRequest is the body of POST /v1/batchGet.
type BatchGetRequest struct {
	Collection string   `json:"collection"`
	IDs        []string `json:"ids"`
}

// BatchGetResponse keeps the order of the requested ids; missing documents are null.
type BatchGetResponse struct {
	Records []document.Record `json:"records"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeBadRequest    = "bad_request"
	CodeInvalidQuery  = "invalid_query"
	CodeNotFound      = "document_not_found"
	CodeUpstreamError = "upstream_error"
	CodeTimeout       = "upstream_timeout"
	CodeInternalError = "internal_error"
)

var errEmptyBatch = fmt.Errorf("%w: ids must not be empty", domain.ErrInvalidQuery)
