package firequery

import (
	"fmt"

	"github.com/kailas-cloud/firequery/internal/domain/document"
	"github.com/kailas-cloud/firequery/internal/domain/query"
)

// DefaultBaseURL is the public Firestore REST endpoint, up to and
// including "/projects".
const DefaultBaseURL = query.DefaultBaseURL

// IDField is the key under which listed records carry their document id.
const IDField = document.IDField

// Record is a decoded document: field name to plain Go value.
type Record map[string]any

// Operator is a filter comparison.
type Operator string

// Operator constants.
const (
	OpEqual              Operator = "=="
	OpNotEqual           Operator = "!="
	OpLessThan           Operator = "<"
	OpLessThanOrEqual    Operator = "<="
	OpGreaterThan        Operator = ">"
	OpGreaterThanOrEqual Operator = ">="
	OpArrayContains      Operator = "array-contains"
	OpArrayContainsAny   Operator = "array-contains-any"
	OpIn                 Operator = "in"
	OpNotIn              Operator = "not-in"
)

// Direction is a sort order. "asc" and "desc" in any case are accepted too.
type Direction string

// Direction constants.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Where is a single filter clause. Clauses are ANDed.
type Where struct {
	Field string
	Op    Operator
	Value any
}

// QueryOptions describes a list query. A nil or zero value selects the whole
// collection. Limit and Offset are sent whenever non-nil, zero included.
type QueryOptions struct {
	Group     bool // query every collection with this id (collection group)
	Select    []string
	Where     []Where
	OrderBy   string
	Direction Direction
	Limit     *int
	Offset    *int
}

// Int returns a pointer to n, for QueryOptions.Limit and Offset.
func Int(n int) *int { return &n }

func toDomainOptions(o *QueryOptions) (query.Options, error) {
	if o == nil {
		return query.Options{}, nil
	}
	dir, err := query.ParseDirection(string(o.Direction))
	if err != nil {
		return query.Options{}, err
	}
	opts := query.Options{
		Group:     o.Group,
		Select:    o.Select,
		OrderBy:   o.OrderBy,
		Direction: dir,
		Limit:     o.Limit,
		Offset:    o.Offset,
	}
	if len(o.Where) > 0 {
		opts.Where = make([]query.Clause, len(o.Where))
		for i, w := range o.Where {
			c, err := query.NewClause(w.Field, string(w.Op), w.Value)
			if err != nil {
				return query.Options{}, fmt.Errorf("where[%d]: %w", i, err)
			}
			opts.Where[i] = c
		}
	}
	return opts, nil
}

func toRecords(in []document.Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		if r != nil {
			out[i] = Record(r)
		}
	}
	return out
}
