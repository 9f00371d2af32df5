package query

import (
	"fmt"

	"github.com/kailas-cloud/firequery/internal/domain"
)

// Validation errors. All of them wrap domain.ErrInvalidQuery.
var (
	ErrInvalidPath         = fmt.Errorf("%w: invalid collection path", domain.ErrInvalidQuery)
	ErrUnsupportedOperator = fmt.Errorf("%w: unsupported operator", domain.ErrInvalidQuery)
	ErrInvalidDirection    = fmt.Errorf("%w: invalid direction", domain.ErrInvalidQuery)
	ErrInvalidLimit        = fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidQuery)
	ErrInvalidOffset       = fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidQuery)
	ErrEmptyField          = fmt.Errorf("%w: field path is required", domain.ErrInvalidQuery)
)

// Clause is a single field filter. Clauses in Options.Where are ANDed.
type Clause struct {
	Field string
	Op    Operator
	Value any
}

// NewClause validates the operator and builds a Clause.
func NewClause(field, op string, v any) (Clause, error) {
	if field == "" {
		return Clause{}, ErrEmptyField
	}
	o, err := ParseOperator(op)
	if err != nil {
		return Clause{}, err
	}
	return Clause{Field: field, Op: o, Value: v}, nil
}

// Options describes a query. The zero value selects the whole collection.
//
// Select and Where take effect only when non-empty. OrderBy takes effect
// when non-empty; an empty Direction means ascending. Limit and Offset are
// sent whenever they are set, including an explicit zero.
type Options struct {
	Group     bool
	Select    []string
	Where     []Clause
	OrderBy   string
	Direction Direction
	Limit     *int
	Offset    *int
}

// Validate checks every clause without building anything.
func (o *Options) Validate() error {
	for i, f := range o.Select {
		if f == "" {
			return fmt.Errorf("select[%d]: %w", i, ErrEmptyField)
		}
	}
	for i, c := range o.Where {
		if c.Field == "" {
			return fmt.Errorf("where[%d]: %w", i, ErrEmptyField)
		}
		if !c.Op.Valid() {
			return fmt.Errorf("where[%d]: %w: %q", i, ErrUnsupportedOperator, c.Op)
		}
	}
	switch o.Direction {
	case "", Ascending, Descending:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDirection, o.Direction)
	}
	if o.Limit != nil && *o.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, *o.Limit)
	}
	if o.Offset != nil && *o.Offset < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOffset, *o.Offset)
	}
	return nil
}
