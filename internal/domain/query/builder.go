package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/firequery/internal/domain/value"
)

const compositeAnd = "AND"

// Request is a built query: the parent path the query runs under and the
// structured query itself.
type Request struct {
	Parent string
	Query  StructuredQuery
}

// Body wraps the structured query for the wire.
func (r Request) Body() RunQueryBody {
	return RunQueryBody{StructuredQuery: r.Query}
}

// SplitPath splits "a/b/c" into parent "a/b" and collection id "c".
func SplitPath(collectionPath string) (parent, collectionID string, err error) {
	if collectionPath == "" {
		return "", "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	segments := strings.Split(collectionPath, "/")
	for _, s := range segments {
		if s == "" {
			return "", "", fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, collectionPath)
		}
	}
	last := len(segments) - 1
	return strings.Join(segments[:last], "/"), segments[last], nil
}

// Build translates a collection path and options into a structured query.
// Unset options leave their clause out of the query entirely.
func Build(collectionPath string, opts Options) (Request, error) {
	parent, collectionID, err := SplitPath(collectionPath)
	if err != nil {
		return Request{}, err
	}
	if err := opts.Validate(); err != nil {
		return Request{}, err
	}

	q := StructuredQuery{
		From: CollectionSelector{CollectionID: collectionID, AllDescendants: opts.Group},
	}

	if len(opts.Select) > 0 {
		fields := make([]FieldReference, len(opts.Select))
		for i, f := range opts.Select {
			fields[i] = FieldReference{FieldPath: f}
		}
		q.Select = &Projection{Fields: fields}
	}

	if len(opts.Where) > 0 {
		filters := make([]FieldFilter, len(opts.Where))
		for i, c := range opts.Where {
			filters[i] = FieldFilter{FieldFilter: FieldCondition{
				Field: FieldReference{FieldPath: c.Field},
				Op:    c.Op.Wire(),
				Value: value.Encode(c.Value),
			}}
		}
		q.Where = &Filter{CompositeFilter: CompositeFilter{Op: compositeAnd, Filters: filters}}
	}

	if opts.OrderBy != "" {
		dir := opts.Direction
		if dir == "" {
			dir = Ascending
		}
		q.OrderBy = &Order{Field: FieldReference{FieldPath: opts.OrderBy}, Direction: dir}
	}

	if opts.Limit != nil {
		n := *opts.Limit
		q.Limit = &n
	}
	if opts.Offset != nil {
		n := *opts.Offset
		q.Offset = &n
	}

	return Request{Parent: parent, Query: q}, nil
}
