package firequery

import "context"

// QueryBuilder is a fluent builder for list queries.
type QueryBuilder struct {
	client *Client
	path   string
	opts   QueryOptions
}

// Where adds a filter clause. Clauses are ANDed.
func (b *QueryBuilder) Where(field string, op Operator, value any) *QueryBuilder {
	b.opts.Where = append(b.opts.Where, Where{Field: field, Op: op, Value: value})
	return b
}

// Select restricts the returned fields.
func (b *QueryBuilder) Select(fields ...string) *QueryBuilder {
	b.opts.Select = append(b.opts.Select, fields...)
	return b
}

// OrderBy sorts by one field. An empty direction means ascending.
func (b *QueryBuilder) OrderBy(field string, dir Direction) *QueryBuilder {
	b.opts.OrderBy = field
	b.opts.Direction = dir
	return b
}

// Limit caps the number of results.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.opts.Limit = Int(n)
	return b
}

// Offset skips the first n results.
func (b *QueryBuilder) Offset(n int) *QueryBuilder {
	b.opts.Offset = Int(n)
	return b
}

// AllDescendants queries every collection with the same id, at any depth.
func (b *QueryBuilder) AllDescendants() *QueryBuilder {
	b.opts.Group = true
	return b
}

// Options returns a copy of the options built so far.
func (b *QueryBuilder) Options() QueryOptions {
	o := b.opts
	o.Select = append([]string(nil), b.opts.Select...)
	o.Where = append([]Where(nil), b.opts.Where...)
	return o
}

// Do executes the query.
func (b *QueryBuilder) Do(ctx context.Context) ([]Record, error) {
	opts := b.Options()
	return b.client.List(ctx, b.path, &opts)
}
