package query

import "github.com/kailas-cloud/firequery/internal/domain/value"

// StructuredQuery is the body of a :runQuery request. Optional clauses are
// pointers so that an unset clause is absent from the JSON, not empty.
type StructuredQuery struct {
	From    CollectionSelector `json:"from"`
	Select  *Projection        `json:"select,omitempty"`
	Where   *Filter            `json:"where,omitempty"`
	OrderBy *Order             `json:"orderBy,omitempty"`
	Limit   *int               `json:"limit,omitempty"`
	Offset  *int               `json:"offset,omitempty"`
}

// CollectionSelector names the queried collection. AllDescendants is
// omitted rather than sent as false.
type CollectionSelector struct {
	CollectionID   string `json:"collectionId"`
	AllDescendants bool   `json:"allDescendants,omitempty"`
}

// FieldReference points at a document field.
type FieldReference struct {
	FieldPath string `json:"fieldPath"`
}

// Projection lists the returned fields.
type Projection struct {
	Fields []FieldReference `json:"fields"`
}

// Filter wraps the AND-combined field filters.
type Filter struct {
	CompositeFilter CompositeFilter `json:"compositeFilter"`
}

// CompositeFilter combines filters with a single operator.
type CompositeFilter struct {
	Op      string        `json:"op"`
	Filters []FieldFilter `json:"filters"`
}

// FieldFilter is one entry of a composite filter.
type FieldFilter struct {
	FieldFilter FieldCondition `json:"fieldFilter"`
}

// FieldCondition compares a field against a tagged value.
type FieldCondition struct {
	Field FieldReference `json:"field"`
	Op    string         `json:"op"`
	Value value.Value    `json:"value"`
}

// Order is a single sort clause.
type Order struct {
	Field     FieldReference `json:"field"`
	Direction Direction      `json:"direction"`
}

// RunQueryBody is the full request payload.
type RunQueryBody struct {
	StructuredQuery StructuredQuery `json:"structuredQuery"`
}
