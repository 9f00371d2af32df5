package query

import (
	"fmt"
	"strings"
)

// Operator is a filter comparison as written by callers.
type Operator string

// Supported operators.
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

var operatorWire = map[Operator]string{
	OpEqual:              "EQUAL",
	OpNotEqual:           "NOT_EQUAL",
	OpLessThan:           "LESS_THAN",
	OpLessThanOrEqual:    "LESS_THAN_OR_EQUAL",
	OpGreaterThan:        "GREATER_THAN",
	OpGreaterThanOrEqual: "GREATER_THAN_OR_EQUAL",
	OpArrayContains:      "ARRAY_CONTAINS",
	OpArrayContainsAny:   "ARRAY_CONTAINS_ANY",
	OpIn:                 "IN",
	OpNotIn:              "NOT_IN",
}

// ParseOperator validates a caller-supplied operator.
func ParseOperator(s string) (Operator, error) {
	op := Operator(s)
	if _, ok := operatorWire[op]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOperator, s)
	}
	return op, nil
}

// Valid reports whether the operator is supported.
func (o Operator) Valid() bool {
	_, ok := operatorWire[o]
	return ok
}

// Wire returns the field filter operator name sent to the endpoint.
// Empty for unsupported operators.
func (o Operator) Wire() string { return operatorWire[o] }

// Direction is a sort order.
type Direction string

// Sort orders.
const (
	Ascending  Direction = "ASCENDING"
	Descending Direction = "DESCENDING"
)

// ParseDirection accepts asc/desc in any case, or the wire names.
// An empty string means ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}
