package query

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/firequery/internal/domain"
)

func intPtr(n int) *int { return &n }

func buildJSON(t *testing.T, path string, opts Options) string {
	t.Helper()
	req, err := Build(path, opts)
	require.NoError(t, err)
	b, err := json.Marshal(req.Body())
	require.NoError(t, err)
	return string(b)
}

func TestBuild_Empty(t *testing.T) {
	got := buildJSON(t, "users", Options{})
	assert.JSONEq(t, `{"structuredQuery":{"from":{"collectionId":"users"}}}`, got)
}

func TestBuild_SingleWhere(t *testing.T) {
	got := buildJSON(t, "users", Options{
		Where: []Clause{{Field: "active", Op: OpEqual, Value: true}},
	})
	want := `{"structuredQuery":{
		"from":{"collectionId":"users"},
		"where":{"compositeFilter":{"op":"AND","filters":[
			{"fieldFilter":{"field":{"fieldPath":"active"},"op":"EQUAL","value":{"booleanValue":true}}}
		]}}
	}}`
	assert.JSONEq(t, want, got)
}

func TestBuild_SubPath(t *testing.T) {
	req, err := Build("a/b/c", Options{})
	require.NoError(t, err)
	assert.Equal(t, "a/b", req.Parent)
	assert.Equal(t, "c", req.Query.From.CollectionID)

	u := RunQueryURL(DefaultBaseURL, "proj", req.Parent)
	assert.Equal(t, "https://firestore.googleapis.com/v1/projects/proj/databases/(default)/documents/a/b:runQuery", u)
}

func TestBuild_RootCollectionURL(t *testing.T) {
	req, err := Build("users", Options{})
	require.NoError(t, err)
	assert.Empty(t, req.Parent)
	assert.Equal(t, "http://x/p/databases/(default)/documents:runQuery", RunQueryURL("http://x/", "p", req.Parent))
}

func TestBuild_OrderBy(t *testing.T) {
	tests := []struct {
		name string
		dir  Direction
		want string
	}{
		{"descending", Descending, "DESCENDING"},
		{"default", "", "ASCENDING"},
		{"ascending", Ascending, "ASCENDING"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildJSON(t, "users", Options{OrderBy: "name", Direction: tt.dir})
			want := `{"structuredQuery":{"from":{"collectionId":"users"},
				"orderBy":{"field":{"fieldPath":"name"},"direction":"` + tt.want + `"}}}`
			assert.JSONEq(t, want, got)
		})
	}
}

func TestBuild_DirectionWithoutOrderByIsIgnored(t *testing.T) {
	req, err := Build("users", Options{Direction: Descending})
	require.NoError(t, err)
	assert.Nil(t, req.Query.OrderBy)
}

func TestBuild_Group(t *testing.T) {
	got := buildJSON(t, "messages", Options{Group: true})
	assert.JSONEq(t, `{"structuredQuery":{"from":{"collectionId":"messages","allDescendants":true}}}`, got)
}

func TestBuild_Select(t *testing.T) {
	got := buildJSON(t, "users", Options{Select: []string{"name", "email", "active"}})
	want := `{"structuredQuery":{"from":{"collectionId":"users"},
		"select":{"fields":[{"fieldPath":"name"},{"fieldPath":"email"},{"fieldPath":"active"}]}}}`
	assert.JSONEq(t, want, got)
}

func TestBuild_EmptySliceOptionsAreOmitted(t *testing.T) {
	req, err := Build("users", Options{Select: []string{}, Where: []Clause{}})
	require.NoError(t, err)
	assert.Nil(t, req.Query.Select)
	assert.Nil(t, req.Query.Where)
}

func TestBuild_LimitOffset(t *testing.T) {
	got := buildJSON(t, "users", Options{Limit: intPtr(50), Offset: intPtr(50)})
	assert.JSONEq(t, `{"structuredQuery":{"from":{"collectionId":"users"},"limit":50,"offset":50}}`, got)
}

func TestBuild_ExplicitZeroLimitIsSent(t *testing.T) {
	got := buildJSON(t, "users", Options{Limit: intPtr(0)})
	assert.JSONEq(t, `{"structuredQuery":{"from":{"collectionId":"users"},"limit":0}}`, got)
}

func TestBuild_AllClauses(t *testing.T) {
	got := buildJSON(t, "users/u1/messages", Options{
		Group:  true,
		Select: []string{"text"},
		Where: []Clause{
			{Field: "score", Op: OpGreaterThanOrEqual, Value: 10},
			{Field: "tags", Op: OpIn, Value: []string{"a", "b"}},
		},
		OrderBy:   "score",
		Direction: Descending,
		Limit:     intPtr(5),
		Offset:    intPtr(10),
	})
	want := `{"structuredQuery":{
		"from":{"collectionId":"messages","allDescendants":true},
		"select":{"fields":[{"fieldPath":"text"}]},
		"where":{"compositeFilter":{"op":"AND","filters":[
			{"fieldFilter":{"field":{"fieldPath":"score"},"op":"GREATER_THAN_OR_EQUAL","value":{"integerValue":10}}},
			{"fieldFilter":{"field":{"fieldPath":"tags"},"op":"IN",
				"value":{"arrayValue":{"values":[{"stringValue":"a"},{"stringValue":"b"}]}}}}
		]}},
		"orderBy":{"field":{"fieldPath":"score"},"direction":"DESCENDING"},
		"limit":5,
		"offset":10
	}}`
	assert.JSONEq(t, want, got)
}

func TestBuild_OperatorMapping(t *testing.T) {
	want := map[Operator]string{
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
	for op, wire := range want {
		req, err := Build("c", Options{Where: []Clause{{Field: "f", Op: op, Value: 1}}})
		require.NoError(t, err, op)
		assert.Equal(t, wire, req.Query.Where.CompositeFilter.Filters[0].FieldFilter.Op, op)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		opts Options
		want error
	}{
		{"empty path", "", Options{}, ErrInvalidPath},
		{"empty segment", "a//b", Options{}, ErrInvalidPath},
		{"trailing slash", "users/", Options{}, ErrInvalidPath},
		{"unknown operator", "users", Options{Where: []Clause{{Field: "a", Op: "like", Value: 1}}}, ErrUnsupportedOperator},
		{"empty where field", "users", Options{Where: []Clause{{Op: OpEqual, Value: 1}}}, ErrEmptyField},
		{"empty select field", "users", Options{Select: []string{""}}, ErrEmptyField},
		{"bad direction", "users", Options{OrderBy: "a", Direction: "sideways"}, ErrInvalidDirection},
		{"negative limit", "users", Options{Limit: intPtr(-1)}, ErrInvalidLimit},
		{"negative offset", "users", Options{Offset: intPtr(-2)}, ErrInvalidOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.path, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, errors.Is(err, domain.ErrInvalidQuery))
		})
	}
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"", "asc", "ASC", "Asc", "ascending"} {
		d, err := ParseDirection(s)
		require.NoError(t, err, s)
		assert.Equal(t, Ascending, d, s)
	}
	for _, s := range []string{"desc", "DESC", "Descending"} {
		d, err := ParseDirection(s)
		require.NoError(t, err, s)
		assert.Equal(t, Descending, d, s)
	}
	_, err := ParseDirection("up")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestNewClause(t *testing.T) {
	c, err := NewClause("age", ">=", 18)
	require.NoError(t, err)
	assert.Equal(t, Clause{Field: "age", Op: OpGreaterThanOrEqual, Value: 18}, c)

	_, err = NewClause("age", "=~", 18)
	assert.ErrorIs(t, err, ErrUnsupportedOperator)

	_, err = NewClause("", "==", 18)
	assert.ErrorIs(t, err, ErrEmptyField)
}

func TestDocumentURL(t *testing.T) {
	got := DocumentURL(DefaultBaseURL, "proj", "users/u1/messages", "m1")
	assert.Equal(t, "https://firestore.googleapis.com/v1/projects/proj/databases/(default)/documents/users/u1/messages/m1", got)
}

func TestDatabaseURL(t *testing.T) {
	assert.Equal(t, "http://emu:8080/v1/projects/p/databases/(default)", DatabaseURL("http://emu:8080/v1/projects/", "p"))
}

func TestDocumentURL_EscapesSegments(t *testing.T) {
	tests := []struct {
		id      string
		escaped string
	}{
		{"a#b", "a%23b"},
		{"q?x=1", "q%3Fx=1"},
		{"50%", "50%25"},
		{"with space", "with%20space"},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			got := DocumentURL("http://emu/v1/projects", "p", "users", tc.id)
			assert.Equal(t, "http://emu/v1/projects/p/databases/(default)/documents/users/"+tc.escaped, got)

			u, err := url.Parse(got)
			require.NoError(t, err)
			assert.Empty(t, u.Fragment)
			assert.Empty(t, u.RawQuery)
			assert.Equal(t, "/v1/projects/p/databases/(default)/documents/users/"+tc.id, u.Path)
		})
	}
}

func TestRunQueryURL_EscapesParent(t *testing.T) {
	req, err := Build("rooms/r#1/messages", Options{})
	require.NoError(t, err)

	got := RunQueryURL("http://emu/v1/projects", "p", req.Parent)
	assert.Equal(t, "http://emu/v1/projects/p/databases/(default)/documents/rooms/r%231:runQuery", got)
}
