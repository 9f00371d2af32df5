package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/firequery/internal/domain"
	"github.com/kailas-cloud/firequery/internal/domain/document"
	"github.com/kailas-cloud/firequery/internal/domain/query"
	healthuc "github.com/kailas-cloud/firequery/internal/usecase/health"
)

type mockRecords struct {
	listFn    func(ctx context.Context, path string, opts query.Options) ([]document.Record, error)
	getFn     func(ctx context.Context, path, id string) (document.Record, error)
	getManyFn func(ctx context.Context, path string, ids []string) ([]document.Record, error)
}

func (m *mockRecords) List(ctx context.Context, path string, opts query.Options) ([]document.Record, error) {
	return m.listFn(ctx, path, opts)
}

func (m *mockRecords) Get(ctx context.Context, path, id string) (document.Record, error) {
	return m.getFn(ctx, path, id)
}

func (m *mockRecords) GetMany(ctx context.Context, path string, ids []string) ([]document.Record, error) {
	return m.getManyFn(ctx, path, ids)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

var healthyReport = healthuc.Report{
	Status: healthuc.Healthy,
	Checks: map[string]healthuc.CheckResult{healthuc.CheckFirestore: healthuc.CheckOK},
}

func newTestRouter(records RecordService) http.Handler {
	return newTestRouterWithHealth(records, &mockHealth{report: healthyReport})
}

func newTestRouterWithHealth(records RecordService, health HealthService) http.Handler {
	r := chi.NewRouter()
	NewServer(records, health, nil).Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

func TestQuery_Success(t *testing.T) {
	var gotPath string
	var gotOpts query.Options
	h := newTestRouter(&mockRecords{
		listFn: func(_ context.Context, path string, opts query.Options) ([]document.Record, error) {
			gotPath, gotOpts = path, opts
			return []document.Record{{"id": "u1", "age": int64(30)}}, nil
		},
	})

	rec := do(t, h, http.MethodPost, "/v1/query", `{
		"collection": "users",
		"options": {
			"where": [["age", ">=", 18], ["tags", "array-contains", "go"]],
			"orderBy": "age",
			"direction": "desc",
			"limit": 10
		}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if gotPath != "users" {
		t.Errorf("path = %q", gotPath)
	}
	if len(gotOpts.Where) != 2 || gotOpts.Where[0].Op != query.OpGreaterThanOrEqual {
		t.Errorf("where = %+v", gotOpts.Where)
	}
	if n, ok := gotOpts.Where[0].Value.(json.Number); !ok || n.String() != "18" {
		t.Errorf("where value = %#v, want json.Number 18", gotOpts.Where[0].Value)
	}
	if gotOpts.Direction != query.Descending {
		t.Errorf("direction = %q", gotOpts.Direction)
	}
	if gotOpts.Limit == nil || *gotOpts.Limit != 10 {
		t.Errorf("limit = %v", gotOpts.Limit)
	}

	var resp QueryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Records[0]["id"] != "u1" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestQuery_EmptyResultIsArray(t *testing.T) {
	h := newTestRouter(&mockRecords{
		listFn: func(context.Context, string, query.Options) ([]document.Record, error) {
			return []document.Record{}, nil
		},
	})

	rec := do(t, h, http.MethodPost, "/v1/query", `{"collection":"users"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"records":[]`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestQuery_BadRequests(t *testing.T) {
	h := newTestRouter(&mockRecords{
		listFn: func(context.Context, string, query.Options) ([]document.Record, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	tests := []struct {
		name string
		body string
		code string
	}{
		{"not json", `{`, CodeBadRequest},
		{"unknown field", `{"collection":"users","bogus":1}`, CodeBadRequest},
		{"missing collection", `{}`, CodeInvalidQuery},
		{"bad clause shape", `{"collection":"users","options":{"where":[["a","=="]]}}`, CodeBadRequest},
		{"unknown operator", `{"collection":"users","options":{"where":[["a","~=",1]]}}`, CodeInvalidQuery},
		{"bad direction", `{"collection":"users","options":{"direction":"sideways"}}`, CodeInvalidQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/query", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decodeError(t, rec).Code; got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestQuery_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", fmt.Errorf("%w: limit", domain.ErrInvalidQuery), http.StatusBadRequest, CodeInvalidQuery},
		{"upstream", fmt.Errorf("run_query: %w", domain.NewAPIError(503, "UNAVAILABLE", "x")), http.StatusBadGateway, CodeUpstreamError},
		{"malformed", fmt.Errorf("run_query: %w", domain.ErrMalformedResponse), http.StatusBadGateway, CodeUpstreamError},
		{"timeout", fmt.Errorf("%w: %w", domain.ErrTransport, context.DeadlineExceeded), http.StatusGatewayTimeout, CodeTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&mockRecords{
				listFn: func(context.Context, string, query.Options) ([]document.Record, error) {
					return nil, tt.err
				},
			})
			rec := do(t, h, http.MethodPost, "/v1/query", `{"collection":"users"}`)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := decodeError(t, rec).Code; got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestGetDocument(t *testing.T) {
	var gotPath, gotID string
	h := newTestRouter(&mockRecords{
		getFn: func(_ context.Context, path, id string) (document.Record, error) {
			gotPath, gotID = path, id
			return document.Record{"text": "hi"}, nil
		},
	})

	rec := do(t, h, http.MethodGet, "/v1/documents/users/u1/messages/m1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotPath != "users/u1/messages" || gotID != "m1" {
		t.Errorf("got (%q, %q)", gotPath, gotID)
	}
}

func TestGetDocument_EscapedID(t *testing.T) {
	tests := []struct {
		target string
		wantID string
	}{
		{"/v1/documents/users/a%23b", "a#b"},
		{"/v1/documents/users/q%3Fx=1", "q?x=1"},
		{"/v1/documents/users/a%2Cb", "a,b"},
		{"/v1/documents/users/50%25", "50%"},
	}
	for _, tc := range tests {
		t.Run(tc.wantID, func(t *testing.T) {
			var gotPath, gotID string
			h := newTestRouter(&mockRecords{
				getFn: func(_ context.Context, path, id string) (document.Record, error) {
					gotPath, gotID = path, id
					return document.Record{"k": 1}, nil
				},
			})

			rec := do(t, h, http.MethodGet, tc.target, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if gotPath != "users" || gotID != tc.wantID {
				t.Errorf("got (%q, %q), want (users, %q)", gotPath, gotID, tc.wantID)
			}
		})
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	h := newTestRouter(&mockRecords{
		getFn: func(context.Context, string, string) (document.Record, error) {
			return nil, nil
		},
	})

	rec := do(t, h, http.MethodGet, "/v1/documents/users/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != CodeNotFound {
		t.Errorf("code = %q", got)
	}
}

func TestGetDocument_BadPath(t *testing.T) {
	h := newTestRouter(&mockRecords{})
	rec := do(t, h, http.MethodGet, "/v1/documents/users", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBatchGet(t *testing.T) {
	h := newTestRouter(&mockRecords{
		getManyFn: func(_ context.Context, path string, ids []string) ([]document.Record, error) {
			out := make([]document.Record, len(ids))
			for i, id := range ids {
				if id != "missing" {
					out[i] = document.Record{"key": id}
				}
			}
			return out, nil
		},
	})

	rec := do(t, h, http.MethodPost, "/v1/batchGet", `{"collection":"users","ids":["a","missing"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"records":[{"key":"a"},null]}` {
		t.Errorf("body = %s", got)
	}
}

func TestBatchGet_Empty(t *testing.T) {
	h := newTestRouter(&mockRecords{})
	rec := do(t, h, http.MethodPost, "/v1/batchGet", `{"collection":"users","ids":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != CodeInvalidQuery {
		t.Errorf("code = %q", got)
	}
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newTestRouter(&mockRecords{}), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks[healthuc.CheckFirestore] != healthuc.CheckOK {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	h := newTestRouterWithHealth(&mockRecords{}, &mockHealth{report: healthuc.Report{
		Status: healthuc.Unhealthy,
		Checks: map[string]healthuc.CheckResult{healthuc.CheckFirestore: healthuc.CheckError},
	}})
	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestRouter(&mockRecords{}), http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestClauseBody_RoundTrip(t *testing.T) {
	var c ClauseBody
	if err := json.Unmarshal([]byte(`["n", "in", [1, "x"]]`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Field != "n" || c.Op != "in" {
		t.Errorf("clause = %+v", c)
	}
	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `["n","in",[1,"x"]]` {
		t.Errorf("marshal = %s", out)
	}
}
