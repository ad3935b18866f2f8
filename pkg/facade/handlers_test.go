package facade

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpd/chirpd/pkg/httputil"
	"github.com/chirpd/chirpd/pkg/sparql"
)

const usersResults = `{
	"head": {"vars": ["user", "name", "tweets"]},
	"results": {"bindings": [
		{"user": {"type": "uri", "value": "http://localhost:3030/users/101"},
		 "name": {"type": "literal", "value": "Florian"}},
		{"user": {"type": "uri", "value": "http://localhost:3030/users/102"},
		 "name": {"type": "literal", "value": "Achim"}}
	]}
}`

const emptyResults = `{"head": {"vars": []}, "results": {"bindings": []}}`

type fuseki struct {
	mu      sync.Mutex
	queries []string
	updates []string
}

func newTestFacade(t *testing.T) (*API, *fuseki) {
	t.Helper()
	seen := &fuseki{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ds/sparql", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		seen.mu.Lock()
		seen.queries = append(seen.queries, q)
		seen.mu.Unlock()
		w.Header().Set("Content-Type", "application/sparql-results+json")
		if strings.Contains(q, "?user ?name ?tweets") {
			_, _ = w.Write([]byte(usersResults))
			return
		}
		_, _ = w.Write([]byte(emptyResults))
	})
	mux.HandleFunc("POST /ds/update", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		seen.mu.Lock()
		seen.updates = append(seen.updates, r.PostForm.Get("update"))
		seen.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api := New(0,
		WithClient(sparql.NewClient(srv.URL, "ds")),
		WithBuilder(sparql.NewBuilder("http://localhost:3030")),
	)
	return api, seen
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func bindings(t *testing.T, rec *httptest.ResponseRecorder) []map[string]map[string]string {
	t.Helper()
	var out []map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListUsersReturnsBindings(t *testing.T) {
	api, _ := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rows := bindings(t, rec)
	require.Len(t, rows, 2)
	assert.Equal(t, "Florian", rows[0]["name"]["value"])
}

func TestGetUser(t *testing.T) {
	api, seen := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodGet, "/users/101", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, seen.queries[0], "<http://localhost:3030/users/101>")
}

func TestGetUserInvalidID(t *testing.T) {
	api, _ := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodGet, "/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserAllocatesID(t *testing.T) {
	api, seen := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodPost, "/users", map[string]string{"name": "Duygu"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, float64(103), created["id"])

	require.Len(t, seen.updates, 1)
	assert.Contains(t, seen.updates[0], "<http://localhost:3030/users/103>")
	assert.Contains(t, seen.updates[0], `schema:name "Duygu"`)
}

func TestUpdateUserDeletesThenInserts(t *testing.T) {
	api, seen := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodPut, "/users/101", map[string]string{"name": "Flo"})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, seen.updates, 2)
	assert.Contains(t, seen.updates[0], "DELETE WHERE")
	assert.Contains(t, seen.updates[1], "INSERT DATA")
	assert.Contains(t, seen.updates[1], `schema:name "Flo"`)
}

func TestDeleteUserRemovesTweets(t *testing.T) {
	api, seen := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodDelete, "/users/101", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, seen.updates, 1)
	assert.Contains(t, seen.updates[0], "?tweet schema:text ?text")
}

func TestCreateTweetAllocatesPerUserID(t *testing.T) {
	api, seen := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodPost, "/users/101/tweets", map[string]string{"text": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// No existing tweets in the fake store, so the first id is 1.
	require.Len(t, seen.updates, 1)
	assert.Contains(t, seen.updates[0], "<http://localhost:3030/users/101/tweets/1>")
	assert.Contains(t, seen.updates[0], `schema:text "hello"`)
}

func TestUpdateTweet(t *testing.T) {
	api, seen := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodPut, "/users/101/tweets/1", map[string]string{"text": "edited"})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, seen.updates, 2)
	assert.Contains(t, seen.updates[0], "DELETE WHERE")
	assert.Contains(t, seen.updates[1], `schema:text "edited"`)
}

func TestDeleteTweetUnlinksCollection(t *testing.T) {
	api, seen := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodDelete, "/users/101/tweets/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, seen.updates, 1)
	assert.Contains(t, seen.updates[0], "?tweets schema:tweet")
}

func TestRawQuery(t *testing.T) {
	api, seen := newTestFacade(t)

	query := "SELECT ?s WHERE { ?s ?p ?o }"
	rec := do(t, api.Handler(), http.MethodGet, "/sparql?query="+url.QueryEscape(query), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, query, seen.queries[0])

	rec = do(t, api.Handler(), http.MethodPost, "/sparql", map[string]string{"query": query})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRawQueryMissing(t *testing.T) {
	api, _ := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodGet, "/sparql", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, api.Handler(), http.MethodPost, "/sparql", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOperationNotAllowed(t *testing.T) {
	api, _ := newTestFacade(t)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPut, "/users", map[string]string{}},
		{http.MethodDelete, "/users", nil},
		{http.MethodPost, "/users/101", map[string]string{}},
		{http.MethodPut, "/tweets", map[string]string{}},
		{http.MethodPost, "/tweets", map[string]string{}},
		{http.MethodDelete, "/tweets", nil},
		{http.MethodGet, "/tweets/1", nil},
		{http.MethodDelete, "/sparql", nil},
		{http.MethodPost, "/users/101/tweets/1", map[string]string{}},
		{http.MethodDelete, "/users/101/tweets", nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, api.Handler(), tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

			var body httputil.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body.Error.Message, "Operation not allowed")
		})
	}
}

func TestTweetByIDHintsNestedRoute(t *testing.T) {
	api, _ := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodGet, "/tweets/1", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var body httputil.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error.Message, "/users/{userid}/tweets/{tweetid}")
}

func TestGraphQLMounted(t *testing.T) {
	api, _ := newTestFacade(t)

	rec := do(t, api.Handler(), http.MethodPost, "/graphql", map[string]string{"query": "{ users }"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Florian")
}

func TestUpstreamDownBecomesBadGateway(t *testing.T) {
	api := New(0,
		WithClient(sparql.NewClient("http://127.0.0.1:1", "ds")),
		WithBuilder(sparql.NewBuilder("http://localhost:3030")),
	)

	rec := do(t, api.Handler(), http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
