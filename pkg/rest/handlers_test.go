package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpd/chirpd/pkg/httputil"
	"github.com/chirpd/chirpd/pkg/store"
)

func newTestAPI(t *testing.T) (*API, *store.Store) {
	t.Helper()
	st := store.NewWithDefaults()
	return New(0, WithStore(st)), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Host = "localhost:3000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httputil.Envelope {
	t.Helper()
	var env httputil.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorBody {
	t.Helper()
	var body httputil.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListTweets(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := doJSON(t, api.Handler(), http.MethodGet, "/tweets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "http://localhost:3000/tweets/", env.Href)

	items := env.Items.([]any)
	require.Len(t, items, 2)

	first := items[0].(map[string]any)
	assert.Equal(t, "http://localhost:3000/tweets/1", first["href"])
	user := first["user"].(map[string]any)
	assert.Equal(t, "http://localhost:3000/users/1", user["href"])
}

func TestListTweetsEmpty(t *testing.T) {
	api := New(0, WithStore(store.New()))

	rec := doJSON(t, api.Handler(), http.MethodGet, "/tweets", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeErrorBody(t, rec)
	assert.Equal(t, "No tweets found", body.Error.Message)
	assert.Equal(t, "/tweets", body.Error.Path)
}

func TestCreateTweet(t *testing.T) {
	api, st := newTestAPI(t)

	rec := doJSON(t, api.Handler(), http.MethodPost, "/tweets", map[string]any{
		"message": "a fresh tweet",
		"user":    map[string]any{"id": 2},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	created := env.Items.(map[string]any)
	assert.Equal(t, "a fresh tweet", created["message"])
	assert.NotZero(t, created["timestamp"])
	assert.Equal(t, float64(3), created["id"])

	assert.Equal(t, "http://localhost:3000/tweets/3", created["href"])

	user := created["user"].(map[string]any)
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "http://localhost:3000/users/2", user["href"])

	assert.Equal(t, 3, st.Count(store.Tweets))
}

func TestCreateTweetValidation(t *testing.T) {
	api, _ := newTestAPI(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing message", map[string]any{"user": map[string]any{"id": 1}}},
		{"missing user", map[string]any{"message": "hi"}},
		{"user without id", map[string]any{"message": "hi", "user": map[string]any{"name": "Bob"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, api.Handler(), http.MethodPost, "/tweets", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateTweetUnknownUser(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := doJSON(t, api.Handler(), http.MethodPost, "/tweets", map[string]any{
		"message": "hi",
		"user":    map[string]any{"id": 42},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTweet(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := doJSON(t, api.Handler(), http.MethodGet, "/tweets/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	tweet := env.Items.(map[string]any)
	assert.Equal(t, "Hello world", tweet["message"])
	assert.Equal(t, "http://localhost:3000/tweets/1", tweet["href"])
}

func TestGetTweetNotFound(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := doJSON(t, api.Handler(), http.MethodGet, "/tweets/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTweetInvalidID(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := doJSON(t, api.Handler(), http.MethodGet, "/tweets/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTweetReturnsRecord(t *testing.T) {
	api, st := newTestAPI(t)

	rec := doJSON(t, api.Handler(), http.MethodDelete, "/tweets/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	deleted := env.Items.(map[string]any)
	assert.Equal(t, "Hello world", deleted["message"])
	assert.Equal(t, "http://localhost:3000/tweets/1", deleted["href"])
	user := deleted["user"].(map[string]any)
	assert.Equal(t, "http://localhost:3000/users/1", user["href"])
	assert.Equal(t, 1, st.Count(store.Tweets))

	rec = doJSON(t, api.Handler(), http.MethodDelete, "/tweets/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUsers(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := doJSON(t, api.Handler(), http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	items := env.Items.([]any)
	require.Len(t, items, 2)

	bob := items[0].(map[string]any)
	assert.Equal(t, "http://localhost:3000/users/1", bob["href"])
	tweets := bob["tweets"].(map[string]any)
	assert.Equal(t, "http://localhost:3000/users/1/tweets", tweets["href"])
}

func TestGetUser(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := doJSON(t, api.Handler(), http.MethodGet, "/users/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	user := env.Items.(map[string]any)
	assert.Equal(t, "Alice", user["name"])
}

func TestMethodFilter(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPatch, "/tweets", nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "method PATCH is not allowed", body.Error.Message)
}

func TestContentTypeFilter(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/tweets", bytes.NewBufferString("message=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestContentTypeFilterAllowsCharset(t *testing.T) {
	api, _ := newTestAPI(t)

	body := bytes.NewBufferString(`{"message":"hi","user":{"id":1}}`)
	req := httptest.NewRequest(http.MethodPost, "/tweets", body)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Host = "localhost:3000"
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestNotFoundCatchAll(t *testing.T) {
	api, _ := newTestAPI(t)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/nope", nil},
		{http.MethodPut, "/tweets", map[string]any{}},
		{http.MethodDelete, "/users/1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doJSON(t, api.Handler(), tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusNotFound, rec.Code)
			body := decodeErrorBody(t, rec)
			assert.Equal(t, "page not found", body.Error.Message)
		})
	}
}
