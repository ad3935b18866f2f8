package graphql

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// MaxRequestBodySize is the maximum allowed request body size (1MB).
const MaxRequestBodySize = 1 << 20

// Handler handles GraphQL HTTP requests. It supports POST with
// application/json or application/graphql bodies and GET with query
// parameters.
type Handler struct {
	executor *Executor
}

// NewHandler creates a new GraphQL HTTP handler.
func NewHandler(executor *Executor) *Handler {
	return &Handler{executor: executor}
}

// ServeHTTP handles GraphQL requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req *GraphQLRequest
	var err error
	if r.Method == http.MethodGet {
		req, err = h.parseGetRequest(r)
	} else {
		req, err = h.parsePostRequest(r)
	}
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := h.executor.Execute(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// parseGetRequest parses a GraphQL request from GET query parameters.
func (h *Handler) parseGetRequest(r *http.Request) (*GraphQLRequest, error) {
	query := r.URL.Query()

	req := &GraphQLRequest{
		Query:         query.Get("query"),
		OperationName: query.Get("operationName"),
	}

	if varsStr := query.Get("variables"); varsStr != "" {
		var variables map[string]any
		if err := json.Unmarshal([]byte(varsStr), &variables); err != nil {
			return nil, errInvalidVariables
		}
		req.Variables = variables
	}

	return req, nil
}

// parsePostRequest parses a GraphQL request from a POST body.
func (h *Handler) parsePostRequest(r *http.Request) (*GraphQLRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize))
	if err != nil {
		return nil, errUnreadableBody
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/graphql") {
		return &GraphQLRequest{Query: string(body)}, nil
	}

	var req GraphQLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errInvalidBody
	}
	return &req, nil
}

// writeError writes an error response in the GraphQL error shape.
func (h *Handler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := &GraphQLResponse{
		Errors: []GraphQLError{{Message: message}},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

type handlerError string

func (e handlerError) Error() string { return string(e) }

const (
	errInvalidVariables handlerError = "invalid variables JSON"
	errUnreadableBody   handlerError = "failed to read request body"
	errInvalidBody      handlerError = "invalid request body JSON"
)
