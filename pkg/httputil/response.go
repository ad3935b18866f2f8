// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform success body for entity responses.
// Items carries a single record or a list; Href is the absolute URL
// of the collection or entity that produced it.
type Envelope struct {
	Items any    `json:"items"`
	Href  string `json:"href"`
}

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteOK writes a 200 OK response with data.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a 201 Created response with the created resource.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

// WriteEnvelope writes an Envelope around items with the request URL as href.
func WriteEnvelope(w http.ResponseWriter, r *http.Request, status int, items any) {
	WriteJSON(w, status, Envelope{Items: items, Href: RequestURL(r)})
}

// RequestURL reconstructs the absolute URL of a request. The scheme is
// always http; TLS termination is out of scope for these servers.
func RequestURL(r *http.Request) string {
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	return "http://" + host + r.URL.Path
}
