package sparql

import (
	"encoding/json"
	"fmt"
	"io"
)

// Results models a SPARQL 1.1 JSON results document.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Binding is one result row, mapping variable names to RDF terms.
type Binding map[string]Term

// Term is a single RDF term in a binding.
type Term struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// DecodeResults parses a SPARQL JSON results document.
func DecodeResults(r io.Reader) (*Results, error) {
	var res Results
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	return &res, nil
}

// Bindings returns the result rows.
func (r *Results) Bindings() []Binding {
	return r.Results.Bindings
}

// Value returns the term value bound to the variable, or "".
func (b Binding) Value(name string) string {
	return b[name].Value
}
