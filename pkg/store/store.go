// Package store implements the in-memory record store backing the REST API.
// Collections hold JSON-shaped records keyed by a numeric id. All access
// goes through a single Store value injected into the server; there is no
// package-level state.
package store

import (
	"sync"
)

// Record is a JSON-shaped record. Every stored record carries a numeric
// "id" field; tweets additionally carry "timestamp" (epoch millis).
type Record = map[string]any

// Collection names used by the REST API.
const (
	Users  = "users"
	Tweets = "tweets"
)

// Store is a thread-safe in-memory store of named collections.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]Record
	nextID map[string]int
}

// New creates an empty store with the users and tweets collections.
func New() *Store {
	return &Store{
		data: map[string][]Record{
			Users:  {},
			Tweets: {},
		},
		nextID: map[string]int{
			Users:  1,
			Tweets: 1,
		},
	}
}

// NewWithDefaults creates a store seeded with a few test records.
func NewWithDefaults() *Store {
	s := New()
	s.seed()
	return s
}

func (s *Store) seed() {
	bob := Record{"id": 1, "name": "Bob", "email": "bob@example.org"}
	alice := Record{"id": 2, "name": "Alice", "email": "alice@example.org"}
	s.data[Users] = []Record{bob, alice}
	s.nextID[Users] = 3

	s.data[Tweets] = []Record{
		{"id": 1, "message": "Hello world", "timestamp": int64(1479139200000), "user": Record{"id": 1, "name": "Bob"}},
		{"id": 2, "message": "Second tweet", "timestamp": int64(1479139260000), "user": Record{"id": 2, "name": "Alice"}},
	}
	s.nextID[Tweets] = 3
}

// List returns copies of all records in the collection.
// Returns a NotFoundError when the collection is empty.
func (s *Store) List(collection string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.data[collection]
	if !ok || len(records) == 0 {
		return nil, &NotFoundError{Collection: collection}
	}

	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = copyRecord(rec)
	}
	return out, nil
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(collection string, id int) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.data[collection] {
		if recordID(rec) == id {
			return copyRecord(rec), nil
		}
	}
	return nil, &NotFoundError{Collection: collection, ID: id}
}

// Create inserts a record, assigning the next id. The stored record is
// a copy; the returned record includes the assigned id.
func (s *Store) Create(collection string, rec Record) (Record, error) {
	if rec == nil {
		return nil, &ValidationError{Message: "empty record"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyRecord(rec)
	stored["id"] = s.nextID[collection]
	s.nextID[collection]++
	s.data[collection] = append(s.data[collection], stored)

	return copyRecord(stored), nil
}

// Delete removes the record with the given id and returns a copy of it.
func (s *Store) Delete(collection string, id int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.data[collection]
	for i, rec := range records {
		if recordID(rec) == id {
			s.data[collection] = append(records[:i:i], records[i+1:]...)
			return copyRecord(rec), nil
		}
	}
	return nil, &NotFoundError{Collection: collection, ID: id}
}

// Count returns the number of records in the collection.
func (s *Store) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[collection])
}

// Reset drops all records and restores the seed data.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed()
}

// recordID extracts the numeric id of a record. JSON decoding yields
// float64 for numbers, so both int and float64 are accepted.
func recordID(rec Record) int {
	switch v := rec["id"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// copyRecord makes a deep copy so callers can decorate records (href
// injection) without mutating stored state.
func copyRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		if nested, ok := v.(Record); ok {
			out[k] = copyRecord(nested)
			continue
		}
		out[k] = v
	}
	return out
}
