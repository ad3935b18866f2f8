package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chirpd/chirpd/internal/id"
	"github.com/chirpd/chirpd/pkg/sparql"
)

// Message is one chat message to persist.
type Message struct {
	ID        string
	Sender    string
	Recipient string
	Text      string
	SentAt    time.Time
}

// MessageStore persists chat messages and serves conversation history.
type MessageStore interface {
	// Save persists a message.
	Save(ctx context.Context, msg Message) error

	// History returns the conversation between two named clients, both
	// directions, serialized as a SPARQL JSON results document.
	History(ctx context.Context, a, b string) ([]byte, error)
}

// TripleStore is the MessageStore backed by the Fuseki triple store.
type TripleStore struct {
	client  *sparql.Client
	builder *sparql.Builder
}

var _ MessageStore = (*TripleStore)(nil)

// NewTripleStore creates a triple store backed message store.
func NewTripleStore(client *sparql.Client, builder *sparql.Builder) *TripleStore {
	return &TripleStore{client: client, builder: builder}
}

// Save inserts the message as schema.org Message triples.
func (s *TripleStore) Save(ctx context.Context, msg Message) error {
	if msg.ID == "" {
		msg.ID = id.UUID()
	}
	update := s.builder.InsertMessage(msg.ID, msg.Sender, msg.Recipient, msg.Text)
	if err := s.client.Update(ctx, update); err != nil {
		return fmt.Errorf("persisting message: %w", err)
	}
	return nil
}

// History runs the two-way conversation query.
func (s *TripleStore) History(ctx context.Context, a, b string) ([]byte, error) {
	results, err := s.client.Select(ctx, s.builder.MessageHistory(a, b))
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	return json.Marshal(results)
}

// JSONLDStore persists messages as JSON-LD documents through the graph
// store endpoint instead of SPARQL updates. History queries are shared
// with TripleStore.
type JSONLDStore struct {
	client  *sparql.Client
	builder *sparql.Builder
}

var _ MessageStore = (*JSONLDStore)(nil)

// NewJSONLDStore creates a JSON-LD backed message store.
func NewJSONLDStore(client *sparql.Client, builder *sparql.Builder) *JSONLDStore {
	return &JSONLDStore{client: client, builder: builder}
}

// Save posts the message as a schema.org Message document.
func (s *JSONLDStore) Save(ctx context.Context, msg Message) error {
	if msg.ID == "" {
		msg.ID = id.UUID()
	}
	doc, err := json.Marshal(map[string]any{
		"@context": "http://schema.org/",
		"@id":      s.builder.MessageIRI(msg.ID),
		"@type":    "Message",
		"sender": map[string]any{
			"@type": "Person",
			"name":  msg.Sender,
		},
		"recipient": map[string]any{
			"@type": "Person",
			"name":  msg.Recipient,
		},
		"text": msg.Text,
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	if err := s.client.InsertJSONLD(ctx, doc); err != nil {
		return fmt.Errorf("persisting message: %w", err)
	}
	return nil
}

// History runs the two-way conversation query.
func (s *JSONLDStore) History(ctx context.Context, a, b string) ([]byte, error) {
	results, err := s.client.Select(ctx, s.builder.MessageHistory(a, b))
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	return json.Marshal(results)
}
