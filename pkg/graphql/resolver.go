package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chirpd/chirpd/pkg/logging"
	"github.com/chirpd/chirpd/pkg/sparql"
)

// Resolver answers schema fields by translating them to SPARQL queries.
type Resolver struct {
	client  *sparql.Client
	builder *sparql.Builder
	log     *slog.Logger

	// createMu serializes count-based id allocation so two concurrent
	// mutations cannot mint the same id.
	createMu sync.Mutex
}

// NewResolver creates a resolver backed by the given triple store client.
func NewResolver(client *sparql.Client, builder *sparql.Builder, log *slog.Logger) *Resolver {
	if log == nil {
		log = logging.Nop()
	}
	return &Resolver{client: client, builder: builder, log: log}
}

// bindingsJSON runs a SELECT and serializes its bindings, the String
// contract of every query field.
func (r *Resolver) bindingsJSON(ctx context.Context, query string) (string, error) {
	results, err := r.client.Select(ctx, query)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(results.Bindings())
	if err != nil {
		return "", fmt.Errorf("serializing bindings: %w", err)
	}
	return string(data), nil
}

// Users resolves Query.users.
func (r *Resolver) Users(ctx context.Context) (string, error) {
	return r.bindingsJSON(ctx, r.builder.Users())
}

// User resolves Query.user.
func (r *Resolver) User(ctx context.Context, id int) (string, error) {
	return r.bindingsJSON(ctx, r.builder.User(id))
}

// Tweets resolves Query.tweets.
func (r *Resolver) Tweets(ctx context.Context) (string, error) {
	return r.bindingsJSON(ctx, r.builder.Tweets())
}

// Tweet resolves Query.tweet.
func (r *Resolver) Tweet(ctx context.Context, userID, tweetID int) (string, error) {
	return r.bindingsJSON(ctx, r.builder.Tweet(userID, tweetID))
}

// CreateUser allocates the next user id from the current user count and
// inserts the user node.
func (r *Resolver) CreateUser(ctx context.Context, name string) (string, error) {
	r.createMu.Lock()
	defer r.createMu.Unlock()

	existing, err := r.client.Select(ctx, r.builder.Users())
	if err != nil {
		return "", err
	}
	id := len(existing.Bindings()) + 101

	if err := r.client.Update(ctx, r.builder.InsertUser(id, name)); err != nil {
		return "", err
	}
	r.log.Info("user created", "id", id)
	return fmt.Sprintf(`{"id":%d,"name":%q}`, id, name), nil
}

// CreateTweet allocates the next tweet id from the user's tweet count
// and inserts the tweet.
func (r *Resolver) CreateTweet(ctx context.Context, userID int, text string) (string, error) {
	r.createMu.Lock()
	defer r.createMu.Unlock()

	existing, err := r.client.Select(ctx, r.builder.TweetsByUser(userID))
	if err != nil {
		return "", err
	}
	tweetID := len(existing.Bindings()) + 1

	if err := r.client.Update(ctx, r.builder.InsertTweet(userID, tweetID, text)); err != nil {
		return "", err
	}
	r.log.Info("tweet created", "userid", userID, "tweetid", tweetID)
	return fmt.Sprintf(`{"userid":%d,"tweetid":%d}`, userID, tweetID), nil
}

// DeleteUser removes the user and all their tweets.
func (r *Resolver) DeleteUser(ctx context.Context, userID int) (string, error) {
	if err := r.client.Update(ctx, r.builder.DeleteUser(userID)); err != nil {
		return "", err
	}
	return fmt.Sprintf(`{"deleted":%d}`, userID), nil
}

// DeleteTweet removes the tweet and its collection link.
func (r *Resolver) DeleteTweet(ctx context.Context, userID, tweetID int) (string, error) {
	if err := r.client.Update(ctx, r.builder.DeleteTweet(userID, tweetID)); err != nil {
		return "", err
	}
	return fmt.Sprintf(`{"deleted":%d}`, tweetID), nil
}
