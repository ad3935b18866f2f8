package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/chirpd/chirpd/pkg/httputil"
	"github.com/chirpd/chirpd/pkg/store"
)

// handleListTweets returns all tweets wrapped in the response envelope,
// with entity hrefs injected on each tweet and its author.
func (a *API) handleListTweets(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.List(store.Tweets)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	for _, item := range items {
		a.decorateTweet(r, item)
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
		Items: items,
		Href:  baseURL(r) + "/tweets/",
	})
}

// handleCreateTweet validates the body, resolves the author, stamps the
// creation timestamp and stores the tweet.
func (a *API) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var body store.Record
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteAPIError(w, r, &store.ValidationError{Message: "invalid JSON body"})
		return
	}

	message, _ := body["message"].(string)
	if message == "" {
		httputil.WriteAPIError(w, r, &store.ValidationError{Message: "tweet needs a message and a user"})
		return
	}

	userID, ok := embeddedUserID(body)
	if !ok {
		httputil.WriteAPIError(w, r, &store.ValidationError{Message: "tweet needs a message and a user"})
		return
	}
	user, err := a.store.Get(store.Users, userID)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	body["user"] = store.Record{"id": user["id"], "name": user["name"]}
	body["timestamp"] = time.Now().UnixMilli()

	created, err := a.store.Create(store.Tweets, body)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	a.decorateTweet(r, created)
	httputil.WriteJSON(w, http.StatusCreated, httputil.Envelope{
		Items: created,
		Href:  baseURL(r) + "/tweets/",
	})
}

func (a *API) handleGetTweet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	tweet, err := a.store.Get(store.Tweets, id)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	a.decorateTweet(r, tweet)
	httputil.WriteEnvelope(w, r, http.StatusOK, tweet)
}

// handleDeleteTweet removes the tweet and answers with the deleted
// record so the caller sees exactly what was removed.
func (a *API) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	deleted, err := a.store.Delete(store.Tweets, id)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	a.decorateTweet(r, deleted)
	httputil.WriteEnvelope(w, r, http.StatusOK, deleted)
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.List(store.Users)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	for _, item := range items {
		a.decorateUser(r, item)
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
		Items: items,
		Href:  baseURL(r) + "/users",
	})
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	user, err := a.store.Get(store.Users, id)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	a.decorateUser(r, user)
	httputil.WriteEnvelope(w, r, http.StatusOK, user)
}

// handleNotFound is the catch-all for unmatched routes.
func (a *API) handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteAPIError(w, r, &httputil.RouteError{Path: r.URL.Path})
}

// decorateTweet injects the entity href and re-resolves the author from
// the users collection so renames show up on existing tweets.
func (a *API) decorateTweet(r *http.Request, tweet store.Record) {
	tweet["href"] = baseURL(r) + "/tweets/" + strconv.Itoa(recordID(tweet))

	userID, ok := embeddedUserID(tweet)
	if !ok {
		return
	}
	if fresh, err := a.store.Get(store.Users, userID); err == nil {
		tweet["user"] = fresh
	}
	user, _ := tweet["user"].(store.Record)
	if user != nil {
		user["href"] = baseURL(r) + "/users/" + strconv.Itoa(userID)
	}
}

// decorateUser injects the entity href and the link to the user's tweets.
func (a *API) decorateUser(r *http.Request, user store.Record) {
	id := recordID(user)
	user["href"] = baseURL(r) + "/users/" + strconv.Itoa(id)
	user["tweets"] = store.Record{
		"href": baseURL(r) + "/users/" + strconv.Itoa(id) + "/tweets",
	}
}

// baseURL rebuilds the absolute URL prefix from the request host.
func baseURL(r *http.Request) string {
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	return "http://" + host
}

// pathID parses the numeric id path segment.
func pathID(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, &store.ValidationError{Message: "invalid id: " + raw}
	}
	return id, nil
}

// embeddedUserID extracts user.id from a tweet body. The user may be an
// embedded object or a bare numeric id.
func embeddedUserID(tweet store.Record) (int, bool) {
	switch v := tweet["user"].(type) {
	case map[string]any:
		id := recordID(v)
		return id, id != 0
	case float64:
		return int(v), v >= 1
	case int:
		return v, v >= 1
	default:
		return 0, false
	}
}

// recordID mirrors the store's id extraction for decorated copies.
func recordID(rec store.Record) int {
	switch v := rec["id"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
