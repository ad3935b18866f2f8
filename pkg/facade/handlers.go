package facade

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chirpd/chirpd/pkg/httputil"
)

// writeBindings runs a SELECT and answers with the raw result bindings.
func (a *API) writeBindings(w http.ResponseWriter, r *http.Request, query string) {
	results, err := a.client.Select(r.Context(), query)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	httputil.WriteOK(w, results.Bindings())
}

// handleRawQueryGet runs the SELECT passed in the query parameter.
func (a *API) handleRawQueryGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		httputil.WriteAPIError(w, r, &RequestError{Message: "missing query parameter"})
		return
	}
	a.writeBindings(w, r, query)
}

// handleRawQueryPost runs the SELECT from the JSON body.
func (a *API) handleRawQueryPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Query == "" {
		httputil.WriteAPIError(w, r, &RequestError{Message: "missing query in body"})
		return
	}
	a.writeBindings(w, r, body.Query)
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	a.writeBindings(w, r, a.builder.Users())
}

// handleCreateUser allocates the next user id from the current user
// count, then inserts the user node.
func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		httputil.WriteAPIError(w, r, &RequestError{Message: "user needs a name"})
		return
	}

	a.createMu.Lock()
	defer a.createMu.Unlock()

	existing, err := a.client.Select(r.Context(), a.builder.Users())
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	id := len(existing.Bindings()) + 101

	if err := a.client.Update(r.Context(), a.builder.InsertUser(id, body.Name)); err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	a.log.Info("user created", "id", id)
	httputil.WriteCreated(w, map[string]any{"id": id, "name": body.Name})
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	a.writeBindings(w, r, a.builder.User(id))
}

// handleUpdateUser emulates an update: the user node is deleted and
// re-inserted with the new name. Tweets are left in place.
func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		httputil.WriteAPIError(w, r, &RequestError{Message: "user needs a name"})
		return
	}

	if err := a.client.Update(r.Context(), a.builder.DeleteUserOnly(id)); err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	if err := a.client.Update(r.Context(), a.builder.InsertUser(id, body.Name)); err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	httputil.WriteOK(w, map[string]any{"id": id, "name": body.Name})
}

// handleDeleteUser removes the user together with all their tweets.
func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	if err := a.client.Update(r.Context(), a.builder.DeleteUser(id)); err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	httputil.WriteOK(w, map[string]any{"deleted": id})
}

func (a *API) handleListTweets(w http.ResponseWriter, r *http.Request) {
	a.writeBindings(w, r, a.builder.Tweets())
}

func (a *API) handleTweetsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userid")
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	a.writeBindings(w, r, a.builder.TweetsByUser(userID))
}

// handleCreateTweet allocates the next tweet id from the user's tweet
// count, then inserts the tweet.
func (a *API) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userid")
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		httputil.WriteAPIError(w, r, &RequestError{Message: "tweet needs a text"})
		return
	}

	a.createMu.Lock()
	defer a.createMu.Unlock()

	existing, err := a.client.Select(r.Context(), a.builder.TweetsByUser(userID))
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	tweetID := len(existing.Bindings()) + 1

	if err := a.client.Update(r.Context(), a.builder.InsertTweet(userID, tweetID, body.Text)); err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	a.log.Info("tweet created", "userid", userID, "tweetid", tweetID)
	httputil.WriteCreated(w, map[string]any{"userid": userID, "tweetid": tweetID})
}

func (a *API) handleGetTweet(w http.ResponseWriter, r *http.Request) {
	userID, tweetID, err := tweetPathIDs(r)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	a.writeBindings(w, r, a.builder.Tweet(userID, tweetID))
}

// handleUpdateTweet emulates an update by deleting the tweet's text
// node and re-inserting it.
func (a *API) handleUpdateTweet(w http.ResponseWriter, r *http.Request) {
	userID, tweetID, err := tweetPathIDs(r)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		httputil.WriteAPIError(w, r, &RequestError{Message: "tweet needs a text"})
		return
	}

	if err := a.client.Update(r.Context(), a.builder.DeleteTweetOnly(userID, tweetID)); err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	if err := a.client.Update(r.Context(), a.builder.InsertTweet(userID, tweetID, body.Text)); err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	httputil.WriteOK(w, map[string]any{"userid": userID, "tweetid": tweetID, "text": body.Text})
}

// handleDeleteTweet removes the tweet and its collection link.
func (a *API) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	userID, tweetID, err := tweetPathIDs(r)
	if err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}

	if err := a.client.Update(r.Context(), a.builder.DeleteTweet(userID, tweetID)); err != nil {
		httputil.WriteAPIError(w, r, err)
		return
	}
	httputil.WriteOK(w, map[string]any{"deleted": tweetID})
}

// handleNotAllowed answers with the Operation-not-allowed contract.
func (a *API) handleNotAllowed(hint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteAPIError(w, r, &OperationError{Hint: hint})
	}
}

// handleNotFound is the catch-all for unmatched routes.
func (a *API) handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteAPIError(w, r, &httputil.RouteError{Path: r.URL.Path})
}

// pathID parses a numeric id path segment.
func pathID(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, &RequestError{Message: "invalid id: " + raw}
	}
	return id, nil
}

func tweetPathIDs(r *http.Request) (int, int, error) {
	userID, err := pathID(r, "userid")
	if err != nil {
		return 0, 0, err
	}
	tweetID, err := pathID(r, "tweetid")
	if err != nil {
		return 0, 0, err
	}
	return userID, tweetID, nil
}
