package facade

import "net/http"

// registerRoutes wires the façade endpoints. Method/route combinations
// the façade rejects get explicit handlers so they answer with the
// Operation-not-allowed contract instead of a generic 404.
func (a *API) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /sparql", a.handleRawQueryGet)
	mux.HandleFunc("POST /sparql", a.handleRawQueryPost)
	mux.HandleFunc("/sparql", a.handleNotAllowed(`Use POST with a {"query": ...} body instead.`))

	mux.HandleFunc("GET /users", a.handleListUsers)
	mux.HandleFunc("POST /users", a.handleCreateUser)
	mux.HandleFunc("/users", a.handleNotAllowed(""))

	mux.HandleFunc("GET /users/{id}", a.handleGetUser)
	mux.HandleFunc("PUT /users/{id}", a.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", a.handleDeleteUser)
	mux.HandleFunc("/users/{id}", a.handleNotAllowed(""))

	mux.HandleFunc("GET /tweets", a.handleListTweets)
	mux.HandleFunc("/tweets", a.handleNotAllowed("Use /users/{userid}/tweets/{tweetid} instead."))
	mux.HandleFunc("/tweets/{id}", a.handleNotAllowed("Use /users/{userid}/tweets/{tweetid} instead."))

	mux.HandleFunc("GET /users/{userid}/tweets", a.handleTweetsByUser)
	mux.HandleFunc("POST /users/{userid}/tweets", a.handleCreateTweet)
	mux.HandleFunc("/users/{userid}/tweets", a.handleNotAllowed(""))

	mux.HandleFunc("GET /users/{userid}/tweets/{tweetid}", a.handleGetTweet)
	mux.HandleFunc("PUT /users/{userid}/tweets/{tweetid}", a.handleUpdateTweet)
	mux.HandleFunc("DELETE /users/{userid}/tweets/{tweetid}", a.handleDeleteTweet)
	mux.HandleFunc("/users/{userid}/tweets/{tweetid}", a.handleNotAllowed(""))

	mux.Handle("/graphql", a.gql)

	mux.HandleFunc("/", a.handleNotFound)
}
