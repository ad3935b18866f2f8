package rest

import "net/http"

// registerRoutes wires all CRUD endpoints onto the mux. Method-less
// fallback patterns catch whitelisted methods with no matching route
// so they funnel into a JSON 404 instead of the mux default.
func (a *API) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /tweets", a.handleListTweets)
	mux.HandleFunc("POST /tweets", a.handleCreateTweet)
	mux.HandleFunc("GET /tweets/{id}", a.handleGetTweet)
	mux.HandleFunc("DELETE /tweets/{id}", a.handleDeleteTweet)

	mux.HandleFunc("GET /users", a.handleListUsers)
	mux.HandleFunc("GET /users/{id}", a.handleGetUser)

	mux.HandleFunc("/tweets", a.handleNotFound)
	mux.HandleFunc("/tweets/{id}", a.handleNotFound)
	mux.HandleFunc("/users", a.handleNotFound)
	mux.HandleFunc("/users/{id}", a.handleNotFound)
	mux.HandleFunc("/", a.handleNotFound)
}
