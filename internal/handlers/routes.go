package handlers

import "net/http"

// RegisterRoutes mounts the proxy endpoints and the two pages on mux.
// The API routes accept every method so they can answer 405 themselves.
// wrapAPI, when non-nil, decorates the API routes only (rate limiting).
func RegisterRoutes(mux *http.ServeMux, api *APIHandler, pages *PageHandler, wrapAPI func(http.Handler) http.Handler) {
	if wrapAPI == nil {
		wrapAPI = func(h http.Handler) http.Handler { return h }
	}
	mux.Handle("/api/getMovies", wrapAPI(http.HandlerFunc(api.GetMovies)))
	mux.Handle("/api/getMovieDetails", wrapAPI(http.HandlerFunc(api.GetMovieDetails)))

	mux.HandleFunc("GET /{$}", pages.Home)
	mux.HandleFunc("GET /movie/{id}", pages.MovieDetail)
}
