package router

import (
	"io/fs"
	"net/http"
	"slices"
	"strings"
)

// Router wraps http.ServeMux with middleware chaining. Global middleware
// wraps the mux itself, so it also runs for the mux's 404 and 405 replies.
type Router struct {
	mux     *http.ServeMux
	handler http.Handler
	chain   []Middleware
}

// Middleware is a function that wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// New creates a new Router with optional global middleware
func New(middleware ...Middleware) *Router {
	mux := http.NewServeMux()
	return &Router{
		mux:     mux,
		handler: chain(mux, middleware),
	}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// Get registers a GET route. The mux also answers HEAD for it.
func (r *Router) Get(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, pattern, handler, middleware...)
}

// Post registers a POST route
func (r *Router) Post(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, pattern, handler, middleware...)
}

// Handle registers a route with explicit method
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	r.mux.Handle(method+" "+pattern, r.wrap(handler, middleware))
}

// wrap applies the group's middleware, then the route's, to a handler
func (r *Router) wrap(handler http.Handler, middleware []Middleware) http.Handler {
	return chain(handler, append(slices.Clone(r.chain), middleware...))
}

// chain applies middleware in reverse order so they execute in the order defined
func chain(handler http.Handler, middleware []Middleware) http.Handler {
	result := handler
	for _, m := range slices.Backward(middleware) {
		result = m(result)
	}
	return result
}

// Group creates a sub-router sharing the mux and global middleware. Its
// middleware runs only for routes registered through it.
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:     r.mux,
		handler: r.handler,
		chain:   append(slices.Clone(r.chain), middleware...),
	}
}

// Static serves files from fsys under the given route prefix
func (r *Router) Static(prefix string, fsys fs.FS) {
	cleanPrefix := strings.TrimSuffix(prefix, "/")
	handler := http.StripPrefix(cleanPrefix, http.FileServerFS(fsys))

	r.mux.Handle("GET "+cleanPrefix+"/{file...}", r.wrap(handler, nil))
}
