package router

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

// Middleware wraps a handler.
type Middleware func(HandlerFunc) HandlerFunc

type Router struct {
	mux       *http.ServeMux
	logger    *zap.Logger
	routes    map[string]HandlerFunc // key = METHOD:PATH
	paths     map[string]bool        // track registered paths
	wildcards []string               // wildcard paths in registration order
	prefixes  []prefixRoute
}

type prefixRoute struct {
	prefix  string
	handler http.Handler
}

func New(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		mux:    http.NewServeMux(),
		logger: logger,
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
	}

	// Catch-all handler for unknown paths
	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		r.dispatch(lrw, req)

		r.logger.Info("request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", lrw.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})

	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	key := req.Method + ":" + req.URL.Path
	if h, ok := r.routes[key]; ok {
		h(w, req)
		return
	}

	// Wildcard routes are tried in the order they were registered, so more
	// specific routes must be registered first.
	pathMatched := r.paths[req.URL.Path]
	for _, routePath := range r.wildcards {
		if !matchWildcardRoute(req.URL.Path, routePath) {
			continue
		}
		if h, ok := r.routes[req.Method+":"+routePath]; ok {
			h(w, req)
			return
		}
		pathMatched = true
	}

	for _, p := range r.prefixes {
		if strings.HasPrefix(req.URL.Path, p.prefix) {
			p.handler.ServeHTTP(w, req)
			return
		}
	}

	if pathMatched {
		// Path exists but method not allowed
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// matchWildcardRoute checks if a request path matches a wildcard route
// pattern. Each * matches exactly one non-empty segment; use Mount for
// subtrees.
func matchWildcardRoute(requestPath, routePattern string) bool {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			if requestSegments[i] == "" {
				return false
			}
			continue
		}
		if requestSegments[i] != routeSegment {
			return false
		}
	}
	return true
}

// Param returns the request path segment at the position of the n-th
// wildcard (0-based) in pattern.
func Param(req *http.Request, pattern string, n int) string {
	requestSegments := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
	routeSegments := strings.Split(strings.Trim(pattern, "/"), "/")
	seen := 0
	for i, s := range routeSegments {
		if s != "*" {
			continue
		}
		if seen == n && i < len(requestSegments) {
			return requestSegments[i]
		}
		seen++
	}
	return ""
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc, mw ...Middleware) {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	key := method + ":" + path
	r.routes[key] = handler
	if !r.paths[path] && strings.Contains(path, "*") {
		r.wildcards = append(r.wildcards, path)
	}
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc, mw ...Middleware) {
	r.register(http.MethodGet, path, handler, mw...)
}
func (r *Router) POST(path string, handler HandlerFunc, mw ...Middleware) {
	r.register(http.MethodPost, path, handler, mw...)
}
func (r *Router) PUT(path string, handler HandlerFunc, mw ...Middleware) {
	r.register(http.MethodPut, path, handler, mw...)
}
func (r *Router) PATCH(path string, handler HandlerFunc, mw ...Middleware) {
	r.register(http.MethodPatch, path, handler, mw...)
}
func (r *Router) DELETE(path string, handler HandlerFunc, mw ...Middleware) {
	r.register(http.MethodDelete, path, handler, mw...)
}

// Mount serves every path under prefix with h, after all registered routes.
func (r *Router) Mount(prefix string, h http.Handler) {
	r.prefixes = append(r.prefixes, prefixRoute{prefix: prefix, handler: h})
}

// Getter methods for testing
func (r *Router) Routes() map[string]HandlerFunc {
	return r.routes
}

func (r *Router) Paths() map[string]bool {
	return r.paths
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Server returns an http.Server for addr backed by the router.
func (r *Router) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
