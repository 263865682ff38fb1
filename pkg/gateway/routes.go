package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeBrosOfficial/logstream/pkg/httputil"
)

// Routes returns the http.Handler with all routes and middleware configured.
//
// There is no request timeout middleware: /stream and /ws stay open until the
// client leaves or the server shuts down.
func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()

	// Order: request id -> real ip -> logging -> recoverer -> CORS -> handler
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(g.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(g.corsMiddleware)

	r.Get("/", g.indexHandler)
	r.Get("/health", g.healthHandler)
	r.Get("/stream", g.streamHandler)
	r.Get("/ws", g.websocketHandler)
	if g.metrics != nil {
		r.Method(http.MethodGet, "/metrics", g.metrics.Handler())
	}

	r.NotFound(httputil.NotFound)
	r.MethodNotAllowed(httputil.MethodNotAllowed)
	return r
}
